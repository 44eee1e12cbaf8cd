// Package index implements the inverted term index that answers
// "which documents share a term with this query".
//
// Documents are identified by caller-chosen string keys and stored under a
// dense uint32 ordinal. Each term maps to a roaring bitmap of ordinals.
// Search ORs the postings of all query terms.
//
// An Index carries the level signature of the term generator that filled
// it. Terms produced with a different (MinLevel, MaxLevel, LevelMod)
// triple do not match each other, so Load and Merge reject snapshots whose
// signature differs.
//
// # Snapshot format
//
//	magic "GTIX" | version u16 | compression u8 | codec len u8 | codec name |
//	crc32c u32 | payload len u32 | payload
//
// The payload is the codec-encoded snapshot body, optionally compressed.
// The checksum covers the payload as stored.
package index
