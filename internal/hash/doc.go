// Package hash provides the checksum used by geoterm snapshots.
//
// Snapshots carry a CRC32-Castagnoli (CRC32C) checksum of their body, which
// Go computes with hardware instructions where available:
//
//	checksum := hash.CRC32C(data)
package hash
