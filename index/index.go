package index

import (
	"slices"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Index is an in-memory inverted index from terms to documents.
// It is safe for concurrent use.
type Index struct {
	mu        sync.RWMutex
	signature string

	// keys[ord] is the key of ordinal ord, "" once removed.
	keys     []string
	ordinals map[string]uint32
	docTerms map[uint32][]string
	postings map[string]*roaring.Bitmap
}

// New creates an empty index for terms with the given signature.
func New(signature string) *Index {
	return &Index{
		signature: signature,
		ordinals:  make(map[string]uint32),
		docTerms:  make(map[uint32][]string),
		postings:  make(map[string]*roaring.Bitmap),
	}
}

// Signature returns the level signature of the indexed terms.
func (ix *Index) Signature() string { return ix.signature }

// Add indexes terms under key, replacing any previous terms of key.
// Duplicate terms are ignored.
func (ix *Index) Add(key string, terms []string) {
	terms = dedupe(terms)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	ord, exists := ix.ordinals[key]
	if exists {
		ix.unpostLocked(ord)
	} else {
		ord = uint32(len(ix.keys))
		ix.keys = append(ix.keys, key)
		ix.ordinals[key] = ord
	}

	ix.docTerms[ord] = terms
	for _, t := range terms {
		bm, ok := ix.postings[t]
		if !ok {
			bm = roaring.New()
			ix.postings[t] = bm
		}
		bm.Add(ord)
	}
}

// Remove deletes key from the index. It returns ErrNotFound for unknown keys.
func (ix *Index) Remove(key string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ord, ok := ix.ordinals[key]
	if !ok {
		return ErrNotFound
	}
	ix.unpostLocked(ord)
	delete(ix.docTerms, ord)
	delete(ix.ordinals, key)
	ix.keys[ord] = ""
	return nil
}

// unpostLocked removes ord from the postings of its terms.
// Caller must hold ix.mu.Lock().
func (ix *Index) unpostLocked(ord uint32) {
	for _, t := range ix.docTerms[ord] {
		bm, ok := ix.postings[t]
		if !ok {
			continue
		}
		bm.Remove(ord)
		if bm.IsEmpty() {
			delete(ix.postings, t)
		}
	}
}

// Terms returns the indexed terms of key.
func (ix *Index) Terms(key string) ([]string, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	ord, ok := ix.ordinals[key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(ix.docTerms[ord]), nil
}

// Contains reports whether key is indexed.
func (ix *Index) Contains(key string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	_, ok := ix.ordinals[key]
	return ok
}

// SearchBitmap returns the ordinals of all documents sharing at least one
// term with terms. The result is owned by the caller.
func (ix *Index) SearchBitmap(terms []string) *roaring.Bitmap {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.searchLocked(terms)
}

func (ix *Index) searchLocked(terms []string) *roaring.Bitmap {
	var hits []*roaring.Bitmap
	for _, t := range terms {
		if bm, ok := ix.postings[t]; ok {
			hits = append(hits, bm)
		}
	}
	switch len(hits) {
	case 0:
		return roaring.New()
	case 1:
		return hits[0].Clone()
	}
	return roaring.FastOr(hits...)
}

// Search returns the keys of all documents sharing at least one term with
// terms, sorted.
func (ix *Index) Search(terms []string) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	bm := ix.searchLocked(terms)
	keys := make([]string, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		keys = append(keys, ix.keys[it.Next()])
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of documents Search would return.
func (ix *Index) Count(terms []string) uint64 {
	return ix.SearchBitmap(terms).GetCardinality()
}

// Keys returns all indexed keys, sorted.
func (ix *Index) Keys() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	keys := make([]string, 0, len(ix.ordinals))
	for k := range ix.ordinals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.ordinals)
}

// NumTerms returns the number of distinct terms.
func (ix *Index) NumTerms() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.postings)
}

// Merge adds every document of other to ix, replacing documents with the
// same key.
func (ix *Index) Merge(other *Index) error {
	if other.signature != ix.signature {
		return &SignatureError{Want: ix.signature, Got: other.signature}
	}

	other.mu.RLock()
	docs := make(map[string][]string, len(other.ordinals))
	for key, ord := range other.ordinals {
		docs[key] = other.docTerms[ord]
	}
	other.mu.RUnlock()

	for key, terms := range docs {
		ix.Add(key, terms)
	}
	return nil
}

func dedupe(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
