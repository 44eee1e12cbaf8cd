package index

import (
	"context"
	"encoding/binary"
	"fmt"
	"slices"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/geoterm/blobstore"
	"github.com/hupe1980/geoterm/codec"
	"github.com/hupe1980/geoterm/internal/compress"
	"github.com/hupe1980/geoterm/internal/conv"
	"github.com/hupe1980/geoterm/internal/hash"
)

const (
	snapshotMagic   = "GTIX"
	snapshotVersion = uint16(1)
)

// SnapshotOptions selects how Encode writes the snapshot body.
type SnapshotOptions struct {
	// Codec encodes the body. Nil selects codec.Default.
	Codec codec.Codec
	// Compression is applied to the encoded body.
	Compression compress.Type
}

// DefaultSnapshotOptions returns go-json bodies with zstd compression.
func DefaultSnapshotOptions() SnapshotOptions {
	return SnapshotOptions{Codec: codec.Default, Compression: compress.ZSTD}
}

type snapshotBody struct {
	Signature string            `json:"signature"`
	Keys      []string          `json:"keys"`
	Live      []byte            `json:"live"`
	Terms     map[string][]byte `json:"terms"`

	// Vocab lists the terms sorted; Docs[ord] holds the terms of ordinal
	// ord as Vocab positions in indexing order.
	Vocab []string   `json:"vocab,omitempty"`
	Docs  [][]uint32 `json:"docs,omitempty"`
}

// Encode serializes the index.
func (ix *Index) Encode(opts SnapshotOptions) ([]byte, error) {
	c := opts.Codec
	if c == nil {
		c = codec.Default
	}
	nameLen, err := conv.IntToUint8(len(c.Name()))
	if err != nil {
		return nil, fmt.Errorf("index: codec name %q: %w", c.Name(), err)
	}

	body, err := ix.snapshot()
	if err != nil {
		return nil, err
	}
	return encodeBody(body, c, nameLen, opts.Compression)
}

func encodeBody(body *snapshotBody, c codec.Codec, nameLen uint8, ct compress.Type) ([]byte, error) {
	encoded, err := c.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("index: encode body: %w", err)
	}
	payload, err := compress.Encode(ct, encoded)
	if err != nil {
		return nil, fmt.Errorf("index: compress body: %w", err)
	}
	size, err := conv.IntToUint32(len(payload))
	if err != nil {
		return nil, fmt.Errorf("index: snapshot too large: %w", err)
	}

	name := c.Name()
	out := make([]byte, 0, len(snapshotMagic)+2+1+1+len(name)+4+4+len(payload))
	out = append(out, snapshotMagic...)
	out = binary.LittleEndian.AppendUint16(out, snapshotVersion)
	out = append(out, byte(ct), nameLen)
	out = append(out, name...)
	out = binary.LittleEndian.AppendUint32(out, hash.CRC32C(payload))
	out = binary.LittleEndian.AppendUint32(out, size)
	return append(out, payload...), nil
}

func (ix *Index) snapshot() (*snapshotBody, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	live := roaring.New()
	for _, ord := range ix.ordinals {
		live.Add(ord)
	}
	liveBytes, err := live.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("index: encode live set: %w", err)
	}

	body := &snapshotBody{
		Signature: ix.signature,
		Keys:      slices.Clone(ix.keys),
		Live:      liveBytes,
		Terms:     make(map[string][]byte, len(ix.postings)),
		Vocab:     make([]string, 0, len(ix.postings)),
		Docs:      make([][]uint32, len(ix.keys)),
	}
	for t, bm := range ix.postings {
		b, err := bm.ToBytes()
		if err != nil {
			return nil, fmt.Errorf("index: encode postings of %q: %w", t, err)
		}
		body.Terms[t] = b
		body.Vocab = append(body.Vocab, t)
	}
	sort.Strings(body.Vocab)

	pos := make(map[string]uint32, len(body.Vocab))
	for i, t := range body.Vocab {
		pos[t] = uint32(i)
	}
	for ord, terms := range ix.docTerms {
		refs := make([]uint32, len(terms))
		for k, t := range terms {
			refs[k] = pos[t]
		}
		body.Docs[ord] = refs
	}
	return body, nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptSnapshot, fmt.Sprintf(format, args...))
}

// Decode parses a snapshot written by Encode.
func Decode(data []byte) (*Index, error) {
	const fixed = len(snapshotMagic) + 2 + 1 + 1
	if len(data) < fixed || string(data[:4]) != snapshotMagic {
		return nil, corrupt("bad magic")
	}
	if v := binary.LittleEndian.Uint16(data[4:]); v != snapshotVersion {
		return nil, corrupt("unsupported version %d", v)
	}
	ct := compress.Type(data[6])
	nameLen := int(data[7])
	rest := data[fixed:]
	if len(rest) < nameLen+8 {
		return nil, corrupt("short header")
	}

	c, ok := codec.ByName(string(rest[:nameLen]))
	if !ok {
		return nil, corrupt("unknown codec %q", rest[:nameLen])
	}
	rest = rest[nameLen:]
	sum := binary.LittleEndian.Uint32(rest)
	size := binary.LittleEndian.Uint32(rest[4:])
	payload := rest[8:]
	if uint32(len(payload)) != size {
		return nil, corrupt("payload is %d bytes, header says %d", len(payload), size)
	}
	if !hash.Verify(payload, sum) {
		return nil, corrupt("checksum mismatch")
	}

	encoded, err := compress.Decode(ct, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	var body snapshotBody
	if err := c.Unmarshal(encoded, &body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	return fromSnapshot(&body)
}

func fromSnapshot(body *snapshotBody) (*Index, error) {
	ix := New(body.Signature)
	ix.keys = body.Keys
	if ix.keys == nil {
		ix.keys = []string{}
	}

	live := roaring.New()
	if err := live.UnmarshalBinary(body.Live); err != nil {
		return nil, fmt.Errorf("%w: live set: %w", ErrCorruptSnapshot, err)
	}
	it := live.Iterator()
	for it.HasNext() {
		ord := it.Next()
		if int(ord) >= len(ix.keys) {
			return nil, corrupt("live ordinal %d out of range", ord)
		}
		ix.ordinals[ix.keys[ord]] = ord
		ix.docTerms[ord] = []string{}
	}
	for i := range ix.keys {
		if !live.Contains(uint32(i)) {
			ix.keys[i] = ""
		}
	}

	var postings uint64
	for t, b := range body.Terms {
		bm := roaring.New()
		if err := bm.UnmarshalBinary(b); err != nil {
			return nil, fmt.Errorf("%w: postings of %q: %w", ErrCorruptSnapshot, t, err)
		}
		if bm.AndCardinality(live) != bm.GetCardinality() {
			return nil, corrupt("postings of %q reference removed documents", t)
		}
		ix.postings[t] = bm
		postings += bm.GetCardinality()
	}

	if body.Docs == nil {
		// Without a recorded order the terms of a document come back sorted.
		vocab := make([]string, 0, len(ix.postings))
		for t := range ix.postings {
			vocab = append(vocab, t)
		}
		sort.Strings(vocab)
		for _, t := range vocab {
			pit := ix.postings[t].Iterator()
			for pit.HasNext() {
				ord := pit.Next()
				ix.docTerms[ord] = append(ix.docTerms[ord], t)
			}
		}
		return ix, nil
	}

	if len(body.Docs) != len(ix.keys) {
		return nil, corrupt("%d term lists for %d keys", len(body.Docs), len(ix.keys))
	}
	var refs uint64
	for i, doc := range body.Docs {
		ord := uint32(i)
		if !live.Contains(ord) {
			if len(doc) > 0 {
				return nil, corrupt("terms recorded for removed ordinal %d", ord)
			}
			continue
		}
		terms := make([]string, len(doc))
		for k, ref := range doc {
			if int(ref) >= len(body.Vocab) {
				return nil, corrupt("term reference %d out of range", ref)
			}
			t := body.Vocab[ref]
			bm, ok := ix.postings[t]
			if !ok || !bm.Contains(ord) {
				return nil, corrupt("term %q of ordinal %d has no posting", t, ord)
			}
			terms[k] = t
		}
		ix.docTerms[ord] = terms
		refs += uint64(len(doc))
	}
	if refs != postings {
		return nil, corrupt("term lists hold %d entries, postings %d", refs, postings)
	}
	return ix, nil
}

// Save encodes the index and writes it to store under name.
func (ix *Index) Save(ctx context.Context, store blobstore.BlobStore, name string, opts SnapshotOptions) (int, error) {
	data, err := ix.Encode(opts)
	if err != nil {
		return 0, err
	}
	if err := store.Put(ctx, name, data); err != nil {
		return 0, fmt.Errorf("index: save %s: %w", name, err)
	}
	return len(data), nil
}

// Load reads the snapshot name from store. A non-empty signature must match
// the snapshot's signature.
func Load(ctx context.Context, store blobstore.BlobStore, name, signature string) (*Index, error) {
	data, err := blobstore.Get(ctx, store, name)
	if err != nil {
		return nil, fmt.Errorf("index: load %s: %w", name, err)
	}
	ix, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if signature != "" && ix.signature != signature {
		return nil, &SignatureError{Want: signature, Got: ix.signature}
	}
	return ix, nil
}
