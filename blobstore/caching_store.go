package blobstore

import (
	"context"
	"errors"
	"io"

	"github.com/hupe1980/geoterm/internal/cache"
	"golang.org/x/sync/errgroup"
)

// DefaultBlockSize is the cache granularity used when none is given.
const DefaultBlockSize = 64 << 10

type blockKey struct {
	name  string
	block int64
}

// CachingStore wraps a BlobStore and caches fixed-size blocks of the blobs
// it reads. Put and Delete invalidate the blocks of the affected blob.
type CachingStore struct {
	inner     BlobStore
	cache     *cache.LRU[blockKey, []byte]
	blockSize int64
}

// NewCachingStore creates a CachingStore holding at most maxBlocks blocks.
// blockSize defaults to DefaultBlockSize if <= 0.
func NewCachingStore(inner BlobStore, maxBlocks int, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &CachingStore{
		inner:     inner,
		cache:     cache.NewLRU[blockKey, []byte](maxBlocks),
		blockSize: blockSize,
	}
}

// Stats returns the block cache hit and miss counters.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}

// Open opens the blob through the block cache.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachingBlob{inner: b, store: s, name: name}, nil
}

// Put invalidates cached blocks and writes through.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete invalidates cached blocks and deletes from the inner store.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List delegates to the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func (s *CachingStore) invalidate(name string) {
	s.cache.RemoveFunc(func(k blockKey) bool { return k.name == name })
}

type cachingBlob struct {
	inner Blob
	store *CachingStore
	name  string
}

func (b *cachingBlob) Close() error { return b.inner.Close() }

func (b *cachingBlob) Size() int64 { return b.inner.Size() }

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	size := b.Size()
	if off < 0 || off >= size {
		return 0, io.EOF
	}

	end := min(off+int64(len(p)), size)
	bs := b.store.blockSize
	first, last := off/bs, (end-1)/bs

	blocks, err := b.blocks(ctx, first, last)
	if err != nil {
		return 0, err
	}

	n := 0
	for i, data := range blocks {
		blkStart := (first + int64(i)) * bs
		lo := max(blkStart, off)
		hi := min(blkStart+int64(len(data)), end)
		if hi <= lo {
			continue
		}
		n += copy(p[lo-off:], data[lo-blkStart:hi-blkStart])
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// blocks returns the blocks first..last, fetching contiguous runs of missing
// blocks with one backend read each.
func (b *cachingBlob) blocks(ctx context.Context, first, last int64) ([][]byte, error) {
	out := make([][]byte, last-first+1)

	type run struct{ start, count int64 }
	var missing []run
	for blk := first; blk <= last; blk++ {
		if data, ok := b.store.cache.Get(blockKey{b.name, blk}); ok {
			out[blk-first] = data
			continue
		}
		if n := len(missing); n > 0 && missing[n-1].start+missing[n-1].count == blk {
			missing[n-1].count++
		} else {
			missing = append(missing, run{blk, 1})
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	bs := b.store.blockSize
	size := b.Size()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, r := range missing {
		g.Go(func() error {
			start := r.start * bs
			length := min(r.count*bs, size-start)
			buf := make([]byte, length)
			n, err := b.inner.ReadAt(gctx, buf, start)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			buf = buf[:n]

			for i := int64(0); i < r.count; i++ {
				lo := i * bs
				if lo >= int64(len(buf)) {
					break
				}
				hi := min(lo+bs, int64(len(buf)))
				// Copy so a cached block does not pin the whole run buffer.
				blk := make([]byte, hi-lo)
				copy(blk, buf[lo:hi])
				b.store.cache.Set(blockKey{b.name, r.start + i}, blk)
				out[r.start+i-first] = blk
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
