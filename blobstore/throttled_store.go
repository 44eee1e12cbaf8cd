package blobstore

import (
	"context"

	"github.com/hupe1980/geoterm/internal/resource"
)

// ThrottleConfig limits the I/O a ThrottledStore issues to its inner store.
// Zero values disable a limit.
type ThrottleConfig struct {
	MaxConcurrent  int64
	BytesPerSecond int64
}

// ThrottledStore bounds the requests in flight and the byte rate of
// another store. Shared buckets are its main use: snapshot uploads and
// cold reads stay within a budget.
type ThrottledStore struct {
	inner BlobStore
	ctrl  *resource.Controller
}

// NewThrottledStore wraps inner.
func NewThrottledStore(inner BlobStore, cfg ThrottleConfig) *ThrottledStore {
	return &ThrottledStore{
		inner: inner,
		ctrl: resource.NewController(resource.Config{
			MaxConcurrentIO:    cfg.MaxConcurrent,
			IOLimitBytesPerSec: cfg.BytesPerSecond,
		}),
	}
}

func (s *ThrottledStore) do(ctx context.Context, n int, fn func() error) error {
	if err := s.ctrl.Acquire(ctx); err != nil {
		return err
	}
	defer s.ctrl.Release()

	if err := s.ctrl.WaitIO(ctx, n); err != nil {
		return err
	}
	return fn()
}

// Open implements BlobStore.
func (s *ThrottledStore) Open(ctx context.Context, name string) (Blob, error) {
	var b Blob
	err := s.do(ctx, 0, func() error {
		var err error
		b, err = s.inner.Open(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &throttledBlob{Blob: b, store: s}, nil
}

// Put implements BlobStore.
func (s *ThrottledStore) Put(ctx context.Context, name string, data []byte) error {
	return s.do(ctx, len(data), func() error {
		return s.inner.Put(ctx, name, data)
	})
}

// Delete implements BlobStore.
func (s *ThrottledStore) Delete(ctx context.Context, name string) error {
	return s.do(ctx, 0, func() error {
		return s.inner.Delete(ctx, name)
	})
}

// List implements BlobStore.
func (s *ThrottledStore) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := s.do(ctx, 0, func() error {
		var err error
		names, err = s.inner.List(ctx, prefix)
		return err
	})
	return names, err
}

type throttledBlob struct {
	Blob
	store *ThrottledStore
}

func (b *throttledBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	var n int
	err := b.store.do(ctx, len(p), func() error {
		var err error
		n, err = b.Blob.ReadAt(ctx, p, off)
		return err
	})
	return n, err
}
