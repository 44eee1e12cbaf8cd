// Package blobstore provides the storage abstraction used to persist term
// index snapshots.
//
// BlobStore is the interface for reading and writing immutable blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and ephemeral engines
//   - LocalStore: local filesystem, reads served from a read-only mmap
//   - CachingStore: wraps another store and keeps recently read blobs in an LRU
//   - minio.Store and s3.Store: object storage backends in sub-packages
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Open and Delete must report missing blobs with an error satisfying
// errors.Is(err, ErrNotFound).
package blobstore
