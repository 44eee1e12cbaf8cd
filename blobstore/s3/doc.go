// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("indexes/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	eng, err := geoterm.New(geoterm.WithStore(store))
//
// Uploads go through the SDK upload manager, which switches to multipart
// uploads for large snapshots, and carry a CRC32C checksum. Reads use
// ranged GET requests. Listing follows continuation tokens.
package s3
