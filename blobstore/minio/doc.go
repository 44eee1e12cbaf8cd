// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible systems such as Ceph or
// Garage, without pulling in the AWS SDK.
//
// # Basic Usage
//
//	store, err := minio.Connect(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "geo",
//	    Prefix:    "indexes/",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	eng, err := geoterm.New(geoterm.WithStore(store))
//
// Reads are served with ranged GET requests, so a Blob never downloads
// more than the caller asks for.
package minio
