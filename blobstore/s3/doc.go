// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("skirt/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	lib, err := stabgo.New(stabgo.WithBlobStore(store, cacheDir))
//
// # Features
//
//   - Range reads for partial fetches (header inspection)
//   - Parallel ranged downloads for whole-table materialization
//   - Multipart uploads with CRC32C checksums for large tables
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
