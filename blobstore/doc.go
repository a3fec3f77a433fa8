// Package blobstore provides storage abstraction for catalogs of stored table files.
//
// A BlobStore holds immutable table files by name. Tables are always mapped
// from local disk; remote stores are materialized into a local cache by
// resource.BlobResolver before they are opened.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with mmap support
//   - MemoryStore: In-memory store for tests and generated tables
//   - s3.Store: Amazon S3 with range reads, multipart uploads and parallel downloads
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)       // Open for reading
//	    Put(ctx, name, data) error          // Atomic write
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Backends that can fetch a whole blob faster than sequential range reads
// implement Downloader as well.
package blobstore
