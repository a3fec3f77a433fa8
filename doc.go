// Package stabgo provides read-only access to stored tables: multi-dimensional
// grids of tabulated physical quantities kept in a compact binary file format.
//
// A Library resolves table names to files, maps each file into memory once and
// shares the mapping between every Table opened on it. A Table binds one
// quantity and checks the file's axes against the caller's expectations, then
// answers interpolated lookups and builds cumulative distributions along its
// first axis.
//
// # Quick Start
//
//	lib, err := stabgo.New(stabgo.WithSearchPaths("/opt/skirt/resources"))
//	if err != nil { ... }
//	defer lib.Close()
//
//	qabs, err := lib.Open(ctx, "DraineGraphiteOpticalProps", "lambda(m),a(m)", "Qabs(1)")
//	if err != nil { ... }
//	defer qabs.Close()
//
//	q := qabs.Value(550e-9, 1e-7)
//
// # Catalogs
//
// Tables can be served from any blobstore.BlobStore (local directory, S3,
// MinIO). Remote entries are materialized into a local cache directory before
// they are mapped; ".stab.zst" and ".stab.lz4" entries are decompressed on the
// way:
//
//	store, _ := s3.New(ctx, "skirt-resources")
//	lib, _ := stabgo.New(stabgo.WithBlobStore(store, "/var/cache/stabgo"))
//
// # Errors
//
// Every failure is reported as an error matching one of the package sentinels
// with errors.Is: ErrIO, ErrFormat, ErrTruncatedFile, ErrSchemaMismatch,
// ErrQuantityNotFound, ErrMalformedData, ErrEmptyDistribution, ErrNotFound and
// ErrInvalidSpec. A mismatch can be inspected with errors.As on
// *format.MismatchError.
//
// # Concurrency
//
// Library methods are safe for concurrent use. Table lookups are read-only and
// safe for concurrent use; Close must not race with them.
package stabgo
