// Package resource resolves stored table names to local file paths.
//
// Table files are always memory mapped, so every Resolver yields a path on the
// local file system:
//
//   - DirResolver searches a list of directories, like a resource path.
//   - BlobResolver materializes catalog entries from a blobstore.BlobStore into
//     a local cache directory, decompressing ".stab.zst" and ".stab.lz4" entries.
//   - Chain tries several resolvers in order.
//
// A name without a ".stab" extension matches "<name>.stab" (and, for catalogs,
// the compressed variants).
package resource
