// Package mmap provides read-only memory-mapped file access.
//
// Stored tables are mapped rather than read so that pages are loaded on
// demand and shared between every view of the same file, and between
// processes on the same machine.
//
// # Usage
//
//	m, err := mmap.Open("Qabs.stab")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessRandom)
//	data := m.Bytes()
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile (Advise is a no-op)
//
// # Thread Safety
//
// A Mapping is safe for concurrent reads. Close is idempotent; callers must
// ensure no goroutine uses Bytes() after Close returns. Reference counting of
// shared mappings is the job of package registry.
package mmap
