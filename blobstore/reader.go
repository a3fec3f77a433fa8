package blobstore

import (
	"context"
	"io"
)

// NewReader returns a reader over the whole blob. Reads use ctx.
func NewReader(ctx context.Context, b Blob) io.Reader {
	return io.NewSectionReader(readerAt{ctx: ctx, b: b}, 0, b.Size())
}

type readerAt struct {
	ctx context.Context
	b   Blob
}

func (r readerAt) ReadAt(p []byte, off int64) (int, error) {
	return r.b.ReadAt(r.ctx, p, off)
}

// Copy writes the content of the named blob into w, using the store's
// Downloader when available.
func Copy(ctx context.Context, s BlobStore, name string, w io.WriterAt) (int64, error) {
	if d, ok := s.(Downloader); ok {
		return d.Download(ctx, name, w)
	}
	b, err := s.Open(ctx, name)
	if err != nil {
		return 0, err
	}
	defer b.Close()

	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return 0, err
		}
		n, err := w.WriteAt(data, 0)
		return int64(n), err
	}
	return io.Copy(io.NewOffsetWriter(w, 0), NewReader(ctx, b))
}
