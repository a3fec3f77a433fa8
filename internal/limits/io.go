package limits

import (
	"context"
	"io"
)

// Reader wraps an io.Reader with the controller's IO rate limit.
type Reader struct {
	ctx context.Context
	r   io.Reader
	c   *Controller
}

// NewReader creates a rate-limited reader.
func NewReader(ctx context.Context, r io.Reader, c *Controller) *Reader {
	return &Reader{ctx: ctx, r: r, c: c}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		// Charge what was actually read; the next read waits for it.
		if werr := r.c.WaitIO(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

// WriterAt wraps an io.WriterAt with the controller's IO rate limit.
type WriterAt struct {
	ctx context.Context
	w   io.WriterAt
	c   *Controller
}

// NewWriterAt creates a rate-limited io.WriterAt.
func NewWriterAt(ctx context.Context, w io.WriterAt, c *Controller) *WriterAt {
	return &WriterAt{ctx: ctx, w: w, c: c}
}

func (w *WriterAt) WriteAt(p []byte, off int64) (int, error) {
	if err := w.c.WaitIO(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.w.WriteAt(p, off)
}
