package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/stabgo/blobstore"
	"github.com/hupe1980/stabgo/format"
	"github.com/hupe1980/stabgo/internal/limits"
)

// BlobResolver materializes tables from a blob store into a local cache
// directory. Catalog entries are immutable: a cached file is reused as long as
// it exists.
//
// Concurrent resolutions of one name share a single fetch. Stores that already
// keep blobs on the local file system (blobstore.Locator) are mapped in place
// for uncompressed entries.
type BlobResolver struct {
	store    blobstore.BlobStore
	cacheDir string
	limits   *limits.Controller
	logger   *slog.Logger
	group    singleflight.Group
}

// BlobOption configures a BlobResolver.
type BlobOption func(*BlobResolver)

// WithLogger sets the logger for fetch events.
func WithLogger(l *slog.Logger) BlobOption {
	return func(r *BlobResolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithLimits bounds concurrent fetches and their throughput.
func WithLimits(c *limits.Controller) BlobOption {
	return func(r *BlobResolver) { r.limits = c }
}

// NewBlobResolver creates a resolver for store caching into cacheDir.
func NewBlobResolver(store blobstore.BlobStore, cacheDir string, opts ...BlobOption) *BlobResolver {
	r := &BlobResolver{
		store:    store,
		cacheDir: cacheDir,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CachePath returns the cache file used for name.
func (r *BlobResolver) CachePath(name string) string {
	base := path.Base(strings.TrimSuffix(strings.TrimSuffix(name, ".zst"), ".lz4"))
	base = strings.TrimSuffix(base, format.Extension)
	return filepath.Join(r.cacheDir, fmt.Sprintf("%s-%016x%s", base, xxhash.Sum64String(name), format.Extension))
}

// Resolve implements Resolver.
func (r *BlobResolver) Resolve(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrNotFound)
	}
	cands := candidates(name, true)

	if loc, ok := r.store.(blobstore.Locator); ok {
		for _, c := range cands {
			if !strings.HasSuffix(c, format.Extension) {
				continue
			}
			if p, ok := loc.LocalPath(c); ok {
				return p, nil
			}
		}
	}

	dst := r.CachePath(name)
	if isFile(dst) {
		r.logger.Debug("table cache hit", "name", name, "path", dst)
		return dst, nil
	}

	ch := r.group.DoChan(dst, func() (any, error) {
		// another flight may have finished since the check above
		if isFile(dst) {
			return dst, nil
		}
		return dst, r.materialize(context.WithoutCancel(ctx), name, cands, dst)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return dst, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (r *BlobResolver) materialize(ctx context.Context, name string, cands []string, dst string) error {
	if err := r.limits.AcquireFetch(ctx); err != nil {
		return err
	}
	defer r.limits.ReleaseFetch()

	if err := os.MkdirAll(r.cacheDir, 0o755); err != nil {
		return err
	}

	start := time.Now()
	for _, c := range cands {
		n, err := r.fetch(ctx, c, dst)
		if errors.Is(err, blobstore.ErrNotFound) {
			continue
		}
		if err != nil {
			r.logger.Error("table fetch failed", "name", name, "blob", c, "error", err)
			return fmt.Errorf("fetch %s: %w", c, err)
		}
		r.logger.Info("table materialized",
			"name", name,
			"blob", c,
			"path", dst,
			"bytes", n,
			"duration", time.Since(start),
		)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// fetch copies the blob c into dst, decompressing by extension.
func (r *BlobResolver) fetch(ctx context.Context, c, dst string) (int64, error) {
	f, err := os.CreateTemp(r.cacheDir, ".fetch-*")
	if err != nil {
		return 0, err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	n, err := r.copyBlob(ctx, c, f)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, err
	}
	return n, os.Rename(tmp, dst)
}

func (r *BlobResolver) copyBlob(ctx context.Context, c string, f *os.File) (int64, error) {
	if strings.HasSuffix(c, format.Extension) {
		return blobstore.Copy(ctx, r.store, c, limits.NewWriterAt(ctx, f, r.limits))
	}

	b, err := r.store.Open(ctx, c)
	if err != nil {
		return 0, err
	}
	defer b.Close()

	src := limits.NewReader(ctx, blobstore.NewReader(ctx, b), r.limits)
	switch {
	case strings.HasSuffix(c, zstdExt):
		dec, err := zstd.NewReader(src)
		if err != nil {
			return 0, err
		}
		defer dec.Close()
		return io.Copy(f, dec)
	case strings.HasSuffix(c, lz4Ext):
		return io.Copy(f, lz4.NewReader(src))
	}
	return 0, fmt.Errorf("unsupported table encoding: %s", c)
}
