package stabgo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/stabgo/format"
	"github.com/hupe1980/stabgo/internal/limits"
	"github.com/hupe1980/stabgo/registry"
	"github.com/hupe1980/stabgo/resource"
	"github.com/hupe1980/stabgo/table"
)

// Library opens stored tables by name.
type Library struct {
	opts     options
	reg      *registry.Registry
	ownsReg  bool
	resolver resource.Resolver
	logger   *Logger
	metrics  MetricsCollector
	closed   atomic.Bool
}

// Request names one table of an OpenAll call.
type Request struct {
	Name     string
	Axes     string
	Quantity string
}

// New creates a Library. Without a resolver, search paths or blob store,
// names are resolved relative to the working directory.
func New(optFns ...Option) (*Library, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	lim := limits.NewController(limits.Config{
		MappedBytesLimit:     opts.mappedBytesLimit,
		MaxConcurrentFetches: opts.fetchConcurrency,
		FetchBytesPerSec:     opts.fetchBytesPerSec,
	})

	l := &Library{
		opts:    opts,
		reg:     opts.registry,
		logger:  opts.logger,
		metrics: opts.metricsCollector,
	}

	resolver, err := newResolver(opts, lim)
	if err != nil {
		return nil, err
	}
	l.resolver = resolver

	if l.reg == nil {
		l.reg = registry.New(
			registry.WithLogger(opts.logger.Logger),
			registry.WithAccessPattern(opts.accessPattern),
			registry.WithLimits(lim),
		)
		l.ownsReg = true
	}
	return l, nil
}

func newResolver(opts options, lim *limits.Controller) (resource.Resolver, error) {
	if opts.resolver != nil {
		return opts.resolver, nil
	}

	var chain []resource.Resolver
	if len(opts.searchPaths) > 0 {
		chain = append(chain, resource.NewDirResolver(opts.searchPaths...))
	}
	if opts.blobStore != nil {
		cacheDir := opts.cacheDir
		if cacheDir == "" {
			dir, err := os.UserCacheDir()
			if err != nil {
				return nil, fmt.Errorf("stabgo: no cache directory for blob store: %w", err)
			}
			cacheDir = filepath.Join(dir, "stabgo")
		}
		chain = append(chain, resource.NewBlobResolver(opts.blobStore, cacheDir,
			resource.WithLogger(opts.logger.Logger),
			resource.WithLimits(lim),
		))
	}

	switch len(chain) {
	case 0:
		return resource.NewDirResolver("."), nil
	case 1:
		return chain[0], nil
	}
	return resource.Chain(chain...), nil
}

// Open opens the table called name and binds the quantity described by
// quantitySpec ("name(unit)"). The file's axes must match axisSpec
// ("name1(unit1),...,nameN(unitN)") in order.
func (l *Library) Open(ctx context.Context, name, axisSpec, quantitySpec string) (*Table, error) {
	start := time.Now()
	t, err := l.open(ctx, name, axisSpec, quantitySpec)
	l.metrics.RecordOpen(time.Since(start), err)
	return t, err
}

func (l *Library) open(ctx context.Context, name, axisSpec, quantitySpec string) (*Table, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}

	axes, err := format.ParseSpecList(axisSpec)
	if err != nil {
		return nil, &OpenError{Name: name, Err: translateError(err)}
	}
	quantity, err := format.ParseSpec(quantitySpec)
	if err != nil {
		return nil, &OpenError{Name: name, Err: translateError(err)}
	}

	path, err := l.resolve(ctx, name)
	if err != nil {
		return nil, &OpenError{Name: name, Err: err}
	}

	v, err := table.OpenSpec(l.reg, path, axes, quantity)
	l.logger.LogOpen(ctx, name, path, err)
	if err != nil {
		return nil, &OpenError{Name: name, Path: path, Err: translateError(err)}
	}

	return &Table{
		View:    v,
		name:    name,
		path:    v.Path(),
		logger:  l.logger.WithTable(name),
		metrics: l.metrics,
	}, nil
}

func (l *Library) resolve(ctx context.Context, name string) (string, error) {
	path, err := l.resolver.Resolve(ctx, name)
	l.logger.LogResolve(ctx, name, path, err)
	if err != nil {
		err = translateError(err)
		if ctx.Err() == nil && !isPublic(err) {
			err = fmt.Errorf("%w: %w", ErrIO, err)
		}
		return "", err
	}
	return path, nil
}

func isPublic(err error) bool {
	for _, s := range sentinels {
		if errors.Is(err, s.public) {
			return true
		}
	}
	return false
}

// OpenAll opens every requested table, at most WithOpenConcurrency at a time.
// It either returns all tables or none.
func (l *Library) OpenAll(ctx context.Context, reqs []Request) ([]*Table, error) {
	tables := make([]*Table, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.openConcurrency)
	for i, r := range reqs {
		g.Go(func() error {
			t, err := l.Open(gctx, r.Name, r.Axes, r.Quantity)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, t := range tables {
			if t != nil {
				_ = t.Close()
			}
		}
		return nil, err
	}
	return tables, nil
}

// Inspect returns the header of the table called name without binding a schema.
func (l *Library) Inspect(ctx context.Context, name string) (*format.Header, error) {
	if l.closed.Load() {
		return nil, ErrClosed
	}
	path, err := l.resolve(ctx, name)
	if err != nil {
		return nil, &OpenError{Name: name, Err: err}
	}

	h, err := l.reg.Acquire(path)
	if err != nil {
		return nil, &OpenError{Name: name, Path: path, Err: translateError(err)}
	}
	defer func() { _ = h.Release() }()

	hdr, err := format.Parse(h.Bytes())
	if err != nil {
		return nil, &OpenError{Name: name, Path: path, Err: translateError(err)}
	}
	return hdr, nil
}

// Stats reports the library's mapped files.
func (l *Library) Stats() registry.Stats {
	return l.reg.Stats()
}

// Close closes the library and rejects further opens. Unless the registry
// was shared with WithRegistry it is closed too: files no table references
// are unmapped now, the rest when their last table is closed. Tables opened
// before Close keep working. Close is idempotent.
func (l *Library) Close() error {
	if l.closed.Swap(true) {
		return nil
	}
	if l.ownsReg {
		return l.reg.Close()
	}
	return nil
}

// Table is an open quantity of a stored table. It provides Value, Value1 and
// CDF of the embedded view.
type Table struct {
	*table.View
	name    string
	path    string
	logger  *Logger
	metrics MetricsCollector
	closed  atomic.Bool
}

// Name returns the name the table was opened with.
func (t *Table) Name() string {
	return t.name
}

// Distribution builds the normalized cumulative distribution of the quantity
// along the first axis; see table.View.CDF. It fails with
// ErrEmptyDistribution when the quantity integrates to zero.
func (t *Table) Distribution(xmin, xmax float64, minBins int, fixed ...float64) (*table.Distribution, error) {
	start := time.Now()
	d, err := t.View.Distribution(xmin, xmax, minBins, fixed...)
	err = translateError(err)

	bins := 0
	if d != nil {
		bins = d.Bins()
	}
	t.metrics.RecordDistribution(bins, time.Since(start), err)
	t.logger.LogDistribution(context.Background(), t.name, bins, err)
	return d, err
}

// Close releases the table. It is idempotent.
func (t *Table) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	err := t.View.Close()
	t.metrics.RecordClose()
	t.logger.LogClose(context.Background(), t.name, t.path, err)
	return err
}
