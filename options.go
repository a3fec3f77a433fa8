package stabgo

import (
	"github.com/hupe1980/stabgo/blobstore"
	"github.com/hupe1980/stabgo/registry"
	"github.com/hupe1980/stabgo/resource"
)

type options struct {
	resolver         resource.Resolver
	searchPaths      []string
	blobStore        blobstore.BlobStore
	cacheDir         string
	registry         *registry.Registry
	logger           *Logger
	metricsCollector MetricsCollector
	openConcurrency  int
	mappedBytesLimit int64
	fetchConcurrency int64
	fetchBytesPerSec int64
	accessPattern    registry.AccessPattern
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		openConcurrency:  4,
		accessPattern:    registry.AccessRandom,
	}
}

// Option configures a Library.
type Option func(*options)

// WithResolver replaces the name resolution of the library. Search paths and
// blob stores configured with other options are ignored.
func WithResolver(r resource.Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithSearchPaths adds directories searched for table files, in order.
func WithSearchPaths(dirs ...string) Option {
	return func(o *options) {
		o.searchPaths = append(o.searchPaths, dirs...)
	}
}

// WithBlobStore serves tables from a catalog. Entries are materialized into
// cacheDir; an empty cacheDir selects a "stabgo" directory below the user
// cache directory. Search paths, if any, are tried first.
//
// Example:
//
//	store, _ := s3.New(ctx, "skirt-resources", s3.WithPrefix("tables/"))
//	lib, _ := stabgo.New(stabgo.WithBlobStore(store, "/var/cache/stabgo"))
func WithBlobStore(store blobstore.BlobStore, cacheDir string) Option {
	return func(o *options) {
		o.blobStore = store
		o.cacheDir = cacheDir
	}
}

// WithRegistry shares a mapped file registry between libraries. A shared
// registry is not closed by Library.Close, and WithMappedBytesLimit and
// WithAccessPattern do not apply to it.
func WithRegistry(r *registry.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithLogger configures structured logging. Pass nil to disable logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &stabgo.BasicMetricsCollector{}
//	lib, _ := stabgo.New(stabgo.WithMetricsCollector(metrics))
//	// ... use lib ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithOpenConcurrency bounds the number of parallel opens of OpenAll.
// Values below 1 are ignored.
func WithOpenConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.openConcurrency = n
		}
	}
}

// WithMappedBytesLimit caps the total size of mapped table files. Opening a
// table that would exceed the limit fails with ErrIO. 0 means unlimited.
func WithMappedBytesLimit(bytes int64) Option {
	return func(o *options) {
		o.mappedBytesLimit = bytes
	}
}

// WithFetchLimits bounds catalog fetches: at most concurrency fetches run at
// once and together transfer at most bytesPerSec (0 means unlimited).
func WithFetchLimits(concurrency int, bytesPerSec int64) Option {
	return func(o *options) {
		o.fetchConcurrency = int64(concurrency)
		o.fetchBytesPerSec = bytesPerSec
	}
}

// WithAccessPattern sets the paging hint for mapped files.
// Default: registry.AccessRandom, matching interpolation lookups.
func WithAccessPattern(p registry.AccessPattern) Option {
	return func(o *options) {
		o.accessPattern = p
	}
}
