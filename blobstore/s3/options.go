package s3

// Options configures a Store.
type Options struct {
	// Prefix is prepended to all keys (e.g. "tables/").
	Prefix string
	// Region overrides the region of the default AWS configuration. Only used by New.
	Region string
	// PartSize is the part size of multipart uploads and ranged downloads.
	// Default: 8MB (larger than SDK default of 5MB for better throughput)
	PartSize int64
	// Concurrency is the number of concurrent part transfers.
	// Default: 5 (matches SDK default)
	Concurrency int
	// EnableChecksum enables CRC32C integrity validation on uploads.
	// Default: true
	EnableChecksum bool
}

// Option configures a Store.
type Option func(*Options)

// DefaultOptions returns production-optimized settings.
func DefaultOptions() Options {
	return Options{
		PartSize:       8 * 1024 * 1024,
		Concurrency:    5,
		EnableChecksum: true,
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(o *Options) { o.Prefix = prefix }
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(o *Options) { o.Region = region }
}

// WithPartSize sets the transfer part size.
func WithPartSize(size int64) Option {
	return func(o *Options) {
		if size > 0 {
			o.PartSize = size
		}
	}
}

// WithConcurrency sets the number of concurrent part transfers.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithChecksum enables or disables CRC32C upload checksums.
func WithChecksum(enabled bool) Option {
	return func(o *Options) { o.EnableChecksum = enabled }
}
