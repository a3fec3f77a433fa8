package limits

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMappedLimitExceeded is returned when a new mapping would exceed the mapped-byte budget.
var ErrMappedLimitExceeded = errors.New("mapped bytes limit exceeded")

// Config holds resource limits.
type Config struct {
	// MappedBytesLimit is the hard limit for the total size of live mappings.
	// If 0, mappings are only tracked.
	MappedBytesLimit int64

	// MaxConcurrentFetches is the maximum number of concurrent remote fetches.
	// If 0, defaults to 4.
	MaxConcurrentFetches int64

	// FetchBytesPerSec is the maximum throughput of remote fetches.
	// If 0, unlimited.
	FetchBytesPerSec int64
}

// Controller enforces a Config.
type Controller struct {
	cfg Config

	mappedSem  *semaphore.Weighted // nil if unlimited
	mappedUsed atomic.Int64

	fetchSem *semaphore.Weighted

	ioLimiter *rate.Limiter
}

// NewController creates a new controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentFetches <= 0 {
		cfg.MaxConcurrentFetches = 4
	}

	c := &Controller{
		cfg:      cfg,
		fetchSem: semaphore.NewWeighted(cfg.MaxConcurrentFetches),
	}

	if cfg.MappedBytesLimit > 0 {
		c.mappedSem = semaphore.NewWeighted(cfg.MappedBytesLimit)
	}

	if cfg.FetchBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.FetchBytesPerSec), int(cfg.FetchBytesPerSec))
	}

	return c
}

// ReserveMapped accounts for a new mapping of the given size.
// It never blocks: mappings are created on the open path, where waiting for
// another view to close could deadlock the caller.
func (c *Controller) ReserveMapped(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}
	if c.mappedSem != nil && !c.mappedSem.TryAcquire(bytes) {
		return ErrMappedLimitExceeded
	}
	c.mappedUsed.Add(bytes)
	return nil
}

// ReleaseMapped returns the bytes of an unmapped mapping to the budget.
func (c *Controller) ReleaseMapped(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	if c.mappedSem != nil {
		c.mappedSem.Release(bytes)
	}
	c.mappedUsed.Add(-bytes)
}

// MappedBytes returns the total size of live mappings.
func (c *Controller) MappedBytes() int64 {
	if c == nil {
		return 0
	}
	return c.mappedUsed.Load()
}

// MappedBytesLimit returns the configured limit (0 if unlimited).
func (c *Controller) MappedBytesLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MappedBytesLimit
}

// AcquireFetch reserves a fetch slot, blocking until one is free or ctx is done.
func (c *Controller) AcquireFetch(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.fetchSem.Acquire(ctx, 1)
}

// ReleaseFetch releases a fetch slot.
func (c *Controller) ReleaseFetch() {
	if c == nil {
		return
	}
	c.fetchSem.Release(1)
}

// WaitIO waits until the IO limit allows n bytes. Requests larger than the
// limiter burst are split.
func (c *Controller) WaitIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for n > 0 {
		chunk := min(n, burst)
		if err := c.ioLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
