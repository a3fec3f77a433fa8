package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/stabgo/internal/limits"
	"github.com/hupe1980/stabgo/internal/mmap"
)

var (
	// ErrIO is returned when a file cannot be resolved, opened or mapped.
	ErrIO = errors.New("stored table: cannot map file")
	// ErrClosed is returned by Acquire after Close.
	ErrClosed = errors.New("stored table: registry closed")
)

// AccessPattern is the kernel access hint applied to new mappings.
type AccessPattern = mmap.AccessPattern

// Access hints for WithAccessPattern.
const (
	AccessDefault    = mmap.AccessDefault
	AccessSequential = mmap.AccessSequential
	AccessRandom     = mmap.AccessRandom
	AccessWillNeed   = mmap.AccessWillNeed
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger for map and unmap events. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithAccessPattern sets the access hint given to the kernel for new mappings.
// Interpolation touches a few scattered values per lookup, so the default is AccessRandom.
func WithAccessPattern(p AccessPattern) Option {
	return func(r *Registry) {
		r.access = p
	}
}

// WithLimits accounts every mapping against the controller's mapped-byte budget.
func WithLimits(c *limits.Controller) Option {
	return func(r *Registry) {
		r.limits = c
	}
}

// Registry maps canonical file paths to shared, reference-counted mappings.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	closed  bool

	logger *slog.Logger
	access AccessPattern
	limits *limits.Controller
}

type entry struct {
	path     string
	m        *mmap.Mapping
	refs     int
	unmapped bool
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		logger:  slog.New(slog.DiscardHandler),
		access:  AccessRandom,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle is one reference to a shared mapping.
// Its bytes stay valid until Release; they must never be written.
type Handle struct {
	reg      *Registry
	e        *entry
	released atomic.Bool
}

// Bytes returns the mapped file contents.
func (h *Handle) Bytes() []byte { return h.e.m.Bytes() }

// Len returns the file size in bytes.
func (h *Handle) Len() int { return h.e.m.Size() }

// Path returns the canonical path of the mapped file.
func (h *Handle) Path() string { return h.e.path }

// Release drops this reference. It is idempotent.
func (h *Handle) Release() error { return h.reg.Release(h) }

// Canonical returns the absolute, symlink-free form of path, which
// identifies a mapping in the registry.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// Acquire returns a handle on the mapping of path, creating the mapping if
// no other handle references it.
func (r *Registry) Acquire(path string) (*Handle, error) {
	canon, err := Canonical(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, fmt.Errorf("%w: %s", ErrClosed, canon)
	}

	e, ok := r.entries[canon]
	if !ok {
		e, err = r.mapLocked(canon)
		if err != nil {
			return nil, err
		}
		r.entries[canon] = e
	}
	e.refs++

	return &Handle{reg: r, e: e}, nil
}

func (r *Registry) mapLocked(canon string) (*entry, error) {
	m, err := mmap.Open(canon)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, canon, err)
	}
	if err := r.limits.ReserveMapped(int64(m.Size())); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("%w: %s (%d bytes, %d of %d mapped): %w",
			ErrIO, canon, m.Size(), r.limits.MappedBytes(), r.limits.MappedBytesLimit(), err)
	}
	if err := m.Advise(r.access); err != nil {
		r.logger.Warn("madvise failed", "path", canon, "pattern", r.access.String(), "error", err)
	}
	r.logger.Debug("mapped stored table", "path", canon, "bytes", m.Size())
	return &entry{path: canon, m: m}, nil
}

// Release drops the reference held by h and unmaps the file when it was the
// last one. Releasing a handle twice has no effect.
func (r *Registry) Release(h *Handle) error {
	if h == nil || h.released.Swap(true) {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e := h.e
	e.refs--
	if e.refs > 0 {
		return nil
	}
	// The entry may already be gone if the registry was closed.
	if r.entries[e.path] == e {
		delete(r.entries, e.path)
	}
	return r.unmapLocked(e)
}

func (r *Registry) unmapLocked(e *entry) error {
	if e.unmapped {
		return nil
	}
	e.unmapped = true
	size := e.m.Size()
	if err := e.m.Close(); err != nil {
		return fmt.Errorf("%w: unmap %s: %w", ErrIO, e.path, err)
	}
	r.limits.ReleaseMapped(int64(size))
	r.logger.Debug("unmapped stored table", "path", e.path, "bytes", size)
	return nil
}

// Stats is a snapshot of registry state.
type Stats struct {
	// Mappings is the number of live mappings.
	Mappings int
	// References is the number of unreleased handles.
	References int
	// MappedBytes is the total size of live mappings.
	MappedBytes int64
	// Paths lists the canonical paths of live mappings, sorted.
	Paths []string
}

// Stats returns a snapshot of the registry.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Stats{Mappings: len(r.entries), Paths: make([]string, 0, len(r.entries))}
	for path, e := range r.entries {
		s.References += e.refs
		s.MappedBytes += int64(e.m.Size())
		s.Paths = append(s.Paths, path)
	}
	sort.Strings(s.Paths)
	return s
}

// Close rejects further Acquire calls and unmaps every file that no handle
// references. A file still referenced stays mapped until its last handle is
// released, so views opened before Close keep working. Close is idempotent.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for path, e := range r.entries {
		if e.refs > 0 {
			r.logger.Debug("stored table outlives registry close", "path", path, "references", e.refs)
			continue
		}
		if err := r.unmapLocked(e); err != nil {
			errs = append(errs, err)
		}
		delete(r.entries, path)
	}
	return errors.Join(errs...)
}
