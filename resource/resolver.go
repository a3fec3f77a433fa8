package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/stabgo/format"
)

// ErrNotFound is returned when no resolver knows a name.
var ErrNotFound = errors.New("stored table not found")

const (
	zstdExt = format.Extension + ".zst"
	lz4Ext  = format.Extension + ".lz4"
)

// Resolver maps a table name to the path of a local file.
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, name string) (string, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}

type chain []Resolver

// Chain returns a Resolver trying each resolver in order. A resolver failing
// with ErrNotFound passes the name on; any other error stops the chain.
func Chain(resolvers ...Resolver) Resolver {
	return chain(resolvers)
}

func (c chain) Resolve(ctx context.Context, name string) (string, error) {
	for _, r := range c {
		p, err := r.Resolve(ctx, name)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// candidates lists the names under which a table may be stored.
func candidates(name string, compressed bool) []string {
	if hasTableExt(name) {
		return []string{name}
	}
	if !compressed {
		return []string{name + format.Extension}
	}
	return []string{name + format.Extension, name + zstdExt, name + lz4Ext}
}

func hasTableExt(name string) bool {
	return strings.HasSuffix(name, format.Extension) ||
		strings.HasSuffix(name, zstdExt) ||
		strings.HasSuffix(name, lz4Ext)
}
