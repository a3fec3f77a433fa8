package resource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirResolver finds tables in a list of directories. Absolute paths and paths
// relative to the working directory that name an existing file are accepted as is.
type DirResolver struct {
	dirs []string
}

// NewDirResolver creates a resolver searching dirs in order.
func NewDirResolver(dirs ...string) *DirResolver {
	return &DirResolver{dirs: dirs}
}

// Resolve implements Resolver.
func (r *DirResolver) Resolve(_ context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrNotFound)
	}
	for _, c := range candidates(name, false) {
		if filepath.IsAbs(c) || strings.ContainsRune(c, filepath.Separator) {
			if isFile(c) {
				return c, nil
			}
		}
		if filepath.IsAbs(c) {
			continue
		}
		for _, dir := range r.dirs {
			if p := filepath.Join(dir, c); isFile(p) {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrNotFound, name, strings.Join(r.dirs, string(filepath.ListSeparator)))
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
