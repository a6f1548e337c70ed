// Package resolve turns import specifiers into canonical absolute paths.
package resolve

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Resolver joins specifiers against an importing module's directory.
// Extensions, when set, are probed by Locate for extensionless specifiers.
type Resolver struct {
	Extensions []string
}

// New creates a resolver that probes the given extensions in order.
func New(extensions ...string) *Resolver {
	return &Resolver{Extensions: extensions}
}

// Resolve joins specifier onto importerDir and normalizes the result.
// It never touches the filesystem and never fails; a malformed specifier
// simply yields a path that cannot be read later.
func (r *Resolver) Resolve(importerDir, specifier string) string {
	if filepath.IsAbs(specifier) {
		return filepath.Clean(specifier)
	}
	return filepath.Join(importerDir, specifier)
}

// Locate maps a resolved path onto the file that backs it.
// Without configured extensions the path is returned unchanged.
// Otherwise path, path+ext and path/index+ext are tried in that order.
func (r *Resolver) Locate(path string) (string, error) {
	if len(r.Extensions) == 0 || isFile(path) {
		return path, nil
	}

	for _, ext := range r.Extensions {
		if candidate := path + ext; isFile(candidate) {
			return candidate, nil
		}
	}
	for _, ext := range r.Extensions {
		if candidate := filepath.Join(path, "index"+ext); isFile(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no file for %s (tried extensions %v): %w", path, r.Extensions, fs.ErrNotExist)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
