// Package source provides the lookup sources constant folding reads
// declaration tables from.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

var (
	// ErrNotFound reports a source identifier no provider knows.
	ErrNotFound = errors.New("lookup source not found")
	// ErrDenied reports a source the provider refuses to read.
	ErrDenied = errors.New("lookup source access denied")
)

// Provider returns the raw text of a lookup source.
type Provider interface {
	Source(ctx context.Context, id string) ([]byte, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, id string) ([]byte, error)

func (f ProviderFunc) Source(ctx context.Context, id string) ([]byte, error) {
	return f(ctx, id)
}

// FS reads sources from a file system. Identifiers are slash-separated paths
// relative to its root; paths escaping the root are denied.
type FS struct {
	FS fs.FS
}

// Dir returns a provider rooted at dir.
func Dir(dir string) FS {
	return FS{FS: os.DirFS(dir)}
}

func (p FS) Source(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := path.Clean(strings.TrimPrefix(id, "./"))
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: %s", ErrDenied, id)
	}
	data, err := fs.ReadFile(p.FS, name)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case errors.Is(err, fs.ErrPermission):
		return nil, fmt.Errorf("%w: %s", ErrDenied, id)
	}
	return nil, fmt.Errorf("failed to read %s: %w", id, err)
}

// Map serves sources from memory.
type Map map[string]string

func (m Map) Source(_ context.Context, id string) ([]byte, error) {
	body, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return []byte(body), nil
}

// Chain asks each provider in order and returns the first source found.
type Chain []Provider

func (c Chain) Source(ctx context.Context, id string) ([]byte, error) {
	for _, p := range c {
		data, err := p.Source(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return data, err
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}
