// Package fold promotes run-time symbol references to compile-time constants
// by looking them up in declaration tables parsed from lookup sources.
package fold

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/livefir/statichtml/internal/decl"
	"github.com/livefir/statichtml/internal/source"
)

// Parser turns the raw text of a source into a declaration table.
type Parser func(id string, data []byte) (*decl.Table, error)

// DefaultParsers selects a parser by source extension.
func DefaultParsers() map[string]Parser {
	return map[string]Parser{
		".go":   decl.ParseGo,
		".yaml": decl.ParseYAML,
		".yml":  decl.ParseYAML,
	}
}

// Stats counts resolver cache activity.
type Stats struct {
	Parses   int64
	Hits     int64
	Failures int64
}

// Resolver owns the process-wide cache of parsed declaration tables. Each
// source is parsed exactly once; concurrent requests for an uncached source
// wait for the first parse and share its table.
type Resolver struct {
	provider source.Provider
	parsers  map[string]Parser
	fallback Parser

	mu      sync.Mutex
	entries map[string]*entry
	stats   Stats
}

type entry struct {
	once  sync.Once
	table *decl.Table
	err   error
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithParser registers p for sources whose extension is ext.
func WithParser(ext string, p Parser) Option {
	return func(r *Resolver) {
		r.parsers[strings.ToLower(ext)] = p
	}
}

// WithFallbackParser sets the parser used for unknown extensions.
func WithFallbackParser(p Parser) Option {
	return func(r *Resolver) {
		r.fallback = p
	}
}

// NewResolver creates a resolver reading sources from provider.
func NewResolver(provider source.Provider, opts ...Option) *Resolver {
	r := &Resolver{
		provider: provider,
		parsers:  DefaultParsers(),
		fallback: decl.ParseGo,
		entries:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Table returns the parsed table of id. A source that cannot be read or
// parsed yields an empty table and the error; both are cached. Loading
// ignores the cancellation of ctx but keeps its values.
func (r *Resolver) Table(ctx context.Context, id string) (*decl.Table, error) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		e = &entry{}
		r.entries[id] = e
	} else {
		r.stats.Hits++
	}
	r.mu.Unlock()

	e.once.Do(func() {
		// The table outlives this request; its cancellation must not stick.
		e.table, e.err = r.load(context.WithoutCancel(ctx), id)
		r.mu.Lock()
		r.stats.Parses++
		if e.err != nil {
			r.stats.Failures++
		}
		r.mu.Unlock()
	})
	return e.table, e.err
}

func (r *Resolver) load(ctx context.Context, id string) (*decl.Table, error) {
	if r.provider == nil {
		return decl.NewTable(id), fmt.Errorf("%w: %s", source.ErrNotFound, id)
	}
	data, err := r.provider.Source(ctx, id)
	if err != nil {
		return decl.NewTable(id), err
	}
	parse, ok := r.parsers[strings.ToLower(filepath.Ext(id))]
	if !ok {
		parse = r.fallback
	}
	table, err := parse(id, data)
	if err != nil {
		return decl.NewTable(id), err
	}
	return table, nil
}

// Forget drops the cached table of id so the next lookup parses it again.
func (r *Resolver) Forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Stats returns a snapshot of cache counters.
func (r *Resolver) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
