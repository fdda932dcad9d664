package fold

import (
	"context"
	"regexp"
	"strings"

	"github.com/livefir/statichtml/internal/diag"
	"github.com/livefir/statichtml/internal/expr"
)

var symbolPath = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// SplitPath returns the segments of a dotted symbol path, or nil if source
// is not one (calls, operators, literals).
func SplitPath(source string) []string {
	source = strings.TrimSpace(source)
	if !symbolPath.MatchString(source) {
		return nil
	}
	return strings.Split(source, ".")
}

// Lookup folds symbol paths for one render request against an ordered list
// of sources. It is not safe for concurrent use; the Resolver behind it is.
type Lookup struct {
	ctx      context.Context
	resolver *Resolver
	sources  []string
	sink     diag.Sink
	reported map[string]bool

	Folded   int
	Unfolded int
}

// Lookup starts a request-scoped lookup.
func (r *Resolver) Lookup(ctx context.Context, sources []string, sink diag.Sink) *Lookup {
	if sink == nil {
		sink = diag.Discard
	}
	return &Lookup{
		ctx:      ctx,
		resolver: r,
		sources:  sources,
		sink:     sink,
		reported: make(map[string]bool),
	}
}

// Fold resolves the source text of an interpolation. The first source in
// order that declares the path wins.
func (l *Lookup) Fold(source string, pos expr.Pos) (string, bool) {
	path := SplitPath(source)
	if path == nil || l == nil || l.resolver == nil {
		l.miss()
		return "", false
	}
	for _, id := range l.sources {
		table, err := l.resolver.Table(l.ctx, id)
		if err != nil && !l.reported[id] {
			l.reported[id] = true
			l.sink.Report(diag.New(diag.LookupSourceUnavailable, pos,
				"lookup source %s unavailable, treated as empty: %v", id, err))
		}
		if text, ok := table.Resolve(path); ok {
			l.Folded++
			return text, true
		}
	}
	l.miss()
	return "", false
}

func (l *Lookup) miss() {
	if l != nil {
		l.Unfolded++
	}
}
