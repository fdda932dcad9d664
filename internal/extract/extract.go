// Package extract classifies host expressions into literal values.
package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/livefir/statichtml/internal/diag"
	"github.com/livefir/statichtml/internal/expr"
	"github.com/livefir/statichtml/internal/literal"
)

var commaSeparated = map[string]bool{
	"accept":      true,
	"coords":      true,
	"exportparts": true,
	"imagesizes":  true,
	"imagesrcset": true,
	"sizes":       true,
	"srcset":      true,
}

// Separator returns the string array elements of key are joined with.
func Separator(key string) string {
	switch {
	case commaSeparated[key]:
		return ","
	case key == "allow":
		return ";"
	}
	return " "
}

// DefaultConstructors are calls that only wrap a static string as a typed
// value.
var DefaultConstructors = []string{
	"string",
	"template.HTML",
	"template.HTMLAttr",
	"template.CSS",
	"template.JS",
	"template.URL",
}

// Extractor classifies expressions. The zero value is usable and recognizes
// no constructors and no attribute families.
type Extractor struct {
	Registry     *Registry
	Constructors map[string]bool
	Sink         diag.Sink
}

// New creates an extractor with the default constructors.
func New(registry *Registry, sink diag.Sink) *Extractor {
	x := &Extractor{
		Registry:     registry,
		Constructors: make(map[string]bool, len(DefaultConstructors)),
		Sink:         sink,
	}
	for _, name := range DefaultConstructors {
		x.Constructors[name] = true
	}
	return x
}

// WithSink returns a shallow copy of x reporting to sink.
func (x *Extractor) WithSink(sink diag.Sink) *Extractor {
	cp := *x
	cp.Sink = sink
	return &cp
}

func (x *Extractor) report(d diag.Diagnostic) {
	if x.Sink != nil {
		x.Sink.Report(d)
	}
}

// Extract classifies e in the context of attribute key (empty for content).
// It reports false when the value must be omitted.
func (x *Extractor) Extract(e expr.Expr, key string) (literal.Value, bool) {
	if e == nil {
		return nil, false
	}
	if p, ok := x.Registry.Lookup(key); ok {
		if v, ok := p.Parse(e, key); ok {
			return v, true
		}
	}

	switch t := e.(type) {
	case *expr.Nil:
		return nil, false
	case *expr.Bool:
		return literal.Bool(t.Value), true
	case *expr.Int:
		return literal.Int(t.Value), true
	case *expr.Float:
		return literal.Float(t.Value), true
	case *expr.String:
		return x.extractString(t, key)
	case *expr.Array:
		return x.extractArray(t, key)
	case *expr.Call:
		return x.extractCall(t)
	case *expr.Member, *expr.Symbol:
		return literal.Interpolation{Source: expr.SourceOf(t)}, true
	}

	x.report(diag.New(diag.InternalInconsistency, e.Position(),
		"unexpected expression %T; nothing rendered", e))
	return nil, false
}

func (x *Extractor) extractString(s *expr.String, key string) (literal.Value, bool) {
	var b literal.Builder
	for _, seg := range s.Segments {
		if !seg.IsDynamic() {
			b.WriteString(seg.Text)
			continue
		}
		v, ok := x.Extract(seg.Expr, key)
		if !ok {
			continue
		}
		if text, ok := literal.StaticString(v); ok {
			b.WriteString(text)
			continue
		}
		if literal.IsDynamic(v) {
			source := seg.Source
			if source == "" {
				source, _ = literal.SourceOf(v)
			}
			if _, described := v.(literal.Described); described {
				b.WriteValue(literal.Described{Source: source})
			} else {
				b.WriteValue(literal.Interpolation{Source: source})
			}
			continue
		}
		b.WriteValue(v)
	}

	parts := b.Composite()
	switch {
	case len(parts) == 0:
		return literal.Text(""), true
	case len(parts) == 1:
		if text, ok := parts[0].(literal.Text); ok {
			return text, true
		}
	}
	return parts, true
}

func (x *Extractor) extractCall(c *expr.Call) (literal.Value, bool) {
	if c.Func != "" && x.Constructors[c.Func] && len(c.Args) == 1 {
		if s, ok := c.Args[0].(*expr.String); ok {
			if v, ok := x.extractString(s, ""); ok {
				if text, ok := v.(literal.Text); ok {
					return text, true
				}
			}
		}
	}
	return literal.Interpolation{Source: c.Source}, true
}

func (x *Extractor) extractArray(a *expr.Array, key string) (literal.Value, bool) {
	sep := Separator(key)
	var b literal.Builder
	n := 0

	for _, el := range a.Elements {
		if _, nested := el.(*expr.Array); nested {
			x.report(diag.New(diag.InternalInconsistency, el.Position(),
				"nested array in %q is not supported; attribute dropped", key))
			return nil, false
		}
		v, ok := x.Extract(el, key)
		if !ok {
			continue
		}

		piece := literal.Flatten(v)
		for _, p := range piece {
			text, static := p.(literal.Text)
			if static && strings.Contains(string(text), sep) {
				x.report(SeparatorDiagnostic(el.Position(), key, sep, string(text)))
				return nil, false
			}
		}

		if n > 0 {
			b.WriteString(sep)
		}
		n++
		for _, p := range piece {
			if src, dynamic := literal.SourceOf(p); dynamic {
				b.WriteValue(literal.Described{Source: src})
				continue
			}
			b.WriteValue(p)
		}
	}

	parts := b.Composite()
	if text, ok := parts.Text(); ok {
		return literal.Text(text), true
	}
	return parts, true
}

// SeparatorDiagnostic reports an array element of key whose text contains
// sep, with a fix-it splitting it into separate elements.
func SeparatorDiagnostic(pos expr.Pos, key, sep, text string) diag.Diagnostic {
	name := map[string]string{",": "comma", ";": "semicolon", " ": "whitespace"}[sep]
	d := diag.New(diag.CharacterNotAllowedInDeclaration, pos,
		"%s is not allowed in a %q array element (%q); attribute dropped", name, key, text)

	var quoted []string
	for _, t := range strings.Split(text, sep) {
		if t = strings.TrimSpace(t); t != "" {
			quoted = append(quoted, strconv.Quote(t))
		}
	}
	return d.WithFixIt(fmt.Sprintf("split %q into separate elements", text), strings.Join(quoted, ", "))
}
