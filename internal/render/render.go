// Package render concatenates an element tree into one literal, folding and
// escaping values for the context they appear in.
package render

import (
	"strings"

	"github.com/livefir/statichtml/internal/diag"
	"github.com/livefir/statichtml/internal/escape"
	"github.com/livefir/statichtml/internal/expr"
	"github.com/livefir/statichtml/internal/extract"
	"github.com/livefir/statichtml/internal/fold"
	"github.com/livefir/statichtml/internal/literal"
	"github.com/livefir/statichtml/internal/node"
)

// DefaultDelimiter quotes attribute values unless an attribute overrides it.
const DefaultDelimiter = '"'

// Renderer renders one request. It is not safe for concurrent use.
type Renderer struct {
	// Lookup folds interpolations; nil disables folding.
	Lookup *fold.Lookup
	Sink   diag.Sink
	// Delimiter is the encoding's string delimiter.
	Delimiter rune
	// SuppressUnsafeWarnings silences UnsafeInterpolationWarning.
	SuppressUnsafeWarnings bool
}

func (r *Renderer) report(d diag.Diagnostic) {
	if r.Sink != nil {
		r.Sink.Report(d)
	}
}

// Render renders el. In attribute context text is escaped as an attribute
// value.
func (r *Renderer) Render(el *node.Element, inAttribute bool) literal.Composite {
	var b literal.Builder
	r.element(&b, el, inAttribute)
	return b.Composite()
}

func (r *Renderer) element(b *literal.Builder, el *node.Element, inAttribute bool) {
	open, end := "<", ">"
	if el.Escaped {
		open, end = "&lt;", "&gt;"
	}

	b.WriteString(open)
	b.WriteString(el.Tag)
	for _, attr := range el.Attributes {
		r.attribute(b, attr)
	}
	if el.Void && el.TrailingSlash {
		b.WriteString(" /")
	}
	b.WriteString(end)

	if el.Void {
		return
	}
	for _, child := range el.Children {
		switch c := child.(type) {
		case *node.Element:
			r.element(b, c, inAttribute)
		case *node.Literal:
			if c.Raw {
				resolved, _ := r.resolve(c.Value, c.Pos, func(s string) string { return s }, "")
				b.WriteValue(resolved)
				continue
			}
			resolved, _ := r.resolve(c.Value, c.Pos, escape.For(inAttribute), "")
			b.WriteValue(resolved)
		}
	}
	b.WriteString(open + "/" + el.Tag + end)
}

func (r *Renderer) attribute(b *literal.Builder, attr node.Attribute) {
	value := attr.Value
	switch v := value.(type) {
	case nil:
		if attr.Voidable {
			b.WriteString(" " + attr.Key)
		}
		return
	case literal.Bool:
		if v {
			b.WriteString(" " + attr.Key)
		}
		return
	case literal.OpaqueArray:
		value = r.joinOpaque(v, attr)
	}

	resolved, ok := r.resolve(value, attr.Pos, escape.Attribute, attr.Key)
	if !ok {
		return
	}
	if text, ok := resolved.Text(); ok && text == "" && attr.Voidable {
		b.WriteString(" " + attr.Key)
		return
	}

	delim := attr.Delimiter
	if delim == 0 {
		delim = r.Delimiter
	}
	if delim == 0 {
		delim = DefaultDelimiter
	}
	b.WriteString(" " + attr.Key + "=" + string(delim))
	b.WriteValue(resolved)
	b.WriteString(string(delim))
}

// resolve flattens v, escapes its static text and folds its run-time pieces
// where possible. Folded constants are escaped like static text. For an
// attribute value (key set), a folded array element must not contain the
// key's separator; the attribute is then dropped and resolve reports false.
func (r *Renderer) resolve(v literal.Value, pos expr.Pos, esc func(string) string, key string) (literal.Composite, bool) {
	var b literal.Builder
	for _, piece := range literal.Flatten(v) {
		if text, ok := piece.(literal.Text); ok {
			b.WriteString(esc(string(text)))
			continue
		}
		src, _ := literal.SourceOf(piece)
		if r.Lookup != nil {
			if folded, ok := r.Lookup.Fold(src, pos); ok {
				if _, element := piece.(literal.Described); element && key != "" {
					if sep := extract.Separator(key); strings.Contains(folded, sep) {
						r.report(extract.SeparatorDiagnostic(pos, key, sep, folded))
						return nil, false
					}
				}
				b.WriteString(esc(folded))
				continue
			}
		}
		if !r.SuppressUnsafeWarnings {
			r.report(diag.New(diag.UnsafeInterpolationWarning, pos,
				"interpolation %s may introduce uncontrolled markup, because its value could not be proven safe at compile time", src))
		}
		b.WriteValue(piece)
	}
	return b.Composite(), true
}

// joinOpaque joins resolved array elements with the separator of the
// attribute. Elements that have no textual form are skipped.
func (r *Renderer) joinOpaque(arr literal.OpaqueArray, attr node.Attribute) literal.Value {
	sep := extract.Separator(attr.Key)
	var b literal.Builder
	n := 0
	for _, e := range arr {
		piece, ok := e.(literal.Value)
		if !ok {
			s, known := literal.ElementString(e)
			if !known {
				r.report(diag.New(diag.InternalInconsistency, attr.Pos,
					"array element of type %T in %q has no textual form; element skipped", e, attr.Key))
				continue
			}
			piece = literal.Text(s)
		}
		if n > 0 {
			b.WriteString(sep)
		}
		n++
		b.WriteValue(piece)
	}
	return b.Composite()
}

// String renders el and returns its text when it is fully static.
func (r *Renderer) String(el *node.Element) (string, bool) {
	return r.Render(el, false).Text()
}
