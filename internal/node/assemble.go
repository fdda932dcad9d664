package node

import (
	"github.com/livefir/statichtml/internal/catalog"
	"github.com/livefir/statichtml/internal/diag"
	"github.com/livefir/statichtml/internal/expr"
	"github.com/livefir/statichtml/internal/extract"
	"github.com/livefir/statichtml/internal/literal"
)

// ElementDecl is a host's declaration of an element.
type ElementDecl struct {
	Tag           string
	TrailingSlash bool
	Escaped       bool
	// Void overrides the catalog when set.
	Void       *bool
	Attributes []AttributeDecl
	Children   []ChildDecl
	Pos        expr.Pos
}

// AttributeDecl declares an attribute. A nil Value declares a
// presence-only attribute.
type AttributeDecl struct {
	Key       string
	Value     expr.Expr
	Voidable  bool
	Delimiter rune
	Pos       expr.Pos
}

// ChildDecl is exactly one of an element, an expression or raw text.
type ChildDecl struct {
	Element *ElementDecl
	Expr    expr.Expr
	// Raw is pre-escaped text merged as is.
	Raw *string
	// Dynamic marks an expression explicitly allowed to render a run-time
	// value.
	Dynamic bool
	// Required makes a rejected child abort the render.
	Required bool
}

// Assembler builds element trees through the extractor.
type Assembler struct {
	Tags      catalog.Tags
	Extractor *extract.Extractor
	Sink      diag.Sink
}

func (a *Assembler) report(d diag.Diagnostic) {
	if a.Sink != nil {
		a.Sink.Report(d)
	}
}

// Element assembles d. It fails only when a required child is rejected.
func (a *Assembler) Element(d *ElementDecl) (*Element, error) {
	info, _ := a.Tags.Lookup(d.Tag)
	el := &Element{
		Tag:           d.Tag,
		Void:          info.Void,
		TrailingSlash: d.TrailingSlash,
		Escaped:       d.Escaped,
		Pos:           d.Pos,
	}
	if d.Void != nil {
		el.Void = *d.Void
	}

	seen := make(map[string]expr.Pos, len(d.Attributes))
	for _, ad := range d.Attributes {
		if first, dup := seen[ad.Key]; dup {
			a.report(diag.New(diag.GlobalAttributeAlreadyDefined, ad.Pos,
				"attribute %q is already defined at %s; later declaration ignored", ad.Key, first))
			continue
		}
		seen[ad.Key] = ad.Pos

		attr := Attribute{
			Key:       ad.Key,
			Voidable:  ad.Voidable,
			Delimiter: ad.Delimiter,
			Pos:       ad.Pos,
		}
		if ad.Value == nil {
			attr.Voidable = true
			el.Attributes = append(el.Attributes, attr)
			continue
		}
		v, ok := a.Extractor.Extract(ad.Value, ad.Key)
		if !ok {
			// nil literal, or the extractor reported why.
			continue
		}
		attr.Value = v
		el.Attributes = append(el.Attributes, attr)
	}

	if el.Void && len(d.Children) > 0 {
		a.report(diag.New(diag.VoidElementContent, d.Pos,
			"void element <%s> cannot have content; %d children ignored", d.Tag, len(d.Children)))
	}

	for _, cd := range d.Children {
		child, err := a.child(cd)
		if err != nil {
			return nil, err
		}
		if child != nil {
			el.Children = append(el.Children, child)
		}
	}
	return el, nil
}

func (a *Assembler) child(cd ChildDecl) (Content, error) {
	switch {
	case cd.Element != nil:
		return a.Element(cd.Element)
	case cd.Raw != nil:
		return Raw(*cd.Raw), nil
	case cd.Expr == nil:
		return nil, nil
	}

	v, ok := a.Extractor.Extract(cd.Expr, "")
	if !ok {
		return nil, nil
	}
	if literal.IsDynamic(v) && !cd.Dynamic {
		src, _ := literal.SourceOf(v)
		d := diag.New(diag.UnallowedExpression, cd.Expr.Position(),
			"dynamic expression %s is not allowed here without marking it for interpolation", src).
			WithFixIt("mark the expression as dynamic", src)
		if cd.Required {
			d.Severity = diag.FatalError
			return nil, &diag.Fatal{Diagnostic: d}
		}
		a.report(d)
		return nil, nil
	}
	return &Literal{Value: v, Pos: cd.Expr.Position()}, nil
}
