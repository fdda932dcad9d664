// Package node holds the element tree the renderer walks and the assembler
// that builds it from host declarations.
package node

import (
	"github.com/livefir/statichtml/internal/expr"
	"github.com/livefir/statichtml/internal/literal"
)

// Element is a markup element. A void element never renders its children
// or a closing tag.
type Element struct {
	Tag           string
	Void          bool
	TrailingSlash bool
	Escaped       bool
	Attributes    []Attribute
	Children      []Content
	Pos           expr.Pos
}

// Attribute is one attribute in declaration order. A nil Value marks a
// presence-only attribute.
type Attribute struct {
	Key      string
	Value    literal.Value
	Voidable bool
	// Delimiter quotes the value; zero selects the encoding default.
	Delimiter rune
	Pos       expr.Pos
}

// Content is a child of an element: a *Literal or an *Element.
type Content interface {
	contentNode()
}

// Literal is text content. Raw content is already escaped.
type Literal struct {
	Value literal.Value
	Raw   bool
	Pos   expr.Pos
}

func (*Literal) contentNode() {}
func (*Element) contentNode() {}

// Text returns static text content.
func Text(s string) *Literal {
	return &Literal{Value: literal.Text(s)}
}

// Raw returns pre-escaped content.
func Raw(s string) *Literal {
	return &Literal{Value: literal.Text(s), Raw: true}
}
