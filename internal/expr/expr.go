// Package expr is the host-neutral expression tree consumed by the compiler.
//
// Hosts parse their own source text and hand over these nodes; the compiler
// never parses source itself.
package expr

import "fmt"

// Pos is a source location. The zero value means unknown.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	switch {
	case p.File == "" && p.Line == 0:
		return "-"
	case p.File == "":
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsValid reports whether p carries a line.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// Expr is a parsed host expression.
type Expr interface {
	Position() Pos
	exprNode()
}

// Bool is a boolean literal.
type Bool struct {
	Value bool
	Pos   Pos
}

// Int is an integer literal.
type Int struct {
	Value int64
	Pos   Pos
}

// Float is a floating point literal.
type Float struct {
	Value float64
	Pos   Pos
}

// Nil is the nil literal.
type Nil struct {
	Pos Pos
}

// Segment is one piece of a string literal: static text, or an embedded
// dynamic expression when Expr is set.
type Segment struct {
	Text string
	Expr Expr
	// Source is the embedded expression's original text.
	Source string
}

// IsDynamic reports whether the segment embeds an expression.
func (s Segment) IsDynamic() bool {
	return s.Expr != nil
}

// String is a string literal made of static and dynamic segments.
type String struct {
	Segments []Segment
	Pos      Pos
}

// Array is an array literal.
type Array struct {
	Elements []Expr
	Pos      Pos
}

// Call is a function call.
type Call struct {
	// Func is the dotted name of the callee, empty when the callee is not a
	// plain name (e.g. a call on a call result).
	Func   string
	Args   []Expr
	Source string
	Pos    Pos
}

// Member is a member access chain such as a.b.c.
type Member struct {
	Path   []string
	Source string
	Pos    Pos
}

// Symbol is a bare identifier.
type Symbol struct {
	Name string
	Pos  Pos
}

func (e *Bool) Position() Pos   { return e.Pos }
func (e *Int) Position() Pos    { return e.Pos }
func (e *Float) Position() Pos  { return e.Pos }
func (e *Nil) Position() Pos    { return e.Pos }
func (e *String) Position() Pos { return e.Pos }
func (e *Array) Position() Pos  { return e.Pos }
func (e *Call) Position() Pos   { return e.Pos }
func (e *Member) Position() Pos { return e.Pos }
func (e *Symbol) Position() Pos { return e.Pos }

func (*Bool) exprNode()   {}
func (*Int) exprNode()    {}
func (*Float) exprNode()  {}
func (*Nil) exprNode()    {}
func (*String) exprNode() {}
func (*Array) exprNode()  {}
func (*Call) exprNode()   {}
func (*Member) exprNode() {}
func (*Symbol) exprNode() {}

// StaticString builds a string literal with a single static segment.
func StaticString(s string) *String {
	return &String{Segments: []Segment{{Text: s}}}
}

// SourceOf returns the textual form of a dynamic expression.
func SourceOf(e Expr) string {
	switch t := e.(type) {
	case *Call:
		return t.Source
	case *Member:
		if t.Source != "" {
			return t.Source
		}
		return joinPath(t.Path)
	case *Symbol:
		return t.Name
	}
	return ""
}

// Path returns the dotted symbol path of e, or nil if e is not a plain
// symbol reference.
func Path(e Expr) []string {
	switch t := e.(type) {
	case *Member:
		return t.Path
	case *Symbol:
		return []string{t.Name}
	}
	return nil
}

func joinPath(path []string) string {
	s := ""
	for i, p := range path {
		if i > 0 {
			s += "."
		}
		s += p
	}
	return s
}
