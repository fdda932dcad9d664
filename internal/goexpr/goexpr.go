// Package goexpr adapts Go expression syntax to the compiler's expression
// tree. It lets hosts declare attribute values and content as Go source
// (string concatenation with run-time operands becomes an interpolated
// string literal).
package goexpr

import (
	"fmt"
	goast "go/ast"
	"go/parser"
	gotoken "go/token"
	"strconv"
	"strings"

	"github.com/livefir/statichtml/internal/expr"
)

// Parse parses a single Go expression.
func Parse(src string) (expr.Expr, error) {
	return ParseFile("", src)
}

// ParseFile parses a Go expression, attributing positions to filename.
func ParseFile(filename, src string) (expr.Expr, error) {
	return ParseAt(expr.Pos{File: filename, Line: 1, Column: 1}, src)
}

// ParseAt parses a Go expression embedded in a larger file at base.
func ParseAt(base expr.Pos, src string) (expr.Expr, error) {
	fset := gotoken.NewFileSet()
	ex, err := parser.ParseExprFrom(fset, base.File, src, 0)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", src, err)
	}
	if base.Line < 1 {
		base.Line = 1
	}
	if base.Column < 1 {
		base.Column = 1
	}
	c := converter{fset: fset, src: src, base: base}
	return c.convert(ex), nil
}

type converter struct {
	fset *gotoken.FileSet
	src  string
	base expr.Pos
}

func (c converter) pos(p gotoken.Pos) expr.Pos {
	position := c.fset.Position(p)
	out := expr.Pos{File: c.base.File, Line: c.base.Line + position.Line - 1, Column: position.Column}
	if position.Line == 1 {
		out.Column += c.base.Column - 1
	}
	return out
}

func (c converter) text(n goast.Node) string {
	start := c.fset.Position(n.Pos()).Offset
	end := c.fset.Position(n.End()).Offset
	if start < 0 || end > len(c.src) || start > end {
		return ""
	}
	return c.src[start:end]
}

func (c converter) convert(ex goast.Expr) expr.Expr {
	switch t := ex.(type) {
	case *goast.ParenExpr:
		return c.convert(t.X)
	case *goast.BasicLit:
		return c.basicLit(t)
	case *goast.Ident:
		switch t.Name {
		case "true", "false":
			return &expr.Bool{Value: t.Name == "true", Pos: c.pos(t.Pos())}
		case "nil":
			return &expr.Nil{Pos: c.pos(t.Pos())}
		}
		return &expr.Symbol{Name: t.Name, Pos: c.pos(t.Pos())}
	case *goast.SelectorExpr:
		path, ok := selectorPath(t)
		if !ok {
			return c.opaque(t)
		}
		return &expr.Member{Path: path, Source: c.text(t), Pos: c.pos(t.Pos())}
	case *goast.UnaryExpr:
		if t.Op == gotoken.SUB {
			switch inner := c.convert(t.X).(type) {
			case *expr.Int:
				return &expr.Int{Value: -inner.Value, Pos: c.pos(t.Pos())}
			case *expr.Float:
				return &expr.Float{Value: -inner.Value, Pos: c.pos(t.Pos())}
			}
		}
		return c.opaque(t)
	case *goast.BinaryExpr:
		if t.Op == gotoken.ADD {
			if s, ok := c.concatenation(t); ok {
				return s
			}
		}
		return c.opaque(t)
	case *goast.CompositeLit:
		if _, ok := t.Type.(*goast.ArrayType); ok || t.Type == nil {
			arr := &expr.Array{Pos: c.pos(t.Pos())}
			for _, elt := range t.Elts {
				arr.Elements = append(arr.Elements, c.convert(elt))
			}
			return arr
		}
		return c.opaque(t)
	case *goast.CallExpr:
		call := &expr.Call{Source: c.text(t), Pos: c.pos(t.Pos())}
		if path, ok := funcPath(t.Fun); ok {
			call.Func = strings.Join(path, ".")
		}
		for _, arg := range t.Args {
			call.Args = append(call.Args, c.convert(arg))
		}
		return call
	}
	return c.opaque(ex)
}

// opaque represents any other expression as an anonymous call: a run-time
// value known only by its source text.
func (c converter) opaque(ex goast.Expr) expr.Expr {
	return &expr.Call{Source: c.text(ex), Pos: c.pos(ex.Pos())}
}

func (c converter) basicLit(lit *goast.BasicLit) expr.Expr {
	pos := c.pos(lit.Pos())
	switch lit.Kind {
	case gotoken.INT:
		if v, err := strconv.ParseInt(lit.Value, 0, 64); err == nil {
			return &expr.Int{Value: v, Pos: pos}
		}
	case gotoken.FLOAT:
		if v, err := strconv.ParseFloat(strings.ReplaceAll(lit.Value, "_", ""), 64); err == nil {
			return &expr.Float{Value: v, Pos: pos}
		}
	case gotoken.STRING:
		if v, err := strconv.Unquote(lit.Value); err == nil {
			return &expr.String{Segments: []expr.Segment{{Text: v}}, Pos: pos}
		}
	case gotoken.CHAR:
		if v, _, _, err := strconv.UnquoteChar(lit.Value[1:len(lit.Value)-1], '\''); err == nil {
			return &expr.String{Segments: []expr.Segment{{Text: string(v)}}, Pos: pos}
		}
	}
	return &expr.Call{Source: lit.Value, Pos: pos}
}

// concatenation turns `"a" + x + "b"` into an interpolated string literal.
// At least one operand must be a string literal, otherwise the sum is not
// known to be textual.
func (c converter) concatenation(bin *goast.BinaryExpr) (*expr.String, bool) {
	var operands []goast.Expr
	var collect func(goast.Expr)
	collect = func(e goast.Expr) {
		if b, ok := e.(*goast.BinaryExpr); ok && b.Op == gotoken.ADD {
			collect(b.X)
			collect(b.Y)
			return
		}
		if p, ok := e.(*goast.ParenExpr); ok {
			if b, ok := p.X.(*goast.BinaryExpr); ok && b.Op == gotoken.ADD {
				collect(b)
				return
			}
		}
		operands = append(operands, e)
	}
	collect(bin)

	out := &expr.String{Pos: c.pos(bin.Pos())}
	hasLiteral := false
	for _, op := range operands {
		if lit, ok := op.(*goast.BasicLit); ok && lit.Kind == gotoken.STRING {
			v, err := strconv.Unquote(lit.Value)
			if err != nil {
				return nil, false
			}
			hasLiteral = true
			if n := len(out.Segments); n > 0 && !out.Segments[n-1].IsDynamic() {
				out.Segments[n-1].Text += v
				continue
			}
			out.Segments = append(out.Segments, expr.Segment{Text: v})
			continue
		}
		out.Segments = append(out.Segments, expr.Segment{
			Expr:   c.convert(op),
			Source: c.text(op),
		})
	}
	return out, hasLiteral
}

func selectorPath(sel *goast.SelectorExpr) ([]string, bool) {
	var path []string
	var cur goast.Expr = sel
	for {
		switch t := cur.(type) {
		case *goast.SelectorExpr:
			path = append([]string{t.Sel.Name}, path...)
			cur = t.X
		case *goast.Ident:
			return append([]string{t.Name}, path...), true
		default:
			return nil, false
		}
	}
}

func funcPath(fun goast.Expr) ([]string, bool) {
	switch t := fun.(type) {
	case *goast.Ident:
		return []string{t.Name}, true
	case *goast.SelectorExpr:
		return selectorPath(t)
	}
	return nil, false
}
