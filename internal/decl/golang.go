package decl

import (
	"fmt"
	goast "go/ast"
	"go/parser"
	gotoken "go/token"
	"strconv"
)

// ParseGo builds a table from Go source. Named types whose typed constants
// are declared in the file become enumerations with those constants as
// cases: a basic-literal value is the raw value, anything else (iota) leaves
// the case without one. Untyped constants with basic-literal initializers
// are variables. Package-level vars can be reassigned at run time, so they
// only claim their name and never resolve. Everything is also reachable
// through the package name.
func ParseGo(source string, src []byte) (*Table, error) {
	fset := gotoken.NewFileSet()
	file, err := parser.ParseFile(fset, source, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse declarations in %s: %w", source, err)
	}

	table := NewTable(source)
	pkg := NewType(file.Name.Name)

	typeScope := func(name string) *Decl {
		if d, ok := table.Root[name]; ok && d.Kind == KindType {
			return d
		}
		t := NewType(name)
		if table.Add(t) != t {
			// A value already owns the name; keep the cases unreachable.
			return t
		}
		pkg.Add(t)
		return t
	}
	declare := func(d *Decl) {
		table.Add(d)
		pkg.Add(d)
	}

	for _, gd := range file.Decls {
		gen, ok := gd.(*goast.GenDecl)
		if !ok {
			continue
		}
		switch gen.Tok {
		case gotoken.TYPE:
			for _, spec := range gen.Specs {
				typeScope(spec.(*goast.TypeSpec).Name.Name)
			}
		case gotoken.CONST:
			var groupType string
			for _, spec := range gen.Specs {
				vs := spec.(*goast.ValueSpec)
				typeName := ""
				if id, ok := vs.Type.(*goast.Ident); ok {
					typeName = id.Name
				}
				switch {
				case typeName != "":
					groupType = typeName
				case vs.Type == nil && len(vs.Values) == 0:
					// Implicit repetition keeps the previous spec's type.
					typeName = groupType
				default:
					groupType = ""
				}
				for i, name := range vs.Names {
					if name.Name == "_" {
						continue
					}
					var value *Literal
					if i < len(vs.Values) {
						value = basicLiteral(vs.Values[i])
					}
					if typeName != "" && !isPredeclared(typeName) {
						typeScope(typeName).Add(&Decl{Kind: KindCase, Name: name.Name, Value: value})
						continue
					}
					declare(&Decl{Kind: KindVar, Name: name.Name, Value: value})
				}
			}
		case gotoken.VAR:
			for _, spec := range gen.Specs {
				vs := spec.(*goast.ValueSpec)
				for _, name := range vs.Names {
					if name.Name != "_" {
						declare(&Decl{Kind: KindVar, Name: name.Name})
					}
				}
			}
		}
	}

	if _, clash := table.Root[pkg.Name]; !clash {
		table.Root[pkg.Name] = pkg
	}
	return table, nil
}

func basicLiteral(e goast.Expr) *Literal {
	switch t := e.(type) {
	case *goast.ParenExpr:
		return basicLiteral(t.X)
	case *goast.Ident:
		if t.Name == "true" || t.Name == "false" {
			return &Literal{Kind: LiteralBool, Text: t.Name}
		}
	case *goast.UnaryExpr:
		if t.Op == gotoken.SUB {
			if inner := basicLiteral(t.X); inner != nil && (inner.Kind == LiteralInt || inner.Kind == LiteralFloat) {
				return &Literal{Kind: inner.Kind, Text: "-" + inner.Text}
			}
		}
	case *goast.BasicLit:
		switch t.Kind {
		case gotoken.STRING:
			if s, err := strconv.Unquote(t.Value); err == nil {
				return &Literal{Kind: LiteralText, Text: s}
			}
		case gotoken.INT:
			if v, err := strconv.ParseInt(t.Value, 0, 64); err == nil {
				return &Literal{Kind: LiteralInt, Text: strconv.FormatInt(v, 10)}
			}
		case gotoken.FLOAT:
			if v, err := strconv.ParseFloat(t.Value, 64); err == nil {
				return &Literal{Kind: LiteralFloat, Text: strconv.FormatFloat(v, 'f', -1, 64)}
			}
		}
	}
	return nil
}

var predeclared = map[string]bool{
	"bool": true, "string": true, "rune": true, "byte": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

func isPredeclared(name string) bool {
	return predeclared[name]
}
