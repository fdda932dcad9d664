package extract

import (
	"github.com/livefir/statichtml/internal/catalog"
	"github.com/livefir/statichtml/internal/expr"
	"github.com/livefir/statichtml/internal/literal"
)

// FamilyParser turns an expression into the value of an attribute family.
// Returning false hands the expression back to generic extraction.
type FamilyParser interface {
	Parse(e expr.Expr, key string) (literal.Value, bool)
}

// FamilyParserFunc adapts a function to FamilyParser.
type FamilyParserFunc func(e expr.Expr, key string) (literal.Value, bool)

func (f FamilyParserFunc) Parse(e expr.Expr, key string) (literal.Value, bool) {
	return f(e, key)
}

// Registry maps attribute keys to family parsers. It is built once and only
// read afterwards.
type Registry struct {
	parsers map[string]FamilyParser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]FamilyParser)}
}

// Register installs p for each key, replacing earlier registrations.
func (r *Registry) Register(p FamilyParser, keys ...string) {
	for _, key := range keys {
		r.parsers[key] = p
	}
}

// Lookup returns the parser for key.
func (r *Registry) Lookup(key string) (FamilyParser, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.parsers[key]
	return p, ok
}

// CatalogRegistry registers one enumeration parser per catalog family.
// References take the form Type.case, e.g. Dir.rtl.
func CatalogRegistry(values *catalog.Values) *Registry {
	r := NewRegistry()
	for _, name := range values.Families() {
		family, _ := values.Family(name)
		r.Register(enumParser(values, name, family.Type), family.Attributes...)
	}
	return r
}

func enumParser(values *catalog.Values, family, typeName string) FamilyParser {
	return FamilyParserFunc(func(e expr.Expr, key string) (literal.Value, bool) {
		path := expr.Path(e)
		if len(path) != 2 || path[0] != typeName {
			return nil, false
		}
		text, ok := values.Lookup(family, path[1])
		if !ok {
			return nil, false
		}
		return literal.Text(text), true
	})
}
