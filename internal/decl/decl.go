// Package decl models the declaration tables constant folding searches:
// nested types, enumeration cases and constant variables.
package decl

// Kind classifies a declaration.
type Kind int

const (
	KindType Kind = iota
	KindCase
	KindVar
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindCase:
		return "case"
	case KindVar:
		return "var"
	}
	return "unknown"
}

// LiteralKind is the type of a literal initializer or raw value.
type LiteralKind int

const (
	LiteralText LiteralKind = iota
	LiteralInt
	LiteralFloat
	LiteralBool
)

// Literal is a literal raw value or initializer in rendered text form.
type Literal struct {
	Kind LiteralKind
	Text string
}

// Decl is one named declaration. Members is only populated for types.
type Decl struct {
	Kind    Kind
	Name    string
	Value   *Literal
	Members map[string]*Decl
}

// NewType creates an empty type scope.
func NewType(name string) *Decl {
	return &Decl{Kind: KindType, Name: name, Members: make(map[string]*Decl)}
}

// Add declares d inside the type scope t, keeping the first declaration of
// a name.
func (t *Decl) Add(d *Decl) *Decl {
	if prev, ok := t.Members[d.Name]; ok {
		return prev
	}
	t.Members[d.Name] = d
	return d
}

// Table is the parsed declaration table of one lookup source.
type Table struct {
	Source string
	Root   map[string]*Decl
}

// NewTable creates an empty table for source.
func NewTable(source string) *Table {
	return &Table{Source: source, Root: make(map[string]*Decl)}
}

// Add declares d at the root, keeping the first declaration of a name.
func (t *Table) Add(d *Decl) *Decl {
	if prev, ok := t.Root[d.Name]; ok {
		return prev
	}
	t.Root[d.Name] = d
	return d
}

// Len returns the number of root declarations.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Root)
}

// Lookup walks path through nested type scopes. It stops at the first case
// or variable, which must be the last segment.
func (t *Table) Lookup(path []string) (*Decl, bool) {
	if t == nil || len(path) == 0 {
		return nil, false
	}
	scope := t.Root
	for i, seg := range path {
		d, ok := scope[seg]
		if !ok {
			return nil, false
		}
		last := i == len(path)-1
		switch d.Kind {
		case KindType:
			if last {
				return nil, false
			}
			scope = d.Members
		default:
			if !last {
				return nil, false
			}
			return d, true
		}
	}
	return nil, false
}

// Resolve returns the compile-time text of path: a case's textual or numeric
// raw value, the case name when it has none, or a variable's literal
// initializer.
func (t *Table) Resolve(path []string) (string, bool) {
	d, ok := t.Lookup(path)
	if !ok {
		return "", false
	}
	switch d.Kind {
	case KindCase:
		if d.Value == nil {
			return d.Name, true
		}
		switch d.Value.Kind {
		case LiteralText, LiteralInt, LiteralFloat:
			return d.Value.Text, true
		}
	case KindVar:
		if d.Value != nil {
			return d.Value.Text, true
		}
	}
	return "", false
}
