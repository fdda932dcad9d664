// Package document reads element trees from YAML. Attribute values and
// content expressions are written as Go expressions:
//
//	lookup_sources: [enums.go]
//	element:
//	  tag: div
//	  attributes:
//	    - key: class
//	      value: '[]string{"row", "wide"}'
//	    - key: dir
//	      value: Dir.rtl
//	    - key: hidden
//	  children:
//	    - text: hi
//	    - expr: user.Name
//	      dynamic: true
//	    - raw: "<b>bold</b>"
//	    - element: {tag: br}
package document

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/livefir/statichtml/internal/encode"
	"github.com/livefir/statichtml/internal/expr"
	"github.com/livefir/statichtml/internal/goexpr"
	"github.com/livefir/statichtml/internal/node"
)

// Document is one render request read from a file.
type Document struct {
	// Name attributes positions; usually the file path.
	Name string `yaml:"-"`

	LookupSources  []string               `yaml:"lookup_sources,omitempty"`
	Encoding       *encode.Encoding       `yaml:"encoding,omitempty"`
	Representation *encode.Representation `yaml:"representation,omitempty"`
	Element        *Element               `yaml:"element"`
}

// Element declares one element.
type Element struct {
	Tag           string      `yaml:"tag"`
	TrailingSlash bool        `yaml:"trailing_slash,omitempty"`
	Escaped       bool        `yaml:"escaped,omitempty"`
	Void          *bool       `yaml:"void,omitempty"`
	Attributes    []Attribute `yaml:"attributes,omitempty"`
	Children      []Child     `yaml:"children,omitempty"`

	line, column int
}

// Attribute declares one attribute. Without Value or Text it is a
// presence-only attribute.
type Attribute struct {
	Key string `yaml:"key"`
	// Value is a Go expression.
	Value *string `yaml:"value,omitempty"`
	// Text is a static string, taken verbatim.
	Text      *string `yaml:"text,omitempty"`
	Voidable  bool    `yaml:"voidable,omitempty"`
	Delimiter string  `yaml:"delimiter,omitempty"`

	line, column int
}

// Child is exactly one of Text, Expr, Raw or Element.
type Child struct {
	Text     *string  `yaml:"text,omitempty"`
	Expr     string   `yaml:"expr,omitempty"`
	Raw      *string  `yaml:"raw,omitempty"`
	Element  *Element `yaml:"element,omitempty"`
	Dynamic  bool     `yaml:"dynamic,omitempty"`
	Required bool     `yaml:"required,omitempty"`

	line, column int
}

func (e *Element) UnmarshalYAML(n *yaml.Node) error {
	type plain Element
	if err := n.Decode((*plain)(e)); err != nil {
		return err
	}
	e.line, e.column = n.Line, n.Column
	return nil
}

func (a *Attribute) UnmarshalYAML(n *yaml.Node) error {
	type plain Attribute
	if err := n.Decode((*plain)(a)); err != nil {
		return err
	}
	a.line, a.column = valuePosition(n, "value")
	return nil
}

func (c *Child) UnmarshalYAML(n *yaml.Node) error {
	type plain Child
	if err := n.Decode((*plain)(c)); err != nil {
		return err
	}
	c.line, c.column = valuePosition(n, "expr")
	return nil
}

// valuePosition returns where the scalar under key starts, or the mapping
// itself when key is absent.
func valuePosition(n *yaml.Node, key string) (int, int) {
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				v := n.Content[i+1]
				if v.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) != 0 {
					return v.Line, v.Column + 1
				}
				return v.Line, v.Column
			}
		}
	}
	return n.Line, n.Column
}

// Parse decodes a document named name.
func Parse(name string, data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document %s: %w", name, err)
	}
	if doc.Element == nil {
		return nil, fmt.Errorf("document %s declares no element", name)
	}
	doc.Name = name
	return &doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Parse(path, data)
}

// Decl converts the document into an element declaration. Malformed
// expressions are reported together.
func (d *Document) Decl() (*node.ElementDecl, error) {
	if d.Element == nil {
		return nil, fmt.Errorf("document %s declares no element", d.Name)
	}
	c := &converter{name: d.Name}
	el := c.element(d.Element)
	if len(c.errs) > 0 {
		return nil, errors.Join(c.errs...)
	}
	return el, nil
}

type converter struct {
	name string
	errs []error
}

func (c *converter) pos(line, column int) expr.Pos {
	return expr.Pos{File: c.name, Line: line, Column: column}
}

func (c *converter) parse(pos expr.Pos, src string) expr.Expr {
	e, err := goexpr.ParseAt(pos, src)
	if err != nil {
		c.errs = append(c.errs, fmt.Errorf("%s: %w", pos, err))
		return nil
	}
	return e
}

func (c *converter) element(e *Element) *node.ElementDecl {
	out := &node.ElementDecl{
		Tag:           e.Tag,
		TrailingSlash: e.TrailingSlash,
		Escaped:       e.Escaped,
		Void:          e.Void,
		Pos:           c.pos(e.line, e.column),
	}
	if e.Tag == "" {
		c.errs = append(c.errs, fmt.Errorf("%s: element has no tag", out.Pos))
	}

	for _, a := range e.Attributes {
		pos := c.pos(a.line, a.column)
		ad := node.AttributeDecl{Key: a.Key, Voidable: a.Voidable, Pos: pos}
		for _, r := range a.Delimiter {
			ad.Delimiter = r
			break
		}
		switch {
		case a.Value != nil:
			ad.Value = c.parse(pos, *a.Value)
			if ad.Value == nil {
				continue
			}
		case a.Text != nil:
			s := expr.StaticString(*a.Text)
			s.Pos = pos
			ad.Value = s
		}
		out.Attributes = append(out.Attributes, ad)
	}

	for _, ch := range e.Children {
		pos := c.pos(ch.line, ch.column)
		cd := node.ChildDecl{Dynamic: ch.Dynamic, Required: ch.Required}
		switch {
		case ch.Element != nil:
			cd.Element = c.element(ch.Element)
		case ch.Raw != nil:
			cd.Raw = ch.Raw
		case ch.Text != nil:
			s := expr.StaticString(*ch.Text)
			s.Pos = pos
			cd.Expr = s
		case ch.Expr != "":
			cd.Expr = c.parse(pos, ch.Expr)
			if cd.Expr == nil {
				continue
			}
		default:
			c.errs = append(c.errs, fmt.Errorf("%s: child declares no content", pos))
			continue
		}
		out.Children = append(out.Children, cd)
	}
	return out
}
