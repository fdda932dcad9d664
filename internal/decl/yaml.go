package decl

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlDecl is one entry of a YAML declaration document:
//
//	declarations:
//	  - type: Shrek
//	    members:
//	      - case: isLove
//	      - case: isLife
//	        value: life
//	  - var: version
//	    value: "1.2"
type yamlDecl struct {
	Type    string     `yaml:"type"`
	Case    string     `yaml:"case"`
	Var     string     `yaml:"var"`
	Value   yaml.Node  `yaml:"value"`
	Members []yamlDecl `yaml:"members"`
}

// ParseYAML parses a YAML declaration document.
func ParseYAML(source string, data []byte) (*Table, error) {
	var doc struct {
		Declarations []yamlDecl `yaml:"declarations"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse declarations in %s: %w", source, err)
	}

	table := NewTable(source)
	for i, yd := range doc.Declarations {
		d, err := yd.decl()
		if err != nil {
			return nil, fmt.Errorf("%s: declarations[%d]: %w", source, i, err)
		}
		table.Add(d)
	}
	return table, nil
}

func (y yamlDecl) decl() (*Decl, error) {
	set := 0
	for _, name := range []string{y.Type, y.Case, y.Var} {
		if name != "" {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of type, case or var must be set")
	}

	switch {
	case y.Type != "":
		t := NewType(y.Type)
		for i, ym := range y.Members {
			m, err := ym.decl()
			if err != nil {
				return nil, fmt.Errorf("%s.members[%d]: %w", y.Type, i, err)
			}
			t.Add(m)
		}
		return t, nil
	case y.Case != "":
		if len(y.Members) > 0 {
			return nil, fmt.Errorf("case %s cannot have members", y.Case)
		}
		return &Decl{Kind: KindCase, Name: y.Case, Value: scalar(&y.Value)}, nil
	default:
		if len(y.Members) > 0 {
			return nil, fmt.Errorf("var %s cannot have members", y.Var)
		}
		return &Decl{Kind: KindVar, Name: y.Var, Value: scalar(&y.Value)}, nil
	}
}

// scalar converts a value node. An absent value has the zero Kind.
func scalar(n *yaml.Node) *Literal {
	if n.Kind != yaml.ScalarNode {
		return nil
	}
	switch n.Tag {
	case "!!str":
		return &Literal{Kind: LiteralText, Text: n.Value}
	case "!!int":
		return &Literal{Kind: LiteralInt, Text: n.Value}
	case "!!float":
		return &Literal{Kind: LiteralFloat, Text: n.Value}
	case "!!bool":
		return &Literal{Kind: LiteralBool, Text: n.Value}
	}
	return nil
}
