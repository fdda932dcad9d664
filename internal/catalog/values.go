package catalog

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed values.yaml
var builtinValues []byte

// Family is one enumerated attribute value family, e.g. the values of dir.
type Family struct {
	// Attributes are the attribute keys whose values come from the family.
	Attributes []string `yaml:"attributes"`
	// Type is the host-side type name enumerations are referenced through,
	// e.g. Dir in Dir.rtl.
	Type string `yaml:"type"`
	// Cases maps case keys to rendered text. An empty value renders the key.
	Cases map[string]string `yaml:"cases"`
}

// Values is the enumerated attribute value catalog.
type Values struct {
	families map[string]*Family
	byAttr   map[string]string
}

// LoadValues parses a YAML catalog document.
func LoadValues(data []byte) (*Values, error) {
	var doc struct {
		Families map[string]*Family `yaml:"families"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse value catalog: %w", err)
	}
	v := &Values{
		families: make(map[string]*Family, len(doc.Families)),
		byAttr:   make(map[string]string),
	}
	for name, f := range doc.Families {
		if f == nil {
			continue
		}
		v.families[name] = f
		for _, attr := range f.Attributes {
			if prev, ok := v.byAttr[attr]; ok {
				return nil, fmt.Errorf("attribute %q belongs to families %q and %q", attr, prev, name)
			}
			v.byAttr[attr] = name
		}
	}
	return v, nil
}

// DefaultValues returns the built-in catalog.
func DefaultValues() *Values {
	v, err := LoadValues(builtinValues)
	if err != nil {
		panic(err)
	}
	return v
}

// Lookup renders caseKey of family.
func (v *Values) Lookup(family, caseKey string) (string, bool) {
	f, ok := v.families[family]
	if !ok {
		return "", false
	}
	text, ok := f.Cases[caseKey]
	if !ok {
		return "", false
	}
	if text == "" {
		return caseKey, true
	}
	return text, true
}

// Family returns the family named name.
func (v *Values) Family(name string) (*Family, bool) {
	f, ok := v.families[name]
	return f, ok
}

// FamilyOf returns the family name serving attribute key.
func (v *Values) FamilyOf(key string) (string, bool) {
	name, ok := v.byAttr[key]
	return name, ok
}

// Families lists family names in sorted order.
func (v *Values) Families() []string {
	names := make([]string, 0, len(v.families))
	for name := range v.families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
