// Package catalog answers lookups against the element catalog and the
// enumerated attribute value catalog.
package catalog

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// Tag describes a known element.
type Tag struct {
	Name  string
	Void  bool
	Known bool
}

var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// Tags looks up elements by name.
type Tags struct {
	// Extra registers additional void elements by name, e.g. custom
	// elements a host knows to be content-less.
	ExtraVoid map[string]bool
}

// Lookup returns the element named tag. Unknown names (custom elements)
// report ok=false and are never void unless registered in ExtraVoid.
func (t Tags) Lookup(tag string) (Tag, bool) {
	name := strings.ToLower(tag)
	if t.ExtraVoid[name] {
		return Tag{Name: name, Void: true, Known: true}, true
	}
	a := atom.Lookup([]byte(name))
	if a == 0 || a.String() != name {
		return Tag{Name: tag}, false
	}
	return Tag{Name: name, Void: voidElements[a], Known: true}, true
}

// IsVoid reports whether tag is a void element.
func (t Tags) IsVoid(tag string) bool {
	info, _ := t.Lookup(tag)
	return info.Void
}
