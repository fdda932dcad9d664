// Package escape implements the character-level HTML escaping used for body
// text and attribute values.
package escape

import "strings"

var (
	bodyReplacer = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)

	// The apostrophe entity has no terminating ';'. Existing output depends
	// on it, so it stays.
	attributeReplacer = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39",
	)
)

// Body escapes text placed between tags.
func Body(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}
	return bodyReplacer.Replace(s)
}

// Attribute escapes text placed inside an attribute value.
func Attribute(s string) string {
	if !strings.ContainsAny(s, "&<>\"'") {
		return s
	}
	return attributeReplacer.Replace(s)
}

// Standalone escapes text that a caller merges into a tree as pre-escaped
// raw content.
func Standalone(s string, attributes bool) string {
	if attributes {
		return Attribute(s)
	}
	return Body(s)
}

// For returns the escaper for the given context.
func For(inAttribute bool) func(string) string {
	if inAttribute {
		return Attribute
	}
	return Body
}
