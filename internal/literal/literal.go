// Package literal defines the value model produced by literal extraction.
//
// A Value is either fully known at compile time (Bool, Text, Int, Float),
// opaque until run time (Interpolation, Described), or a combination of both
// (Composite, OpaqueArray).
package literal

import (
	"strconv"
	"strings"
)

// Value is the sealed sum type of extracted literals.
type Value interface {
	isValue()
}

// Bool is a boolean literal.
type Bool bool

// Text is fully static string content.
type Text string

// Int is an integer literal.
type Int int64

// Float is a floating point literal.
type Float float64

// Interpolation is a run-time expression inserted as is. Source is the
// expression's original textual form.
type Interpolation struct {
	Source string
}

// Described is a run-time expression whose value must be stringified before
// insertion because its static type cannot be trusted to render as text.
type Described struct {
	Source string
}

// Composite is a concatenation of values.
type Composite []Value

// OpaqueArray holds already resolved, non-string array elements.
type OpaqueArray []any

func (Bool) isValue()          {}
func (Text) isValue()          {}
func (Int) isValue()           {}
func (Float) isValue()         {}
func (Interpolation) isValue() {}
func (Described) isValue()     {}
func (Composite) isValue()     {}
func (OpaqueArray) isValue()   {}

// IsDynamic reports whether v is a run-time value.
func IsDynamic(v Value) bool {
	switch v.(type) {
	case Interpolation, Described:
		return true
	}
	return false
}

// SourceOf returns the source of a dynamic value.
func SourceOf(v Value) (string, bool) {
	switch t := v.(type) {
	case Interpolation:
		return t.Source, true
	case Described:
		return t.Source, true
	}
	return "", false
}

// StaticString renders a scalar value as text. Dynamic values, composites
// containing them and arrays report false.
func StaticString(v Value) (string, bool) {
	switch t := v.(type) {
	case Bool:
		return strconv.FormatBool(bool(t)), true
	case Text:
		return string(t), true
	case Int:
		return strconv.FormatInt(int64(t), 10), true
	case Float:
		return FormatFloat(float64(t)), true
	case Composite:
		var b strings.Builder
		for _, p := range t {
			s, ok := StaticString(p)
			if !ok {
				return "", false
			}
			b.WriteString(s)
		}
		return b.String(), true
	}
	return "", false
}

// FormatFloat formats f with the fewest digits that round-trip.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Flatten returns v as a normalized composite: nested composites are
// inlined, scalars become Text and adjacent Text pieces are merged.
// OpaqueArray elements are joined with a single space, the content
// separator; elements without a textual form are skipped. Attribute values
// are joined with their key's separator by the renderer before flattening.
func Flatten(v Value) Composite {
	var out Composite
	var appendValue func(Value)
	appendValue = func(v Value) {
		switch t := v.(type) {
		case nil:
		case Composite:
			for _, p := range t {
				appendValue(p)
			}
		case Interpolation, Described:
			out = append(out, t)
		case OpaqueArray:
			n := 0
			for _, e := range t {
				ev, ok := e.(Value)
				if !ok {
					s, known := ElementString(e)
					if !known {
						continue
					}
					ev = Text(s)
				}
				if n > 0 {
					out = appendText(out, " ")
				}
				n++
				appendValue(ev)
			}
		default:
			s, _ := StaticString(t)
			out = appendText(out, s)
		}
	}
	appendValue(v)
	return out
}

func appendText(c Composite, s string) Composite {
	if s == "" {
		return c
	}
	if n := len(c); n > 0 {
		if prev, ok := c[n-1].(Text); ok {
			c[n-1] = prev + Text(s)
			return c
		}
	}
	return append(c, Text(s))
}

// Builder accumulates a normalized composite.
type Builder struct {
	parts Composite
}

// WriteString appends static text.
func (b *Builder) WriteString(s string) {
	b.parts = appendText(b.parts, s)
}

// WriteValue appends a value, flattening composites.
func (b *Builder) WriteValue(v Value) {
	for _, p := range Flatten(v) {
		if t, ok := p.(Text); ok {
			b.parts = appendText(b.parts, string(t))
			continue
		}
		b.parts = append(b.parts, p)
	}
}

// Composite returns the accumulated value.
func (b *Builder) Composite() Composite {
	return b.parts
}

// Text returns the static content of c, or false if c holds run-time values.
func (c Composite) Text() (string, bool) {
	return StaticString(c)
}

// HasDynamic reports whether c contains an Interpolation or Described piece.
func (c Composite) HasDynamic() bool {
	for _, p := range c {
		if IsDynamic(p) {
			return true
		}
	}
	return false
}

// Dynamic returns the run-time pieces of c in order.
func (c Composite) Dynamic() []Value {
	var out []Value
	for _, p := range c {
		if IsDynamic(p) {
			out = append(out, p)
		}
	}
	return out
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int8:
		return strconv.FormatInt(int64(t), 10)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint8:
		return strconv.FormatUint(uint64(t), 10)
	case uint16:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return FormatFloat(t)
	case interface{ String() string }:
		return t.String()
	}
	return ""
}

// ElementString renders an OpaqueArray element.
func ElementString(v any) (string, bool) {
	if lv, ok := v.(Value); ok {
		return StaticString(lv)
	}
	s := toString(v)
	return s, s != "" || v == ""
}
