package encode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/livefir/statichtml/internal/diag"
	"github.com/livefir/statichtml/internal/expr"
	"github.com/livefir/statichtml/internal/fold"
	"github.com/livefir/statichtml/internal/literal"
)

// StreamImportPath is the runtime package generated stream code calls.
const StreamImportPath = "github.com/livefir/statichtml/stream"

// Artifact is the encoded result: the structured values and the Go source
// expression that constructs them.
type Artifact struct {
	Encoding       Encoding
	Representation Representation

	// Literal is the rendered literal before shaping.
	Literal literal.Composite
	// Chunks holds the partitioned literal for chunked representations.
	Chunks []literal.Composite

	// Bytes and Units hold a single byte-encoded value (width 8 and 16).
	Bytes []byte
	Units []uint16
	// ByteChunks and UnitChunks hold byte-encoded chunks.
	ByteChunks [][]byte
	UnitChunks [][]uint16

	// Source is a Go expression producing the artifact.
	Source string
	// Imports lists the packages Source refers to.
	Imports []string
}

// Text returns the rendered literal when it is fully static.
func (a *Artifact) Text() (string, bool) {
	return a.Literal.Text()
}

// ChunkTexts returns the static text of every chunk.
func (a *Artifact) ChunkTexts() ([]string, bool) {
	out := make([]string, 0, len(a.Chunks))
	for _, c := range a.Chunks {
		text, ok := c.Text()
		if !ok {
			return nil, false
		}
		out = append(out, text)
	}
	return out, true
}

// Encoder shapes rendered literals. The zero value is ready to use.
type Encoder struct{}

// Encode shapes lit. Byte encodings of a literal that still holds run-time
// values fail with a fatal diagnostic.
func (Encoder) Encode(lit literal.Composite, enc Encoding, rep Representation) (*Artifact, error) {
	if err := Validate(enc, rep); err != nil {
		return nil, err
	}
	if enc.IsBytes() && lit.HasDynamic() {
		src, _ := literal.SourceOf(lit.Dynamic()[0])
		return nil, diag.NewFatal(diag.ByteEncodingWithUnresolvedInterpolation, expr.Pos{},
			"cannot encode %s as a byte sequence: interpolation %s is not resolved at compile time", enc.Kind, src)
	}

	a := &Artifact{Encoding: enc, Representation: rep, Literal: lit}
	e := &emitter{enc: enc, optimized: rep.Optimized && rep.Kind != Single}

	if rep.Kind == Single {
		if err := a.single(e); err != nil {
			return nil, err
		}
		a.Imports = e.imports()
		return a, nil
	}

	a.Chunks = Split(lit, rep.ChunkSize)
	elems := make([]string, 0, len(a.Chunks))
	for i, c := range a.Chunks {
		last := i == len(a.Chunks)-1
		src, err := a.chunk(e, c, last)
		if err != nil {
			return nil, err
		}
		elems = append(elems, src)
	}
	slice := "[]" + e.elemType() + "{" + strings.Join(elems, ", ") + "}"

	if rep.Kind == Stream {
		e.use(StreamImportPath)
		args := []string{slice}
		if rep.Delay > 0 {
			e.use("time")
			args = append(args, "stream.WithDelay("+durationSource(rep.Delay)+")")
		}
		if rep.Synchronous {
			args = append(args, "stream.Synchronous()")
		}
		a.Source = "stream.New(" + strings.Join(args, ", ") + ")"
	} else {
		a.Source = slice
	}
	a.Imports = e.imports()
	return a, nil
}

func (a *Artifact) single(e *emitter) error {
	switch {
	case a.Encoding.IsBytes() && e.enc.width() == 16:
		units, err := utf16Units(a.staticText())
		if err != nil {
			return err
		}
		if a.Encoding.Kind == EncodingNulTerminated {
			units = append(units, 0)
		}
		a.Units = units
		a.Source = "[]uint16" + numbers(units)
	case a.Encoding.IsBytes():
		b := []byte(a.staticText())
		if a.Encoding.Kind == EncodingNulTerminated {
			b = append(b, 0)
		}
		a.Bytes = b
		a.Source = "[]byte" + numbers(b)
	default:
		a.Source = e.value(a.Literal)
	}
	return nil
}

func (a *Artifact) chunk(e *emitter, c literal.Composite, last bool) (string, error) {
	if !a.Encoding.IsBytes() {
		return e.value(c), nil
	}
	text, _ := c.Text()
	nul := last && a.Encoding.Kind == EncodingNulTerminated

	if e.enc.width() == 16 {
		units, err := utf16Units(text)
		if err != nil {
			return "", err
		}
		if nul {
			units = append(units, 0)
		}
		a.UnitChunks = append(a.UnitChunks, units)
		return numbers(units), nil
	}

	b := []byte(text)
	if nul {
		b = append(b, 0)
	}
	a.ByteChunks = append(a.ByteChunks, b)
	if e.optimized && !nul {
		return "[]byte(" + e.quote(text) + ")", nil
	}
	return numbers(b), nil
}

func (a *Artifact) staticText() string {
	text, _ := a.Literal.Text()
	return text
}

// emitter writes Go source for one artifact.
type emitter struct {
	enc       Encoding
	optimized bool
	used      []string
}

func (e *emitter) use(pkg string) {
	for _, p := range e.used {
		if p == pkg {
			return
		}
	}
	e.used = append(e.used, pkg)
}

func (e *emitter) imports() []string {
	return e.used
}

func (e *emitter) elemType() string {
	switch {
	case e.enc.IsBytes() && e.enc.width() == 16:
		return "[]uint16"
	case e.enc.IsBytes():
		return "[]byte"
	case e.enc.Kind == EncodingCustom:
		if e.enc.Type != "" {
			return e.enc.Type
		}
		return "any"
	}
	return "string"
}

// value emits a text expression for c, wrapped by the custom template.
func (e *emitter) value(c literal.Composite) string {
	var parts []string
	for _, piece := range c {
		switch p := piece.(type) {
		case literal.Text:
			parts = append(parts, e.quote(string(p)))
		case literal.Interpolation:
			parts = append(parts, operand(p.Source))
		case literal.Described:
			e.use("fmt")
			parts = append(parts, "fmt.Sprint("+p.Source+")")
		}
	}
	src := `""`
	if len(parts) > 0 {
		src = strings.Join(parts, " + ")
	}
	if e.enc.Kind == EncodingCustom {
		return strings.Replace(e.enc.Template, Marker, src, 1)
	}
	return src
}

// quote emits a string literal. Optimized output prefers raw strings.
func (e *emitter) quote(s string) string {
	if e.optimized && canBackquote(s) {
		return "`" + s + "`"
	}
	return strconv.Quote(s)
}

func canBackquote(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsAny(s, "`\r\x00")
}

// operand parenthesizes run-time sources that are not plain symbol paths
// or calls on them.
func operand(src string) string {
	if fold.SplitPath(src) != nil {
		return src
	}
	if i := strings.IndexByte(src, '('); i > 0 && strings.HasSuffix(src, ")") && fold.SplitPath(src[:i]) != nil {
		return src
	}
	return "(" + src + ")"
}

func numbers[T byte | uint16](values []T) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	}
	b.WriteByte('}')
	return b.String()
}

func utf16Units(s string) ([]uint16, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("failed to encode UTF-16: %w", err)
	}
	units := make([]uint16, len(b)/2)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, units); err != nil {
		return nil, fmt.Errorf("failed to read UTF-16 units: %w", err)
	}
	return units, nil
}

func durationSource(d time.Duration) string {
	switch {
	case d%time.Second == 0:
		return strconv.FormatInt(int64(d/time.Second), 10) + " * time.Second"
	case d%time.Millisecond == 0:
		return strconv.FormatInt(int64(d/time.Millisecond), 10) + " * time.Millisecond"
	}
	return "time.Duration(" + strconv.FormatInt(int64(d), 10) + ")"
}
