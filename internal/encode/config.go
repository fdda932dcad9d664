// Package encode turns a rendered literal into the artifact a caller asked
// for: a text value, a byte sequence, fixed chunks or a push sequence, each
// with the Go source that constructs it.
package encode

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/livefir/statichtml/internal/diag"
	"github.com/livefir/statichtml/internal/expr"
)

// Marker is the substitution marker of a custom encoding template.
const Marker = "$0"

var validate = validator.New()

// EncodingKind selects the value type of the artifact.
type EncodingKind int

const (
	EncodingText EncodingKind = iota
	EncodingBytes
	EncodingNulTerminated
	EncodingCustom
)

var encodingNames = map[EncodingKind]string{
	EncodingText:          "text",
	EncodingBytes:         "bytes",
	EncodingNulTerminated: "nul-terminated",
	EncodingCustom:        "custom",
}

func (k EncodingKind) String() string {
	if name, ok := encodingNames[k]; ok {
		return name
	}
	return fmt.Sprintf("encoding(%d)", int(k))
}

func (k EncodingKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EncodingKind) UnmarshalText(b []byte) error {
	for kind, name := range encodingNames {
		if strings.EqualFold(string(b), name) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown encoding %q", b)
}

// Encoding configures the artifact's value type.
type Encoding struct {
	Kind EncodingKind `yaml:"kind"`
	// Width is 8 (UTF-8 bytes) or 16 (UTF-16 code units) for byte encodings.
	Width int `yaml:"width,omitempty" validate:"omitempty,oneof=8 16"`
	// Template wraps the text expression for custom encodings; it contains
	// Marker exactly once.
	Template string `yaml:"template,omitempty"`
	// Type names the custom value type, used for chunk slices.
	Type string `yaml:"type,omitempty"`
}

// Text is the plain text encoding.
func Text() Encoding { return Encoding{Kind: EncodingText} }

// Bytes is a byte sequence of the given width.
func Bytes(width int) Encoding { return Encoding{Kind: EncodingBytes, Width: width} }

// NulTerminated is a NUL-terminated UTF-8 byte sequence.
func NulTerminated() Encoding { return Encoding{Kind: EncodingNulTerminated, Width: 8} }

// Custom wraps the text expression in template.
func Custom(template string) Encoding { return Encoding{Kind: EncodingCustom, Template: template} }

// IsBytes reports whether e produces a byte sequence.
func (e Encoding) IsBytes() bool {
	return e.Kind == EncodingBytes || e.Kind == EncodingNulTerminated
}

func (e Encoding) width() int {
	if e.Width == 0 || e.Kind == EncodingNulTerminated {
		return 8
	}
	return e.Width
}

// RepresentationKind selects the artifact's shape.
type RepresentationKind int

const (
	Single RepresentationKind = iota
	Chunks
	Stream
)

var representationNames = map[RepresentationKind]string{
	Single: "single",
	Chunks: "chunks",
	Stream: "stream",
}

func (k RepresentationKind) String() string {
	if name, ok := representationNames[k]; ok {
		return name
	}
	return fmt.Sprintf("representation(%d)", int(k))
}

func (k RepresentationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *RepresentationKind) UnmarshalText(b []byte) error {
	for kind, name := range representationNames {
		if strings.EqualFold(string(b), name) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown representation %q", b)
}

// Representation configures the artifact's shape.
type Representation struct {
	Kind      RepresentationKind `yaml:"kind"`
	ChunkSize int                `yaml:"chunk_size,omitempty" validate:"gte=0"`
	// Optimized drops per-chunk self-contained wrapping where the value type
	// allows it. It never changes the concatenated content.
	Optimized bool `yaml:"optimized,omitempty"`
	// Delay is waited between stream chunks.
	Delay       time.Duration `yaml:"delay,omitempty" validate:"gte=0"`
	Synchronous bool          `yaml:"synchronous,omitempty"`
}

// SingleValue is the single-literal representation.
func SingleValue() Representation { return Representation{Kind: Single} }

// FixedChunks partitions into chunks of at most size characters.
func FixedChunks(size int, optimized bool) Representation {
	return Representation{Kind: Chunks, ChunkSize: size, Optimized: optimized}
}

// PushSequence streams chunks of at most size characters.
func PushSequence(size int, optimized bool, delay time.Duration, synchronous bool) Representation {
	return Representation{Kind: Stream, ChunkSize: size, Optimized: optimized, Delay: delay, Synchronous: synchronous}
}

// Validate checks an encoding/representation pair.
func Validate(enc Encoding, rep Representation) error {
	if err := validate.Struct(enc); err != nil {
		return invalid("encoding: %v", err)
	}
	if err := validate.Struct(rep); err != nil {
		return invalid("representation: %v", err)
	}
	if _, ok := encodingNames[enc.Kind]; !ok {
		return invalid("unknown encoding kind %d", int(enc.Kind))
	}
	if _, ok := representationNames[rep.Kind]; !ok {
		return invalid("unknown representation kind %d", int(rep.Kind))
	}
	if enc.Kind == EncodingCustom && strings.Count(enc.Template, Marker) != 1 {
		return invalid("custom template %q must contain %s exactly once", enc.Template, Marker)
	}
	if rep.Kind != Single && rep.ChunkSize < 1 {
		return invalid("chunk size must be at least 1, got %d", rep.ChunkSize)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return diag.NewFatal(diag.InvalidConfiguration, expr.Pos{}, format, args...)
}
