package statichtml

import (
	"time"

	"github.com/livefir/statichtml/internal/diag"
	"github.com/livefir/statichtml/internal/encode"
	"github.com/livefir/statichtml/internal/expr"
	"github.com/livefir/statichtml/internal/goexpr"
	"github.com/livefir/statichtml/internal/metrics"
	"github.com/livefir/statichtml/internal/node"
)

// Element declarations a host builds.
type (
	ElementDecl   = node.ElementDecl
	AttributeDecl = node.AttributeDecl
	ChildDecl     = node.ChildDecl
	Expr          = expr.Expr
	Pos           = expr.Pos
)

// Assembled element trees.
type (
	Element   = node.Element
	Attribute = node.Attribute
	Content   = node.Content
)

// Output configuration and result.
type (
	Encoding       = encode.Encoding
	Representation = encode.Representation
	Artifact       = encode.Artifact
)

// Diagnostics.
type (
	Diagnostic = diag.Diagnostic
	Sink       = diag.Sink
	Kind       = diag.Kind
	Fatal      = diag.Fatal
)

// Metrics is a snapshot of compiler counters.
type Metrics = metrics.CompilerMetrics

// ParseExpr parses a Go expression into a declaration value.
func ParseExpr(src string) (Expr, error) {
	return goexpr.Parse(src)
}

// Static returns a static string declaration value.
func Static(s string) Expr {
	return expr.StaticString(s)
}

// Text is the plain text encoding.
func Text() Encoding { return encode.Text() }

// Bytes is a byte sequence of width 8 or 16.
func Bytes(width int) Encoding { return encode.Bytes(width) }

// NulTerminated is a NUL-terminated byte sequence.
func NulTerminated() Encoding { return encode.NulTerminated() }

// Custom wraps the text value in template at its "$0" marker.
func Custom(template string) Encoding { return encode.Custom(template) }

// Single is the single-value representation.
func Single() Representation { return encode.SingleValue() }

// FixedChunks partitions the literal into chunks of at most size characters.
func FixedChunks(size int, optimized bool) Representation {
	return encode.FixedChunks(size, optimized)
}

// PushSequence streams chunks of at most size characters.
func PushSequence(size int, optimized bool, delay time.Duration, synchronous bool) Representation {
	return encode.PushSequence(size, optimized, delay, synchronous)
}
