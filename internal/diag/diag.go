// Package diag carries compiler diagnostics from the pipeline to the host.
package diag

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/livefir/statichtml/internal/expr"
)

// Severity orders diagnostics by impact.
type Severity int

const (
	Warning Severity = iota
	Error
	FatalError
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	case FatalError:
		return "fatal"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Kind identifies what went wrong.
type Kind string

const (
	UnallowedExpression                     Kind = "UnallowedExpression"
	UnsafeInterpolationWarning              Kind = "UnsafeInterpolationWarning"
	CharacterNotAllowedInDeclaration        Kind = "CharacterNotAllowedInDeclaration"
	GlobalAttributeAlreadyDefined           Kind = "GlobalAttributeAlreadyDefined"
	InternalInconsistency                   Kind = "InternalInconsistency"
	ByteEncodingWithUnresolvedInterpolation Kind = "ByteEncodingWithUnresolvedInterpolation"
	LookupSourceUnavailable                 Kind = "LookupSourceUnavailable"
	VoidElementContent                      Kind = "VoidElementContent"
	InvalidConfiguration                    Kind = "InvalidConfiguration"
)

// DefaultSeverity returns the severity a kind is reported with.
func (k Kind) DefaultSeverity() Severity {
	switch k {
	case UnsafeInterpolationWarning, InternalInconsistency, LookupSourceUnavailable, VoidElementContent:
		return Warning
	case ByteEncodingWithUnresolvedInterpolation, InvalidConfiguration:
		return FatalError
	}
	return Error
}

// FixIt is a suggested source replacement.
type FixIt struct {
	Message     string
	Replacement string
}

// Diagnostic is one report.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Message  string
	Pos      expr.Pos
	FixIt    *FixIt
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s: %s (%s)", d.Pos, d.Severity, d.Message, d.Kind)
	if d.FixIt != nil {
		s += fmt.Sprintf("; fix: %s", d.FixIt.Message)
	}
	return s
}

// New builds a diagnostic with the kind's default severity.
func New(kind Kind, pos expr.Pos, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: kind.DefaultSeverity(),
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	}
}

// WithFixIt returns a copy of d carrying a fix-it.
func (d Diagnostic) WithFixIt(message, replacement string) Diagnostic {
	d.FixIt = &FixIt{Message: message, Replacement: replacement}
	return d
}

// Sink receives diagnostics. Reporting is fire-and-forget.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// Collector records diagnostics in report order. It is safe for concurrent
// use.
type Collector struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns a copy of everything reported so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// Kinds returns the reported kinds in order.
func (c *Collector) Kinds() []Kind {
	var kinds []Kind
	for _, d := range c.Diagnostics() {
		kinds = append(kinds, d.Kind)
	}
	return kinds
}

// Has reports whether a diagnostic of kind was reported.
func (c *Collector) Has(kind Kind) bool {
	for _, d := range c.Diagnostics() {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics at or above min.
func (c *Collector) Count(min Severity) int {
	n := 0
	for _, d := range c.Diagnostics() {
		if d.Severity >= min {
			n++
		}
	}
	return n
}

// Err returns the reported errors as a List, or nil when only warnings
// were reported.
func (c *Collector) Err() error {
	var list List
	for _, d := range c.Diagnostics() {
		if d.Severity >= Error {
			list = append(list, d)
		}
	}
	if len(list) == 0 {
		return nil
	}
	return list
}

// LogSink writes diagnostics through the standard logger.
type LogSink struct {
	Logger *log.Logger
}

func (s LogSink) Report(d Diagnostic) {
	if s.Logger != nil {
		s.Logger.Printf("%s", d)
		return
	}
	log.Printf("%s", d)
}

// Tee forwards every diagnostic to each sink.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(d Diagnostic) {
		for _, s := range sinks {
			if s != nil {
				s.Report(d)
			}
		}
	})
}

// Fatal aborts a render request.
type Fatal struct {
	Diagnostic Diagnostic
}

func (e *Fatal) Error() string {
	return e.Diagnostic.String()
}

// NewFatal builds a fatal error for kind.
func NewFatal(kind Kind, pos expr.Pos, format string, args ...any) *Fatal {
	d := New(kind, pos, format, args...)
	d.Severity = FatalError
	return &Fatal{Diagnostic: d}
}

// List is a collection of error diagnostics.
type List []Diagnostic

func (l List) Error() string {
	if len(l) == 0 {
		return ""
	}
	var msgs []string
	for _, d := range l {
		msgs = append(msgs, d.String())
	}
	return strings.Join(msgs, "; ")
}
