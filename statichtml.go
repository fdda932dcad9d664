// Package statichtml is a compile-time HTML template compiler. It renders a
// tree of element declarations into one literal, folding run-time symbol
// references into constants where declaration tables prove their value, and
// shapes the literal into a text value, a byte sequence, fixed chunks or a
// push sequence together with the Go source that constructs it.
package statichtml

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/livefir/statichtml/internal/catalog"
	"github.com/livefir/statichtml/internal/config"
	"github.com/livefir/statichtml/internal/diag"
	"github.com/livefir/statichtml/internal/encode"
	"github.com/livefir/statichtml/internal/escape"
	"github.com/livefir/statichtml/internal/extract"
	"github.com/livefir/statichtml/internal/fold"
	"github.com/livefir/statichtml/internal/literal"
	"github.com/livefir/statichtml/internal/metrics"
	"github.com/livefir/statichtml/internal/node"
	"github.com/livefir/statichtml/internal/render"
	"github.com/livefir/statichtml/internal/source"
)

// Config holds compiler configuration options
type Config struct {
	LookupSources          []string        // Searched in order when folding; the first match wins
	Provider               source.Provider // Reads lookup sources; defaults to the working directory
	Resolver               *fold.Resolver  // Shared parse-once cache; overrides Provider
	Values                 *catalog.Values // Attribute value enumerations
	VoidElements           []string        // Custom elements rendered without content
	Constructors           []string        // Calls unwrapped to their static string argument
	Delimiter              rune            // Attribute value delimiter
	Minify                 bool            // Minify fully static output
	SuppressUnsafeWarnings bool            // Silence unsafe interpolation warnings
	Logger                 *log.Logger     // Defaults to the standard logger
	LogDiagnostics         bool            // Log every diagnostic
}

// Option is a functional option for configuring a Compiler
type Option func(*Config)

// WithLookupSources appends lookup sources, searched in order
func WithLookupSources(ids ...string) Option {
	return func(c *Config) {
		c.LookupSources = append(c.LookupSources, ids...)
	}
}

// WithProvider sets where lookup sources are read from
func WithProvider(p source.Provider) Option {
	return func(c *Config) {
		c.Provider = p
	}
}

// WithResolver shares a resolver, and its cache, between compilers
func WithResolver(r *fold.Resolver) Option {
	return func(c *Config) {
		c.Resolver = r
	}
}

// WithValues replaces the attribute value catalog
func WithValues(v *catalog.Values) Option {
	return func(c *Config) {
		c.Values = v
	}
}

// WithVoidElements registers custom void elements
func WithVoidElements(tags ...string) Option {
	return func(c *Config) {
		c.VoidElements = append(c.VoidElements, tags...)
	}
}

// WithConstructors replaces the calls recognized as static string wrappers
func WithConstructors(names ...string) Option {
	return func(c *Config) {
		c.Constructors = names
	}
}

// WithDelimiter sets the attribute value delimiter
func WithDelimiter(r rune) Option {
	return func(c *Config) {
		c.Delimiter = r
	}
}

// WithMinify minifies rendered markup that has no run-time values
func WithMinify() Option {
	return func(c *Config) {
		c.Minify = true
	}
}

// WithUnsafeWarningsSuppressed disables unsafe interpolation warnings
func WithUnsafeWarningsSuppressed() Option {
	return func(c *Config) {
		c.SuppressUnsafeWarnings = true
	}
}

// WithLogger sets the logger for render failures and logged diagnostics
func WithLogger(l *log.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithDiagnosticLogging logs every diagnostic as it is reported
func WithDiagnosticLogging() Option {
	return func(c *Config) {
		c.LogDiagnostics = true
	}
}

// WithConfig applies a loaded configuration file. Source directories and
// stores are opened by the caller and passed through WithProvider.
func WithConfig(f *config.Config) Option {
	return func(c *Config) {
		c.LookupSources = append(c.LookupSources, f.LookupSources...)
		c.VoidElements = append(c.VoidElements, f.VoidElements...)
		if len(f.Constructors) > 0 {
			c.Constructors = f.Constructors
		}
		c.Delimiter = f.DelimiterRune()
		c.Minify = c.Minify || f.Minify
		c.SuppressUnsafeWarnings = c.SuppressUnsafeWarnings || f.SuppressUnsafeWarnings
		c.LogDiagnostics = c.LogDiagnostics || f.LogDiagnostics
	}
}

// Compiler renders element declarations. It is safe for concurrent use;
// all requests share one resolver cache.
type Compiler struct {
	config    Config
	tags      catalog.Tags
	extractor *extract.Extractor
	resolver  *fold.Resolver
	encoder   encode.Encoder
	metrics   *metrics.Collector
}

// New creates a compiler with the given options.
func New(opts ...Option) *Compiler {
	// Default configuration
	cfg := Config{
		Delimiter: render.DefaultDelimiter,
	}

	// Apply options
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Values == nil {
		cfg.Values = catalog.DefaultValues()
	}
	if cfg.Provider == nil {
		cfg.Provider = source.Dir(".")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	c := &Compiler{
		config:   cfg,
		resolver: cfg.Resolver,
		metrics:  metrics.NewCollector(),
	}
	if c.resolver == nil {
		c.resolver = fold.NewResolver(cfg.Provider)
	}

	c.tags = catalog.Tags{ExtraVoid: make(map[string]bool, len(cfg.VoidElements))}
	for _, tag := range cfg.VoidElements {
		c.tags.ExtraVoid[strings.ToLower(tag)] = true
	}

	c.extractor = extract.New(extract.CatalogRegistry(cfg.Values), nil)
	if cfg.Constructors != nil {
		c.extractor.Constructors = make(map[string]bool, len(cfg.Constructors))
		for _, name := range cfg.Constructors {
			c.extractor.Constructors[name] = true
		}
	}
	return c
}

// Render assembles d, renders it and encodes the result. Non-fatal
// diagnostics go to sink and drop the smallest affected unit; fatal ones
// abort the request with an error wrapping *Fatal.
func (c *Compiler) Render(ctx context.Context, d *ElementDecl, enc Encoding, rep Representation, sink Sink) (*Artifact, error) {
	return c.render(ctx, d, enc, rep, sink, c.config.LookupSources)
}

func (c *Compiler) render(ctx context.Context, d *ElementDecl, enc Encoding, rep Representation, sink Sink, sources []string) (*Artifact, error) {
	c.metrics.IncrementRenderStarted()
	sink = c.sink(sink)

	if err := encode.Validate(enc, rep); err != nil {
		return nil, c.fail(d.Tag, err)
	}

	asm := &node.Assembler{
		Tags:      c.tags,
		Extractor: c.extractor.WithSink(sink),
		Sink:      sink,
	}
	el, err := asm.Element(d)
	if err != nil {
		return nil, c.fail(d.Tag, err)
	}
	return c.renderTree(ctx, el, enc, rep, sink, sources)
}

// RenderTree renders an already assembled element tree.
func (c *Compiler) RenderTree(ctx context.Context, el *Element, enc Encoding, rep Representation, sink Sink) (*Artifact, error) {
	c.metrics.IncrementRenderStarted()
	return c.renderTree(ctx, el, enc, rep, c.sink(sink), c.config.LookupSources)
}

func (c *Compiler) renderTree(ctx context.Context, el *Element, enc Encoding, rep Representation, sink Sink, sources []string) (*Artifact, error) {
	lookup := c.resolver.Lookup(ctx, sources, sink)
	r := &render.Renderer{
		Lookup:                 lookup,
		Sink:                   sink,
		Delimiter:              c.config.Delimiter,
		SuppressUnsafeWarnings: c.config.SuppressUnsafeWarnings,
	}
	lit := r.Render(el, false)
	c.metrics.RecordFolding(lookup.Folded, lookup.Unfolded)

	if c.config.Minify {
		if text, ok := lit.Text(); ok {
			lit = literal.Composite{literal.Text(minifyHTML(text))}
			c.metrics.IncrementCustomCounter("minified")
		}
	}

	a, err := c.encoder.Encode(lit, enc, rep)
	if err != nil {
		return nil, c.fail(el.Tag, err)
	}

	c.metrics.IncrementRenderCompleted(literalLength(lit))
	c.metrics.RecordEncoding(len(a.Chunks), encodedBytes(a))
	return a, nil
}

// sink wraps the caller's sink with metrics and optional logging.
func (c *Compiler) sink(s Sink) Sink {
	sinks := []Sink{s, diag.SinkFunc(func(d diag.Diagnostic) {
		if d.Severity == diag.Warning {
			c.metrics.IncrementWarning()
		} else {
			c.metrics.IncrementError()
		}
	})}
	if c.config.LogDiagnostics {
		sinks = append(sinks, diag.LogSink{Logger: c.config.Logger})
	}
	return diag.Tee(sinks...)
}

func (c *Compiler) fail(tag string, err error) error {
	c.metrics.IncrementRenderFailed()
	c.metrics.IncrementError()
	c.config.Logger.Printf("statichtml: render of <%s> failed: %v", tag, err)
	return fmt.Errorf("failed to render <%s>: %w", tag, err)
}

// Metrics returns a snapshot of the compiler's counters.
func (c *Compiler) Metrics() Metrics {
	return c.metrics.GetMetrics()
}

// FoldingRate returns the percentage of interpolations folded to constants.
func (c *Compiler) FoldingRate() float64 {
	return c.metrics.GetFoldingRate()
}

// Resolver returns the compiler's lookup-source cache.
func (c *Compiler) Resolver() *fold.Resolver {
	return c.resolver
}

// EscapeStandalone escapes text for merging into a tree as raw content.
func EscapeStandalone(text string, attributes bool) string {
	return escape.Standalone(text, attributes)
}

func literalLength(lit literal.Composite) int {
	n := 0
	for _, piece := range lit {
		switch p := piece.(type) {
		case literal.Text:
			n += len(p)
		default:
			src, _ := literal.SourceOf(p)
			n += len(src)
		}
	}
	return n
}

func encodedBytes(a *Artifact) int {
	n := len(a.Bytes) + 2*len(a.Units)
	for _, b := range a.ByteChunks {
		n += len(b)
	}
	for _, u := range a.UnitChunks {
		n += 2 * len(u)
	}
	return n
}
