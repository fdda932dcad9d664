package statichtml

import (
	"bytes"
	"context"
	"errors"
	"log"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/livefir/statichtml/internal/diag"
	"github.com/livefir/statichtml/internal/encode"
	"github.com/livefir/statichtml/internal/source"
)

const shrekSource = `package films

type Shrek int

const (
	isLove Shrek = iota
	isLife
)

const Title = "Shrek"
`

func mustExpr(t *testing.T, src string) Expr {
	t.Helper()
	e, err := ParseExpr(src)
	if err != nil {
		t.Fatalf("ParseExpr(%q) failed: %v", src, err)
	}
	return e
}

func newTestCompiler(opts ...Option) *Compiler {
	opts = append([]Option{
		WithProvider(source.Map{"shrek.go": shrekSource}),
		WithLogger(log.New(&bytes.Buffer{}, "", 0)),
	}, opts...)
	return New(opts...)
}

func TestRenderScenarios(t *testing.T) {
	tests := []struct {
		name     string
		decl     func(t *testing.T) *ElementDecl
		opts     []Option
		expected string
	}{
		{
			name: "div with class and text",
			decl: func(t *testing.T) *ElementDecl {
				return &ElementDecl{
					Tag:        "div",
					Attributes: []AttributeDecl{{Key: "class", Value: mustExpr(t, `[]string{"row"}`)}},
					Children:   []ChildDecl{{Expr: Static("hi")}},
				}
			},
			expected: `<div class="row">hi</div>`,
		},
		{
			name: "void element with trailing slash",
			decl: func(t *testing.T) *ElementDecl {
				return &ElementDecl{Tag: "meta", TrailingSlash: true}
			},
			expected: `<meta />`,
		},
		{
			name: "comma separated coords",
			decl: func(t *testing.T) *ElementDecl {
				return &ElementDecl{
					Tag:        "area",
					Attributes: []AttributeDecl{{Key: "coords", Value: mustExpr(t, `[]int{1, 2, 3}`)}},
				}
			},
			expected: `<area coords="1,2,3">`,
		},
		{
			name: "attribute text is escaped",
			decl: func(t *testing.T) *ElementDecl {
				return &ElementDecl{
					Tag:        "div",
					Attributes: []AttributeDecl{{Key: "title", Value: Static("<p>")}},
				}
			},
			expected: `<div title="&lt;p&gt;"></div>`,
		},
		{
			name: "enumerated case folds to its name",
			decl: func(t *testing.T) *ElementDecl {
				return &ElementDecl{
					Tag:      "p",
					Children: []ChildDecl{{Expr: mustExpr(t, "Shrek.isLove"), Dynamic: true}},
				}
			},
			opts:     []Option{WithLookupSources("shrek.go")},
			expected: `<p>isLove</p>`,
		},
		{
			name: "catalog enumeration",
			decl: func(t *testing.T) *ElementDecl {
				return &ElementDecl{
					Tag:        "a",
					Attributes: []AttributeDecl{{Key: "target", Value: mustExpr(t, "Target.blank")}},
				}
			},
			expected: `<a target="_blank"></a>`,
		},
		{
			name: "custom delimiter",
			decl: func(t *testing.T) *ElementDecl {
				return &ElementDecl{
					Tag:        "div",
					Attributes: []AttributeDecl{{Key: "data-x", Value: Static("a")}},
				}
			},
			opts:     []Option{WithDelimiter('\'')},
			expected: `<div data-x='a'></div>`,
		},
		{
			name: "custom void element",
			decl: func(t *testing.T) *ElementDecl {
				return &ElementDecl{
					Tag:      "x-icon",
					Children: []ChildDecl{{Expr: Static("ignored")}},
				}
			},
			opts:     []Option{WithVoidElements("X-Icon")},
			expected: `<x-icon>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCompiler(tt.opts...)
			a, err := c.Render(context.Background(), tt.decl(t), Text(), Single(), diag.Discard)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			got, ok := a.Text()
			if !ok {
				t.Fatalf("Expected static output, got %v", a.Literal)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestRenderChunks(t *testing.T) {
	c := newTestCompiler()
	d := &ElementDecl{Tag: "div", Children: []ChildDecl{{Expr: Static("oh yeah")}}}

	a, err := c.Render(context.Background(), d, Text(), FixedChunks(3, false), nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	chunks, ok := a.ChunkTexts()
	if !ok {
		t.Fatal("Expected static chunks")
	}
	want := []string{"<di", "v>o", "h y", "eah", "</d", "iv>"}
	if diff := cmp.Diff(want, chunks); diff != "" {
		t.Errorf("Chunks mismatch (-want +got):\n%s", diff)
	}
	if strings.Join(chunks, "") != "<div>oh yeah</div>" {
		t.Errorf("Chunks do not concatenate to the literal: %q", chunks)
	}
	if a.Source != `[]string{"<di", "v>o", "h y", "eah", "</d", "iv>"}` {
		t.Errorf("Unexpected source %s", a.Source)
	}
}

func TestRenderPushSequenceSource(t *testing.T) {
	c := newTestCompiler()
	d := &ElementDecl{Tag: "b", Children: []ChildDecl{{Expr: Static("go")}}}

	a, err := c.Render(context.Background(), d, Text(), PushSequence(4, false, 10*time.Millisecond, false), nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	expected := `stream.New([]string{"<b>g", "o</b", ">"}, stream.WithDelay(10 * time.Millisecond))`
	if a.Source != expected {
		t.Errorf("Expected %s, got %s", expected, a.Source)
	}
	if !slices.Contains(a.Imports, encode.StreamImportPath) || !slices.Contains(a.Imports, "time") {
		t.Errorf("Expected stream and time imports, got %v", a.Imports)
	}
}

func TestRenderUnresolvedInterpolation(t *testing.T) {
	c := newTestCompiler()
	d := &ElementDecl{
		Tag:        "div",
		Attributes: []AttributeDecl{{Key: "title", Value: mustExpr(t, "user.Name")}},
	}

	diags := diag.NewCollector()
	a, err := c.Render(context.Background(), d, Text(), Single(), diags)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !diags.Has(diag.UnsafeInterpolationWarning) {
		t.Errorf("Expected an unsafe interpolation warning, got %v", diags.Kinds())
	}
	expected := `"<div title=\"" + user.Name + "\"></div>"`
	if a.Source != expected {
		t.Errorf("Expected %s, got %s", expected, a.Source)
	}

	// Byte encodings cannot carry the run-time value.
	_, err = c.Render(context.Background(), d, Bytes(8), Single(), diag.Discard)
	var fatal *Fatal
	if !errors.As(err, &fatal) {
		t.Fatalf("Expected a fatal error, got %v", err)
	}
	if fatal.Diagnostic.Kind != diag.ByteEncodingWithUnresolvedInterpolation {
		t.Errorf("Expected ByteEncodingWithUnresolvedInterpolation, got %s", fatal.Diagnostic.Kind)
	}
}

func TestRenderSuppressedWarnings(t *testing.T) {
	c := newTestCompiler(WithUnsafeWarningsSuppressed())
	d := &ElementDecl{
		Tag:      "p",
		Children: []ChildDecl{{Expr: mustExpr(t, "user.Name"), Dynamic: true}},
	}

	diags := diag.NewCollector()
	if _, err := c.Render(context.Background(), d, Text(), Single(), diags); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if n := len(diags.Diagnostics()); n != 0 {
		t.Errorf("Expected no diagnostics, got %v", diags.Diagnostics())
	}
}

func TestRenderRecoverableDiagnostics(t *testing.T) {
	c := newTestCompiler()
	d := &ElementDecl{
		Tag: "area",
		Attributes: []AttributeDecl{
			{Key: "coords", Value: mustExpr(t, `[]string{"1,2", "3"}`)},
			{Key: "alt", Value: Static("first")},
			{Key: "alt", Value: Static("second")},
		},
	}

	diags := diag.NewCollector()
	a, err := c.Render(context.Background(), d, Text(), Single(), diags)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got, _ := a.Text()
	if got != `<area alt="first">` {
		t.Errorf("Expected coords dropped and first alt kept, got %q", got)
	}

	want := []diag.Kind{diag.CharacterNotAllowedInDeclaration, diag.GlobalAttributeAlreadyDefined}
	if diff := cmp.Diff(want, diags.Kinds()); diff != "" {
		t.Errorf("Diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderRequiredChildFails(t *testing.T) {
	c := newTestCompiler()
	d := &ElementDecl{
		Tag:      "p",
		Children: []ChildDecl{{Expr: mustExpr(t, "user.Name"), Required: true}},
	}

	a, err := c.Render(context.Background(), d, Text(), Single(), diag.Discard)
	if err == nil {
		t.Fatalf("Expected an error, got artifact %v", a)
	}
	var fatal *Fatal
	if !errors.As(err, &fatal) || fatal.Diagnostic.Kind != diag.UnallowedExpression {
		t.Errorf("Expected fatal UnallowedExpression, got %v", err)
	}

	m := c.Metrics()
	if m.RendersFailed != 1 || m.RendersCompleted != 0 {
		t.Errorf("Expected one failed render, got %+v", m)
	}
}

func TestRenderInvalidConfiguration(t *testing.T) {
	c := newTestCompiler()
	d := &ElementDecl{Tag: "p"}

	_, err := c.Render(context.Background(), d, Custom("wrap()"), Single(), nil)
	var fatal *Fatal
	if !errors.As(err, &fatal) || fatal.Diagnostic.Kind != diag.InvalidConfiguration {
		t.Errorf("Expected InvalidConfiguration, got %v", err)
	}
}

func TestRenderMinify(t *testing.T) {
	c := newTestCompiler(WithMinify())
	d := &ElementDecl{
		Tag:        "div",
		Attributes: []AttributeDecl{{Key: "class", Value: Static("row")}},
		Children:   []ChildDecl{{Expr: Static("\n    hi   there\n")}},
	}

	a, err := c.Render(context.Background(), d, Text(), Single(), nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	got, _ := a.Text()
	if strings.Contains(got, "  ") || strings.Contains(got, "\n") {
		t.Errorf("Expected collapsed whitespace, got %q", got)
	}
	if !strings.Contains(got, `class="row"`) || !strings.Contains(got, "hi there") {
		t.Errorf("Minification changed content: %q", got)
	}
}

func TestRenderLogsDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	c := New(
		WithLogger(log.New(&buf, "", 0)),
		WithDiagnosticLogging(),
	)
	d := &ElementDecl{
		Tag:        "div",
		Attributes: []AttributeDecl{{Key: "id", Value: mustExpr(t, "page.ID")}},
	}

	if _, err := c.Render(context.Background(), d, Text(), Single(), nil); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), string(diag.UnsafeInterpolationWarning)) {
		t.Errorf("Expected the warning to be logged, got %q", buf.String())
	}
}

func TestCompilerMetrics(t *testing.T) {
	c := newTestCompiler(WithLookupSources("shrek.go"))
	d := &ElementDecl{
		Tag: "p",
		Attributes: []AttributeDecl{
			{Key: "title", Value: mustExpr(t, "films.Title")},
			{Key: "id", Value: mustExpr(t, "page.ID")},
		},
	}

	if _, err := c.Render(context.Background(), d, Text(), FixedChunks(8, false), nil); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	m := c.Metrics()
	if m.RendersStarted != 1 || m.RendersCompleted != 1 {
		t.Errorf("Expected one completed render, got %+v", m)
	}
	if m.InterpolationsFolded != 1 || m.InterpolationsUnfolded != 1 {
		t.Errorf("Expected one folded and one unfolded interpolation, got %d/%d",
			m.InterpolationsFolded, m.InterpolationsUnfolded)
	}
	if m.Warnings != 1 {
		t.Errorf("Expected one warning, got %d", m.Warnings)
	}
	if m.ChunksEmitted == 0 {
		t.Error("Expected chunks to be counted")
	}
	if rate := c.FoldingRate(); rate != 50.0 {
		t.Errorf("Expected folding rate 50%%, got %.1f%%", rate)
	}
}

func TestSharedResolverParsesOnce(t *testing.T) {
	first := newTestCompiler(WithLookupSources("shrek.go"))
	second := New(WithResolver(first.Resolver()), WithLookupSources("shrek.go"))
	d := &ElementDecl{
		Tag:      "p",
		Children: []ChildDecl{{Expr: mustExpr(t, "Shrek.isLife"), Dynamic: true}},
	}

	for _, c := range []*Compiler{first, second, first} {
		a, err := c.Render(context.Background(), d, Text(), Single(), nil)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if got, _ := a.Text(); got != "<p>isLife</p>" {
			t.Errorf("Expected <p>isLife</p>, got %q", got)
		}
	}

	if parses := first.Resolver().Stats().Parses; parses != 1 {
		t.Errorf("Expected 1 parse, got %d", parses)
	}
}

func TestEscapeStandalone(t *testing.T) {
	tests := []struct {
		text       string
		attributes bool
		expected   string
	}{
		{`<a href="x">`, false, `&lt;a href="x"&gt;`},
		{`<a href="x">`, true, `&lt;a href=&quot;x&quot;&gt;`},
		{`it's & co`, true, `it&#39s &amp; co`},
		{"", true, ""},
	}

	for _, tt := range tests {
		if got := EscapeStandalone(tt.text, tt.attributes); got != tt.expected {
			t.Errorf("EscapeStandalone(%q, %v) = %q, expected %q", tt.text, tt.attributes, got, tt.expected)
		}
	}
}
