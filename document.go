package statichtml

import (
	"context"

	"github.com/livefir/statichtml/internal/document"
)

// Document is an element tree read from a YAML document.
type Document = document.Document

// LoadDocument reads the YAML document at path.
func LoadDocument(path string) (*Document, error) {
	return document.Load(path)
}

// ParseDocument parses a YAML document; name attributes positions.
func ParseDocument(name string, data []byte) (*Document, error) {
	return document.Parse(name, data)
}

// RenderDocument renders doc. Its lookup sources are searched before the
// compiler's, and its encoding and representation override enc and rep.
func (c *Compiler) RenderDocument(ctx context.Context, doc *Document, enc Encoding, rep Representation, sink Sink) (*Artifact, error) {
	d, err := doc.Decl()
	if err != nil {
		tag := doc.Name
		if doc.Element != nil {
			tag = doc.Element.Tag
		}
		c.metrics.IncrementRenderStarted()
		return nil, c.fail(tag, err)
	}
	if doc.Encoding != nil {
		enc = *doc.Encoding
	}
	if doc.Representation != nil {
		rep = *doc.Representation
	}

	sources := make([]string, 0, len(doc.LookupSources)+len(c.config.LookupSources))
	sources = append(sources, doc.LookupSources...)
	sources = append(sources, c.config.LookupSources...)
	return c.render(ctx, d, enc, rep, sink, sources)
}
