package statichtml

import (
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

var (
	minifier *minify.M
	once     sync.Once
)

// getMinifier returns a configured HTML minifier (singleton)
func getMinifier() *minify.M {
	once.Do(func() {
		minifier = minify.New()
		minifier.Add("text/html", &html.Minifier{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			KeepQuotes:       true,
		})
	})
	return minifier
}

// minifyHTML removes unnecessary whitespace from rendered markup. Markup the
// minifier rejects is returned unchanged.
func minifyHTML(markup string) string {
	minified, err := getMinifier().String("text/html", markup)
	if err != nil {
		return markup
	}
	return minified
}
