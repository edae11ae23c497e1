package pipeline

import (
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
)

// Media types handled by Minifier.
const (
	mediaTypeCSS  = "text/css"
	mediaTypeHTML = "text/html"
)

// Minifier minifies HTML documents together with their inline CSS, JavaScript
// and JSON. Safe for concurrent use.
type Minifier struct {
	m *minify.M
}

// NewMinifier creates a Minifier. Document tags, end tags and attribute
// quotes are kept so that minified output stays a fixed point.
func NewMinifier() *Minifier {
	m := minify.New()
	m.AddFunc(mediaTypeCSS, css.Minify)
	m.Add(mediaTypeHTML, &html.Minifier{
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
		KeepDefaultAttrVals: true,
	})
	m.AddFuncRegexp(regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`), js.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`[/+]json$`), json.Minify)
	return &Minifier{m: m}
}

// CSS minifies a stylesheet.
func (m *Minifier) CSS(stylesheet string) (string, error) {
	return m.m.String(mediaTypeCSS, stylesheet)
}

// HTML minifies a document: whitespace collapses, comments go, inline styles
// and scripts are minified and the doctype becomes <!doctype html>.
func (m *Minifier) HTML(document string) (string, error) {
	return m.m.String(mediaTypeHTML, document)
}
