package pipeline

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// FootnoteLabelID is the id of the screen-reader heading that labels the
// footnote section.
const FootnoteLabelID = "footnote-label"

// footnotes is goldmark's footnote extension with the list wrapper replaced
// by a labelled <section>.
var footnotes goldmark.Extender = &footnoteExtension{}

type footnoteExtension struct{}

// Extend registers the stock footnote parsers and the wrapping renderer.
// Priorities match extension.Footnote.
func (e *footnoteExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(extension.NewFootnoteBlockParser(), 999),
		),
		parser.WithInlineParsers(
			util.Prioritized(extension.NewFootnoteParser(), 101),
		),
		parser.WithASTTransformers(
			util.Prioritized(extension.NewFootnoteASTTransformer(), 999),
		),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&footnoteRenderer{inner: extension.NewFootnoteHTMLRenderer()}, 500),
	))
}

// footnoteRenderer delegates to goldmark's footnote renderer except for the
// footnote list, which it renders itself.
type footnoteRenderer struct {
	inner renderer.NodeRenderer
}

// SetOption forwards renderer options (XHTML, unsafe) to the wrapped renderer.
func (r *footnoteRenderer) SetOption(name renderer.OptionName, value any) {
	if so, ok := r.inner.(renderer.SetOptioner); ok {
		so.SetOption(name, value)
	}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *footnoteRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	r.inner.RegisterFuncs(listOverride{reg})
}

// listOverride swaps in renderFootnoteList as footnote list renderer.
type listOverride struct {
	renderer.NodeRendererFuncRegisterer
}

func (o listOverride) Register(kind ast.NodeKind, fn renderer.NodeRendererFunc) {
	if kind == east.KindFootnoteList {
		fn = renderFootnoteList
	}
	o.NodeRendererFuncRegisterer.Register(kind, fn)
}

// renderFootnoteList wraps footnotes in a section labelled by a visually hidden heading.
func renderFootnoteList(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<section class="footnotes" role="doc-endnotes" aria-labelledby="` + FootnoteLabelID + `"`)
		if node.Attributes() != nil {
			html.RenderAttributes(w, node, html.GlobalAttributeFilter)
		}
		_, _ = w.WriteString(">\n")
		_, _ = w.WriteString(`<h2 class="sr-only" id="` + FootnoteLabelID + `">Footnotes</h2>` + "\n")
		_, _ = w.WriteString(`<ol class="footnotes-list">` + "\n")
	} else {
		_, _ = w.WriteString("</ol>\n")
		_, _ = w.WriteString("</section>\n")
	}
	return ast.WalkContinue, nil
}
