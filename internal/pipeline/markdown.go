package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// ErrMarkdownRender indicates goldmark failed to render a document.
var ErrMarkdownRender = errors.New("markdown rendering failed")

// crlfOrCR matches Windows and classic Mac line endings.
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// MarkdownRenderer converts Markdown to HTML fragments with a fixed configuration:
// raw HTML passes through, single newlines become <br>, bare URLs become links,
// and footnotes render inside an accessible section.
// Safe for concurrent use.
type MarkdownRenderer struct {
	md goldmark.Markdown
}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // Tables, strikethrough, linkify, task lists
			footnotes,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // .chroma classes, styled by the site stylesheet
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),    // Raw HTML in source passes through
			html.WithHardWraps(), // Treat newlines as <br>
		),
	)
	return &MarkdownRenderer{md: md}
}

// RenderBlock renders Markdown source to block-level HTML.
// Malformed Markdown never fails: unrecognized syntax renders as text.
func (r *MarkdownRenderer) RenderBlock(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(normalizeLineEndings(src)), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkdownRender, err)
	}
	return buf.String(), nil
}

// RenderInline renders Markdown source without a wrapping block element.
// When the source is a single paragraph its <p> wrapper is dropped; other
// block structures are returned as rendered.
func (r *MarkdownRenderer) RenderInline(src string) (string, error) {
	source := []byte(normalizeLineEndings(src))
	doc := r.md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, source, doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkdownRender, err)
	}

	out := buf.String()
	if doc.ChildCount() == 1 && doc.FirstChild().Kind() == ast.KindParagraph {
		out = strings.TrimSuffix(out, "\n")
		out = strings.TrimPrefix(out, "<p>")
		out = strings.TrimSuffix(out, "</p>")
	}
	return out, nil
}

// RenderBlockContext is RenderBlock with cancellation.
// Goldmark doesn't support context natively, so conversion runs in a goroutine.
func (r *MarkdownRenderer) RenderBlockContext(ctx context.Context, src string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		out, err := r.RenderBlock(src)
		done <- result{html: out, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}
