package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/aymerick/douceur/css"
)

// Sentinel errors for the asset transform pipeline.
var (
	ErrCSSPurge       = errors.New("CSS purge failed")
	ErrMinify         = errors.New("minification failed")
	ErrStylesheetLoad = errors.New("loading stylesheet failed")
)

// StylesheetSource loads a stylesheet by path. assets.AssetLoader satisfies it.
type StylesheetSource interface {
	LoadStyle(path string) (string, error)
}

// Config configures a Pipeline.
type Config struct {
	Production  bool             // Transforms run only in production
	Stylesheets []string         // Critical stylesheets, read on every transform
	Source      StylesheetSource // Where Stylesheets are read from
	Safelist    []SafelistEntry  // nil means DefaultSafelist()
}

// Pipeline post-processes rendered pages: critical CSS is purged, minified and
// inlined, then the document is minified. It holds no per-page state and is
// safe for concurrent use.
type Pipeline struct {
	production  bool
	stylesheets []string
	source      StylesheetSource
	safelist    *Safelist
	minifier    *Minifier
	injector    CSSInjector
}

// New creates a Pipeline.
func New(cfg Config) (*Pipeline, error) {
	entries := cfg.Safelist
	if entries == nil {
		entries = DefaultSafelist()
	}
	safelist, err := NewSafelist(entries)
	if err != nil {
		return nil, err
	}
	if len(cfg.Stylesheets) > 0 && cfg.Source == nil {
		return nil, fmt.Errorf("%w: no stylesheet source", ErrStylesheetLoad)
	}

	return &Pipeline{
		production:  cfg.Production,
		stylesheets: slices.Clone(cfg.Stylesheets),
		source:      cfg.Source,
		safelist:    safelist,
		minifier:    NewMinifier(),
		injector:    &CSSInjection{},
	}, nil
}

// Production reports whether Transform is active.
func (p *Pipeline) Production() bool {
	return p.production
}

// IsHTMLOutput reports whether an output path is an HTML page. The extension
// match ignores case.
func IsHTMLOutput(outputPath string) bool {
	return strings.EqualFold(path.Ext(outputPath), ".html")
}

// Transform applies InlineCriticalCSS then MinifyHTML to an HTML page.
// Outside production, and for output paths without an .html extension,
// the content is returned unchanged.
// Errors abort the page; there is no partial fallback.
func (p *Pipeline) Transform(ctx context.Context, content, outputPath string) (string, error) {
	if !p.production || !IsHTMLOutput(outputPath) {
		return content, nil
	}

	inlined, err := p.InlineCriticalCSS(ctx, content)
	if err != nil {
		return "", fmt.Errorf("%s: %w", outputPath, err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	minified, err := p.MinifyHTML(inlined)
	if err != nil {
		return "", fmt.Errorf("%s: %w", outputPath, err)
	}
	return minified, nil
}

// InlineCriticalCSS keeps the rules of the critical stylesheets that apply to
// the page, minifies them and injects them as a <style> block at the end of
// <head>. When nothing survives the original content is returned unchanged.
func (p *Pipeline) InlineCriticalCSS(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	markup, err := ScanMarkup(content)
	if err != nil {
		return "", fmt.Errorf("%w: parsing markup: %v", ErrCSSPurge, err)
	}

	pr := &purger{markup: markup, safelist: p.safelist}
	var rules []*css.Rule
	for _, name := range p.stylesheets {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		source, err := p.source.LoadStyle(name)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrStylesheetLoad, name, err)
		}

		kept, err := pr.purgeStylesheet(source)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrCSSPurge, name, err)
		}
		rules = append(rules, kept...)
	}

	rules = consolidateRules(rules)
	if len(rules) == 0 {
		return content, nil
	}

	minified, err := p.minifier.CSS(renderRules(rules))
	if err != nil {
		return "", fmt.Errorf("%w: css: %v", ErrMinify, err)
	}
	if strings.TrimSpace(minified) == "" {
		return content, nil
	}

	return p.injector.InjectCSS(ctx, content, minified), nil
}

// MinifyHTML minifies a document. Minifying its own output is a no-op.
func (p *Pipeline) MinifyHTML(content string) (string, error) {
	minified, err := p.minifier.HTML(content)
	if err != nil {
		return "", fmt.Errorf("%w: html: %v", ErrMinify, err)
	}
	return minified, nil
}
