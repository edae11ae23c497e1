package md2site

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/pipeline"
)

// SiteData is the .Site value of templates.
type SiteData struct {
	Title       string
	Description string
	BaseURL     string
	Language    string
	Stylesheets []string // Linked by layouts in development; inlined in production
	Production  bool
	AssetHash   string
	Locale      string
}

// templateData is the root value of page and layout templates.
type templateData struct {
	Page        *Page
	Site        *SiteData
	Collections Collections
	Content     template.HTML // Layouts only
}

// layoutLoader loads layout sources by name.
type layoutLoader interface {
	LoadLayout(name string) (string, error)
}

// renderer turns pages into finished HTML. Safe for concurrent use.
type renderer struct {
	funcs       template.FuncMap
	markdown    *pipeline.MarkdownRenderer
	pipeline    *pipeline.Pipeline
	layouts     layoutLoader
	site        *SiteData
	collections Collections

	mu    sync.Mutex
	cache map[string]*template.Template
}

// render produces the final document of p:
//
//  1. the body runs as a template when it contains an action
//  2. Markdown bodies are converted to HTML
//  3. the result is wrapped in the page layout
//  4. the transform pipeline runs (production only)
func (r *renderer) render(ctx context.Context, p *Page) (string, error) {
	data := &templateData{Page: p, Site: r.site, Collections: r.collections}

	body, err := r.executeBody(p, data)
	if err != nil {
		return "", err
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	content := body
	if p.IsMarkdown() {
		content, err = r.markdown.RenderBlockContext(ctx, body)
		if err != nil {
			return "", fmt.Errorf("%s: %w", p.Source, err)
		}
	}

	html, err := r.applyLayout(p, data, content)
	if err != nil {
		return "", err
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	return r.pipeline.Transform(ctx, html, p.OutputPath)
}

func (r *renderer) executeBody(p *Page, data *templateData) (string, error) {
	if !strings.Contains(p.body, "{{") {
		return p.body, nil
	}

	tmpl, err := template.New(p.Source).Funcs(r.funcs).Parse(p.body)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrTemplate, p.Source, err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrTemplate, p.Source, err)
	}
	return b.String(), nil
}

// layoutName resolves the layout of p. Pages written outside HTML files get
// no layout unless they name one.
func layoutName(p *Page) string {
	switch {
	case p.Layout == layoutNone:
		return ""
	case p.Layout != "":
		return p.Layout
	case pipeline.IsHTMLOutput(p.OutputPath):
		return assets.DefaultLayoutName
	}
	return ""
}

func (r *renderer) applyLayout(p *Page, data *templateData, content string) (string, error) {
	name := layoutName(p)
	if name == "" {
		return content, nil
	}

	tmpl, err := r.layout(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.Source, err)
	}

	layoutData := *data
	// #nosec G203 -- rendered page content is trusted build output
	layoutData.Content = template.HTML(content)

	var b strings.Builder
	if err := tmpl.Execute(&b, &layoutData); err != nil {
		return "", fmt.Errorf("%w: %s: layout %q: %w", ErrLayout, p.Source, name, err)
	}
	return b.String(), nil
}

// layout returns the parsed layout, parsing it on first use.
func (r *renderer) layout(name string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.cache[name]; ok {
		return tmpl, nil
	}

	src, err := r.layouts.LoadLayout(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLayout, err)
	}
	tmpl, err := template.New(name).Funcs(r.funcs).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrLayout, name, err)
	}

	if r.cache == nil {
		r.cache = make(map[string]*template.Template)
	}
	r.cache[name] = tmpl
	return tmpl, nil
}
