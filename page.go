package md2site

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-md2site/internal/dateutil"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/frontmatter"
)

// Page kinds by source extension.
const (
	extMarkdown = ".md"
	extHTML     = ".html"
)

// layoutNone disables layout wrapping from front matter.
const layoutNone = "none"

// Page is a source document after discovery. Fields are read-only once the
// build starts rendering.
type Page struct {
	Source     string         // Slash-separated path relative to the input dir
	Title      string         // front matter "title"
	Date       time.Time      // front matter "date"; zero when absent
	Layout     string         // front matter "layout"; "none" disables wrapping
	Tags       []string       // front matter "tags"
	Draft      bool           // front matter "draft"
	Data       map[string]any // Full front matter
	OutputPath string         // Slash-separated path relative to the output dir
	URL        string         // Site-absolute URL, e.g. "/guide/install/"

	body string
}

// IsMarkdown reports whether the page body is Markdown.
func (p *Page) IsMarkdown() bool {
	return strings.EqualFold(path.Ext(p.Source), extMarkdown)
}

// Collections groups pages for templates: "all" holds every page and each tag
// has its own entry. Lists are ordered newest first.
type Collections map[string][]*Page

// CountPages reports how many pages a build of inputDir would render,
// drafts included. Paths in skip are passthrough roots.
func CountPages(inputDir string, skip []string) (int, error) {
	pages, err := discoverPages(inputDir, skip)
	return len(pages), err
}

// discoverPages returns the slash-separated paths of every page under
// inputDir. Directories starting with "_" or "." and the skipped top-level
// entries (passthrough paths) are not descended.
func discoverPages(inputDir string, skip []string) ([]string, error) {
	skipped := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		skipped[path.Clean(filepath.ToSlash(s))] = struct{}{}
	}

	var pages []string
	err := filepath.WalkDir(inputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(inputDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if _, ok := skipped[rel]; ok {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			return nil
		}

		switch strings.ToLower(path.Ext(name)) {
		case extMarkdown, extHTML:
			pages = append(pages, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(pages)
	return pages, nil
}

// loadPage reads and parses the page at rel.
func loadPage(inputDir, rel string) (*Page, error) {
	content, err := os.ReadFile(filepath.Join(inputDir, filepath.FromSlash(rel))) // #nosec G304 -- discovered under input dir
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPage, rel, err)
	}
	return parsePage(rel, content)
}

// parsePage decodes front matter and computes the output location.
func parsePage(rel string, content []byte) (*Page, error) {
	data, body, err := frontmatter.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPage, rel, err)
	}

	p := &Page{
		Source: rel,
		Data:   data,
		body:   string(body),
	}

	if p.Title, err = stringField(data, "title"); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPage, rel, err)
	}
	if p.Layout, err = stringField(data, "layout"); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPage, rel, err)
	}
	if p.Date, err = dateField(data, "date"); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPage, rel, err)
	}
	if p.Tags, err = tagsField(data, "tags"); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPage, rel, err)
	}
	if v, ok := data["draft"]; ok {
		draft, isBool := v.(bool)
		if !isBool {
			return nil, fmt.Errorf("%w: %s: draft: want a boolean, got %T", ErrInvalidPage, rel, v)
		}
		p.Draft = draft
	}

	out, err := outputPath(rel, data["permalink"])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPage, rel, err)
	}
	p.OutputPath = out
	p.URL = urlFor(out)
	return p, nil
}

// outputPath maps a source path to its output path:
//
//	index.md       -> index.html
//	guide/index.md -> guide/index.html
//	guide/setup.md -> guide/setup/index.html
//
// A permalink string overrides the mapping; a trailing slash means a
// directory index. permalink: false means the page is not written and
// yields "".
func outputPath(rel string, permalink any) (string, error) {
	switch v := permalink.(type) {
	case nil:
	case bool:
		if !v {
			return "", nil
		}
		return "", errors.New("permalink: true is not a path")
	case string:
		if strings.TrimSpace(v) == "" {
			return "", errors.New("permalink: empty")
		}
		out := strings.TrimPrefix(v, "/")
		if out == "" || strings.HasSuffix(out, "/") {
			out += "index.html"
		}
		out = path.Clean(out)
		if out == ".." || strings.HasPrefix(out, "../") {
			return "", fmt.Errorf("permalink: %q escapes the output directory", v)
		}
		return out, nil
	default:
		return "", fmt.Errorf("permalink: want a string or false, got %T", v)
	}

	dir, file := path.Split(rel)
	stem := strings.TrimSuffix(file, path.Ext(file))
	if stem == "index" {
		return dir + "index.html", nil
	}
	return dir + stem + "/index.html", nil
}

// urlFor returns the site-absolute URL of an output path. Directory indexes
// map to their directory.
func urlFor(out string) string {
	if out == "" {
		return ""
	}
	if out == "index.html" {
		return "/"
	}
	if strings.HasSuffix(out, "/index.html") {
		return "/" + strings.TrimSuffix(out, "index.html")
	}
	return "/" + out
}

// buildCollections groups pages newest first; undated pages sort last, then
// by URL.
func buildCollections(pages []*Page) Collections {
	sorted := slices.Clone(pages)
	slices.SortStableFunc(sorted, func(a, b *Page) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.URL, b.URL)
	})

	c := Collections{"all": sorted}
	for _, p := range sorted {
		for _, tag := range p.Tags {
			c[tag] = append(c[tag], p)
		}
	}
	return c
}

// checkOutputConflicts rejects two pages writing the same file.
func checkOutputConflicts(pages []*Page) error {
	owners := make(map[string]string, len(pages))
	for _, p := range pages {
		if p.OutputPath == "" {
			continue
		}
		if prev, ok := owners[p.OutputPath]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", ErrOutputConflict, prev, p.Source, p.OutputPath)
		}
		owners[p.OutputPath] = p.Source
	}
	return nil
}

// outputFile resolves a page output path inside outputDir.
func outputFile(outputDir, out string) (string, error) {
	return fileutil.JoinWithin(outputDir, filepath.FromSlash(out))
}

func stringField(data map[string]any, key string) (string, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: want a string, got %T", key, v)
	}
	return s, nil
}

func dateField(data map[string]any, key string) (time.Time, error) {
	switch v := data[key].(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		t, err := dateutil.ParseISO(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("%s: %w", key, err)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("%s: want a date, got %T", key, v)
	}
}

func tagsField(data map[string]any, key string) ([]string, error) {
	switch v := data[key].(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		return []string{v}, nil
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: want strings, got %T", key, item)
			}
			if s != "" && !slices.Contains(tags, s) {
				tags = append(tags, s)
			}
		}
		return tags, nil
	case []string:
		return slices.Compact(slices.Clone(v)), nil
	default:
		return nil, fmt.Errorf("%s: want a string or a list, got %T", key, v)
	}
}
