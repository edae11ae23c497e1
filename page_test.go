package md2site

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// writeFiles creates files under dir from a path -> content map.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		rel       string
		permalink any
		want      string
		wantErr   bool
	}{
		{"root index", "index.md", nil, "index.html", false},
		{"nested index", "guide/index.md", nil, "guide/index.html", false},
		{"pretty URL", "guide/setup.md", nil, "guide/setup/index.html", false},
		{"html page", "about.html", nil, "about/index.html", false},
		{"permalink directory", "posts/2024-first.md", "/blog/first/", "blog/first/index.html", false},
		{"permalink file", "feed.md", "/feed.xml", "feed.xml", false},
		{"permalink root", "home.md", "/", "index.html", false},
		{"permalink false", "partial.md", false, "", false},
		{"permalink true", "x.md", true, "", true},
		{"permalink empty", "x.md", "  ", "", true},
		{"permalink escapes", "x.md", "/../../etc/passwd", "", true},
		{"permalink wrong type", "x.md", 3, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := outputPath(tt.rel, tt.permalink)
			if (err != nil) != tt.wantErr {
				t.Fatalf("outputPath(%q, %v) error = %v, wantErr %v", tt.rel, tt.permalink, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("outputPath(%q, %v) = %q, want %q", tt.rel, tt.permalink, got, tt.want)
			}
		})
	}
}

func TestURLFor(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                       "",
		"index.html":             "/",
		"guide/index.html":       "/guide/",
		"guide/setup/index.html": "/guide/setup/",
		"feed.xml":               "/feed.xml",
	}
	for out, want := range tests {
		if got := urlFor(out); got != want {
			t.Errorf("urlFor(%q) = %q, want %q", out, got, want)
		}
	}
}

func TestParsePage(t *testing.T) {
	t.Parallel()

	content := `---
title: Install
date: "2024-03-05"
layout: docs
tags: [guide, setup, guide]
draft: true
summary: Getting *started*
---
# Install
`
	p, err := parsePage("guide/install.md", []byte(content))
	if err != nil {
		t.Fatalf("parsePage() unexpected error: %v", err)
	}

	if p.Title != "Install" || p.Layout != "docs" || !p.Draft {
		t.Errorf("parsePage() = title %q layout %q draft %v", p.Title, p.Layout, p.Draft)
	}
	if want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC); !p.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", p.Date, want)
	}
	if diff := cmp.Diff([]string{"guide", "setup"}, p.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	if p.OutputPath != "guide/install/index.html" || p.URL != "/guide/install/" {
		t.Errorf("OutputPath = %q, URL = %q", p.OutputPath, p.URL)
	}
	if p.Data["summary"] != "Getting *started*" {
		t.Errorf("Data[summary] = %v", p.Data["summary"])
	}
	if p.body != "# Install\n" {
		t.Errorf("body = %q", p.body)
	}
	if !p.IsMarkdown() {
		t.Error("IsMarkdown() = false, want true")
	}
}

func TestParsePage_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"unclosed front matter", "---\ntitle: x\n"},
		{"title not a string", "---\ntitle: [a, b]\n---\n"},
		{"bad date", "---\ndate: someday\n---\n"},
		{"bad tags", "---\ntags: {a: b}\n---\n"},
		{"draft not a bool", "---\ndraft: maybe\n---\n"},
		{"bad permalink", "---\npermalink: 12\n---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := parsePage("page.md", []byte(tt.content)); !errors.Is(err, ErrInvalidPage) {
				t.Errorf("parsePage() error = %v, want ErrInvalidPage", err)
			}
		})
	}
}

func TestDiscoverPages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"index.md":              "# Home",
		"about.html":            "<p>About</p>",
		"guide/setup.md":        "# Setup",
		"guide/_draft-notes.md": "skip",
		"_layouts/base.html":    "skip",
		"_includes/nav.md":      "skip",
		".hidden/page.md":       "skip",
		"css/main.css":          "body{}",
		"js/readme.md":          "skip, passthrough",
		"images/logo.svg":       "<svg/>",
		"notes.txt":             "not a page",
	})

	got, err := discoverPages(dir, []string{"css", "js", "images"})
	if err != nil {
		t.Fatalf("discoverPages() unexpected error: %v", err)
	}

	want := []string{"about.html", "guide/setup.md", "index.md"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("discoverPages() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCollections(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	older := &Page{Source: "a.md", URL: "/a/", Date: day(1), Tags: []string{"post"}}
	newer := &Page{Source: "b.md", URL: "/b/", Date: day(9), Tags: []string{"post", "news"}}
	undatedZ := &Page{Source: "z.md", URL: "/z/"}
	undatedA := &Page{Source: "home.md", URL: "/"}

	c := buildCollections([]*Page{undatedZ, older, undatedA, newer})

	urls := func(pages []*Page) []string {
		out := make([]string, 0, len(pages))
		for _, p := range pages {
			out = append(out, p.URL)
		}
		return out
	}

	if diff := cmp.Diff([]string{"/b/", "/a/", "/", "/z/"}, urls(c["all"])); diff != "" {
		t.Errorf("all mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/b/", "/a/"}, urls(c["post"])); diff != "" {
		t.Errorf("post mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/b/"}, urls(c["news"])); diff != "" {
		t.Errorf("news mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckOutputConflicts(t *testing.T) {
	t.Parallel()

	pages := []*Page{
		{Source: "guide.md", OutputPath: "guide/index.html"},
		{Source: "hidden-a.md"},
		{Source: "hidden-b.md"},
		{Source: "guide/index.md", OutputPath: "guide/index.html"},
	}
	if err := checkOutputConflicts(pages); !errors.Is(err, ErrOutputConflict) {
		t.Errorf("checkOutputConflicts() error = %v, want ErrOutputConflict", err)
	}
	if err := checkOutputConflicts(pages[:3]); err != nil {
		t.Errorf("checkOutputConflicts() unexpected error: %v", err)
	}
}
