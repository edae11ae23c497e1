// Package md2site builds a static documentation site from Markdown and HTML
// pages.
//
// # Quick Start
//
// Create a builder for a site directory and run a build:
//
//	b, err := md2site.NewBuilder(md2site.WithDir("./docs"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := b.Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(report.Pages, "pages written")
//
// The site configuration is read from site.yaml in the site directory (see
// internal/config). Without one, pages are read from src/ and written to
// _site/.
//
// # Build Stages
//
// Every build follows these stages:
//
//  1. Settings: locale, production flag and the asset hash are resolved once
//  2. Discovery: .md and .html pages are found and their front matter parsed
//  3. Rendering: the page body runs as a template (filters and shortcodes),
//     Markdown is converted to HTML, and the result is wrapped in a layout
//  4. Transform: in production, critical CSS is purged and inlined and the
//     HTML is minified
//  5. Passthrough: static directories are copied verbatim
//
// Pages render in parallel; the first failure cancels the build.
//
// # Templates
//
// Page bodies and layouts are html/template documents. They receive .Page,
// .Site and .Collections; layouts also receive .Content. Built-in functions:
//
//	{{ readableDate .Page.Date }}          March 5
//	{{ htmlDateString .Page.Date }}        2024-03-05
//	{{ range limit .Collections.all 5 }}   first five pages, newest first
//	{{ markdown .Page.Data.summary }}      inline Markdown
//	{{ icon (dict "icon" "close" "alt" "Close") }}
//	{{ script "/js/app.js" }}
//
// Plugins add functions of their own:
//
//	b, err := md2site.NewBuilder(md2site.WithPlugin(myPlugin))
package md2site
