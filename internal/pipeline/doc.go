// Package pipeline turns Markdown into HTML and post-processes finished pages.
//
// Rendering:
//   - MarkdownRenderer wraps goldmark with a fixed configuration (raw HTML,
//     hard wraps, linkify, chroma highlighting, accessible footnotes)
//
// Post-processing (production builds only), in order:
//   - Critical CSS: rules of the configured stylesheets that match nothing in
//     the page are purged, survivors are de-duplicated, minified and inlined
//     in <head>
//   - HTML minification of the resulting document
//
// Purging is driven by Markup (names found in the page) and a Safelist of
// patterns that are kept regardless of usage.
package pipeline
