// Package templates provides the functions available to page templates and
// layouts: filters (readableDate, limit, markdown, dict, htmlDateString) and
// shortcodes (icon, script).
//
// Functions are collected in a Registry, which rejects duplicate names so that
// plugins cannot silently shadow built-ins.
package templates
