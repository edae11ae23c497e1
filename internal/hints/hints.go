// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and points at the first searched path as a place to create one.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/site.yaml"
	if len(searchedPaths) > 0 {
		hint += " or create " + searchedPaths[0]
	}
	return format(hint)
}

// ForStylesheetNotFound returns hints for missing critical stylesheets.
func ForStylesheetNotFound(inputDir string) string {
	if inputDir == "" {
		return format("stylesheet paths in critical.stylesheets are relative to the input directory")
	}
	return format("stylesheet paths in critical.stylesheets are relative to " + inputDir)
}

// ForLayoutNotFound returns hints for missing layouts.
func ForLayoutNotFound(inputDir string) string {
	return format("layouts live in " + filepath.Join(inputDir, "_layouts") + " as <name>.html")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForTransformFailure returns hints for parser or minifier failures during a
// production build. Such failures usually mean the page template produced
// malformed markup or a stylesheet has a syntax error.
func ForTransformFailure() string {
	return formatHints([]string{
		"build without --production to inspect the untransformed page",
		"check the page's layout and the critical stylesheets for syntax errors",
	})
}

// ForShortcode returns hints for shortcode argument errors.
func ForShortcode(name string) string {
	switch name {
	case "icon":
		return format(`pass a descriptor: {{ icon (dict "icon" "close") }}`)
	case "script":
		return format(`pass a descriptor: {{ script (dict "src" "/js/app.js") }}`)
	}
	return ""
}

// ForUnknownEnvVars returns a hint listing likely typos of known variables.
func ForUnknownEnvVars(unknown []string) string {
	if len(unknown) == 0 {
		return ""
	}
	return format("unknown variables ignored: " + strings.Join(unknown, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	var b strings.Builder
	for _, h := range hints {
		b.WriteString(format(h))
	}
	return b.String()
}
