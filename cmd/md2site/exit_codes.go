package main

import (
	"errors"
	"os"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/pipeline"
	"github.com/alnah/go-md2site/internal/watch"
)

// Exit codes for md2site CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Successful build
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, pages or plugins
	ExitIO        = 3 // Input missing, permission denied, write failure
	ExitTransform = 4 // Template, Markdown, CSS or minifier failure
)

// maxWorkers mirrors the config limit for --workers.
const maxWorkers = config.MaxWorkers

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Render and transform errors (exit 4)
	if errors.Is(err, md2site.ErrTemplate) ||
		errors.Is(err, md2site.ErrLayout) ||
		errors.Is(err, pipeline.ErrMarkdownRender) ||
		errors.Is(err, pipeline.ErrCSSPurge) ||
		errors.Is(err, pipeline.ErrMinify) ||
		errors.Is(err, pipeline.ErrStylesheetLoad) {
		return ExitTransform
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, md2site.ErrInputNotFound) ||
		errors.Is(err, md2site.ErrWrite) ||
		errors.Is(err, md2site.ErrPassthrough) ||
		errors.Is(err, watch.ErrWatch) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, md2site.ErrInvalidPage) ||
		errors.Is(err, md2site.ErrOutputConflict) ||
		errors.Is(err, md2site.ErrPlugin) {
		return ExitUsage
	}

	return ExitGeneral
}
