package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed styles/*
var styles embed.FS

//go:embed layouts/*
var layouts embed.FS

// EmbeddedLoader loads assets from the embedded filesystem.
// Stylesheet paths are resolved against the embedded styles/ directory.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads an embedded stylesheet, e.g. "base.css".
func (e *EmbeddedLoader) LoadStyle(p string) (string, error) {
	clean, err := ValidateStylePath(p)
	if err != nil {
		return "", err
	}

	content, err := fs.ReadFile(styles, "styles/"+clean)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, p)
	}
	return string(content), nil
}

// LoadLayout loads an embedded layout by name.
func (e *EmbeddedLoader) LoadLayout(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := fs.ReadFile(layouts, "layouts/"+name+".html")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrLayoutNotFound, name)
	}
	return string(content), nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
