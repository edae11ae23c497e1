package assets

import (
	"fmt"
	"path"
	"strings"
)

// ValidateAssetName checks that a layout name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty or contains path separators,
// dots (which could allow extension manipulation), or traversal characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// ValidateStylePath checks that a stylesheet path is relative, stays inside
// its base directory and names a .css file. Returns the cleaned path.
func ValidateStylePath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidStylePath)
	}
	if strings.ContainsAny(p, "\\\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidStylePath, p)
	}
	if path.IsAbs(p) {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidStylePath, p)
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q escapes base directory", ErrInvalidStylePath, p)
	}
	if path.Ext(clean) != ".css" {
		return "", fmt.Errorf("%w: %q is not a .css file", ErrInvalidStylePath, p)
	}
	return clean, nil
}
