package templates

import "errors"

// Sentinel errors for template functions.
var (
	ErrMissingField   = errors.New("missing required field")
	ErrInvalidParams  = errors.New("invalid shortcode parameters")
	ErrNegativeLimit  = errors.New("limit must not be negative")
	ErrNotSequence    = errors.New("value is not a slice or array")
	ErrDictArgs       = errors.New("dict expects key/value pairs")
	ErrDuplicateFunc  = errors.New("template function already registered")
	ErrInvalidFunc    = errors.New("invalid template function")
	ErrMarkdownFilter = errors.New("markdown filter failed")
)
