package md2site

import "errors"

// Sentinel errors for build operations.
var (
	ErrInputNotFound  = errors.New("input directory not found")
	ErrInvalidPage    = errors.New("invalid page")
	ErrTemplate       = errors.New("template execution failed")
	ErrLayout         = errors.New("layout failed")
	ErrOutputConflict = errors.New("output path conflict")
	ErrPlugin         = errors.New("plugin registration failed")
	ErrPassthrough    = errors.New("passthrough copy failed")
	ErrWrite          = errors.New("writing output failed")
)
