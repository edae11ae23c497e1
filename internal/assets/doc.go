// Package assets provides layouts and stylesheets for site generation.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (default layout and styles)
//	    ├── FilesystemLoader  - loads from the site's source directory
//	    └── AssetResolver     - combines both with site-first fallback
//
// AssetResolver is the loader used by the builder. It tries the site's
// FilesystemLoader first and falls back to EmbeddedLoader when the asset is not
// found, so a site can override the built-in "base" layout while still using
// it as a default.
//
// # Directory Structure
//
//	{basePath}/
//	├── _layouts/
//	│   └── {name}.html          # Page layouts (Go html/template)
//	└── css/
//	    └── {file}.css           # Stylesheets referenced from site config
//
// # Security
//
// Layout names and stylesheet paths are validated to prevent path traversal.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
