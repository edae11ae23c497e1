package assets

import "errors"

// AssetResolver combines site and embedded loaders with fallback logic.
// The site loader is tried first; the embedded loader serves anything the
// site does not provide.
type AssetResolver struct {
	custom   AssetLoader // nil if no site path configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded assets are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadStyle loads a stylesheet, trying the site loader first.
func (r *AssetResolver) LoadStyle(p string) (string, error) {
	return r.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadStyle(p)
	})
}

// LoadLayout loads a layout, trying the site loader first.
func (r *AssetResolver) LoadLayout(name string) (string, error) {
	return r.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadLayout(name)
	})
}

func (r *AssetResolver) loadWithFallback(loadFn func(AssetLoader) (string, error)) (string, error) {
	if r.custom == nil {
		return loadFn(r.embedded)
	}

	content, err := loadFn(r.custom)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !isNotFoundError(err) {
		return "", err
	}
	return loadFn(r.embedded)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrLayoutNotFound)
}

// Layout sources reported by LayoutSource.
const (
	SourceSite     = "site"
	SourceEmbedded = "embedded"
)

// LayoutSource reports which loader serves the named layout: SourceSite when
// the site directory provides it, SourceEmbedded otherwise. Layouts neither
// loader has return ErrLayoutNotFound.
func (r *AssetResolver) LayoutSource(name string) (string, error) {
	if r.custom != nil {
		_, err := r.custom.LoadLayout(name)
		if err == nil {
			return SourceSite, nil
		}
		if !isNotFoundError(err) {
			return "", err
		}
	}
	if _, err := r.embedded.LoadLayout(name); err != nil {
		return "", err
	}
	return SourceEmbedded, nil
}
