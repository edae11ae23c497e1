package assets

// DefaultLayoutName is the layout used when a page does not name one.
const DefaultLayoutName = "base"

// LayoutDir is the directory, relative to the site source, holding layouts.
const LayoutDir = "_layouts"

// AssetLoader defines the contract for loading layouts and stylesheets.
type AssetLoader interface {
	// LoadStyle loads a stylesheet by slash-separated relative path
	// (e.g. "css/main.css").
	// Returns ErrStyleNotFound if the stylesheet doesn't exist.
	// Returns ErrInvalidStylePath if the path is unsafe.
	LoadStyle(path string) (string, error)

	// LoadLayout loads a layout by name (without .html extension).
	// Returns ErrLayoutNotFound if the layout doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadLayout(name string) (string, error)
}
