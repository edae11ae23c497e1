package md2site

import "html/template"

// Plugin contributes template functions (filters and shortcodes) to a build.
// Funcs is called once per build with that build's settings. A function name
// already taken by a built-in or another plugin fails the build.
type Plugin interface {
	Name() string
	Funcs(s Settings) template.FuncMap
}

// PluginFunc adapts a function to the Plugin interface.
type PluginFunc struct {
	PluginName string
	Register   func(s Settings) template.FuncMap
}

// Name returns the plugin name.
func (p PluginFunc) Name() string { return p.PluginName }

// Funcs returns the plugin's template functions.
func (p PluginFunc) Funcs(s Settings) template.FuncMap {
	if p.Register == nil {
		return nil
	}
	return p.Register(s)
}
