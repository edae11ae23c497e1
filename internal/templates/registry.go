package templates

import (
	"fmt"
	"html/template"
	"maps"
	"reflect"
	"slices"

	"github.com/goodsign/monday"
)

// Registry collects template functions from built-ins and plugins.
// Not safe for concurrent mutation; build it before rendering.
type Registry struct {
	funcs  template.FuncMap
	owners map[string]string // function name -> source that registered it
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		funcs:  make(template.FuncMap),
		owners: make(map[string]string),
	}
}

// Add registers fn under name. source names the registrant in errors.
func (r *Registry) Add(source, name string, fn any) error {
	if name == "" {
		return fmt.Errorf("%w: %s: empty name", ErrInvalidFunc, source)
	}
	if fn == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
		return fmt.Errorf("%w: %s: %s is %T, want a function", ErrInvalidFunc, source, name, fn)
	}
	if owner, ok := r.owners[name]; ok {
		return fmt.Errorf("%w: %s (from %s, again from %s)", ErrDuplicateFunc, name, owner, source)
	}
	r.funcs[name] = fn
	r.owners[name] = source
	return nil
}

// AddAll registers every function of funcs, in name order.
func (r *Registry) AddAll(source string, funcs template.FuncMap) error {
	for _, name := range slices.Sorted(maps.Keys(funcs)) {
		if err := r.Add(source, name, funcs[name]); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the registered function names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.funcs))
}

// FuncMap returns a copy of the registered functions.
func (r *Registry) FuncMap() template.FuncMap {
	return maps.Clone(r.funcs)
}

// BuiltinSource names the built-in functions in registry errors.
const BuiltinSource = "builtin"

// Options configures the built-in functions.
type Options struct {
	Locale     monday.Locale
	AssetHash  string
	IconSprite string
	IconPrefix string
	Markdown   InlineRenderer
}

// Builtins returns the built-in filters and shortcodes.
func Builtins(opts Options) template.FuncMap {
	f := NewFilters(opts.Locale, opts.Markdown)
	s := NewShortcodes(opts.IconSprite, opts.IconPrefix, opts.AssetHash)

	return template.FuncMap{
		"readableDate":   f.ReadableDate,
		"htmlDateString": f.HTMLDateString,
		"limit":          f.Limit,
		"markdown":       f.Markdown,
		"dict":           Dict,
		"icon":           s.IconFunc,
		"script":         s.ScriptFunc,
	}
}
