package templates

import (
	"fmt"
	"html"
	"html/template"
	"slices"
	"strconv"
	"strings"
)

// Icon sprite defaults.
const (
	DefaultIconSprite = "/icons/icons.svg"
	DefaultIconPrefix = "svg-"
)

// reservedKeyword is the bookkeeping key that keyword-argument maps may carry;
// it is never forwarded as an attribute.
const reservedKeyword = "__keywords"

// IconParams describes an icon reference into the SVG sprite.
type IconParams struct {
	Icon  string // Required symbol name, without prefix
	Width string // Optional; bare numbers are pixels. Applied to width and height.
	Alt   string // Optional; labels the icon for assistive technology
}

// ScriptParams describes a <script> tag.
type ScriptParams struct {
	Src      string
	Defer    *bool             // nil means true
	IsModule *bool             // nil means true
	Attrs    map[string]string // Extra attributes, emitted in key order
}

// Shortcodes expands descriptors into HTML fragments.
type Shortcodes struct {
	sprite    string
	prefix    string
	assetHash string
}

// NewShortcodes creates Shortcodes. Empty sprite and prefix use the defaults.
// assetHash is appended to script URLs for cache busting.
func NewShortcodes(sprite, prefix, assetHash string) *Shortcodes {
	if sprite == "" {
		sprite = DefaultIconSprite
	}
	if prefix == "" {
		prefix = DefaultIconPrefix
	}
	return &Shortcodes{sprite: sprite, prefix: prefix, assetHash: assetHash}
}

// Icon renders an inline SVG <use> reference. With Alt the icon is labelled,
// otherwise it is hidden from assistive technology and not focusable.
func (s *Shortcodes) Icon(p IconParams) (template.HTML, error) {
	if strings.TrimSpace(p.Icon) == "" {
		return "", fmt.Errorf("%w: icon shortcode needs %q", ErrMissingField, "icon")
	}

	var b strings.Builder
	name := html.EscapeString(p.Icon)

	b.WriteString(`<svg class="icon icon-` + name + `"`)
	if p.Width != "" {
		w := html.EscapeString(cssLength(p.Width))
		b.WriteString(` style="width: ` + w + `; height: ` + w + `;"`)
	}
	if p.Alt != "" {
		b.WriteString(` role="img" aria-label="` + html.EscapeString(p.Alt) + `"`)
	} else {
		b.WriteString(` aria-hidden="true" focusable="false"`)
	}
	b.WriteString(`><use xlink:href="` + html.EscapeString(s.sprite) + "#" + html.EscapeString(s.prefix) + name + `"></use></svg>`)

	// #nosec G203 -- every interpolated value is escaped above
	return template.HTML(b.String()), nil
}

// Script renders a <script> tag whose URL carries the build's asset hash.
// Attribute values are written verbatim: callers are build-time templates,
// not user input.
func (s *Shortcodes) Script(p ScriptParams) (template.HTML, error) {
	if strings.TrimSpace(p.Src) == "" {
		return "", fmt.Errorf("%w: script shortcode needs %q", ErrMissingField, "src")
	}

	var b strings.Builder
	b.WriteString(`<script src="` + p.Src)
	if s.assetHash != "" {
		sep := "?"
		if strings.Contains(p.Src, "?") {
			sep = "&"
		}
		b.WriteString(sep + "v=" + s.assetHash)
	}
	b.WriteString(`"`)

	if p.IsModule == nil || *p.IsModule {
		b.WriteString(` type="module"`)
	}
	if p.Defer == nil || *p.Defer {
		b.WriteString(` defer`)
	}

	keys := make([]string, 0, len(p.Attrs))
	for k := range p.Attrs {
		if k != reservedKeyword {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		b.WriteString(" " + k + `="` + p.Attrs[k] + `"`)
	}
	b.WriteString(`></script>`)

	// #nosec G203 -- trusted build-time values
	return template.HTML(b.String()), nil
}

// IconFunc is the template form of Icon. It accepts an icon name, IconParams
// or a map with "icon", "width" and "alt" keys.
func (s *Shortcodes) IconFunc(arg any) (template.HTML, error) {
	p, err := iconParams(arg)
	if err != nil {
		return "", err
	}
	return s.Icon(p)
}

// ScriptFunc is the template form of Script. It accepts a source path,
// ScriptParams or a map with "src", "defer", "isModule" and extra attributes.
func (s *Shortcodes) ScriptFunc(arg any) (template.HTML, error) {
	p, err := scriptParams(arg)
	if err != nil {
		return "", err
	}
	return s.Script(p)
}

func iconParams(arg any) (IconParams, error) {
	switch v := arg.(type) {
	case string:
		return IconParams{Icon: v}, nil
	case IconParams:
		return v, nil
	case *IconParams:
		if v == nil {
			return IconParams{}, nil
		}
		return *v, nil
	case map[string]any:
		p := IconParams{
			Icon:  stringValue(v["icon"]),
			Width: stringValue(v["width"]),
			Alt:   stringValue(v["alt"]),
		}
		return p, nil
	case map[string]string:
		return IconParams{Icon: v["icon"], Width: v["width"], Alt: v["alt"]}, nil
	case nil:
		return IconParams{}, nil
	}
	return IconParams{}, fmt.Errorf("%w: icon: unsupported argument %T", ErrInvalidParams, arg)
}

func scriptParams(arg any) (ScriptParams, error) {
	switch v := arg.(type) {
	case string:
		return ScriptParams{Src: v}, nil
	case ScriptParams:
		return v, nil
	case *ScriptParams:
		if v == nil {
			return ScriptParams{}, nil
		}
		return *v, nil
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = val
		}
		return scriptParams(m)
	case map[string]any:
		p := ScriptParams{Src: stringValue(v["src"])}
		for k, val := range v {
			switch k {
			case "src":
			case "defer":
				b, err := boolValue(k, val)
				if err != nil {
					return ScriptParams{}, err
				}
				p.Defer = &b
			case "isModule":
				b, err := boolValue(k, val)
				if err != nil {
					return ScriptParams{}, err
				}
				p.IsModule = &b
			default:
				if p.Attrs == nil {
					p.Attrs = make(map[string]string)
				}
				p.Attrs[k] = stringValue(val)
			}
		}
		return p, nil
	case nil:
		return ScriptParams{}, nil
	}
	return ScriptParams{}, fmt.Errorf("%w: script: unsupported argument %T", ErrInvalidParams, arg)
}

// cssLength appends px to bare numbers.
func cssLength(v string) string {
	v = strings.TrimSpace(v)
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v + "px"
	}
	return v
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func boolValue(key string, v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("%w: script: %s: %q is not a boolean", ErrInvalidParams, key, b)
		}
		return parsed, nil
	}
	return false, fmt.Errorf("%w: script: %s: %T is not a boolean", ErrInvalidParams, key, v)
}
