package templates

import (
	"errors"
	"html/template"
	"strings"
	"testing"
)

func TestShortcodes_Icon(t *testing.T) {
	t.Parallel()

	s := NewShortcodes("", "", "")

	tests := []struct {
		name    string
		params  IconParams
		want    string
		notWant []string
	}{
		{
			name:   "decorative icon",
			params: IconParams{Icon: "close"},
			want:   `<svg class="icon icon-close" aria-hidden="true" focusable="false"><use xlink:href="/icons/icons.svg#svg-close"></use></svg>`,
		},
		{
			name:   "labelled icon",
			params: IconParams{Icon: "close", Alt: "Close menu"},
			want:   `<svg class="icon icon-close" role="img" aria-label="Close menu"><use xlink:href="/icons/icons.svg#svg-close"></use></svg>`,
		},
		{
			name:   "numeric width is pixels on both axes",
			params: IconParams{Icon: "menu", Width: "24"},
			want:   `<svg class="icon icon-menu" style="width: 24px; height: 24px;" aria-hidden="true" focusable="false"><use xlink:href="/icons/icons.svg#svg-menu"></use></svg>`,
		},
		{
			name:   "width with unit",
			params: IconParams{Icon: "menu", Width: "1.5em"},
			want:   `<svg class="icon icon-menu" style="width: 1.5em; height: 1.5em;" aria-hidden="true" focusable="false"><use xlink:href="/icons/icons.svg#svg-menu"></use></svg>`,
		},
		{
			name:   "alt is escaped",
			params: IconParams{Icon: "info", Alt: `Say "hi" <now>`},
			want:   `<svg class="icon icon-info" role="img" aria-label="Say &#34;hi&#34; &lt;now&gt;"><use xlink:href="/icons/icons.svg#svg-info"></use></svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := s.Icon(tt.params)
			if err != nil {
				t.Fatalf("Icon() unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Icon(%+v) =\n%s\nwant\n%s", tt.params, got, tt.want)
			}
		})
	}
}

func TestShortcodes_Icon_CustomSprite(t *testing.T) {
	t.Parallel()

	s := NewShortcodes("/assets/sprite.svg", "i-", "")
	got, err := s.Icon(IconParams{Icon: "close"})
	if err != nil {
		t.Fatalf("Icon() unexpected error: %v", err)
	}
	if !strings.Contains(string(got), `xlink:href="/assets/sprite.svg#i-close"`) {
		t.Errorf("Icon() = %q, want custom sprite reference", got)
	}
}

func TestShortcodes_Icon_MissingField(t *testing.T) {
	t.Parallel()

	s := NewShortcodes("", "", "")
	for _, p := range []IconParams{{}, {Icon: "  ", Alt: "Close"}} {
		if _, err := s.Icon(p); !errors.Is(err, ErrMissingField) {
			t.Errorf("Icon(%+v) error = %v, want ErrMissingField", p, err)
		}
	}
}

func TestShortcodes_Script(t *testing.T) {
	t.Parallel()

	off := false
	s := NewShortcodes("", "", "3f9a1c07de")

	tests := []struct {
		name   string
		params ScriptParams
		want   string
	}{
		{
			name:   "defaults",
			params: ScriptParams{Src: "app.js"},
			want:   `<script src="app.js?v=3f9a1c07de" type="module" defer></script>`,
		},
		{
			name:   "classic script without defer",
			params: ScriptParams{Src: "/js/legacy.js", Defer: &off, IsModule: &off},
			want:   `<script src="/js/legacy.js?v=3f9a1c07de"></script>`,
		},
		{
			name:   "existing query string",
			params: ScriptParams{Src: "/js/app.js?lang=en"},
			want:   `<script src="/js/app.js?lang=en&v=3f9a1c07de" type="module" defer></script>`,
		},
		{
			name: "extra attributes are sorted and the reserved key dropped",
			params: ScriptParams{Src: "app.js", Attrs: map[string]string{
				"nonce":       "r4nd",
				"crossorigin": "anonymous",
				"__keywords":  "true",
			}},
			want: `<script src="app.js?v=3f9a1c07de" type="module" defer crossorigin="anonymous" nonce="r4nd"></script>`,
		},
		{
			name:   "attribute values are written verbatim",
			params: ScriptParams{Src: "app.js", Attrs: map[string]string{"data-config": `{"a":1}`}},
			want:   `<script src="app.js?v=3f9a1c07de" type="module" defer data-config="{"a":1}"></script>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := s.Script(tt.params)
			if err != nil {
				t.Fatalf("Script() unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Script() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestShortcodes_Script_HashSuffix(t *testing.T) {
	t.Parallel()

	s := NewShortcodes("", "", "abc123")
	got, err := s.Script(ScriptParams{Src: "app.js"})
	if err != nil {
		t.Fatalf("Script() unexpected error: %v", err)
	}
	html := string(got)
	idx := strings.Index(html, "app.js?")
	if idx == -1 {
		t.Fatalf("Script() = %q, want app.js? in source", html)
	}
	rest := html[idx+len("app.js?"):]
	if !strings.HasPrefix(rest, "v=") || strings.HasPrefix(rest, `v="`) {
		t.Errorf("Script() = %q, want non-empty hash after app.js?", html)
	}
	if !strings.Contains(html, `type="module"`) || !strings.Contains(html, " defer") {
		t.Errorf("Script() = %q, want module and defer", html)
	}
}

func TestShortcodes_Script_MissingField(t *testing.T) {
	t.Parallel()

	s := NewShortcodes("", "", "h")
	if _, err := s.Script(ScriptParams{Attrs: map[string]string{"nonce": "x"}}); !errors.Is(err, ErrMissingField) {
		t.Errorf("Script() error = %v, want ErrMissingField", err)
	}
}

// ---------------------------------------------------------------------------
// Template forms
// ---------------------------------------------------------------------------

func TestShortcodes_IconFunc(t *testing.T) {
	t.Parallel()

	s := NewShortcodes("", "", "")

	tests := []struct {
		name    string
		arg     any
		want    string
		wantErr error
	}{
		{"name string", "close", "icon-close", nil},
		{"dict", map[string]any{"icon": "close", "width": 16, "alt": "Close"}, `style="width: 16px; height: 16px;" role="img" aria-label="Close"`, nil},
		{"params value", IconParams{Icon: "menu"}, "icon-menu", nil},
		{"dict without icon", map[string]any{"alt": "Close"}, "", ErrMissingField},
		{"nil", nil, "", ErrMissingField},
		{"unsupported", 12, "", ErrInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := s.IconFunc(tt.arg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("IconFunc() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("IconFunc() unexpected error: %v", err)
			}
			if !strings.Contains(string(got), tt.want) {
				t.Errorf("IconFunc() = %q, want containing %q", got, tt.want)
			}
		})
	}
}

func TestShortcodes_ScriptFunc(t *testing.T) {
	t.Parallel()

	s := NewShortcodes("", "", "h")

	tests := []struct {
		name    string
		arg     any
		want    template.HTML
		wantErr error
	}{
		{
			name: "source string",
			arg:  "app.js",
			want: `<script src="app.js?v=h" type="module" defer></script>`,
		},
		{
			name: "dict with flags and attributes",
			arg:  map[string]any{"src": "a.js", "defer": false, "isModule": "false", "data-x": 1, "__keywords": true},
			want: `<script src="a.js?v=h" data-x="1"></script>`,
		},
		{
			name:    "bad flag",
			arg:     map[string]any{"src": "a.js", "defer": "maybe"},
			wantErr: ErrInvalidParams,
		},
		{
			name:    "missing src",
			arg:     map[string]any{"defer": true},
			wantErr: ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := s.ScriptFunc(tt.arg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ScriptFunc() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ScriptFunc() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ScriptFunc() = %q, want %q", got, tt.want)
			}
		})
	}
}
