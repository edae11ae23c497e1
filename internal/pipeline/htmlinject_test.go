package pipeline

import (
	"context"
	"testing"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string", "", ""},
		{"no escape needed", "body{color:red}", "body{color:red}"},
		{"escapes style close", "</style>", `<\/style>`},
		{"escapes any close tag", "</STYLE></script>", `<\/STYLE><\/script>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizeCSS(tt.input); got != tt.want {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		css  string
		want string
	}{
		{
			name: "empty CSS returns HTML unchanged",
			html: "<html><head></head><body>Hi</body></html>",
			css:  "",
			want: "<html><head></head><body>Hi</body></html>",
		},
		{
			name: "appends to the end of head",
			html: "<html><head><title>T</title></head><body>Hi</body></html>",
			css:  "p{margin:0}",
			want: "<html><head><title>T</title><style>p{margin:0}</style></head><body>Hi</body></html>",
		},
		{
			name: "mixed case head",
			html: "<html><HEAD></HEAD><body>Hi</body></html>",
			css:  "p{margin:0}",
			want: "<html><HEAD><style>p{margin:0}</style></HEAD><body>Hi</body></html>",
		},
		{
			name: "opens body when there is no head",
			html: `<html><body class="docs">Hi</body></html>`,
			css:  "p{margin:0}",
			want: `<html><body class="docs"><style>p{margin:0}</style>Hi</body></html>`,
		},
		{
			name: "prepends to a bare fragment",
			html: "<p>Hi</p>",
			css:  "p{margin:0}",
			want: "<style>p{margin:0}</style><p>Hi</p>",
		},
		{
			name: "multibyte runes before head keep offsets",
			html: "<html><head><title>İİİİ \u212a</title></head><body>Hi</body></html>",
			css:  ".a{color:red}",
			want: "<html><head><title>İİİİ \u212a</title><style>.a{color:red}</style></head><body>Hi</body></html>",
		},
		{
			name: "multibyte runes before body",
			html: "<html><p>İİ</p><BODY id=\"x\">Hi</BODY></html>",
			css:  "p{margin:0}",
			want: "<html><p>İİ</p><BODY id=\"x\"><style>p{margin:0}</style>Hi</BODY></html>",
		},
		{
			name: "body prefix is not body",
			html: "<bodyguard>Hi</bodyguard>",
			css:  "p{margin:0}",
			want: "<style>p{margin:0}</style><bodyguard>Hi</bodyguard>",
		},
		{
			name: "sanitizes closing tags",
			html: "<head></head>",
			css:  "</style><script>alert(1)</script>",
			want: `<head><style><\/style><script>alert(1)<\/script></style></head>`,
		},
	}

	injector := &CSSInjection{}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := injector.InjectCSS(context.Background(), tt.html, tt.css)
			if got != tt.want {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInjectCSS_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	html := "<html><head></head><body>Hi</body></html>"
	if got := (&CSSInjection{}).InjectCSS(ctx, html, "p{margin:0}"); got != html {
		t.Errorf("InjectCSS() with cancelled context = %q, want unchanged", got)
	}
}
