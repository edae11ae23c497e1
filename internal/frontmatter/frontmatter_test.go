package frontmatter

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestSplit - Delimiter handling
// ---------------------------------------------------------------------------

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantFront string
		wantBody  string
		wantHad   bool
		wantErr   error
	}{
		{
			name:     "no front matter",
			input:    "# Title\n\nBody\n",
			wantBody: "# Title\n\nBody\n",
		},
		{
			name:      "simple front matter",
			input:     "---\ntitle: Hi\n---\nBody\n",
			wantFront: "title: Hi\n",
			wantBody:  "Body\n",
			wantHad:   true,
		},
		{
			name:     "empty front matter",
			input:    "---\n---\nBody",
			wantBody: "Body",
			wantHad:  true,
		},
		{
			name:      "crlf line endings",
			input:     "---\r\ntitle: Hi\r\n---\r\nBody",
			wantFront: "title: Hi\r\n",
			wantBody:  "Body",
			wantHad:   true,
		},
		{
			name:      "closing delimiter at end of file",
			input:     "---\ntitle: Hi\n---",
			wantFront: "title: Hi\n",
			wantHad:   true,
		},
		{
			name:    "missing closing delimiter",
			input:   "---\ntitle: Hi\nBody",
			wantErr: ErrMissingClosingDelimiter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			front, body, had, err := Split([]byte(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Split() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split() unexpected error: %v", err)
			}
			if had != tt.wantHad {
				t.Errorf("had = %v, want %v", had, tt.wantHad)
			}
			if string(front) != tt.wantFront {
				t.Errorf("front = %q, want %q", front, tt.wantFront)
			}
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParse - Decoding into a map
// ---------------------------------------------------------------------------

func TestParse(t *testing.T) {
	t.Parallel()

	data, body, err := Parse([]byte("---\ntitle: Welcome\nlayout: base\n---\nHello"))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if data["title"] != "Welcome" {
		t.Errorf("title = %v, want Welcome", data["title"])
	}
	if data["layout"] != "base" {
		t.Errorf("layout = %v, want base", data["layout"])
	}
	if string(body) != "Hello" {
		t.Errorf("body = %q, want %q", body, "Hello")
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, _, err := Parse([]byte("---\ntitle: [oops\n---\nHello"))
	if !errors.Is(err, ErrInvalidYAML) {
		t.Errorf("Parse() error = %v, want ErrInvalidYAML", err)
	}
}

func TestParse_NoFrontMatter(t *testing.T) {
	t.Parallel()

	data, body, err := Parse([]byte("plain"))
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("data = %v, want empty", data)
	}
	if string(body) != "plain" {
		t.Errorf("body = %q, want plain", body)
	}
}
