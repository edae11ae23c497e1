package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Input != "src" {
		t.Errorf("Input = %q, want %q", cfg.Input, "src")
	}
	if cfg.Output != "_site" {
		t.Errorf("Output = %q, want %q", cfg.Output, "_site")
	}
	if cfg.Icons.Sprite != "/icons/icons.svg" {
		t.Errorf("Icons.Sprite = %q, want %q", cfg.Icons.Sprite, "/icons/icons.svg")
	}
	if cfg.Icons.Prefix != "svg-" {
		t.Errorf("Icons.Prefix = %q, want %q", cfg.Icons.Prefix, "svg-")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{"empty value is valid", "", 10, false},
		{"value at limit is valid", "1234567890", 10, false},
		{"value over limit returns error", "12345678901", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("test.field", tt.value, tt.maxLength)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				if err != nil && !strings.Contains(err.Error(), "test.field") {
					t.Errorf("error %q should name the field", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate - Field, path and safelist validation
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		wantMsg string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "empty input",
			mutate:  func(c *Config) { c.Input = " " },
			wantErr: ErrInvalidConfig,
			wantMsg: "input",
		},
		{
			name:    "empty output",
			mutate:  func(c *Config) { c.Output = "" },
			wantErr: ErrInvalidConfig,
			wantMsg: "output",
		},
		{
			name:    "output equals input",
			mutate:  func(c *Config) { c.Output = "./src" },
			wantErr: ErrInvalidConfig,
			wantMsg: "must differ",
		},
		{
			name:    "title too long",
			mutate:  func(c *Config) { c.Title = strings.Repeat("x", MaxTitleLength+1) },
			wantErr: ErrFieldTooLong,
			wantMsg: "title",
		},
		{
			name:    "absolute passthrough",
			mutate:  func(c *Config) { c.Passthrough = []string{"/etc"} },
			wantErr: ErrInvalidConfig,
			wantMsg: "passthrough[0]",
		},
		{
			name:    "escaping passthrough",
			mutate:  func(c *Config) { c.Passthrough = []string{"css", "../secrets"} },
			wantErr: ErrInvalidConfig,
			wantMsg: "passthrough[1]",
		},
		{
			name:    "stylesheet without css extension",
			mutate:  func(c *Config) { c.Critical.Stylesheets = []string{"css/main.scss"} },
			wantErr: ErrInvalidConfig,
			wantMsg: "not a .css file",
		},
		{
			name: "safelist pattern does not compile",
			mutate: func(c *Config) {
				c.Critical.Safelist = []SafelistEntry{{Pattern: "^(toast"}}
			},
			wantErr: ErrInvalidConfig,
			wantMsg: "critical.safelist[0].pattern",
		},
		{
			name: "safelist unknown kind",
			mutate: func(c *Config) {
				c.Critical.Safelist = []SafelistEntry{{Pattern: "^toast", Kind: "deep"}}
			},
			wantErr: ErrInvalidConfig,
			wantMsg: "standard or greedy",
		},
		{
			name: "safelist kinds accepted",
			mutate: func(c *Config) {
				c.Critical.Safelist = []SafelistEntry{
					{Pattern: "^toast"},
					{Pattern: "^btn", Kind: SafelistStandard},
					{Pattern: "hljs", Kind: SafelistGreedy},
				}
			},
		},
		{
			name:    "too many workers",
			mutate:  func(c *Config) { c.Workers = MaxWorkers + 1 },
			wantErr: ErrInvalidConfig,
			wantMsg: "workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() error = %q, want containing %q", err, tt.wantMsg)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File discovery and parsing
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	writeConfig := func(t *testing.T, dir, name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	t.Run("no file and no path returns defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfig(t.TempDir(), "")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
			t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("default name is discovered", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeConfig(t, dir, "site.yml", "title: Docs\n")

		cfg, err := LoadConfig(dir, "")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Title != "Docs" {
			t.Errorf("Title = %q, want %q", cfg.Title, "Docs")
		}
	})

	t.Run("explicit path overrides defaults and keeps the rest", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeConfig(t, dir, "custom.yaml", `input: content
output: public
critical:
  stylesheets: [styles/site.css]
  safelist:
    - pattern: "^toast-"
      kind: greedy
`)

		cfg, err := LoadConfig(dir, "custom.yaml")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		want := DefaultConfig()
		want.Input = "content"
		want.Output = "public"
		want.Critical = CriticalConfig{
			Stylesheets: []string{"styles/site.css"},
			Safelist:    []SafelistEntry{{Pattern: "^toast-", Kind: SafelistGreedy}},
		}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing explicit path returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(t.TempDir(), "nope.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeConfig(t, dir, "site.yaml", "title: [unclosed")

		_, err := LoadConfig(dir, "")
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeConfig(t, dir, "site.yaml", "titel: typo\n")

		_, err := LoadConfig(dir, "")
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid values are rejected after parsing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeConfig(t, dir, "site.yaml", "workers: -1\n")

		_, err := LoadConfig(dir, "")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("error = %v, want ErrInvalidConfig", err)
		}
	})
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	got := SearchPaths("root")
	want := []string{
		filepath.Join("root", "site.yaml"),
		filepath.Join("root", "site.yml"),
		filepath.Join("root", ".md2site.yaml"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SearchPaths() mismatch (-want +got):\n%s", diff)
	}
}
