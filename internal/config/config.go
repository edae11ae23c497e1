package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrFieldTooLong   = errors.New("field exceeds maximum length")
	ErrInvalidConfig  = errors.New("invalid config")
)

// Field length limits.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 500
	MaxURLLength         = 2048 // Browser limit
	MaxLanguageLength    = 35   // BCP 47 upper bound in practice
	MaxPatternLength     = 200
	MaxWorkers           = 32
)

// Safelist kinds.
const (
	SafelistStandard = "standard" // every identifier of a selector must be present or safelisted
	SafelistGreedy   = "greedy"   // one matching identifier keeps the whole selector
)

// DefaultNames are the config files searched in the working directory
// when no explicit path is given.
var DefaultNames = []string{"site.yaml", "site.yml", ".md2site.yaml"}

// Config holds all configuration for a site build.
type Config struct {
	Input       string         `yaml:"input"`  // Source directory (default: "src")
	Output      string         `yaml:"output"` // Destination directory (default: "_site")
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	BaseURL     string         `yaml:"baseURL"`
	Language    string         `yaml:"language"` // <html lang>, default "en"
	Locale      string         `yaml:"locale"`   // Date locale, overridden by LOCALE
	Passthrough []string       `yaml:"passthrough"`
	Critical    CriticalConfig `yaml:"critical"`
	Icons       IconsConfig    `yaml:"icons"`
	Workers     int            `yaml:"workers"` // 0 = auto
}

// CriticalConfig defines the stylesheets purged and inlined in production.
type CriticalConfig struct {
	Stylesheets []string        `yaml:"stylesheets"` // Relative to Input
	Safelist    []SafelistEntry `yaml:"safelist"`    // Appended to the built-in safelist
}

// SafelistEntry is a selector-name pattern exempt from purging.
type SafelistEntry struct {
	Pattern string `yaml:"pattern"`
	Kind    string `yaml:"kind"` // "standard" (default) or "greedy"
}

// IconsConfig defines the SVG sprite used by the icon shortcode.
type IconsConfig struct {
	Sprite string `yaml:"sprite"` // default "/icons/icons.svg"
	Prefix string `yaml:"prefix"` // default "svg-"
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Input:       "src",
		Output:      "_site",
		Language:    "en",
		Passthrough: []string{"css", "js", "fonts", "icons", "images"},
		Critical: CriticalConfig{
			Stylesheets: []string{"css/main.css"},
		},
		Icons: IconsConfig{
			Sprite: "/icons/icons.svg",
			Prefix: "svg-",
		},
	}
}

// Validate checks field lengths, paths and safelist patterns.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("%w: input: required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("%w: output: required", ErrInvalidConfig)
	}
	if filepath.Clean(c.Input) == filepath.Clean(c.Output) {
		return fmt.Errorf("%w: output: must differ from input (%q)", ErrInvalidConfig, c.Input)
	}

	if err := validateFieldLength("title", c.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("description", c.Description, MaxDescriptionLength); err != nil {
		return err
	}
	if err := validateFieldLength("baseURL", c.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("language", c.Language, MaxLanguageLength); err != nil {
		return err
	}
	if err := validateFieldLength("locale", c.Locale, MaxLanguageLength); err != nil {
		return err
	}
	if err := validateFieldLength("icons.sprite", c.Icons.Sprite, MaxURLLength); err != nil {
		return err
	}

	for i, p := range c.Passthrough {
		if err := validateRelative(fmt.Sprintf("passthrough[%d]", i), p); err != nil {
			return err
		}
	}

	for i, s := range c.Critical.Stylesheets {
		field := fmt.Sprintf("critical.stylesheets[%d]", i)
		if err := validateRelative(field, s); err != nil {
			return err
		}
		if !strings.EqualFold(path.Ext(s), ".css") {
			return fmt.Errorf("%w: %s: %q is not a .css file", ErrInvalidConfig, field, s)
		}
	}

	for i, e := range c.Critical.Safelist {
		field := fmt.Sprintf("critical.safelist[%d]", i)
		if e.Pattern == "" {
			return fmt.Errorf("%w: %s.pattern: required", ErrInvalidConfig, field)
		}
		if err := validateFieldLength(field+".pattern", e.Pattern, MaxPatternLength); err != nil {
			return err
		}
		if _, err := regexp.Compile(e.Pattern); err != nil {
			return fmt.Errorf("%w: %s.pattern: %v", ErrInvalidConfig, field, err)
		}
		switch e.Kind {
		case "", SafelistStandard, SafelistGreedy:
			// valid
		default:
			return fmt.Errorf("%w: %s.kind: invalid value %q (must be standard or greedy)", ErrInvalidConfig, field, e.Kind)
		}
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidConfig, MaxWorkers, c.Workers)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateRelative rejects absolute paths and paths escaping their root.
func validateRelative(field, p string) error {
	if p == "" {
		return fmt.Errorf("%w: %s: empty path", ErrInvalidConfig, field)
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return fmt.Errorf("%w: %s: %q must be relative", ErrInvalidConfig, field, p)
	}
	clean := path.Clean(filepath.ToSlash(p))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: %s: %q escapes the input directory", ErrInvalidConfig, field, p)
	}
	return nil
}

// LoadConfig loads configuration from a file path.
// An empty path searches DefaultNames in dir; when none exists the default
// configuration is returned. An explicit path that does not exist is an error
// (no silent fallback).
func LoadConfig(dir, configPath string) (*Config, error) {
	if configPath == "" {
		found, ok := findDefault(dir)
		if !ok {
			return DefaultConfig(), nil
		}
		configPath = found
	} else if !filepath.IsAbs(configPath) && dir != "" {
		configPath = filepath.Join(dir, configPath)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the paths LoadConfig tries when no path is given.
func SearchPaths(dir string) []string {
	paths := make([]string, 0, len(DefaultNames))
	for _, name := range DefaultNames {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths
}

// findDefault returns the first existing default config file in dir.
func findDefault(dir string) (string, bool) {
	for _, p := range SearchPaths(dir) {
		if fileutil.FileExists(p) {
			return p, true
		}
	}
	return "", false
}
