package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/hints"
)

// Environment variable names.
const (
	envSiteEnv    = "SITE_ENV"        // "production" enables the transform pipeline
	envLocale     = "LOCALE"          // Date locale, e.g. fr_FR or en-GB
	envConfigPath = "MD2SITE_CONFIG"  // Config file path
	envWorkers    = "MD2SITE_WORKERS" // Parallel page renders

	envPrefix         = "MD2SITE_"
	dotEnvName        = ".env"
	siteEnvProduction = "production"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	SiteEnv    string // SITE_ENV
	Locale     string // LOCALE
	ConfigPath string // MD2SITE_CONFIG
	Workers    int    // MD2SITE_WORKERS
}

// knownEnvVars lists valid MD2SITE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	envConfigPath: true,
	envWorkers:    true,
}

// Production reports whether SITE_ENV selects a production build.
func (c *envConfig) Production() bool {
	return strings.EqualFold(strings.TrimSpace(c.SiteEnv), siteEnvProduction)
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		SiteEnv:    getenv(envSiteEnv),
		Locale:     getenv(envLocale),
		ConfigPath: getenv(envConfigPath),
	}

	// Parse int for workers
	if workers := getenv(envWorkers); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// loadDotEnv layers a .env file from the site directory under the process
// environment: variables already set win over the file.
func loadDotEnv(env *Environment) {
	path := filepath.Join(env.Dir, dotEnvName)
	if !fileutil.FileExists(path) {
		return
	}

	values, err := godotenv.Read(path)
	if err != nil {
		fmt.Fprintf(env.Stderr, "warning: ignoring %s: %v\n", path, err)
		return
	}

	base, baseEnviron := env.Getenv, env.Environ
	env.Getenv = func(key string) string {
		if v := base(key); v != "" {
			return v
		}
		return values[key]
	}
	env.Environ = func() []string {
		out := baseEnviron()
		for k, v := range values {
			if base(k) == "" {
				out = append(out, k+"="+v)
			}
		}
		return out
	}
}

// warnUnknownEnvVars warns about unrecognized MD2SITE_* variables.
// Helps catch typos like MD2SITE_WORKER instead of MD2SITE_WORKERS.
func warnUnknownEnvVars(env *Environment) {
	var unknown []string
	for _, kv := range env.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] && !slices.Contains(unknown, name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return
	}
	slices.Sort(unknown)
	fmt.Fprintf(env.Stderr, "warning: unknown environment variables (typo?)%s\n", hints.ForUnknownEnvVars(unknown))
}
