package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/hints"
	"github.com/alnah/go-md2site/internal/pipeline"
	"github.com/alnah/go-md2site/internal/templates"
)

// runBuild runs a single build.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseBuildFlags(args, env.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	ec := loadEnvConfig(env.Getenv)
	production := flags.production || ec.Production()
	dir := siteDir(flags.common, env)

	b, err := md2site.NewBuilder(builderOptions(flags.common, production, flags.workers, ec, env)...)
	if err != nil {
		return withHints(err, dir, "")
	}

	report, err := b.Build(ctx)
	if err != nil {
		return withHints(err, dir, b.InputDir())
	}

	printReport(env, flags.common, report, production)
	return nil
}

// builderOptions resolves builder options. Precedence: CLI flags > environment
// variables > config file > defaults.
func builderOptions(common commonFlags, production bool, workers int, ec *envConfig, env *Environment) []md2site.Option {
	configPath := common.config
	if configPath == "" {
		configPath = ec.ConfigPath
	}
	if workers == 0 {
		workers = ec.Workers
	}

	return []md2site.Option{
		md2site.WithDir(siteDir(common, env)),
		md2site.WithConfigPath(configPath),
		md2site.WithProduction(production),
		md2site.WithLocale(ec.Locale),
		md2site.WithWorkers(workers),
		md2site.WithLogger(newLogger(env, common)),
		md2site.WithNow(env.Now),
	}
}

func siteDir(common commonFlags, env *Environment) string {
	if common.dir != "" {
		return common.dir
	}
	return env.Dir
}

// newLogger writes build logs to stderr: warnings by default, debug details
// with --verbose, errors only with --quiet.
func newLogger(env *Environment, common commonFlags) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case common.quiet:
		level = slog.LevelError
	case common.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(env.Stderr, &slog.HandlerOptions{Level: level}))
}

// printReport prints the build summary unless --quiet.
func printReport(env *Environment, common commonFlags, r *md2site.Report, production bool) {
	if common.quiet {
		return
	}

	mode := "development"
	if production {
		mode = "production"
	}
	fmt.Fprintf(env.Stdout, "Built %d %s, copied %d %s in %s (%s)\n",
		r.Pages, plural(r.Pages, "page", "pages"),
		r.Copied, plural(r.Copied, "file", "files"),
		r.Duration.Round(time.Millisecond), mode)

	if common.verbose {
		if r.Drafts > 0 {
			fmt.Fprintf(env.Stdout, "  drafts skipped: %d\n", r.Drafts)
		}
		fmt.Fprintf(env.Stdout, "  asset hash: %s\n", r.AssetHash)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// withHints appends actionable hints to known failures. The original error
// stays in the chain for exit code mapping.
func withHints(err error, dir, inputDir string) error {
	var hint string
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		hint = hints.ForConfigNotFound(config.SearchPaths(dir))
	case errors.Is(err, pipeline.ErrStylesheetLoad):
		hint = hints.ForStylesheetNotFound(inputDir)
	case errors.Is(err, assets.ErrLayoutNotFound):
		hint = hints.ForLayoutNotFound(inputDir)
	case errors.Is(err, md2site.ErrWrite):
		hint = hints.ForOutputDirectory()
	case errors.Is(err, pipeline.ErrCSSPurge), errors.Is(err, pipeline.ErrMinify):
		hint = hints.ForTransformFailure()
	case errors.Is(err, templates.ErrMissingField):
		hint = hints.ForShortcode(shortcodeName(err))
	}
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}

// shortcodeName extracts the failing shortcode from an error message.
func shortcodeName(err error) string {
	msg := err.Error()
	for _, name := range []string{"icon", "script"} {
		if strings.Contains(msg, name+" shortcode") {
			return name
		}
	}
	return ""
}
