package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/watch"
)

// runWatch builds once, then rebuilds in development mode whenever the input
// tree changes, until interrupted.
func runWatch(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseWatchFlags(args, env.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	ec := loadEnvConfig(env.Getenv)
	dir := siteDir(flags.common, env)
	logger := newLogger(env, flags.common)

	b, err := md2site.NewBuilder(builderOptions(flags.common, false, flags.workers, ec, env)...)
	if err != nil {
		return withHints(err, dir, "")
	}

	rebuild := func(ctx context.Context) error {
		report, err := b.Build(ctx)
		if err != nil {
			if ctx.Err() == nil {
				fmt.Fprintln(env.Stderr, "error:", withHints(err, dir, b.InputDir()))
			}
			return nil
		}
		printReport(env, flags.common, report, false)
		return nil
	}

	// A broken initial build is reported and then fixed by editing.
	_ = rebuild(ctx)

	w, err := watch.New(b.InputDir(), watch.Options{
		Debounce: flags.debounce,
		Exclude:  []string{b.OutputDir()},
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Watching %s for changes (Ctrl+C to stop)\n", b.InputDir())
	}
	return w.Run(ctx, rebuild)
}
