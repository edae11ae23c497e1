package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2site/internal/watch"
)

// ErrUsage indicates invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	dir     string
	quiet   bool
	verbose bool
}

// buildFlags holds flags for the build command.
type buildFlags struct {
	common     commonFlags
	production bool
	workers    int
}

// watchFlags holds flags for the watch command.
type watchFlags struct {
	common   commonFlags
	workers  int
	debounce time.Duration
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file path")
	fs.StringVarP(&f.dir, "dir", "C", "", "site directory (default: current directory)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// newBuildFlagSet registers the build flags on a new FlagSet.
func newBuildFlagSet(f *buildFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVarP(&f.production, "production", "p", false, "purge and inline CSS, minify HTML, skip drafts")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel page renders (0 = auto)")
	addCommonFlags(fs, &f.common)
	return fs
}

// newWatchFlagSet registers the watch flags on a new FlagSet.
func newWatchFlagSet(f *watchFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel page renders (0 = auto)")
	fs.DurationVar(&f.debounce, "debounce", watch.DefaultDebounce, "quiet period before rebuilding")
	addCommonFlags(fs, &f.common)
	return fs
}

// newDoctorFlagSet registers the doctor flags on a new FlagSet.
func newDoctorFlagSet(common *commonFlags, jsonOutput *bool) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(jsonOutput, "json", false, "machine-readable output")
	addCommonFlags(fs, common)
	return fs
}

// parseBuildFlags parses build command flags.
func parseBuildFlags(args []string, usage io.Writer) (*buildFlags, error) {
	f := &buildFlags{}
	fs := newBuildFlagSet(f)

	if err := parse(fs, args, func() { printBuildUsage(usage) }); err != nil {
		return nil, err
	}
	if err := validateWorkers(f.workers); err != nil {
		return nil, err
	}
	return f, nil
}

// parseWatchFlags parses watch command flags.
func parseWatchFlags(args []string, usage io.Writer) (*watchFlags, error) {
	f := &watchFlags{}
	fs := newWatchFlagSet(f)

	if err := parse(fs, args, func() { printWatchUsage(usage) }); err != nil {
		return nil, err
	}
	if err := validateWorkers(f.workers); err != nil {
		return nil, err
	}
	if f.debounce <= 0 {
		return nil, fmt.Errorf("%w: --debounce must be positive, got %s", ErrUsage, f.debounce)
	}
	return f, nil
}

// parse runs fs.Parse and rejects positional arguments. Help requests print
// usage and return flag.ErrHelp.
func parse(fs *flag.FlagSet, args []string, usage func()) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage()
			return err
		}
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return nil
}

// validateWorkers checks the --workers range.
func validateWorkers(n int) error {
	if n < 0 || n > maxWorkers {
		return fmt.Errorf("%w: --workers must be between 0 and %d, got %d", ErrUsage, maxWorkers, n)
	}
	return nil
}
