package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	flag "github.com/spf13/pflag"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/dateutil"
	"github.com/alnah/go-md2site/internal/fileutil"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Site     siteInfo   `json:"site"`
	Env      envInfo    `json:"environment"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
	checks   []checkRow // human-readable lines, in check order
}

// siteInfo holds site layout detection results.
type siteInfo struct {
	Config      string   `json:"config,omitempty"` // empty when defaults are used
	Input       string   `json:"input"`
	Output      string   `json:"output"`
	Pages       int      `json:"pages"`
	Stylesheets []string `json:"stylesheets"`
	Layout      string   `json:"layout"` // "site" or "embedded"
}

// envInfo holds environment detection results.
type envInfo struct {
	OS     string `json:"os"`
	Arch   string `json:"arch"`
	Mode   string `json:"mode"`
	Locale string `json:"locale"`
}

type checkRow struct {
	section string
	level   string // OK, WARN or ERROR
	text    string
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Warnings still exit 0; errors exit 1.
func runDoctorCmd(args []string, env *Environment) int {
	var common commonFlags
	var jsonOutput bool
	fs := newDoctorFlagSet(&common, &jsonOutput)

	if err := parse(fs, args, func() { printDoctorUsage(env.Stdout) }); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	result := runDoctor(common, env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(common commonFlags, env *Environment) *doctorResult {
	ec := loadEnvConfig(env.Getenv)
	result := &doctorResult{
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
			Mode: "development",
		},
	}
	if ec.Production() {
		result.Env.Mode = "production"
	}

	b, err := md2site.NewBuilder(builderOptions(common, false, 0, ec, env)...)
	if err != nil {
		result.fail("Config", err.Error())
		result.finish()
		return result
	}

	checkLocale(result, b, ec)
	checkConfig(result, b, siteDir(common, env), common, ec)
	checkInput(result, b)
	checkOutput(result, b)
	result.finish()
	return result
}

func checkConfig(r *doctorResult, b *md2site.Builder, dir string, common commonFlags, ec *envConfig) {
	path := common.config
	if path == "" {
		path = ec.ConfigPath
	}
	if path == "" {
		for _, candidate := range config.SearchPaths(dir) {
			if fileutil.FileExists(candidate) {
				path = candidate
				break
			}
		}
	}
	r.Site.Config = path
	if path == "" {
		r.ok("Config", "No config file, using defaults")
		return
	}
	title := b.Config().Title
	if title == "" {
		r.warn("Config", fmt.Sprintf("%s has no title", path))
		return
	}
	r.ok("Config", fmt.Sprintf("%s (%s)", path, title))
}

func checkLocale(r *doctorResult, b *md2site.Builder, ec *envConfig) {
	value := ec.Locale
	if value == "" {
		value = b.Config().Locale
	}
	locale, err := dateutil.ResolveLocale(value)
	r.Env.Locale = string(locale)
	if err != nil {
		r.warn("Environment", fmt.Sprintf("locale %q is invalid, dates use %s", value, locale))
		return
	}
	r.ok("Environment", fmt.Sprintf("Date locale: %s", locale))
}

func checkInput(r *doctorResult, b *md2site.Builder) {
	input := b.InputDir()
	r.Site.Input = input
	if !fileutil.DirExists(input) {
		r.fail("Site", fmt.Sprintf("input directory not found: %s", input))
		return
	}

	pages, err := md2site.CountPages(input, b.Config().Passthrough)
	if err != nil {
		r.fail("Site", fmt.Sprintf("scanning %s: %v", input, err))
		return
	}
	r.Site.Pages = pages
	if pages == 0 {
		r.warn("Site", fmt.Sprintf("no pages in %s", input))
	} else {
		r.ok("Site", fmt.Sprintf("%d %s in %s", pages, plural(pages, "page", "pages"), input))
	}

	resolver, err := assets.NewAssetResolver(input)
	if err != nil {
		r.fail("Site", err.Error())
		return
	}

	source, err := resolver.LayoutSource(assets.DefaultLayoutName)
	if err != nil {
		r.fail("Site", fmt.Sprintf("default layout: %v", err))
	} else {
		r.Site.Layout = source
		r.ok("Site", fmt.Sprintf("Default layout: %s", source))
	}

	r.Site.Stylesheets = []string{}
	for _, sheet := range b.Config().Critical.Stylesheets {
		if _, err := resolver.LoadStyle(sheet); err != nil {
			r.fail("Site", fmt.Sprintf("critical stylesheet %s: %v", sheet, err))
			continue
		}
		r.Site.Stylesheets = append(r.Site.Stylesheets, sheet)
		r.ok("Site", fmt.Sprintf("Critical stylesheet: %s", sheet))
	}

	for _, p := range b.Config().Passthrough {
		if _, err := os.Stat(filepath.Join(input, filepath.FromSlash(p))); err != nil {
			r.warn("Site", fmt.Sprintf("passthrough path %s does not exist", p))
		}
	}
}

// checkOutput verifies the output directory, or its nearest existing
// parent, accepts writes.
func checkOutput(r *doctorResult, b *md2site.Builder) {
	output := b.OutputDir()
	r.Site.Output = output

	dir := output
	for !fileutil.DirExists(dir) {
		parent := filepath.Dir(dir)
		if parent == dir {
			r.fail("Site", fmt.Sprintf("no existing parent for %s", output))
			return
		}
		dir = parent
	}

	tmp, err := os.CreateTemp(dir, ".md2site-doctor-*")
	if err != nil {
		r.fail("Site", fmt.Sprintf("output directory not writable: %s", dir))
		return
	}
	name := tmp.Name()
	_ = tmp.Close()
	_ = os.Remove(name)
	r.ok("Site", fmt.Sprintf("Output: %s (writable)", output))
}

func (r *doctorResult) ok(section, text string) {
	r.checks = append(r.checks, checkRow{section, "OK", text})
}

func (r *doctorResult) warn(section, text string) {
	r.checks = append(r.checks, checkRow{section, "WARN", text})
	r.Warnings = append(r.Warnings, text)
}

func (r *doctorResult) fail(section, text string) {
	r.checks = append(r.checks, checkRow{section, "ERROR", text})
	r.Errors = append(r.Errors, text)
}

func (r *doctorResult) finish() {
	switch {
	case len(r.Errors) > 0:
		r.Status = statusErrors
	case len(r.Warnings) > 0:
		r.Status = statusWarnings
	default:
		r.Status = statusReady
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2site doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	fmt.Fprintf(w, "  [OK] Mode: %s\n", r.Env.Mode)

	section := "Environment"
	for _, c := range r.checks {
		if c.section != section {
			fmt.Fprintln(w)
			fmt.Fprintln(w, c.section)
			section = c.section
		}
		fmt.Fprintf(w, "  [%s] %s\n", c.level, c.text)
	}
	fmt.Fprintln(w)

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to build")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that the site can be built: config, pages, layouts, critical")
	fmt.Fprintln(w, "stylesheets and the output directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Machine-readable output")
	fmt.Fprintln(w, "  -C, --dir <path>          Site directory (default: current directory)")
	fmt.Fprintln(w, "  -c, --config <path>       Config file")
}
