package md2site

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/alnah/go-md2site/internal/assethash"
	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/dateutil"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/pipeline"
	"github.com/alnah/go-md2site/internal/templates"
)

// Builder builds a site. A Builder can run any number of builds; each
// build re-reads pages, layouts and stylesheets from disk.
type Builder struct {
	dir        string
	configPath string
	cfg        *config.Config
	production bool
	locale     string
	workers    int
	plugins    []Plugin
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithDir sets the site directory. Config discovery and relative input and
// output paths resolve against it. Default ".".
func WithDir(dir string) Option {
	return func(b *Builder) {
		b.dir = dir
	}
}

// WithConfigPath loads the site config from path instead of searching
// config.DefaultNames.
func WithConfigPath(path string) Option {
	return func(b *Builder) {
		b.configPath = path
	}
}

// WithConfig uses cfg instead of loading a config file. cfg is validated by
// NewBuilder.
func WithConfig(cfg *config.Config) Option {
	return func(b *Builder) {
		b.cfg = cfg
	}
}

// WithProduction enables the asset transform pipeline and skips drafts.
func WithProduction(production bool) Option {
	return func(b *Builder) {
		b.production = production
	}
}

// WithLocale sets the date locale (BCP 47 or POSIX form), overriding the
// config file.
func WithLocale(locale string) Option {
	return func(b *Builder) {
		b.locale = locale
	}
}

// WithWorkers sets the number of concurrent page renders, overriding the
// config file. Zero means automatic.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		b.workers = n
	}
}

// WithPlugin registers a plugin. Plugins register in the order given.
func WithPlugin(p Plugin) Option {
	return func(b *Builder) {
		b.plugins = append(b.plugins, p)
	}
}

// WithLogger sets the build logger. Default slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithNow sets the clock used for the build start time.
func WithNow(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a Builder and loads its configuration.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		dir:    ".",
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}

	if b.cfg == nil {
		cfg, err := config.LoadConfig(b.dir, b.configPath)
		if err != nil {
			return nil, err
		}
		b.cfg = cfg
	} else if err := b.cfg.Validate(); err != nil {
		return nil, err
	}

	if b.workers == 0 {
		b.workers = b.cfg.Workers
	}
	return b, nil
}

// Config returns the site configuration.
func (b *Builder) Config() *config.Config {
	return b.cfg
}

// InputDir returns the resolved source directory.
func (b *Builder) InputDir() string {
	return b.resolve(b.cfg.Input)
}

// OutputDir returns the resolved destination directory.
func (b *Builder) OutputDir() string {
	return b.resolve(b.cfg.Output)
}

func (b *Builder) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(b.dir, p)
}

// Report summarizes a build.
type Report struct {
	Pages     int           // Pages written
	Drafts    int           // Drafts skipped (production only)
	Copied    int           // Passthrough files copied
	AssetHash string        // Cache-busting hash of this build
	Duration  time.Duration // Wall time of the build
}

// Build renders every page and copies passthrough files. The first page
// failure cancels the remaining renders and is returned.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := b.now()
	inputDir, outputDir := b.InputDir(), b.OutputDir()

	if !fileutil.DirExists(inputDir) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, inputDir)
	}

	settings, err := b.settings(start, inputDir)
	if err != nil {
		return nil, err
	}

	resolver, err := assets.NewAssetResolver(inputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputNotFound, err)
	}

	md := pipeline.NewMarkdownRenderer()
	funcs, err := b.funcMap(settings, md)
	if err != nil {
		return nil, err
	}

	transform, err := pipeline.New(settings.pipelineConfig(b.cfg, resolver))
	if err != nil {
		return nil, err
	}

	pages, drafts, err := b.loadPages(inputDir, settings.Production)
	if err != nil {
		return nil, err
	}
	if err := checkOutputConflicts(pages); err != nil {
		return nil, err
	}

	r := &renderer{
		funcs:       funcs,
		markdown:    md,
		pipeline:    transform,
		layouts:     resolver,
		site:        b.siteData(settings),
		collections: buildCollections(pages),
	}

	var written atomic.Int64
	err = forEach(ctx, b.workers, pages, func(ctx context.Context, p *Page) error {
		if p.OutputPath == "" {
			return nil
		}
		html, err := r.render(ctx, p)
		if err != nil {
			return err
		}
		dst, err := outputFile(outputDir, p.OutputPath)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWrite, p.Source, err)
		}
		if err := fileutil.WriteFile(dst, []byte(html)); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
		written.Add(1)
		b.logger.Debug("page written", "source", p.Source, "output", p.OutputPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	copied, err := copyPassthrough(ctx, b.logger, inputDir, outputDir, b.cfg.Passthrough)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Pages:     int(written.Load()),
		Drafts:    drafts,
		Copied:    copied,
		AssetHash: settings.AssetHash,
		Duration:  b.now().Sub(start),
	}
	b.logger.Info("build complete",
		"pages", report.Pages,
		"files", report.Copied,
		"production", settings.Production,
		"duration", report.Duration)
	return report, nil
}

// settings resolves the per-build Settings.
func (b *Builder) settings(start time.Time, inputDir string) (Settings, error) {
	s := Settings{Production: b.production}

	tag := b.locale
	if tag == "" {
		tag = b.cfg.Locale
	}
	locale, err := dateutil.ResolveLocale(tag)
	if err != nil {
		b.logger.Warn("unknown locale, using default", "locale", tag, "default", locale)
	}
	s.Locale = locale

	hash, ok, err := assethash.Compute(passthroughRoots(inputDir, b.cfg.Passthrough)...)
	if err != nil {
		return Settings{}, fmt.Errorf("computing asset hash: %w", err)
	}
	if !ok {
		hash = assethash.FromTime(start)
	}
	s.AssetHash = hash

	b.logger.Debug("build settings", "locale", s.Locale, "production", s.Production, "assetHash", s.AssetHash)
	return s, nil
}

// funcMap registers the built-ins, then each plugin in order.
func (b *Builder) funcMap(s Settings, md templates.InlineRenderer) (template.FuncMap, error) {
	reg := templates.NewRegistry()
	if err := reg.AddAll(templates.BuiltinSource, templates.Builtins(s.templateOptions(b.cfg, md))); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlugin, err)
	}
	for _, p := range b.plugins {
		if err := reg.AddAll(p.Name(), p.Funcs(s)); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrPlugin, p.Name(), err)
		}
	}
	return reg.FuncMap(), nil
}

// loadPages discovers and parses pages. Drafts are dropped in production and
// counted.
func (b *Builder) loadPages(inputDir string, production bool) ([]*Page, int, error) {
	paths, err := discoverPages(inputDir, b.cfg.Passthrough)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInputNotFound, err)
	}

	pages := make([]*Page, 0, len(paths))
	drafts := 0
	for _, rel := range paths {
		p, err := loadPage(inputDir, rel)
		if err != nil {
			return nil, 0, err
		}
		if p.Draft && production {
			drafts++
			b.logger.Debug("draft skipped", "source", p.Source)
			continue
		}
		pages = append(pages, p)
	}
	return pages, drafts, nil
}

func (b *Builder) siteData(s Settings) *SiteData {
	return &SiteData{
		Title:       b.cfg.Title,
		Description: b.cfg.Description,
		BaseURL:     b.cfg.BaseURL,
		Language:    b.cfg.Language,
		Stylesheets: b.cfg.Critical.Stylesheets,
		Production:  s.Production,
		AssetHash:   s.AssetHash,
		Locale:      string(s.Locale),
	}
}
