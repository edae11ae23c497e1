package md2site

import (
	"github.com/goodsign/monday"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/pipeline"
	"github.com/alnah/go-md2site/internal/templates"
)

// Settings are the process-wide values resolved once at build start and
// shared by every filter, shortcode and transform of that build.
type Settings struct {
	Locale     monday.Locale
	Production bool
	AssetHash  string
}

// templateOptions derives the built-in function options.
func (s Settings) templateOptions(cfg *config.Config, md templates.InlineRenderer) templates.Options {
	return templates.Options{
		Locale:     s.Locale,
		AssetHash:  s.AssetHash,
		IconSprite: cfg.Icons.Sprite,
		IconPrefix: cfg.Icons.Prefix,
		Markdown:   md,
	}
}

// pipelineConfig derives the transform pipeline configuration.
func (s Settings) pipelineConfig(cfg *config.Config, src pipeline.StylesheetSource) pipeline.Config {
	safelist := pipeline.DefaultSafelist()
	for _, e := range cfg.Critical.Safelist {
		safelist = append(safelist, pipeline.SafelistEntry{
			Pattern: e.Pattern,
			Kind:    pipeline.SafelistKind(e.Kind),
		})
	}
	return pipeline.Config{
		Production:  s.Production,
		Stylesheets: cfg.Critical.Stylesheets,
		Source:      src,
		Safelist:    safelist,
	}
}
