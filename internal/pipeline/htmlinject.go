package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Matched against the original content so offsets stay valid whatever the
// byte length of its lowercased form.
var (
	headCloseRe = regexp.MustCompile(`(?i)</head\s*>`)
	bodyOpenRe  = regexp.MustCompile(`(?i)<body(?:\s[^>]*)?>`)
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block at the end of <head>.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// Empty CSS or a cancelled context leave the HTML unchanged.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"

	if loc := headCloseRe.FindStringIndex(htmlContent); loc != nil {
		return htmlContent[:loc[0]] + styleBlock + htmlContent[loc[0]:]
	}

	// No head: open the body with the styles.
	if loc := bodyOpenRe.FindStringIndex(htmlContent); loc != nil {
		return htmlContent[:loc[1]] + styleBlock + htmlContent[loc[1]:]
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so the CSS cannot close its <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
