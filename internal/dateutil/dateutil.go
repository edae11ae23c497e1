// Package dateutil provides date parsing and localized formatting.
//
// Format strings use a small token syntax (YYYY, MMMM, D, ...) rather than Go
// reference layouts so templates stay readable; month names are rendered in
// the build locale.
package dateutil

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// Sentinel errors for date operations.
var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidLocale     = errors.New("invalid locale")
)

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultReadableFormat renders a long month name and a numeric day ("March 5").
const DefaultReadableFormat = "MMMM D"

// DefaultLocale is used when no locale is configured or it is unsupported.
const DefaultLocale = monday.LocaleEnUS

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"monthday": DefaultReadableFormat,
}

// isoLayouts are tried in order when parsing ISO-8601 input.
var isoLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseDateFormat converts a user-friendly format string to Go's time format.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D
// Use brackets to escape literal text: [Date] preserves "Date" literally.
// Any non-token characters outside brackets are preserved as literals.
// The result is a plain Go layout, so literal digits or English date words in
// it are still read as layout fields by time.Format; Format keeps them literal.
// Returns ErrInvalidDateFormat if the format is empty, too long, or has unclosed brackets.
func ParseDateFormat(format string) (string, error) {
	segments, err := scanDateFormat(format)
	if err != nil {
		return "", err
	}
	var result strings.Builder
	for _, seg := range segments {
		result.WriteString(seg.text)
	}
	return result.String(), nil
}

// literalMark stands in for literal text in a layout. Private-use runes are
// neither layout fields nor translated by monday.
const literalMark = "\uE000"

// dateSegment is a run of layout fields or of literal text.
type dateSegment struct {
	text    string // Go layout fields, or the literal itself
	literal bool
}

// scanDateFormat splits a token format into layout and literal runs.
func scanDateFormat(format string) ([]dateSegment, error) {
	if format == "" {
		return nil, fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return nil, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var segments []dateSegment
	add := func(text string, literal bool) {
		if n := len(segments); n > 0 && segments[n-1].literal == literal {
			segments[n-1].text += text
			return
		}
		segments = append(segments, dateSegment{text: text, literal: literal})
	}

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return nil, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			add(format[i+1:i+1+end], true)
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				add(t.goFmt, false)
				i += len(t.token)
				matched = true
				break
			}
		}

		if !matched {
			add(format[i:i+1], true)
			i++
		}
	}
	return segments, nil
}

// needsMark reports whether literal text could be read as layout fields.
// Pure punctuation and spaces are left in the layout.
func needsMark(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_'
	})
}

// ParseISO parses an ISO-8601 date or date-time. Dates without a zone are UTC.
func ParseISO(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not ISO-8601", ErrInvalidDate, value)
}

// ResolveLocale maps a locale string (BCP 47 "fr-CA", POSIX "fr_CA.UTF-8",
// or a bare language "de") to a supported formatting locale.
// Empty input yields DefaultLocale. Unsupported but well-formed tags also fall
// back to DefaultLocale; malformed tags return ErrInvalidLocale.
func ResolveLocale(value string) (monday.Locale, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "C") || strings.EqualFold(value, "POSIX") {
		return DefaultLocale, nil
	}

	// Strip POSIX codeset and modifier: en_US.UTF-8@euro -> en_US
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	value = strings.ReplaceAll(value, "_", "-")

	tag, err := language.Parse(value)
	if err != nil {
		return DefaultLocale, fmt.Errorf("%w: %q: %v", ErrInvalidLocale, value, err)
	}

	base, _ := tag.Base()
	region, _ := tag.Region()
	candidate := monday.Locale(base.String() + "_" + region.String())
	if slices.Contains(monday.ListLocales(), candidate) {
		return candidate, nil
	}
	return DefaultLocale, nil
}

// Format renders t using a token format (or preset name) in the given locale.
// An empty format uses DefaultReadableFormat.
func Format(t time.Time, format string, locale monday.Locale) (string, error) {
	if format == "" {
		format = DefaultReadableFormat
	}
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}

	segments, err := scanDateFormat(format)
	if err != nil {
		return "", err
	}
	if locale == "" {
		locale = DefaultLocale
	}

	var layout strings.Builder
	var literals []string
	for _, seg := range segments {
		if seg.literal && needsMark(seg.text) {
			layout.WriteString(literalMark)
			literals = append(literals, seg.text)
			continue
		}
		layout.WriteString(seg.text)
	}

	out := monday.Format(t, layout.String(), locale)
	if len(literals) == 0 {
		return out, nil
	}

	parts := strings.Split(out, literalMark)
	var b strings.Builder
	for i, part := range parts {
		b.WriteString(part)
		if i < len(literals) {
			b.WriteString(literals[i])
		}
	}
	return b.String(), nil
}
