package templates

import (
	"fmt"
	"html/template"
	"reflect"
	"time"

	"github.com/goodsign/monday"

	"github.com/alnah/go-md2site/internal/dateutil"
)

// InlineRenderer renders Markdown without a wrapping block element.
type InlineRenderer interface {
	RenderInline(src string) (string, error)
}

// Filters holds the state filters read: the date locale and the inline
// Markdown renderer.
type Filters struct {
	locale   monday.Locale
	markdown InlineRenderer
}

// NewFilters creates Filters. An empty locale uses dateutil.DefaultLocale.
func NewFilters(locale monday.Locale, markdown InlineRenderer) *Filters {
	if locale == "" {
		locale = dateutil.DefaultLocale
	}
	return &Filters{locale: locale, markdown: markdown}
}

// ReadableDate formats an ISO-8601 date (or a time.Time) for display in the
// configured locale. The optional format uses dateutil tokens and defaults to
// "MMMM D". Unparseable input yields "".
func (f *Filters) ReadableDate(value any, format ...string) string {
	t, ok := toTime(value)
	if !ok {
		return ""
	}

	layout := dateutil.DefaultReadableFormat
	if len(format) > 0 && format[0] != "" {
		layout = format[0]
	}

	out, err := dateutil.Format(t, layout, f.locale)
	if err != nil {
		return ""
	}
	return out
}

// HTMLDateString formats a date as YYYY-MM-DD for <time datetime>.
// Unparseable input yields "".
func (f *Filters) HTMLDateString(value any) string {
	t, ok := toTime(value)
	if !ok {
		return ""
	}
	return t.Format(time.DateOnly)
}

// Limit returns the first n elements of a slice or array, or all of them when
// there are fewer than n.
func (f *Filters) Limit(seq any, n int) (any, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLimit, n)
	}
	if seq == nil {
		return nil, nil
	}

	v := reflect.ValueOf(seq)
	switch v.Kind() {
	case reflect.Slice:
		if n >= v.Len() {
			return seq, nil
		}
		return v.Slice(0, n).Interface(), nil
	case reflect.Array:
		n = min(n, v.Len())
		out := reflect.MakeSlice(reflect.SliceOf(v.Type().Elem()), n, n)
		reflect.Copy(out, v)
		return out.Interface(), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotSequence, seq)
	}
}

// Markdown renders inline Markdown for use where block wrappers are invalid.
func (f *Filters) Markdown(text string) (template.HTML, error) {
	out, err := f.markdown.RenderInline(text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkdownFilter, err)
	}
	// #nosec G203 -- Markdown is author content, raw HTML passthrough is intended
	return template.HTML(out), nil
}

// Dict builds a map from alternating string keys and values, so templates can
// pass descriptors to shortcodes: {{ icon (dict "icon" "close" "alt" "Close") }}.
func Dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d arguments", ErrDictArgs, len(pairs))
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("%w: key %d is %T, want string", ErrDictArgs, i/2, pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

// toTime accepts ISO-8601 strings and time values.
func toTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		t, err := dateutil.ParseISO(v)
		return t, err == nil
	case fmt.Stringer:
		t, err := dateutil.ParseISO(v.String())
		return t, err == nil
	}
	return time.Time{}, false
}
