package pipeline

import (
	"strings"

	"golang.org/x/net/html"
)

// Markup is the set of names a page's elements expose to CSS selectors.
type Markup struct {
	tags    map[string]struct{}
	classes map[string]struct{}
	ids     map[string]struct{}
	attrs   map[string][]string // attribute name -> every value seen
}

// ScanMarkup parses an HTML document and records its tag names, classes,
// ids and attributes. Parsing follows the HTML5 algorithm, so <html>, <head>
// and <body> are always present.
func ScanMarkup(htmlContent string) (*Markup, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	m := &Markup{
		tags:    make(map[string]struct{}),
		classes: make(map[string]struct{}),
		ids:     make(map[string]struct{}),
		attrs:   make(map[string][]string),
	}
	m.walk(doc)
	return m, nil
}

// walk traverses the DOM and records element names.
func (m *Markup) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		m.tags[strings.ToLower(n.Data)] = struct{}{}
		for _, attr := range n.Attr {
			key := strings.ToLower(attr.Key)
			if attr.Namespace != "" {
				key = attr.Namespace + ":" + key
			}
			m.attrs[key] = append(m.attrs[key], attr.Val)

			switch key {
			case "class":
				for _, c := range strings.Fields(attr.Val) {
					m.classes[c] = struct{}{}
				}
			case "id":
				if attr.Val != "" {
					m.ids[attr.Val] = struct{}{}
				}
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		m.walk(c)
	}
}

// HasTag reports whether an element with the given name exists.
func (m *Markup) HasTag(name string) bool {
	_, ok := m.tags[strings.ToLower(name)]
	return ok
}

// HasClass reports whether any element carries the class.
func (m *Markup) HasClass(name string) bool {
	_, ok := m.classes[name]
	return ok
}

// HasID reports whether any element carries the id.
func (m *Markup) HasID(name string) bool {
	_, ok := m.ids[name]
	return ok
}

// MatchAttr reports whether any element satisfies the attribute selector
// [name op value]. An empty op only checks presence.
func (m *Markup) MatchAttr(name, op, value string, foldCase bool) bool {
	values, ok := m.attrs[strings.ToLower(name)]
	if !ok {
		return false
	}
	if op == "" {
		return true
	}
	if foldCase {
		value = strings.ToLower(value)
	}
	for _, v := range values {
		if foldCase {
			v = strings.ToLower(v)
		}
		if matchAttrValue(v, op, value) {
			return true
		}
	}
	return false
}

// matchAttrValue implements the CSS attribute selector operators.
func matchAttrValue(have, op, want string) bool {
	switch op {
	case "=":
		return have == want
	case "~=":
		for _, f := range strings.Fields(have) {
			if f == want {
				return true
			}
		}
		return false
	case "|=":
		return have == want || strings.HasPrefix(have, want+"-")
	case "^=":
		return want != "" && strings.HasPrefix(have, want)
	case "$=":
		return want != "" && strings.HasSuffix(have, want)
	case "*=":
		return want != "" && strings.Contains(have, want)
	}
	return false
}
