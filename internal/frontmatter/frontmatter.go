// Package frontmatter splits YAML front matter from page bodies.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/alnah/go-md2site/internal/yamlutil"
)

// Sentinel errors for front matter parsing.
var (
	ErrMissingClosingDelimiter = errors.New("front matter: missing closing delimiter")
	ErrInvalidYAML             = errors.New("front matter: invalid YAML")
)

const delimiter = "---"

// Split separates YAML front matter (`---` delimited) from the body.
//
// If the document does not start with a delimiter line, had is false and body
// is the full input. CRLF line endings are accepted.
func Split(content []byte) (front []byte, body []byte, had bool, err error) {
	nl := []byte("\n")
	if bytes.Contains(content, []byte("\r\n")) {
		nl = []byte("\r\n")
	}

	open := append([]byte(delimiter), nl...)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	closing := append([]byte(delimiter), nl...)
	if bytes.HasPrefix(content[start:], closing) {
		return []byte{}, content[start+len(closing):], true, nil
	}

	closeSeq := append(append(append([]byte{}, nl...), delimiter...), nl...)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter at EOF without a trailing newline is still valid.
		tail := append(append([]byte{}, nl...), delimiter...)
		if bytes.HasSuffix(content, tail) {
			return content[start : len(content)-len(tail)+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	bodyStart := start + idx + len(closeSeq)
	return content[start:end], content[bodyStart:], true, nil
}

// Parse splits content and decodes the front matter into a map.
// Documents without front matter yield an empty map.
func Parse(content []byte) (map[string]any, []byte, error) {
	front, body, _, err := Split(content)
	if err != nil {
		return nil, nil, err
	}
	data, err := yamlutil.UnmarshalMap(front)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return data, body, nil
}
