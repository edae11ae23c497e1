package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gorilla/css/scanner"
)

// termKind identifies what a simple selector refers to.
type termKind int

const (
	termTag termKind = iota
	termClass
	termID
	termAttr
)

// selectorTerm is one identifier a selector requires from the markup.
// Pseudo-classes, pseudo-elements, combinators and the universal selector
// carry no identifier and produce no term.
type selectorTerm struct {
	kind     termKind
	name     string
	op       string // attribute operator: "", "=", "~=", "|=", "^=", "$=", "*="
	value    string // attribute value, unquoted and unescaped
	foldCase bool   // [attr=value i]
}

// parseSelector tokenizes a single complex selector (no top-level commas)
// into the identifiers it names.
func parseSelector(sel string) ([]selectorTerm, error) {
	s := scanner.New(sel)
	var terms []selectorTerm

	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			return terms, nil
		case scanner.TokenError:
			return nil, fmt.Errorf("selector %q: %s", sel, tok.Value)
		case scanner.TokenIdent:
			terms = append(terms, selectorTerm{kind: termTag, name: strings.ToLower(unescapeIdent(tok.Value))})
		case scanner.TokenHash:
			terms = append(terms, selectorTerm{kind: termID, name: unescapeIdent(tok.Value[1:])})
		case scanner.TokenFunction:
			if err := skipArguments(s); err != nil {
				return nil, fmt.Errorf("selector %q: %w", sel, err)
			}
		case scanner.TokenChar:
			switch tok.Value {
			case ".":
				next := s.Next()
				switch next.Type {
				case scanner.TokenIdent:
					terms = append(terms, selectorTerm{kind: termClass, name: unescapeIdent(next.Value)})
				case scanner.TokenError:
					return nil, fmt.Errorf("selector %q: %s", sel, next.Value)
				}
			case ":":
				if err := skipPseudo(s); err != nil {
					return nil, fmt.Errorf("selector %q: %w", sel, err)
				}
			case "[":
				term, ok, err := parseAttribute(s)
				if err != nil {
					return nil, fmt.Errorf("selector %q: %w", sel, err)
				}
				if ok {
					terms = append(terms, term)
				}
			case "(":
				if err := skipArguments(s); err != nil {
					return nil, fmt.Errorf("selector %q: %w", sel, err)
				}
			}
		}
	}
}

// skipPseudo consumes a pseudo-class or pseudo-element after its first colon,
// including any functional arguments.
func skipPseudo(s *scanner.Scanner) error {
	tok := s.Next()
	if tok.Type == scanner.TokenChar && tok.Value == ":" {
		tok = s.Next()
	}
	switch tok.Type {
	case scanner.TokenFunction:
		return skipArguments(s)
	case scanner.TokenError:
		return fmt.Errorf("%s", tok.Value)
	}
	return nil
}

// skipArguments consumes tokens up to the parenthesis closing an already
// opened function.
func skipArguments(s *scanner.Scanner) error {
	depth := 1
	for depth > 0 {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			return nil
		case scanner.TokenError:
			return fmt.Errorf("%s", tok.Value)
		case scanner.TokenFunction:
			depth++
		case scanner.TokenChar:
			switch tok.Value {
			case "(":
				depth++
			case ")":
				depth--
			}
		}
	}
	return nil
}

// parseAttribute reads an attribute selector after its opening bracket.
// ok is false for malformed selectors, which are ignored.
func parseAttribute(s *scanner.Scanner) (term selectorTerm, ok bool, err error) {
	term.kind = termAttr

	tok := nextSignificant(s)
	if tok.Type == scanner.TokenError {
		return term, false, fmt.Errorf("%s", tok.Value)
	}
	if tok.Type != scanner.TokenIdent {
		return term, false, skipUntilBracket(s, tok)
	}
	term.name = strings.ToLower(unescapeIdent(tok.Value))

	tok = nextSignificant(s)
	switch {
	case tok.Type == scanner.TokenChar && tok.Value == "]":
		return term, true, nil
	case tok.Type == scanner.TokenChar && tok.Value == "=",
		tok.Type == scanner.TokenIncludes,
		tok.Type == scanner.TokenDashMatch,
		tok.Type == scanner.TokenPrefixMatch,
		tok.Type == scanner.TokenSuffixMatch,
		tok.Type == scanner.TokenSubstringMatch:
		term.op = tok.Value
	default:
		return term, false, skipUntilBracket(s, tok)
	}

	tok = nextSignificant(s)
	switch tok.Type {
	case scanner.TokenIdent:
		term.value = unescapeIdent(tok.Value)
	case scanner.TokenString:
		term.value = unquote(tok.Value)
	case scanner.TokenNumber, scanner.TokenDimension, scanner.TokenPercentage:
		term.value = tok.Value
	default:
		return term, false, skipUntilBracket(s, tok)
	}

	tok = nextSignificant(s)
	if tok.Type == scanner.TokenIdent {
		term.foldCase = strings.EqualFold(tok.Value, "i")
		tok = nextSignificant(s)
	}
	if tok.Type == scanner.TokenChar && tok.Value == "]" {
		return term, true, nil
	}
	return term, false, skipUntilBracket(s, tok)
}

// nextSignificant returns the next token that is not whitespace or a comment.
func nextSignificant(s *scanner.Scanner) *scanner.Token {
	for {
		tok := s.Next()
		if tok.Type != scanner.TokenS && tok.Type != scanner.TokenComment {
			return tok
		}
	}
}

// skipUntilBracket discards tokens through the closing bracket, starting at tok.
func skipUntilBracket(s *scanner.Scanner, tok *scanner.Token) error {
	for {
		switch {
		case tok.Type == scanner.TokenEOF:
			return nil
		case tok.Type == scanner.TokenError:
			return fmt.Errorf("%s", tok.Value)
		case tok.Type == scanner.TokenChar && tok.Value == "]":
			return nil
		}
		tok = s.Next()
	}
}

// splitSelectorList splits a rule prelude on top-level commas.
// Commas inside :is(), :not() or attribute values do not split.
func splitSelectorList(prelude string) ([]string, error) {
	s := scanner.New(prelude)
	var (
		selectors []string
		current   strings.Builder
		depth     int
	)

	flush := func() {
		if sel := strings.TrimSpace(current.String()); sel != "" {
			selectors = append(selectors, sel)
		}
		current.Reset()
	}

	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			flush()
			return selectors, nil
		case scanner.TokenError:
			return nil, fmt.Errorf("selector list %q: %s", prelude, tok.Value)
		case scanner.TokenComment:
			continue
		case scanner.TokenFunction:
			depth++
		case scanner.TokenChar:
			switch tok.Value {
			case "(", "[":
				depth++
			case ")", "]":
				if depth > 0 {
					depth--
				}
			case ",":
				if depth == 0 {
					flush()
					continue
				}
			}
		}
		current.WriteString(tok.Value)
	}
}

// unescapeIdent resolves CSS escapes: "md\:flex" becomes "md:flex" and
// "\31 0" becomes "10".
func unescapeIdent(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}
		i++ // backslash

		j := i
		for j < len(s) && j-i < 6 && isHex(s[j]) {
			j++
		}
		if j == i {
			r, width := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += width
			continue
		}

		code, err := strconv.ParseUint(s[i:j], 16, 32)
		if err != nil || code == 0 || code > utf8.MaxRune {
			b.WriteRune(utf8.RuneError)
		} else {
			b.WriteRune(rune(code))
		}
		i = j
		if i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
			i++
		}
	}
	return b.String()
}

// unquote strips the quotes of a CSS string token and resolves escapes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return unescapeIdent(s)
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
