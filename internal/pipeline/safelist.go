package pipeline

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidSafelist indicates a safelist entry with a bad pattern or kind.
var ErrInvalidSafelist = errors.New("invalid safelist entry")

// SafelistKind selects how a safelist pattern protects a selector.
type SafelistKind string

const (
	// SafelistStandard exempts a matching identifier from the presence check.
	// The other identifiers of the selector must still be present.
	SafelistStandard SafelistKind = "standard"
	// SafelistGreedy keeps the whole selector when any of its identifiers matches.
	SafelistGreedy SafelistKind = "greedy"
)

// SafelistEntry is a selector-name pattern exempt from purging.
type SafelistEntry struct {
	Pattern string
	Kind    SafelistKind // empty means SafelistStandard
}

// DefaultSafelist covers responsive breakpoint prefixes, ARIA and state
// selectors toggled at runtime, syntax highlighting, comments and video embeds.
func DefaultSafelist() []SafelistEntry {
	return []SafelistEntry{
		{Pattern: `^sm`, Kind: SafelistStandard},
		{Pattern: `^md`, Kind: SafelistStandard},
		{Pattern: `^lg`, Kind: SafelistStandard},
		{Pattern: `^xl`, Kind: SafelistStandard},
		{Pattern: `role$`, Kind: SafelistStandard},
		{Pattern: `^aria-`, Kind: SafelistStandard},
		{Pattern: `^is-`, Kind: SafelistStandard},
		{Pattern: `chroma`, Kind: SafelistGreedy},
		{Pattern: `comment`, Kind: SafelistGreedy},
		{Pattern: `video`, Kind: SafelistGreedy},
		{Pattern: `youtube`, Kind: SafelistGreedy},
	}
}

// Safelist is a compiled set of safelist entries.
type Safelist struct {
	standard []*regexp.Regexp
	greedy   []*regexp.Regexp
}

// NewSafelist compiles entries.
func NewSafelist(entries []SafelistEntry) (*Safelist, error) {
	s := &Safelist{}
	for i, e := range entries {
		re, err := regexp.Compile(e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: [%d] %q: %v", ErrInvalidSafelist, i, e.Pattern, err)
		}
		switch e.Kind {
		case "", SafelistStandard:
			s.standard = append(s.standard, re)
		case SafelistGreedy:
			s.greedy = append(s.greedy, re)
		default:
			return nil, fmt.Errorf("%w: [%d] unknown kind %q", ErrInvalidSafelist, i, e.Kind)
		}
	}
	return s, nil
}

// Standard reports whether name matches a standard pattern.
func (s *Safelist) Standard(name string) bool {
	return matchAny(s.standard, name)
}

// Greedy reports whether name matches a greedy pattern.
func (s *Safelist) Greedy(name string) bool {
	return matchAny(s.greedy, name)
}

func matchAny(patterns []*regexp.Regexp, name string) bool {
	for _, re := range patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
