package pipeline

import (
	"slices"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// purger removes rules whose selectors match nothing in one page.
type purger struct {
	markup   *Markup
	safelist *Safelist
}

// purgeStylesheet parses a stylesheet and returns its rules that apply to the markup.
func (p *purger) purgeStylesheet(source string) ([]*css.Rule, error) {
	sheet, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	return p.purgeRules(sheet.Rules)
}

// purgeRules filters rules. Conditional group rules (@media, @supports) are
// filtered recursively and dropped when empty. @keyframes, @font-face and
// other at-rules are kept as-is.
func (p *purger) purgeRules(rules []*css.Rule) ([]*css.Rule, error) {
	var kept []*css.Rule
	for _, rule := range rules {
		if rule.Kind == css.AtRule {
			switch strings.ToLower(rule.Name) {
			case "@media", "@supports", "@document":
				inner, err := p.purgeRules(rule.Rules)
				if err != nil {
					return nil, err
				}
				if len(inner) == 0 {
					continue
				}
				rule.Rules = inner
			}
			kept = append(kept, rule)
			continue
		}

		if len(rule.Declarations) == 0 {
			continue
		}

		// douceur splits selector lists on every comma, including those inside :is().
		selectors, err := splitSelectorList(rule.Prelude)
		if err != nil {
			return nil, err
		}
		var used []string
		for _, sel := range selectors {
			ok, err := p.keepSelector(sel)
			if err != nil {
				return nil, err
			}
			if ok {
				used = append(used, sel)
			}
		}
		if len(used) == 0 {
			continue
		}
		rule.Selectors = used
		kept = append(kept, rule)
	}
	return kept, nil
}

// keepSelector reports whether a selector may match the page.
func (p *purger) keepSelector(sel string) (bool, error) {
	terms, err := parseSelector(sel)
	if err != nil {
		return false, err
	}

	for _, t := range terms {
		if p.safelist.Greedy(t.name) {
			return true, nil
		}
	}

	for _, t := range terms {
		if p.safelist.Standard(t.name) {
			continue
		}
		if !p.present(t) {
			return false, nil
		}
	}
	return true, nil
}

// present reports whether the markup satisfies one selector term.
func (p *purger) present(t selectorTerm) bool {
	switch t.kind {
	case termTag:
		return p.markup.HasTag(t.name)
	case termClass:
		return p.markup.HasClass(t.name)
	case termID:
		return p.markup.HasID(t.name)
	case termAttr:
		return p.markup.MatchAttr(t.name, t.op, t.value, t.foldCase)
	}
	return false
}

// consolidateRules merges adjacent @media blocks sharing a query and removes
// exact duplicate rules, keeping the last occurrence.
func consolidateRules(rules []*css.Rule) []*css.Rule {
	var merged []*css.Rule
	for _, rule := range rules {
		if n := len(merged); n > 0 && isMedia(rule) && isMedia(merged[n-1]) && merged[n-1].Prelude == rule.Prelude {
			merged[n-1].Rules = append(merged[n-1].Rules, rule.Rules...)
			continue
		}
		merged = append(merged, rule)
	}

	seen := make(map[string]struct{}, len(merged))
	out := make([]*css.Rule, 0, len(merged))
	for i := len(merged) - 1; i >= 0; i-- {
		rule := merged[i]
		if isMedia(rule) {
			rule.Rules = consolidateRules(rule.Rules)
		}
		key := rule.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rule)
	}
	slices.Reverse(out)
	return out
}

func isMedia(rule *css.Rule) bool {
	return rule.Kind == css.AtRule && strings.EqualFold(rule.Name, "@media")
}

// renderRules serializes rules, one per line.
func renderRules(rules []*css.Rule) string {
	var b strings.Builder
	for i, rule := range rules {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(rule.String())
	}
	return b.String()
}
