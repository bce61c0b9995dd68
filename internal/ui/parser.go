package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseCSS parses a stylesheet. Only simple .class and #id selectors are kept (a comma list
// yields one rule per selector); at-rules and any other selector are skipped. Later rules
// override earlier ones for the same selector.
func ParseCSS(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	p := css.NewParser(parse.NewInput(strings.NewReader(content)), false)

	var selectors []string
	var props map[string]string
	depth := 0
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return sheet, fmt.Errorf("ui: css: %w", err)
			}
			return sheet, nil
		case css.BeginAtRuleGrammar:
			depth++
		case css.EndAtRuleGrammar:
			depth--
		case css.BeginRulesetGrammar:
			if depth > 0 {
				selectors = nil
				continue
			}
			selectors = splitSelectors(p.Values())
			props = make(map[string]string)
		case css.DeclarationGrammar:
			if props != nil {
				props[strings.ToLower(string(data))] = joinValues(p.Values())
			}
		case css.EndRulesetGrammar:
			for _, sel := range selectors {
				sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: props})
			}
			selectors, props = nil, nil
		}
	}
}

// splitSelectors turns ruleset prelude tokens into simple selectors, dropping compound ones.
func splitSelectors(tokens []css.Token) []string {
	var out []string
	for _, part := range strings.Split(joinValues(tokens), ",") {
		sel := strings.TrimSpace(part)
		if len(sel) < 2 || (sel[0] != '.' && sel[0] != '#') || strings.ContainsAny(sel[1:], " .#:>[+~") {
			continue
		}
		out = append(out, sel)
	}
	return out
}

func joinValues(tokens []css.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.Write(t.Data)
	}
	return strings.TrimSpace(b.String())
}
