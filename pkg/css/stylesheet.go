package css

import (
	"regexp"
	"strings"
)

// Rule represents a CSS rule (selector + declarations)
type Rule struct {
	Selector     Selector
	Declarations map[string]string
	Order        int // source order, breaks specificity ties
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []Rule
}

var commentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)

// ParseStylesheet parses CSS into rules. At-rules and malformed rules are
// skipped rather than reported.
func ParseStylesheet(src string) *Stylesheet {
	sheet := &Stylesheet{}
	src = commentRE.ReplaceAllString(src, "")
	order := 0
	for _, block := range splitRules(src) {
		head, body, ok := strings.Cut(block, "{")
		if !ok {
			continue
		}
		head = strings.TrimSpace(head)
		if strings.HasPrefix(head, "@") {
			continue
		}
		decls := parseDeclarations(strings.TrimSuffix(strings.TrimSpace(body), "}"))
		if len(decls) == 0 {
			continue
		}
		for _, sel := range ParseSelectorList(head) {
			sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Declarations: decls, Order: order})
			order++
		}
	}
	return sheet
}

// splitRules splits CSS into top-level "selector { ... }" chunks, keeping
// nested blocks (at-rules) intact.
func splitRules(src string) []string {
	var rules []string
	depth, start := 0, 0
	for i, ch := range src {
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if r := strings.TrimSpace(src[start : i+1]); r != "" {
					rules = append(rules, r)
				}
				start = i + 1
			}
			if depth < 0 {
				depth = 0
				start = i + 1
			}
		}
	}
	return rules
}
