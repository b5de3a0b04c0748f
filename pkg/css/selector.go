package css

import (
	"strings"

	"lineclamp/pkg/html"
)

type Combinator int

const (
	DescendantCombinator Combinator = iota
	ChildCombinator
)

// SelectorPart is one compound selector: tag#id.class...
type SelectorPart struct {
	Tag     string // "" or "*" matches any element
	ID      string
	Classes []string
}

// Selector is a complex selector; Combinators[i] joins Parts[i] and Parts[i+1].
type Selector struct {
	Raw         string
	Parts       []SelectorPart
	Combinators []Combinator
	Specificity int
}

// ParseSelectorList parses a comma-separated selector group. Selectors
// using syntax this package does not understand are dropped.
func ParseSelectorList(s string) []Selector {
	var out []Selector
	for _, raw := range strings.Split(s, ",") {
		if sel, ok := ParseSelector(raw); ok {
			out = append(out, sel)
		}
	}
	return out
}

// ParseSelector parses a single complex selector.
func ParseSelector(raw string) (Selector, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Selector{}, false
	}
	sel := Selector{Raw: raw}
	tokens := strings.Fields(strings.ReplaceAll(raw, ">", " > "))
	pending := DescendantCombinator
	for _, tok := range tokens {
		if tok == ">" {
			if len(sel.Parts) == 0 {
				return Selector{}, false
			}
			pending = ChildCombinator
			continue
		}
		part, ok := parsePart(tok)
		if !ok {
			return Selector{}, false
		}
		if len(sel.Parts) > 0 {
			sel.Combinators = append(sel.Combinators, pending)
		}
		pending = DescendantCombinator
		sel.Parts = append(sel.Parts, part)
		sel.Specificity += part.specificity()
	}
	if len(sel.Parts) == 0 || len(sel.Combinators) != len(sel.Parts)-1 {
		return Selector{}, false
	}
	return sel, true
}

func parsePart(tok string) (SelectorPart, bool) {
	var part SelectorPart
	i := strings.IndexAny(tok, "#.")
	if i < 0 {
		i = len(tok)
	}
	part.Tag = strings.ToLower(tok[:i])
	rest := tok[i:]
	for rest != "" {
		kind := rest[0]
		rest = rest[1:]
		j := strings.IndexAny(rest, "#.")
		if j < 0 {
			j = len(rest)
		}
		name := rest[:j]
		rest = rest[j:]
		if name == "" || strings.ContainsAny(name, ":[]()") {
			return SelectorPart{}, false
		}
		if kind == '#' {
			part.ID = name
		} else {
			part.Classes = append(part.Classes, name)
		}
	}
	if strings.ContainsAny(part.Tag, ":[]()+~") {
		return SelectorPart{}, false
	}
	return part, true
}

func (p SelectorPart) specificity() int {
	s := 10 * len(p.Classes)
	if p.ID != "" {
		s += 100
	}
	if p.Tag != "" && p.Tag != "*" {
		s++
	}
	return s
}

func (p SelectorPart) matches(node *html.Node) bool {
	if node.Type != html.ElementNode || node.TagName == html.RootTag {
		return false
	}
	if p.Tag != "" && p.Tag != "*" && p.Tag != node.TagName {
		return false
	}
	if p.ID != "" {
		if id, _ := node.GetAttribute("id"); id != p.ID {
			return false
		}
	}
	if len(p.Classes) > 0 {
		have := strings.Fields(node.Attributes["class"])
		for _, want := range p.Classes {
			found := false
			for _, c := range have {
				if c == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

// Matches reports whether node matches the selector, matching right to left.
func (s Selector) Matches(node *html.Node) bool {
	if len(s.Parts) == 0 {
		return false
	}
	return s.matchFrom(node, len(s.Parts)-1)
}

func (s Selector) matchFrom(node *html.Node, idx int) bool {
	if !s.Parts[idx].matches(node) {
		return false
	}
	if idx == 0 {
		return true
	}
	switch s.Combinators[idx-1] {
	case ChildCombinator:
		return node.Parent != nil && s.matchFrom(node.Parent, idx-1)
	default:
		for anc := node.Parent; anc != nil; anc = anc.Parent {
			if s.matchFrom(anc, idx-1) {
				return true
			}
		}
		return false
	}
}

// QuerySelectorAll returns the descendants of root matching any selector
// in the group, in document order.
func QuerySelectorAll(root *html.Node, group string) []*html.Node {
	sels := ParseSelectorList(group)
	if len(sels) == 0 {
		return nil
	}
	var out []*html.Node
	root.Walk(func(n *html.Node) bool {
		if n == root {
			return true
		}
		for _, s := range sels {
			if s.Matches(n) {
				out = append(out, n)
				break
			}
		}
		return true
	})
	return out
}

// QuerySelector returns the first match of QuerySelectorAll, or nil.
func QuerySelector(root *html.Node, group string) *html.Node {
	if all := QuerySelectorAll(root, group); len(all) > 0 {
		return all[0]
	}
	return nil
}
