package css

import (
	"sort"

	"lineclamp/pkg/html"
)

// inherited lists the properties copied from the parent when unset.
// font-size and line-height are resolved by the layout engine, which
// needs the specified values per element.
var inherited = []string{
	"font-weight", "font-style", "font-family",
	"color", "white-space", "text-align",
}

// applyUserAgentStyles applies default browser styles based on element type
func applyUserAgentStyles(node *html.Node, style *Style) {
	switch node.TagName {
	case "b", "strong", "th":
		style.Set("font-weight", "bold")
	case "i", "em", "cite":
		style.Set("font-style", "italic")
	case "code", "kbd", "samp", "pre":
		style.Set("font-family", "monospace")
	case "h1":
		style.Set("font-size", "2em")
		style.Set("font-weight", "bold")
	case "h2":
		style.Set("font-size", "1.5em")
		style.Set("font-weight", "bold")
	case "h3":
		style.Set("font-size", "1.17em")
		style.Set("font-weight", "bold")
	case "a":
		style.Set("color", "#0645ad")
	case "head", "script", "style", "title", "meta", "link":
		style.Set("display", "none")
	}
}

// ComputeStyle computes the specified style for a node: user agent
// defaults, then matching rules by specificity and source order, then the
// inline style attribute. Inheritance is left to Cascade.
func ComputeStyle(node *html.Node, stylesheets []*Stylesheet) *Style {
	finalStyle := NewStyle()
	if node.Type != html.ElementNode {
		return finalStyle
	}
	applyUserAgentStyles(node, finalStyle)

	var matched []Rule
	for _, sheet := range stylesheets {
		for _, rule := range sheet.Rules {
			if rule.Selector.Matches(node) {
				matched = append(matched, rule)
			}
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Selector.Specificity != matched[j].Selector.Specificity {
			return matched[i].Selector.Specificity < matched[j].Selector.Specificity
		}
		return matched[i].Order < matched[j].Order
	})
	for _, rule := range matched {
		for property, value := range rule.Declarations {
			finalStyle.Set(property, value)
		}
	}

	if styleAttr, ok := node.GetAttribute("style"); ok {
		for property, value := range ParseInlineStyle(styleAttr).Properties {
			finalStyle.Set(property, value)
		}
	}
	return finalStyle
}

// Cascade computes styles for elements of one document on demand.
// Results are not cached: callers mutate the tree between queries.
type Cascade struct {
	sheets []*Stylesheet
}

func NewCascade(doc *html.Document) *Cascade {
	c := &Cascade{}
	for _, src := range doc.Stylesheets {
		c.sheets = append(c.sheets, ParseStylesheet(src))
	}
	return c
}

// Specified returns the node's own cascaded style without inheritance.
func (c *Cascade) Specified(node *html.Node) *Style {
	if node == nil || node.Type != html.ElementNode {
		return NewStyle()
	}
	return ComputeStyle(node, c.sheets)
}

// Computed returns the node's style with inherited properties filled in
// from its ancestors. Text nodes get their parent's style.
func (c *Cascade) Computed(node *html.Node) *Style {
	if node == nil {
		return NewStyle()
	}
	if node.Type == html.TextNode {
		return c.Computed(node.Parent)
	}
	style := ComputeStyle(node, c.sheets)
	if node.Parent == nil {
		return style
	}
	parent := c.Computed(node.Parent)
	for _, prop := range inherited {
		if _, ok := style.Get(prop); ok {
			continue
		}
		if v, ok := parent.Get(prop); ok {
			style.Set(prop, v)
		}
	}
	return style
}

// SetInlineProperty writes property into node's style attribute,
// preserving other declarations.
func SetInlineProperty(node *html.Node, property, value string) {
	style := NewStyle()
	if attr, ok := node.GetAttribute("style"); ok {
		style = ParseInlineStyle(attr)
	}
	style.Set(property, value)
	node.SetAttribute("style", style.String())
}
