package layout

import (
	"strings"
	"unicode"

	"lineclamp/pkg/css"
	"lineclamp/pkg/html"
	"lineclamp/pkg/text"
)

// InlineItem is one unbreakable piece of inline content: a word from a text
// node, or a forced break. Line breaks are only allowed before items with
// SpaceBefore set.
type InlineItem struct {
	Node        *html.Node
	Text        string
	SpaceBefore bool
	Break       bool
	Face        text.Face
	Color       css.Color
	LineHeight  float64
	Width       float64
}

// collectInlineItems flattens nodes into words in document order.
// Whitespace at the end of one text node carries over as SpaceBefore on the
// first word of the next.
func (le *Engine) collectInlineItems(nodes []*html.Node) []*InlineItem {
	var items []*InlineItem
	pendingSpace := false
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if n.Text == "" {
				return
			}
			style := le.Style(n.Parent)
			face := text.Face{
				Size:   le.FontSizePx(n.Parent),
				Bold:   style.IsBold(),
				Italic: style.IsItalic(),
				Mono:   style.IsMonospace(),
			}
			color := style.GetColor()
			lh := le.LineHeightPx(n.Parent)
			if unicode.IsSpace(rune(n.Text[0])) {
				pendingSpace = true
			}
			for _, word := range strings.Fields(n.Text) {
				items = append(items, &InlineItem{
					Node:        n,
					Text:        word,
					SpaceBefore: pendingSpace,
					Face:        face,
					Color:       color,
					LineHeight:  lh,
					Width:       le.metrics.Width(word, face),
				})
				pendingSpace = true
			}
			pendingSpace = unicode.IsSpace(rune(n.Text[len(n.Text)-1]))
		case html.ElementNode:
			if le.cascade.Specified(n).GetDisplay() == css.DisplayNone {
				return
			}
			if n.TagName == "br" {
				items = append(items, &InlineItem{Node: n, Break: true})
				pendingSpace = false
				return
			}
			for _, child := range n.Children {
				visit(child)
			}
		}
	}
	for _, n := range nodes {
		visit(n)
	}
	return items
}

// breakLines assigns items to lines greedily. A run of items glued together
// without spaces moves to the next line as a unit; a unit wider than the
// line overflows rather than being split.
func (le *Engine) breakLines(items []*InlineItem, width float64, nowrap bool) [][]*InlineItem {
	var lines [][]*InlineItem
	var current []*InlineItem
	lineWidth := 0.0

	for i := 0; i < len(items); {
		item := items[i]
		if item.Break {
			lines = append(lines, current)
			current, lineWidth = nil, 0
			i++
			continue
		}
		// gather the unit starting at i
		j := i + 1
		unitWidth := item.Width
		for j < len(items) && !items[j].Break && !items[j].SpaceBefore {
			unitWidth += items[j].Width
			j++
		}
		gap := 0.0
		if len(current) > 0 && item.SpaceBefore {
			gap = le.metrics.Width(" ", item.Face)
		}
		if len(current) > 0 && !nowrap && lineWidth+gap+unitWidth > width {
			lines = append(lines, current)
			current, lineWidth, gap = nil, 0, 0
		}
		current = append(current, items[i:j]...)
		lineWidth += gap + unitWidth
		i = j
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}

// layoutInline lays out an inline formatting context of block starting at
// (x, y). Runs holding only collapsible whitespace produce no lines.
func (le *Engine) layoutInline(block *html.Node, style *css.Style, nodes []*html.Node, x, y, width float64) []Line {
	items := le.collectInlineItems(nodes)
	if len(items) == 0 {
		return nil
	}
	ws, _ := style.Get("white-space")
	align, _ := style.Get("text-align")
	blockLH := le.LineHeightPx(block)

	var lines []Line
	for _, lineItems := range le.breakLines(items, width, ws == "nowrap" || ws == "pre") {
		line := Line{Y: y, Height: blockLH}
		cx := 0.0
		for k, item := range lineItems {
			if item.LineHeight > line.Height {
				line.Height = item.LineHeight
			}
			gap := 0.0
			if k > 0 && item.SpaceBefore {
				gap = le.metrics.Width(" ", item.Face)
			}
			last := len(line.Fragments) - 1
			if last >= 0 && line.Fragments[last].Node == item.Node {
				frag := &line.Fragments[last]
				if gap > 0 {
					frag.Text += " "
				}
				frag.Text += item.Text
				frag.Width += gap + item.Width
			} else {
				line.Fragments = append(line.Fragments, Fragment{
					Node:  item.Node,
					Text:  item.Text,
					X:     cx + gap,
					Width: item.Width,
					Face:  item.Face,
					Color: item.Color,
				})
			}
			cx += gap + item.Width
		}
		line.Width = cx

		shift := 0.0
		switch align {
		case "center":
			shift = (width - line.Width) / 2
		case "right", "end":
			shift = width - line.Width
		}
		if shift < 0 {
			shift = 0
		}
		for k := range line.Fragments {
			line.Fragments[k].X += x + shift
		}
		lines = append(lines, line)
		y += line.Height
	}
	return lines
}
