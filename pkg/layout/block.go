package layout

import (
	"lineclamp/pkg/css"
	"lineclamp/pkg/html"
)

// isBlockLevel reports whether child starts a new block in its parent's flow.
func (le *Engine) isBlockLevel(child *html.Node) bool {
	if child.Type != html.ElementNode {
		return false
	}
	switch le.cascade.Specified(child).GetDisplay() {
	case css.DisplayBlock, css.DisplayWebkitBox:
		return true
	case css.DisplayInline, css.DisplayInlineBlock:
		return false
	}
	return html.IsBlockTag(child.TagName) || child.TagName == "html" || child.TagName == "body"
}

// layoutBlock lays out node and its subtree with the top-left margin edge
// at (x, y). Consecutive inline-level children share one inline formatting
// context; block-level children stack vertically.
func (le *Engine) layoutBlock(node *html.Node, x, y, containingWidth float64) *Box {
	style := le.Style(node)
	if style.GetDisplay() == css.DisplayNone {
		return nil
	}
	pad := style.GetPadding()
	margin := style.GetMargin()
	box := &Box{
		Node:    node,
		Style:   style,
		X:       x + margin.Left,
		Y:       y + margin.Top,
		Width:   le.blockWidth(node, style, containingWidth),
		Padding: pad,
		Margin:  margin,
	}

	contentX := box.X + pad.Left
	contentY := box.Y + pad.Top
	cursor := contentY

	var run []*html.Node
	flush := func() {
		if len(run) == 0 {
			return
		}
		lines := le.layoutInline(node, style, run, contentX, cursor, box.Width)
		for _, line := range lines {
			cursor += line.Height
		}
		box.Lines = append(box.Lines, lines...)
		run = nil
	}
	for _, child := range node.Children {
		if !le.isBlockLevel(child) {
			run = append(run, child)
			continue
		}
		flush()
		childBox := le.layoutBlock(child, contentX, cursor, box.Width)
		if childBox == nil {
			continue
		}
		box.Children = append(box.Children, childBox)
		cursor = childBox.Y + childBox.Padding.Top + childBox.Height + childBox.Padding.Bottom + childBox.Margin.Bottom
	}
	flush()

	if le.lineClamp && style.GetDisplay() == css.DisplayWebkitBox {
		if n, ok := style.GetLineClamp(); ok && len(box.Children) == 0 && len(box.Lines) > n {
			box.Lines = box.Lines[:n]
			box.Lines[n-1].Ellipsis = true
			last := box.Lines[n-1]
			cursor = last.Y + last.Height
		}
	}

	box.Height = cursor - contentY
	if h, ok := style.GetLengthValue("height"); ok {
		box.Height = h.ToPx(le.FontSizePx(node), le.RootFontSizePx(), le.viewport.height)
	}
	return box
}
