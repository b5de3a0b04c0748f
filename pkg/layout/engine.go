package layout

import (
	"errors"
	"fmt"
	"math"

	"lineclamp/pkg/css"
	"lineclamp/pkg/html"
	"lineclamp/pkg/text"
)

// ErrNotLaidOut is returned for elements that produce no box: detached
// from the document or inside a display:none subtree.
var ErrNotLaidOut = errors.New("layout: element is not laid out")

// Engine lays out elements of one document on demand. Every query
// recomputes from the current tree, so results always reflect mutations
// made since the previous call.
type Engine struct {
	doc       *html.Document
	cascade   *css.Cascade
	metrics   text.Metrics
	viewport  struct{ width, height float64 }
	lineClamp bool
}

func NewLayoutEngine(doc *html.Document, metrics text.Metrics, viewportWidth, viewportHeight float64) *Engine {
	le := &Engine{
		doc:       doc,
		cascade:   css.NewCascade(doc),
		metrics:   metrics,
		lineClamp: true,
	}
	le.viewport.width = viewportWidth
	le.viewport.height = viewportHeight
	return le
}

// SetLineClampSupport toggles whether -webkit-line-clamp is honoured.
func (le *Engine) SetLineClampSupport(supported bool) {
	le.lineClamp = supported
}

// SupportsLineClamp reports whether native line clamping is available.
func (le *Engine) SupportsLineClamp() bool {
	return le.lineClamp
}

// Style returns the computed (inherited) style of node.
func (le *Engine) Style(node *html.Node) *css.Style {
	return le.cascade.Computed(node)
}

func isRoot(n *html.Node) bool {
	return n == nil || (n.Type == html.ElementNode && n.TagName == html.RootTag)
}

// RootFontSizePx is the font size of the <html> element, the base for rem.
func (le *Engine) RootFontSizePx() float64 {
	for _, child := range le.doc.Root.Children {
		if child.Type == html.ElementNode && child.TagName == "html" {
			return le.FontSizePx(child)
		}
	}
	return css.DefaultFontSize
}

// FontSizePx resolves font-size for node; em and % are relative to the
// parent's font size.
func (le *Engine) FontSizePx(node *html.Node) float64 {
	if isRoot(node) {
		return css.DefaultFontSize
	}
	if node.Type == html.TextNode {
		return le.FontSizePx(node.Parent)
	}
	parentSize := le.FontSizePx(node.Parent)
	v, ok := le.cascade.Specified(node).Get("font-size")
	if !ok {
		return parentSize
	}
	switch v {
	case "medium":
		return css.DefaultFontSize
	case "small":
		return 13
	case "large":
		return 18
	case "smaller":
		return parentSize / 1.2
	case "larger":
		return parentSize * 1.2
	}
	l, ok := css.ParseLengthValue(v)
	if !ok {
		return parentSize
	}
	rootSize := css.DefaultFontSize
	if node.TagName != "html" {
		rootSize = le.RootFontSizePx()
	}
	return l.ToPx(parentSize, rootSize, parentSize)
}

// LineHeightPx resolves the used line-height of node. Unitless and
// "normal" values scale with node's own font size; lengths are fixed where
// they were specified and inherited as pixels.
func (le *Engine) LineHeightPx(node *html.Node) float64 {
	if node != nil && node.Type == html.TextNode {
		node = node.Parent
	}
	fs := le.FontSizePx(node)
	for n := node; !isRoot(n); n = n.Parent {
		v, ok := le.cascade.Specified(n).Get("line-height")
		if !ok {
			continue
		}
		if v == "normal" {
			return fs * 1.2
		}
		l, ok := css.ParseLengthValue(v)
		if !ok {
			return fs * 1.2
		}
		switch l.Unit {
		case css.UnitNone:
			return l.Value * fs
		case css.UnitPx:
			return l.Value
		default:
			nfs := le.FontSizePx(n)
			return l.ToPx(nfs, le.RootFontSizePx(), nfs)
		}
	}
	return fs * 1.2
}

// ContentWidth returns the width available to node's content.
func (le *Engine) ContentWidth(node *html.Node) float64 {
	if isRoot(node) {
		return le.viewport.width
	}
	if node.Type == html.TextNode {
		return le.ContentWidth(node.Parent)
	}
	return le.blockWidth(node, le.Style(node), le.ContentWidth(node.Parent))
}

func (le *Engine) blockWidth(node *html.Node, style *css.Style, containing float64) float64 {
	if w, ok := style.GetLengthValue("width"); ok {
		return w.ToPx(le.FontSizePx(node), le.RootFontSizePx(), containing)
	}
	pad := style.GetPadding()
	margin := style.GetMargin()
	return math.Max(0, containing-pad.Left-pad.Right-margin.Left-margin.Right)
}

// hidden reports whether node or an ancestor is display:none.
func (le *Engine) hidden(node *html.Node) bool {
	for n := node; !isRoot(n); n = n.Parent {
		if n.Type == html.ElementNode && le.cascade.Specified(n).GetDisplay() == css.DisplayNone {
			return true
		}
	}
	return false
}

// Layout lays out node as a block at the origin using its parent's
// content width as the containing width.
func (le *Engine) Layout(node *html.Node) (*Box, error) {
	if node == nil || !node.IsConnected() || le.hidden(node) {
		return nil, ErrNotLaidOut
	}
	if node.Type == html.TextNode {
		node = node.Parent
	}
	box := le.layoutBlock(node, 0, 0, le.ContentWidth(node.Parent))
	if box == nil {
		return nil, ErrNotLaidOut
	}
	return box, nil
}

// MeasuredHeight returns the content height of node's box.
func (le *Engine) MeasuredHeight(node *html.Node) (float64, error) {
	box, err := le.Layout(node)
	if err != nil {
		return 0, err
	}
	return box.Height, nil
}

// AvailableHeight returns the height node's parent offers: the parent's
// explicit height when set, otherwise its laid-out height, or the viewport
// height at the top of the document.
func (le *Engine) AvailableHeight(node *html.Node) (float64, error) {
	if node == nil {
		return 0, ErrNotLaidOut
	}
	parent := node.Parent
	if isRoot(parent) {
		return le.viewport.height, nil
	}
	if h, ok := le.cascade.Specified(parent).GetLengthValue("height"); ok {
		return h.ToPx(le.FontSizePx(parent), le.RootFontSizePx(), le.viewport.height), nil
	}
	if parent.TagName == "body" || parent.TagName == "html" {
		return le.viewport.height, nil
	}
	height, err := le.MeasuredHeight(parent)
	if err != nil {
		return 0, fmt.Errorf("available height: %w", err)
	}
	return height, nil
}
