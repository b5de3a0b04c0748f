package layout

import (
	"lineclamp/pkg/css"
	"lineclamp/pkg/html"
	"lineclamp/pkg/text"
)

// Fragment is a run of same-styled text placed on a line.
type Fragment struct {
	Node  *html.Node // text node the run came from
	Text  string
	X     float64
	Width float64
	Face  text.Face
	Color css.Color
}

// Line is one line box. Ellipsis is set on the last visible line of a
// natively line-clamped block that had more content.
type Line struct {
	Y         float64
	Height    float64
	Width     float64
	Fragments []Fragment
	Ellipsis  bool
}

// Box is a laid-out block. X and Y locate the padding box; Height is the
// content-box height.
type Box struct {
	Node     *html.Node
	Style    *css.Style
	X, Y     float64
	Width    float64
	Height   float64
	Padding  css.BoxEdge
	Margin   css.BoxEdge
	Lines    []Line
	Children []*Box
}

// LineCount returns the number of line boxes in b and its descendants.
func (b *Box) LineCount() int {
	n := len(b.Lines)
	for _, c := range b.Children {
		n += c.LineCount()
	}
	return n
}
