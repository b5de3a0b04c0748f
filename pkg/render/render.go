package render

import (
	"image"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"lineclamp/pkg/css"
	"lineclamp/pkg/layout"
	"lineclamp/pkg/text"
)

// Ellipsis is painted at the end of a natively clamped block.
const Ellipsis = "…"

type Renderer struct {
	context *gg.Context
	fonts   *text.FontMetrics
}

func NewRenderer(width, height int, fonts *text.FontMetrics) *Renderer {
	return &Renderer{context: gg.NewContext(width, height), fonts: fonts}
}

func (r *Renderer) Render(boxes []*layout.Box) {
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()
	for _, box := range r.collectAllBoxes(boxes) {
		r.drawBox(box)
	}
}

// collectAllBoxes flattens the box tree into paint order
func (r *Renderer) collectAllBoxes(boxes []*layout.Box) []*layout.Box {
	result := make([]*layout.Box, 0)
	for _, box := range boxes {
		result = append(result, box)
		result = append(result, r.collectAllBoxes(box.Children)...)
	}
	return result
}

func (r *Renderer) drawBox(box *layout.Box) {
	// Background covers content + padding (but not margin)
	if bg, ok := box.Style.Get("background-color"); ok {
		if color, ok := css.ParseColor(bg); ok {
			r.setColor(color)
			w := box.Width + box.Padding.Left + box.Padding.Right
			h := box.Height + box.Padding.Top + box.Padding.Bottom
			if w > 0 && h > 0 {
				r.context.DrawRectangle(box.X, box.Y, w, h)
				r.context.Fill()
			}
		}
	}
	r.drawText(box)
}

// visibleLines drops lines below the content box of an overflow:hidden box.
func visibleLines(box *layout.Box) []layout.Line {
	if v, _ := box.Style.Get("overflow"); v != "hidden" {
		return box.Lines
	}
	bottom := box.Y + box.Padding.Top + box.Height
	for i, line := range box.Lines {
		if line.Y+line.Height > bottom+0.01 {
			return box.Lines[:i]
		}
	}
	return box.Lines
}

func (r *Renderer) drawText(box *layout.Box) {
	lines := visibleLines(box)
	for i, line := range lines {
		frags := line.Fragments
		ellipsis := line.Ellipsis
		if i == len(lines)-1 && len(lines) < len(box.Lines) {
			v, _ := box.Style.Get("text-overflow")
			ellipsis = ellipsis || v == "ellipsis"
		}
		if ellipsis {
			frags = r.withEllipsis(frags, box.X+box.Padding.Left+box.Width)
		}
		for _, frag := range frags {
			r.setColor(frag.Color)
			r.context.SetFontFace(r.face(frag.Face))
			baseline := line.Y + (line.Height-frag.Face.Size)/2 + text.Ascent(frag.Face.Size)
			r.context.DrawString(frag.Text, frag.X, baseline)
		}
	}
}

// withEllipsis appends the ellipsis to the last fragment, trimming it
// from the end until the result ends before right.
func (r *Renderer) withEllipsis(frags []layout.Fragment, right float64) []layout.Fragment {
	if len(frags) == 0 {
		return frags
	}
	out := append([]layout.Fragment(nil), frags...)
	last := &out[len(out)-1]
	r.context.SetFontFace(r.face(last.Face))
	runes := []rune(last.Text)
	for len(runes) > 0 {
		w, _ := r.context.MeasureString(string(runes) + Ellipsis)
		if last.X+w <= right {
			break
		}
		runes = runes[:len(runes)-1]
	}
	last.Text = string(runes) + Ellipsis
	return out
}

func (r *Renderer) face(f text.Face) font.Face {
	if r.fonts != nil {
		if face := r.fonts.FontFace(f); face != nil {
			return face
		}
	}
	return basicfont.Face7x13
}

func (r *Renderer) setColor(c css.Color) {
	r.context.SetRGB(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0)
}

func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.context.EncodePNG(w)
}
