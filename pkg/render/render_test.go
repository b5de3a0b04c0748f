package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineclamp/pkg/html"
	"lineclamp/pkg/layout"
	"lineclamp/pkg/text"
)

func renderPage(t *testing.T, src string) *Renderer {
	t.Helper()
	doc, err := html.Parse(src)
	require.NoError(t, err)
	le := layout.NewLayoutEngine(doc, text.MonoMetrics{Advance: 0.5}, 100, 60)
	box, err := le.Layout(doc.Root)
	require.NoError(t, err)

	r := NewRenderer(100, 60, nil)
	r.Render([]*layout.Box{box})
	return r
}

func TestRenderBackground(t *testing.T) {
	r := renderPage(t, `<div style="background-color: #ff0000; width: 50px; height: 20px"></div>`)

	red, _, _, _ := r.Image().At(10, 10).RGBA()
	_, g, _, _ := r.Image().At(10, 10).RGBA()
	assert.Equal(t, uint32(0xffff), red)
	assert.Zero(t, g)

	white, _, _, _ := r.Image().At(80, 40).RGBA()
	assert.Equal(t, uint32(0xffff), white)
}

func TestRenderDrawsText(t *testing.T) {
	r := renderPage(t, `<p style="color: black">XXXXXXXX</p>`)

	dark := false
	for y := 0; y < 19 && !dark; y++ {
		for x := 0; x < 60; x++ {
			if c, _, _, _ := r.Image().At(x, y).RGBA(); c < 0x8000 {
				dark = true
				break
			}
		}
	}
	assert.True(t, dark, "expected glyph pixels in the first line box")
}

func TestWithEllipsisTrimsLastFragment(t *testing.T) {
	r := NewRenderer(10, 10, nil)
	frags := []layout.Fragment{{Text: "abcdefgh", X: 0, Face: text.Face{Size: 13}}}

	out := r.withEllipsis(frags, 30)
	require.Len(t, out, 1)
	assert.Equal(t, "abc"+Ellipsis, out[0].Text)
	assert.Equal(t, "abcdefgh", frags[0].Text, "input is not modified")
}

func TestEncodePNG(t *testing.T) {
	r := renderPage(t, `<p>hi</p>`)
	var buf bytes.Buffer
	require.NoError(t, r.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
}
