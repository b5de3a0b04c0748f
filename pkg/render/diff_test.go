package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCompare(t *testing.T) {
	a := filled(10, 10, color.White)
	b := filled(10, 10, color.White)
	b.Set(2, 3, color.Black)
	b.Set(5, 7, color.RGBA{250, 250, 250, 255})

	d, err := Compare(a, b, 2)
	require.NoError(t, err)
	assert.Equal(t, 100, d.Total)
	assert.Equal(t, 2, d.Changed)
	assert.Equal(t, 255, d.MaxDelta)
	assert.Equal(t, image.Rect(2, 3, 6, 8), d.Region)
	assert.InDelta(t, 2.0, d.Percent(), 0.001)

	d, err = Compare(a, b, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Changed)
	assert.Equal(t, image.Rect(2, 3, 3, 4), d.Region)
}

func TestCompare_Identical(t *testing.T) {
	d, err := Compare(filled(4, 4, color.White), filled(4, 4, color.White), 0)
	require.NoError(t, err)
	assert.Zero(t, d.Changed)
	assert.True(t, d.Region.Empty())
}

func TestCompare_BoundsMismatch(t *testing.T) {
	_, err := Compare(filled(4, 4, color.White), filled(5, 4, color.White), 0)
	assert.Error(t, err)
}

func TestCompare_ClampedParagraph(t *testing.T) {
	long := renderPage(t, `<p style="color: black">XXXXXXXX XXXXXXXX XXXXXXXX XXXXXXXX</p>`)
	short := renderPage(t, `<p style="color: black">XXXXXXXX XXXXXXXX</p>`)

	d, err := Compare(long.Image(), short.Image(), 8)
	require.NoError(t, err)
	assert.Positive(t, d.Changed)
	// the first line is identical in both renderings
	assert.GreaterOrEqual(t, d.Region.Min.Y, 13)
}
