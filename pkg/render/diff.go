package render

import (
	"fmt"
	"image"
)

// Diff summarises the pixels that differ between two renderings.
type Diff struct {
	Changed  int
	Total    int
	MaxDelta int // largest 8-bit channel difference seen

	// Region bounds every changed pixel. It is empty when Changed is 0.
	Region image.Rectangle
}

// Percent returns the share of changed pixels, 0..100.
func (d Diff) Percent() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Changed) / float64(d.Total) * 100
}

// Compare counts the pixels of a and b whose channels differ by more than
// tolerance (0-255). Both images must have the same bounds.
func Compare(a, b image.Image, tolerance int) (Diff, error) {
	bounds := a.Bounds()
	if bounds != b.Bounds() {
		return Diff{}, fmt.Errorf("image bounds differ: %v vs %v", bounds, b.Bounds())
	}
	d := Diff{Total: bounds.Dx() * bounds.Dy()}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			delta := channelDelta(a, b, x, y)
			if delta > d.MaxDelta {
				d.MaxDelta = delta
			}
			if delta <= tolerance {
				continue
			}
			d.Changed++
			d.Region = d.Region.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return d, nil
}

func channelDelta(a, b image.Image, x, y int) int {
	ar, ag, ab, aa := a.At(x, y).RGBA()
	br, bg, bb, ba := b.At(x, y).RGBA()
	return max(
		absDiff(ar, br),
		absDiff(ag, bg),
		absDiff(ab, bb),
		absDiff(aa, ba),
	)
}

func absDiff(a, b uint32) int {
	d := int(a>>8) - int(b>>8)
	if d < 0 {
		return -d
	}
	return d
}
