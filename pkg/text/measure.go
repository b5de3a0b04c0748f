package text

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/fogleman/gg"
	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontConfig holds paths to font files used for text measurement and rendering.
type FontConfig struct {
	Regular    string `yaml:"regular"`
	Bold       string `yaml:"bold"`
	Italic     string `yaml:"italic"`
	BoldItalic string `yaml:"bold_italic"`
	Monospace  string `yaml:"monospace"`
}

// defaultFontsDir returns the fonts directory next to the executable, or
// relative to this source file when running from a checkout.
func defaultFontsDir() string {
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Join(filepath.Dir(exe), "..", "fonts")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "fonts")
}

// DefaultFontConfig returns a FontConfig using the Atkinson Hyperlegible family.
func DefaultFontConfig() FontConfig {
	dir := defaultFontsDir()
	return FontConfig{
		Regular:    filepath.Join(dir, "AtkinsonHyperlegible-Regular.ttf"),
		Bold:       filepath.Join(dir, "AtkinsonHyperlegible-Bold.ttf"),
		Italic:     filepath.Join(dir, "AtkinsonHyperlegible-Italic.ttf"),
		BoldItalic: filepath.Join(dir, "AtkinsonHyperlegible-BoldItalic.ttf"),
		Monospace:  filepath.Join(dir, "AtkinsonHyperlegibleMono-Regular.otf"),
	}
}

// FontPath returns the font path for the given style combination.
func (fc FontConfig) FontPath(f Face) string {
	switch {
	case f.Mono && fc.Monospace != "":
		return fc.Monospace
	case f.Bold && f.Italic && fc.BoldItalic != "":
		return fc.BoldItalic
	case f.Bold && fc.Bold != "":
		return fc.Bold
	case f.Italic && fc.Italic != "":
		return fc.Italic
	}
	return fc.Regular
}

// Face selects a font variant at a pixel size.
type Face struct {
	Size   float64
	Bold   bool
	Italic bool
	Mono   bool
}

// Metrics measures the advance width of a string.
type Metrics interface {
	Width(s string, f Face) float64
}

// FontMetrics measures with real font files loaded through gg. Faces are
// cached per variant and size. When a font file cannot be loaded the
// fixed-pitch basicfont face is scaled to the requested size instead.
//
// Width is safe for concurrent use. Faces returned by FontFace are not:
// a truetype face caches glyphs as it measures and draws.
type FontMetrics struct {
	config FontConfig

	mu    sync.Mutex
	faces map[Face]font.Face
}

func NewFontMetrics(config FontConfig) *FontMetrics {
	return &FontMetrics{config: config, faces: make(map[Face]font.Face)}
}

// FontFace returns the loaded face for f, or nil when falling back to the
// bitmap face.
func (m *FontMetrics) FontFace(f Face) font.Face {
	m.mu.Lock()
	defer m.mu.Unlock()
	if face, ok := m.faces[f]; ok {
		return face
	}
	face, err := gg.LoadFontFace(m.config.FontPath(f), f.Size)
	if err != nil {
		face = nil
	}
	m.faces[f] = face
	return face
}

func (m *FontMetrics) Width(s string, f Face) float64 {
	face := m.FontFace(f)
	if face == nil {
		return bitmapWidth(s, f.Size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(font.MeasureString(face, s)) / 64
}

// bitmapWidth measures with basicfont.Face7x13 scaled from its 13px design size.
func bitmapWidth(s string, size float64) float64 {
	w := float64(font.MeasureString(basicfont.Face7x13, s)) / 64
	return w * size / 13
}

// MonoMetrics is a deterministic fixed-pitch measurer: every terminal cell
// is Advance em wide. Wide (east asian) graphemes take two cells.
type MonoMetrics struct {
	Advance float64
}

func (m MonoMetrics) Width(s string, f Face) float64 {
	return float64(uniseg.StringWidth(s)) * m.Advance * f.Size
}

// Ascent approximates the baseline offset for a line box of the given
// font size, used when painting.
func Ascent(size float64) float64 {
	return math.Round(size * 0.8)
}
