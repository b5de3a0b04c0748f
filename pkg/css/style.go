package css

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultFontSize is the initial font-size in pixels.
const DefaultFontSize = 16.0

type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

func (s *Style) Delete(property string) {
	delete(s.Properties, property)
}

// GetLength returns a pixel length for property. Relative units are not
// resolved here; use GetLengthValue for those.
func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val)
}

// GetLengthValue returns the parsed length for property with its unit.
func (s *Style) GetLengthValue(property string) (Length, bool) {
	val, ok := s.Get(property)
	if !ok {
		return Length{}, false
	}
	return ParseLengthValue(val)
}

// ParseLength parses a pixel value (e.g., "100px" or "100")
func ParseLength(val string) (float64, bool) {
	l, ok := ParseLengthValue(val)
	if !ok || (l.Unit != UnitPx && l.Unit != UnitNone) {
		return 0, false
	}
	return l.Value, true
}

// String serializes the style as a declaration list in property order.
func (s *Style) String() string {
	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+s.Properties[k])
	}
	return strings.Join(parts, "; ")
}

// BoxEdge represents the four sides of a box (top, right, bottom, left)
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// GetPadding returns the padding values for all four sides
func (s *Style) GetPadding() BoxEdge {
	return BoxEdge{
		Top:    s.getLengthOrZero("padding-top"),
		Right:  s.getLengthOrZero("padding-right"),
		Bottom: s.getLengthOrZero("padding-bottom"),
		Left:   s.getLengthOrZero("padding-left"),
	}
}

// GetMargin returns the margin values for all four sides
func (s *Style) GetMargin() BoxEdge {
	return BoxEdge{
		Top:    s.getLengthOrZero("margin-top"),
		Right:  s.getLengthOrZero("margin-right"),
		Bottom: s.getLengthOrZero("margin-bottom"),
		Left:   s.getLengthOrZero("margin-left"),
	}
}

func (s *Style) getLengthOrZero(property string) float64 {
	val, ok := s.GetLength(property)
	if !ok {
		return 0
	}
	return val
}

// DisplayType is the outer display of a box.
type DisplayType string

const (
	DisplayBlock       DisplayType = "block"
	DisplayInline      DisplayType = "inline"
	DisplayInlineBlock DisplayType = "inline-block"
	DisplayNone        DisplayType = "none"
	DisplayWebkitBox   DisplayType = "-webkit-box"
)

// GetDisplay returns the display value, or "" when unset.
func (s *Style) GetDisplay() DisplayType {
	if d, ok := s.Get("display"); ok {
		return DisplayType(strings.TrimSpace(d))
	}
	return ""
}

// IsBold reports whether font-weight is bold (keyword or >= 600).
func (s *Style) IsBold() bool {
	w, ok := s.Get("font-weight")
	if !ok {
		return false
	}
	switch w {
	case "bold", "bolder":
		return true
	}
	n, err := strconv.Atoi(w)
	return err == nil && n >= 600
}

func (s *Style) IsItalic() bool {
	v, _ := s.Get("font-style")
	return v == "italic" || v == "oblique"
}

func (s *Style) IsMonospace() bool {
	v, _ := s.Get("font-family")
	return strings.Contains(strings.ToLower(v), "monospace")
}

// GetLineClamp returns the -webkit-line-clamp count when set to a positive
// integer.
func (s *Style) GetLineClamp() (int, bool) {
	v, ok := s.Get("-webkit-line-clamp")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for property, value := range parseDeclarations(styleAttr) {
		style.Set(property, value)
	}
	return style
}

// parseDeclarations splits "a: b; c: d" into an expanded property map.
func parseDeclarations(declStr string) map[string]string {
	declarations := make(map[string]string)
	for _, decl := range strings.Split(declStr, ";") {
		property, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		property = strings.ToLower(strings.TrimSpace(property))
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		if property == "" || value == "" {
			continue
		}
		expandShorthand(declarations, property, value)
	}
	return declarations
}

// expandShorthand expands shorthand CSS properties into individual properties
func expandShorthand(decls map[string]string, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(decls, property, value)
	case "font":
		expandFont(decls, value)
	default:
		decls[property] = value
	}
}

// expandBoxProperty handles the 1–4 value forms of margin/padding.
func expandBoxProperty(decls map[string]string, prefix, value string) {
	v := strings.Fields(value)
	var top, right, bottom, left string
	switch len(v) {
	case 1:
		top, right, bottom, left = v[0], v[0], v[0], v[0]
	case 2:
		top, right, bottom, left = v[0], v[1], v[0], v[1]
	case 3:
		top, right, bottom, left = v[0], v[1], v[2], v[1]
	case 4:
		top, right, bottom, left = v[0], v[1], v[2], v[3]
	default:
		return
	}
	decls[prefix+"-top"] = top
	decls[prefix+"-right"] = right
	decls[prefix+"-bottom"] = bottom
	decls[prefix+"-left"] = left
}

// expandFont picks the size and optional line-height out of the font
// shorthand ("bold 14px/20px serif").
func expandFont(decls map[string]string, value string) {
	for _, f := range strings.Fields(value) {
		size, lh, hasLH := strings.Cut(f, "/")
		if _, ok := ParseLengthValue(size); !ok {
			switch f {
			case "bold", "bolder":
				decls["font-weight"] = "bold"
			case "italic", "oblique":
				decls["font-style"] = f
			}
			continue
		}
		decls["font-size"] = size
		if hasLH {
			decls["line-height"] = lh
		}
		return
	}
}
