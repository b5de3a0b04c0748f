package css

import (
	"strconv"
	"strings"
)

type Color struct {
	R, G, B uint8
}

var namedColors = map[string]Color{
	"black":  {0, 0, 0},
	"white":  {255, 255, 255},
	"red":    {255, 0, 0},
	"green":  {0, 128, 0},
	"blue":   {0, 0, 255},
	"gray":   {128, 128, 128},
	"grey":   {128, 128, 128},
	"silver": {192, 192, 192},
	"navy":   {0, 0, 128},
	"teal":   {0, 128, 128},
	"orange": {255, 165, 0},
	"purple": {128, 0, 128},
}

// ParseColor accepts named colors, #rgb, #rrggbb and rgb(r, g, b).
func ParseColor(colorStr string) (Color, bool) {
	s := strings.ToLower(strings.TrimSpace(colorStr))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return Color{}, false
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, false
		}
		return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
	}
	if inner, ok := strings.CutPrefix(s, "rgb("); ok {
		parts := strings.Split(strings.TrimSuffix(inner, ")"), ",")
		if len(parts) != 3 {
			return Color{}, false
		}
		var rgb [3]uint8
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || n < 0 || n > 255 {
				return Color{}, false
			}
			rgb[i] = uint8(n)
		}
		return Color{rgb[0], rgb[1], rgb[2]}, true
	}
	return Color{}, false
}

// GetColor returns the text color (default: black)
func (s *Style) GetColor() Color {
	if v, ok := s.Get("color"); ok {
		if c, ok := ParseColor(v); ok {
			return c
		}
	}
	return Color{}
}
