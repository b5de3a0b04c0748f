package css

import (
	"fmt"
	"strconv"
	"strings"
)

type Unit int

const (
	UnitNone Unit = iota // bare number
	UnitPx
	UnitEm
	UnitRem
	UnitPercent
)

func (u Unit) String() string {
	switch u {
	case UnitPx:
		return "px"
	case UnitEm:
		return "em"
	case UnitRem:
		return "rem"
	case UnitPercent:
		return "%"
	}
	return ""
}

// Length is a CSS length with its unit.
type Length struct {
	Value float64
	Unit  Unit
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// ToPx resolves l to pixels. em resolves against fontSize, rem against
// rootFontSize and % against percentBase. Bare numbers are pixels.
func (l Length) ToPx(fontSize, rootFontSize, percentBase float64) float64 {
	switch l.Unit {
	case UnitEm:
		return l.Value * fontSize
	case UnitRem:
		return l.Value * rootFontSize
	case UnitPercent:
		return l.Value * percentBase / 100
	}
	return l.Value
}

// ParseLengthValue parses "12", "12px", "1.5em", "2rem" or "50%".
func ParseLengthValue(val string) (Length, bool) {
	val = strings.ToLower(strings.TrimSpace(val))
	unit := UnitNone
	for _, u := range []Unit{UnitRem, UnitPx, UnitEm, UnitPercent} {
		if strings.HasSuffix(val, u.String()) {
			unit = u
			val = strings.TrimSuffix(val, u.String())
			break
		}
	}
	if val == "" {
		return Length{}, false
	}
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: num, Unit: unit}, true
}

// MustParseLength is ParseLengthValue for literals known to be valid.
func MustParseLength(val string) Length {
	l, ok := ParseLengthValue(val)
	if !ok {
		panic(fmt.Sprintf("css: invalid length %q", val))
	}
	return l
}
