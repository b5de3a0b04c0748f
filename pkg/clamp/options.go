package clamp

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"lineclamp/pkg/css"
	"lineclamp/pkg/html"
)

// DefaultInterval is the step delay for frame pacing without a frame
// source, and for timed pacing when no interval is given.
const DefaultInterval = 16600 * time.Microsecond

// DefaultMarker is appended at the cut point.
const DefaultMarker = "…"

// DefaultLines is the target when none is given.
const DefaultLines = 2

// DefaultBoundaries returns the split priority used when none is given:
// sentence end, hyphen, en dash, em dash, space.
func DefaultBoundaries() []string {
	return []string{".", "-", "–", "—", " "}
}

type TargetKind int

const (
	TargetLines TargetKind = iota
	TargetHeight
	TargetAuto
)

// Target is the requested size: a line count, a CSS height, or "auto"
// (as many lines as the parent currently shows).
type Target struct {
	Kind   TargetKind
	Lines  int
	Height css.Length
}

func (t Target) String() string {
	switch t.Kind {
	case TargetAuto:
		return "auto"
	case TargetHeight:
		return t.Height.String()
	}
	return strconv.Itoa(t.Lines)
}

// ParseTarget accepts "auto", a non-negative integer, or a length in px,
// em or rem.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if s == "auto" {
		return Target{Kind: TargetAuto}, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return Target{}, fmt.Errorf("%w: negative line count %d", ErrInvalidOption, n)
		}
		return Target{Kind: TargetLines, Lines: n}, nil
	}
	l, ok := css.ParseLengthValue(s)
	if !ok || l.Value < 0 {
		return Target{}, fmt.Errorf("%w: clamp %q", ErrInvalidOption, s)
	}
	switch l.Unit {
	case css.UnitPx, css.UnitEm, css.UnitRem:
		return Target{Kind: TargetHeight, Height: l}, nil
	}
	return Target{}, fmt.Errorf("%w: clamp %q needs px, em or rem", ErrInvalidOption, s)
}

type PacingMode int

const (
	PacingOff PacingMode = iota
	PacingTimed
	PacingFrame
)

func (m PacingMode) String() string {
	switch m {
	case PacingTimed:
		return "timed"
	case PacingFrame:
		return "frame"
	}
	return "off"
}

// Pacing controls how steps of a progressive run are spread over time.
type Pacing struct {
	Mode     PacingMode
	Interval time.Duration
}

// ParsePacing accepts "off", "false" or "" (synchronous), "frame" or
// "true" (one step per display frame), a Go duration such as "40ms", or a
// bare millisecond count.
func ParsePacing(s string) (Pacing, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "off", "false":
		return Pacing{Mode: PacingOff}, nil
	case "frame", "true":
		return Pacing{Mode: PacingFrame, Interval: DefaultInterval}, nil
	}
	if ms, err := strconv.ParseFloat(s, 64); err == nil {
		return timedPacing(time.Duration(ms * float64(time.Millisecond)))
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return Pacing{}, fmt.Errorf("%w: animate %q", ErrInvalidOption, s)
	}
	return timedPacing(d)
}

func timedPacing(d time.Duration) (Pacing, error) {
	if d < 0 {
		return Pacing{}, fmt.Errorf("%w: negative step interval %s", ErrInvalidOption, d)
	}
	if d == 0 {
		return Pacing{Mode: PacingOff}, nil
	}
	return Pacing{Mode: PacingTimed, Interval: d}, nil
}

// CompleteFunc receives the element, the applied line count and the
// applied height in pixels once a run finishes.
type CompleteFunc func(el *html.Node, lines int, heightPx float64)

// Options is a fully resolved configuration. Boundaries is used as given:
// an empty list means only whole text nodes are removed.
type Options struct {
	Target            Target
	PreferNativeClamp bool
	Boundaries        []string
	Pacing            Pacing
	Marker            string
	MarkupHTML        string
	OnComplete        CompleteFunc
}

func DefaultOptions() Options {
	return Options{
		Target:            Target{Kind: TargetLines, Lines: DefaultLines},
		PreferNativeClamp: true,
		Boundaries:        DefaultBoundaries(),
		Pacing:            Pacing{Mode: PacingOff},
		Marker:            DefaultMarker,
	}
}

// levels returns the split levels tried on each node: the configured
// boundaries followed by single graphemes.
func (o Options) levels() []string {
	if len(o.Boundaries) == 0 {
		return nil
	}
	out := append([]string(nil), o.Boundaries...)
	if out[len(out)-1] != "" {
		out = append(out, "")
	}
	return out
}

// Config is the user-facing option record, shared by the script binding,
// YAML profiles and CLI flags. Unset fields take defaults; a non-nil empty
// SplitOnChars is kept as "remove whole nodes only".
type Config struct {
	Clamp          string       `yaml:"clamp"`
	UseNativeClamp *bool        `yaml:"useNativeClamp"`
	SplitOnChars   []string     `yaml:"splitOnChars"`
	Animate        string       `yaml:"animate"`
	TruncationChar *string      `yaml:"truncationChar"`
	TruncationHTML string       `yaml:"truncationHTML"`
	OnComplete     CompleteFunc `yaml:"-"`
}

// Options resolves c against the defaults.
func (c Config) Options() (Options, error) {
	opts := DefaultOptions()
	if c.Clamp != "" {
		t, err := ParseTarget(c.Clamp)
		if err != nil {
			return Options{}, err
		}
		opts.Target = t
	}
	if c.UseNativeClamp != nil {
		opts.PreferNativeClamp = *c.UseNativeClamp
	}
	if c.SplitOnChars != nil {
		opts.Boundaries = append([]string{}, c.SplitOnChars...)
	}
	p, err := ParsePacing(c.Animate)
	if err != nil {
		return Options{}, err
	}
	opts.Pacing = p
	if c.TruncationChar != nil {
		opts.Marker = *c.TruncationChar
	}
	opts.MarkupHTML = c.TruncationHTML
	opts.OnComplete = c.OnComplete
	return opts, nil
}

// Merge overlays the fields set in other onto c.
func (c Config) Merge(other Config) Config {
	if other.Clamp != "" {
		c.Clamp = other.Clamp
	}
	if other.UseNativeClamp != nil {
		c.UseNativeClamp = other.UseNativeClamp
	}
	if other.SplitOnChars != nil {
		c.SplitOnChars = other.SplitOnChars
	}
	if other.Animate != "" {
		c.Animate = other.Animate
	}
	if other.TruncationChar != nil {
		c.TruncationChar = other.TruncationChar
	}
	if other.TruncationHTML != "" {
		c.TruncationHTML = other.TruncationHTML
	}
	if other.OnComplete != nil {
		c.OnComplete = other.OnComplete
	}
	return c
}

// validateTarget rejects elements a run cannot work on.
func validateTarget(el *html.Node) error {
	switch {
	case el == nil:
		return &InvalidTargetError{Reason: "element is nil"}
	case el.Type != html.ElementNode:
		return &InvalidTargetError{Reason: "not an element"}
	case el.TagName == html.RootTag:
		return &InvalidTargetError{Reason: "document root"}
	case !el.IsConnected():
		return &InvalidTargetError{Reason: "element is not attached to a document"}
	}
	return nil
}

// Resolve validates el and normalizes arg into Options. arg may be nil, an
// int or float64 line count, a string accepted by ParseTarget, a Config,
// a *Config, or Options (returned as given).
func Resolve(el *html.Node, arg any) (Options, error) {
	if err := validateTarget(el); err != nil {
		return Options{}, err
	}
	switch v := arg.(type) {
	case nil:
		return DefaultOptions(), nil
	case int:
		return linesOptions(v)
	case int64:
		return linesOptions(int(v))
	case float64:
		if v != float64(int(v)) {
			return Options{}, fmt.Errorf("%w: fractional line count %v", ErrInvalidOption, v)
		}
		return linesOptions(int(v))
	case string:
		return Config{Clamp: v}.Options()
	case Config:
		return v.Options()
	case *Config:
		if v == nil {
			return DefaultOptions(), nil
		}
		return v.Options()
	case Options:
		if v.Pacing.Mode != PacingOff && v.Pacing.Interval <= 0 {
			v.Pacing.Interval = DefaultInterval
		}
		return v, nil
	}
	return Options{}, fmt.Errorf("%w: unsupported argument type %T", ErrInvalidOption, arg)
}

func linesOptions(n int) (Options, error) {
	if n < 0 {
		return Options{}, fmt.Errorf("%w: negative line count %d", ErrInvalidOption, n)
	}
	opts := DefaultOptions()
	opts.Target = Target{Kind: TargetLines, Lines: n}
	return opts, nil
}
