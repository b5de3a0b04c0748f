package clamp

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lineclamp/pkg/css"
	"lineclamp/pkg/html"
)

func TestResolveRejectsBadTargets(t *testing.T) {
	el := container(t, `<div id="c">text</div>`)
	cases := map[string]*html.Node{
		"nil":      nil,
		"detached": html.NewElement("div"),
		"text":     el.Children[0],
		"root":     el.Root(),
	}
	for name, n := range cases {
		_, err := Resolve(n, 2)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrInvalidTarget), name)
		var ite *InvalidTargetError
		assert.True(t, errors.As(err, &ite), name)
		assert.NotEmpty(t, ite.Reason, name)
	}
}

func TestResolveArguments(t *testing.T) {
	el := container(t, `<div id="c">text</div>`)

	opts, err := Resolve(el, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions().Target, opts.Target)
	assert.Equal(t, DefaultBoundaries(), opts.Boundaries)
	assert.Equal(t, DefaultMarker, opts.Marker)
	assert.True(t, opts.PreferNativeClamp)

	opts, err = Resolve(el, 3)
	require.NoError(t, err)
	assert.Equal(t, Target{Kind: TargetLines, Lines: 3}, opts.Target)

	opts, err = Resolve(el, float64(4))
	require.NoError(t, err)
	assert.Equal(t, 4, opts.Target.Lines)

	opts, err = Resolve(el, "auto")
	require.NoError(t, err)
	assert.Equal(t, TargetAuto, opts.Target.Kind)

	opts, err = Resolve(el, "1.5em")
	require.NoError(t, err)
	assert.Equal(t, Target{Kind: TargetHeight, Height: css.Length{Value: 1.5, Unit: css.UnitEm}}, opts.Target)

	for _, bad := range []any{"2.5", "50%", -1, 2.5, true} {
		_, err := Resolve(el, bad)
		assert.True(t, errors.Is(err, ErrInvalidOption), "%v", bad)
	}
}

func TestResolveConfigKeepsExplicitValues(t *testing.T) {
	el := container(t, `<div id="c">text</div>`)

	opts, err := Resolve(el, Config{
		Clamp:          "40px",
		UseNativeClamp: ptr(false),
		SplitOnChars:   []string{},
		Animate:        "25",
		TruncationChar: ptr(""),
		TruncationHTML: `<a href="#">more</a>`,
	})
	require.NoError(t, err)
	assert.Equal(t, TargetHeight, opts.Target.Kind)
	assert.False(t, opts.PreferNativeClamp)
	assert.NotNil(t, opts.Boundaries)
	assert.Empty(t, opts.Boundaries)
	assert.Nil(t, opts.levels(), "empty list removes whole nodes only")
	assert.Equal(t, Pacing{Mode: PacingTimed, Interval: 25 * time.Millisecond}, opts.Pacing)
	assert.Equal(t, "", opts.Marker)
	assert.Equal(t, `<a href="#">more</a>`, opts.MarkupHTML)

	opts, err = Resolve(el, &Config{SplitOnChars: []string{" "}})
	require.NoError(t, err)
	assert.Equal(t, []string{" ", ""}, opts.levels())
	assert.Equal(t, DefaultMarker, opts.Marker)
}

func TestConfigMerge(t *testing.T) {
	base := Config{Clamp: "3", Animate: "frame", TruncationChar: ptr("...")}
	merged := base.Merge(Config{Clamp: "5", UseNativeClamp: ptr(false)})

	assert.Equal(t, "5", merged.Clamp)
	assert.Equal(t, "frame", merged.Animate)
	assert.Equal(t, "...", *merged.TruncationChar)
	assert.False(t, *merged.UseNativeClamp)
}

func TestParsePacing(t *testing.T) {
	tests := []struct {
		in   string
		want Pacing
	}{
		{"", Pacing{Mode: PacingOff}},
		{"false", Pacing{Mode: PacingOff}},
		{"0", Pacing{Mode: PacingOff}},
		{"true", Pacing{Mode: PacingFrame, Interval: DefaultInterval}},
		{"Frame", Pacing{Mode: PacingFrame, Interval: DefaultInterval}},
		{"40ms", Pacing{Mode: PacingTimed, Interval: 40 * time.Millisecond}},
		{"100", Pacing{Mode: PacingTimed, Interval: 100 * time.Millisecond}},
	}
	for _, tt := range tests {
		got, err := ParsePacing(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"sometimes", "-5ms"} {
		_, err := ParsePacing(bad)
		assert.True(t, errors.Is(err, ErrInvalidOption), bad)
	}
}

func TestTargetString(t *testing.T) {
	for _, s := range []string{"auto", "3", "40px", "2.5em", "1rem"} {
		target, err := ParseTarget(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, target.String())
	}
}
