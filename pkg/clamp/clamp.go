package clamp

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"lineclamp/internal/logging"
	"lineclamp/pkg/css"
	"lineclamp/pkg/html"
)

// Measurer answers the layout questions a run needs. pkg/layout.Engine
// implements it.
type Measurer interface {
	MeasuredHeight(el *html.Node) (float64, error)
	FontSizePx(el *html.Node) float64
	RootFontSizePx() float64
	LineHeightPx(el *html.Node) float64
	AvailableHeight(el *html.Node) (float64, error)
}

// Capabilities reports what the rendering environment can do natively.
type Capabilities interface {
	SupportsLineClamp() bool
}

// Timer runs f once after d.
type Timer interface {
	AfterFunc(d time.Duration, f func())
}

// FrameSource runs f before the next display frame.
type FrameSource interface {
	RequestFrame(f func())
}

// Observer is told about run progress; internal/metrics implements it.
type Observer interface {
	RunStarted(path string)
	StepTaken()
	RunFinished(res Result)
}

// Run paths reported to Observer.RunStarted.
const (
	PathNative      = "native"
	PathProgressive = "progressive"
	PathNoop        = "noop"
)

// Result summarizes a finished run.
type Result struct {
	Lines     int
	Height    float64
	Truncated bool
	Exhausted bool
	Native    bool
	Steps     int
}

type nopObserver struct{}

func (nopObserver) RunStarted(string) {}
func (nopObserver) StepTaken() {}
func (nopObserver) RunFinished(Result) {}

// Clamper starts clamp runs against one measurer.
type Clamper struct {
	measurer Measurer
	caps     Capabilities
	timer    Timer
	frames   FrameSource
	observer Observer
	log      *slog.Logger
}

// NewClamper returns a Clamper using m for measurement. When m also
// implements Capabilities it is used for the native path check.
func NewClamper(m Measurer) *Clamper {
	c := &Clamper{
		measurer: m,
		timer:    realTimer{},
		observer: nopObserver{},
		log:      logging.NewNop(),
	}
	if caps, ok := m.(Capabilities); ok {
		c.caps = caps
	}
	return c
}

func (c *Clamper) SetLogger(l *slog.Logger) { c.log = l }
func (c *Clamper) SetTimer(t Timer) { c.timer = t }
func (c *Clamper) SetFrameSource(f FrameSource) { c.frames = f }
func (c *Clamper) SetCapabilities(caps Capabilities) { c.caps = caps }

func (c *Clamper) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	c.observer = o
}

// Run is the handle of an in-flight or finished clamp.
type Run struct {
	done   chan struct{}
	once   sync.Once
	result Result
	err    error
}

func newRun() *Run { return &Run{done: make(chan struct{})} }

// Done is closed when the run has finished or was cancelled.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run ends. The error is non-nil only when the
// run's context was cancelled.
func (r *Run) Wait() (Result, error) {
	<-r.done
	return r.result, r.err
}

func (r *Run) complete(res Result, err error) {
	r.once.Do(func() {
		r.result, r.err = res, err
		close(r.done)
	})
}

// Clamp resolves arg (see Resolve) and starts a run on el.
func (c *Clamper) Clamp(ctx context.Context, el *html.Node, arg any) (*Run, error) {
	opts, err := Resolve(el, arg)
	if err != nil {
		return nil, err
	}
	return c.Start(ctx, el, opts)
}

// Start begins a run with already resolved options. Validation errors are
// returned before el is touched; everything after that is reported through
// the Run and opts.OnComplete. With PacingOff the returned Run is already
// done.
func (c *Clamper) Start(ctx context.Context, el *html.Node, opts Options) (*Run, error) {
	if err := validateTarget(el); err != nil {
		return nil, err
	}
	run := newRun()
	lh := c.measurer.LineHeightPx(el)

	lines, height, err := c.resolveTarget(el, opts.Target, lh)
	if err != nil {
		c.observer.RunStarted(PathNoop)
		c.log.Warn("clamp target unavailable, treating as fitted", "target", opts.Target.String(), "error", err)
		c.finish(el, opts, run, Result{Lines: lines, Height: height})
		return run, nil
	}

	if opts.PreferNativeClamp && c.caps != nil && c.caps.SupportsLineClamp() && opts.MarkupHTML == "" && lines > 0 {
		c.observer.RunStarted(PathNative)
		applyNative(el, lines, opts.Target)
		c.log.Debug("clamp native", "lines", lines)
		c.finish(el, opts, run, Result{Lines: lines, Height: float64(lines) * lh, Native: true})
		return run, nil
	}

	measured, err := c.measurer.MeasuredHeight(el)
	if err != nil {
		c.observer.RunStarted(PathNoop)
		c.log.Warn("clamp measurement failed, treating as fitted",
			"error", fmt.Errorf("%w: %v", ErrMeasurementUnavailable, err))
		c.finish(el, opts, run, Result{Lines: lines, Height: height})
		return run, nil
	}
	if lines == 0 || measured <= height+fitTolerance {
		c.observer.RunStarted(PathNoop)
		c.finish(el, opts, run, Result{Lines: lineCount(measured, lh), Height: measured})
		return run, nil
	}

	state, err := NewState(el, opts, height, c.measurer)
	if err != nil {
		return nil, err
	}
	if state.Active() == nil {
		c.observer.RunStarted(PathNoop)
		c.finish(el, opts, run, Result{Lines: lineCount(measured, lh), Height: measured})
		return run, nil
	}
	state.SetLogger(c.log)
	c.observer.RunStarted(PathProgressive)
	c.log.Debug("clamp run started", "target_lines", lines, "target_height", height, "measured", measured,
		"pacing", opts.Pacing.Mode.String())
	c.drive(ctx, el, opts, run, state, height, lh)
	return run, nil
}

// resolveTarget turns the target into a line count and pixel height.
func (c *Clamper) resolveTarget(el *html.Node, t Target, lh float64) (int, float64, error) {
	if lh <= 0 {
		return 0, 0, fmt.Errorf("%w: line height %v", ErrMeasurementUnavailable, lh)
	}
	var lines int
	switch t.Kind {
	case TargetLines:
		lines = t.Lines
	case TargetAuto:
		avail, err := c.measurer.AvailableHeight(el)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", ErrMeasurementUnavailable, err)
		}
		lines = int(math.Floor(avail/lh + fitTolerance))
	case TargetHeight:
		px := t.Height.ToPx(c.measurer.FontSizePx(el), c.measurer.RootFontSizePx(), 0)
		lines = int(math.Floor(px/lh + fitTolerance))
	}
	if lines < 0 {
		lines = 0
	}
	return lines, float64(lines) * lh, nil
}

func lineCount(height, lh float64) int {
	if lh <= 0 {
		return 0
	}
	return int(math.Ceil(height/lh - fitTolerance))
}

// applyNative hands clamping to the style engine.
func applyNative(el *html.Node, lines int, t Target) {
	css.SetInlineProperty(el, "overflow", "hidden")
	css.SetInlineProperty(el, "text-overflow", "ellipsis")
	css.SetInlineProperty(el, "display", string(css.DisplayWebkitBox))
	css.SetInlineProperty(el, "-webkit-box-orient", "vertical")
	css.SetInlineProperty(el, "-webkit-line-clamp", strconv.Itoa(lines))
	if t.Kind == TargetHeight {
		css.SetInlineProperty(el, "height", t.Height.String())
	}
}

func (c *Clamper) finish(el *html.Node, opts Options, run *Run, res Result) {
	c.observer.RunFinished(res)
	if opts.OnComplete != nil {
		opts.OnComplete(el, res.Lines, res.Height)
	}
	run.complete(res, nil)
}

// result builds the Result of a finished progressive run.
func (c *Clamper) result(el *html.Node, s *State, height, lh float64) Result {
	res := Result{
		Truncated: true,
		Exhausted: s.Outcome() == OutcomeExhausted,
		Steps:     s.Steps(),
	}
	h, err := c.measurer.MeasuredHeight(el)
	if err != nil {
		h = height
	}
	res.Height = h
	res.Lines = lineCount(h, lh)
	return res
}

// cancelled stops a run between steps. OnComplete is not called.
func (c *Clamper) cancelled(el *html.Node, run *Run, s *State, height, lh float64, err error) {
	s.Rollback()
	res := c.result(el, s, height, lh)
	c.log.Debug("clamp run cancelled", "steps", s.Steps(), "error", err)
	c.observer.RunFinished(res)
	run.complete(res, err)
}

