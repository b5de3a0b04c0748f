package clamp

import (
	"context"
	"errors"
	"time"

	"lineclamp/pkg/html"
)

type realTimer struct{}

func (realTimer) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }

// drive runs state to completion under opts.Pacing. ctx is checked before
// every step.
func (c *Clamper) drive(ctx context.Context, el *html.Node, opts Options, run *Run, s *State, height, lh float64) {
	done := func() {
		res := c.result(el, s, height, lh)
		c.log.Debug("clamp run finished", "outcome", s.Outcome().String(), "steps", res.Steps, "lines", res.Lines)
		c.finish(el, opts, run, res)
	}

	if opts.Pacing.Mode == PacingOff {
		for {
			if err := ctx.Err(); err != nil {
				c.cancelled(el, run, s, height, lh, err)
				return
			}
			finished := s.Step()
			c.observer.StepTaken()
			if finished {
				done()
				return
			}
		}
	}

	var tick func()
	tick = func() {
		if err := ctx.Err(); err != nil {
			c.cancelled(el, run, s, height, lh, err)
			return
		}
		finished := s.Step()
		c.observer.StepTaken()
		if finished {
			done()
			return
		}
		c.schedule(opts.Pacing, tick)
	}
	tick()
}

// schedule arranges for f to run as the next step.
func (c *Clamper) schedule(p Pacing, f func()) {
	switch {
	case p.Mode == PacingFrame && c.frames != nil:
		c.frames.RequestFrame(f)
	case p.Mode == PacingFrame || p.Interval <= 0:
		c.timer.AfterFunc(DefaultInterval, f)
	default:
		c.timer.AfterFunc(p.Interval, f)
	}
}

// IsCancelled reports whether err ended a run early.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
