package clamp

import (
	"fmt"
	"log/slog"
	"strings"

	"lineclamp/internal/logging"
	"lineclamp/pkg/html"
)

// fitTolerance absorbs float error when summing line heights.
const fitTolerance = 0.01

type Outcome int

const (
	OutcomeRunning Outcome = iota
	OutcomeFitted
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFitted:
		return "fitted"
	case OutcomeExhausted:
		return "exhausted"
	}
	return "running"
}

// State is the progress of one progressive truncation run. Each Step
// performs one trial or one transition and the State carries everything
// the next Step needs, so a scheduler can suspend between steps.
type State struct {
	container *html.Node
	measurer  Measurer
	target    float64
	marker    string
	markup    []*html.Node
	levels    []string
	log       *slog.Logger

	active    *html.Node
	text      string   // active node's text without marker
	remaining []string // untried levels for active
	boundary  string
	tokens    []string // nil when the next step must split afresh
	inserted  []*html.Node

	steps   int
	outcome Outcome
}

// NewState prepares a run that shrinks container until its measured height
// is at most target pixels. A container without text yields a State that
// is already exhausted.
func NewState(container *html.Node, opts Options, target float64, m Measurer) (*State, error) {
	s := &State{
		container: container,
		measurer:  m,
		target:    target,
		marker:    opts.Marker,
		levels:    opts.levels(),
		log:       logging.NewNop(),
	}
	if opts.MarkupHTML != "" {
		nodes, err := html.ParseFragment(opts.MarkupHTML)
		if err != nil {
			return nil, fmt.Errorf("%w: truncation markup: %v", ErrInvalidOption, err)
		}
		s.markup = nodes
	}
	s.active = LastValidTextNode(container)
	if s.active == nil {
		s.outcome = OutcomeExhausted
		return s, nil
	}
	s.text = s.active.Text
	s.remaining = append([]string(nil), s.levels...)
	return s, nil
}

func (s *State) SetLogger(l *slog.Logger) { s.log = l }

func (s *State) Active() *html.Node { return s.active }
func (s *State) Outcome() Outcome { return s.outcome }
func (s *State) Steps() int { return s.steps }
func (s *State) Done() bool { return s.outcome != OutcomeRunning }

// Step advances the run by one step and reports whether it is finished.
func (s *State) Step() bool {
	if s.Done() {
		return true
	}
	s.steps++

	if s.tokens == nil {
		if len(s.remaining) == 0 {
			return s.removeWholeNode()
		}
		s.boundary, s.remaining = s.remaining[0], s.remaining[1:]
		s.tokens = Split(s.text, s.boundary)
		s.log.Debug("clamp split", "step", s.steps, "boundary", s.boundary, "tokens", len(s.tokens))
	}

	if len(s.tokens) <= 1 {
		s.tokens = nil
		if s.boundary == "" {
			return s.advance()
		}
		return false
	}

	last := s.tokens[len(s.tokens)-1]
	s.tokens = s.tokens[:len(s.tokens)-1]
	trial := strings.Join(s.tokens, s.boundary)
	s.apply(trial)

	fits, err := s.fits()
	switch {
	case err != nil:
		s.log.Warn("clamp trial not measurable, keeping it", "step", s.steps, "error", err)
		s.text = trial
		s.outcome = OutcomeFitted
	case fits && len(s.remaining) > 0 && last != "":
		// try again one level finer from the pre-trial text
		s.rollback()
		s.active.Text = s.text
		s.tokens = nil
	case fits:
		s.text = trial
		s.outcome = OutcomeFitted
	default:
		s.rollback()
		s.text = trial
	}
	return s.Done()
}

// removeWholeNode handles an empty boundary list: the active node is
// dropped, and the marker is tried on the node before it.
func (s *State) removeWholeNode() bool {
	if s.advance() {
		return true
	}
	s.apply(s.text)
	fits, err := s.fits()
	if err != nil || fits {
		if err != nil {
			s.log.Warn("clamp trial not measurable, keeping it", "step", s.steps, "error", err)
		}
		s.outcome = OutcomeFitted
		return true
	}
	s.rollback()
	s.active.Text = s.text
	return false
}

// advance blanks the active node and moves to the previous text node,
// restarting at the coarsest level.
func (s *State) advance() bool {
	s.rollback()
	s.active.Text = ""
	next := LastValidTextNode(s.container)
	if next == nil {
		s.active = nil
		s.outcome = OutcomeExhausted
		s.log.Debug("clamp exhausted", "step", s.steps)
		return true
	}
	s.active = next
	s.text = next.Text
	s.remaining = append([]string(nil), s.levels...)
	s.tokens = nil
	return false
}

// apply writes trial into the active node together with the marker,
// either appended to the text or as separate nodes after it when markup
// is configured.
func (s *State) apply(trial string) {
	if s.markup == nil {
		s.active.Text = trial + s.marker
		return
	}
	s.active.Text = trial
	parent, ref := s.active.Parent, s.active
	for _, n := range s.markup {
		clone := n.CloneNode(true)
		parent.InsertAfter(clone, ref)
		s.inserted = append(s.inserted, clone)
		ref = clone
	}
	if s.marker != "" {
		m := html.NewText(s.marker)
		parent.InsertAfter(m, ref)
		s.inserted = append(s.inserted, m)
	}
}

// Rollback removes nodes inserted by the current trial. Callers stopping a
// run between steps use it to leave no trial markup behind.
func (s *State) Rollback() { s.rollback() }

func (s *State) rollback() {
	for _, n := range s.inserted {
		n.Detach()
	}
	s.inserted = nil
}

func (s *State) fits() (bool, error) {
	h, err := s.measurer.MeasuredHeight(s.container)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMeasurementUnavailable, err)
	}
	return h <= s.target+fitTolerance, nil
}
