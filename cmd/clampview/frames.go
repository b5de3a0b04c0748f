package main

import (
	"sync"

	"lineclamp/pkg/clamp"
	"lineclamp/pkg/html"
)

// frameQueue collects RequestFrame callbacks until the display loop takes
// them. Callbacks requested while a batch runs wait for the next frame.
type frameQueue struct {
	mu      sync.Mutex
	pending []func()
}

func (q *frameQueue) RequestFrame(f func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, f)
}

func (q *frameQueue) take() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	fns := q.pending
	q.pending = nil
	return fns
}

// afterAll returns a CompleteFunc that calls done with the last run's
// lines and height once n runs have completed.
func afterAll(n int, done func(lines int, heightPx float64)) clamp.CompleteFunc {
	remaining := n
	return func(_ *html.Node, lines int, heightPx float64) {
		remaining--
		if remaining == 0 {
			done(lines, heightPx)
		}
	}
}
