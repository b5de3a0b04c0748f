package js

import (
	"context"
	"errors"
	"sort"
	"time"
)

// FrameInterval is the spacing of requestAnimationFrame callbacks on the
// loop's clock.
const FrameInterval = 16600 * time.Microsecond

// ErrLoopLimit is returned when scripts keep scheduling work past the
// loop's task budget.
var ErrLoopLimit = errors.New("js: event loop task limit reached")

type task struct {
	id  int
	due time.Duration
	fn  func()
}

// eventLoop runs timers and frame callbacks on a virtual clock. Nothing
// sleeps: draining jumps the clock to the next due task. The loop is not
// safe for concurrent use; everything runs on the goroutine calling run.
type eventLoop struct {
	now    time.Duration
	nextID int
	tasks  []task
	limit  int
}

func newEventLoop(limit int) *eventLoop {
	return &eventLoop{limit: limit}
}

// Now is the current virtual time.
func (l *eventLoop) Now() time.Duration { return l.now }

func (l *eventLoop) push(due time.Duration, fn func()) int {
	l.nextID++
	l.tasks = append(l.tasks, task{id: l.nextID, due: due, fn: fn})
	return l.nextID
}

// AfterFunc schedules f d after the current virtual time.
func (l *eventLoop) AfterFunc(d time.Duration, f func()) {
	l.setTimeout(d, f)
}

func (l *eventLoop) setTimeout(d time.Duration, f func()) int {
	if d < 0 {
		d = 0
	}
	return l.push(l.now+d, f)
}

// RequestFrame schedules f at the next frame boundary.
func (l *eventLoop) RequestFrame(f func()) {
	l.requestFrame(f)
}

func (l *eventLoop) requestFrame(f func()) int {
	next := (l.now/FrameInterval + 1) * FrameInterval
	return l.push(next, f)
}

func (l *eventLoop) cancel(id int) {
	for i, t := range l.tasks {
		if t.id == id {
			l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
			return
		}
	}
}

// Pending returns the number of queued tasks.
func (l *eventLoop) Pending() int { return len(l.tasks) }

// run drains the queue in due order, ties broken by scheduling order.
func (l *eventLoop) run(ctx context.Context) error {
	for executed := 0; len(l.tasks) > 0; executed++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.limit > 0 && executed >= l.limit {
			return ErrLoopLimit
		}
		sort.SliceStable(l.tasks, func(i, j int) bool {
			if l.tasks[i].due != l.tasks[j].due {
				return l.tasks[i].due < l.tasks[j].due
			}
			return l.tasks[i].id < l.tasks[j].id
		})
		next := l.tasks[0]
		l.tasks = l.tasks[1:]
		if next.due > l.now {
			l.now = next.due
		}
		next.fn()
	}
	return nil
}
