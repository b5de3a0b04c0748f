package clamp

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"lineclamp/pkg/html"
)

// wrapMeasurer lays text out greedily in lines of width characters. Words
// longer than a line overflow onto their own line. err is returned from
// every measurement, or only after failAfter successful ones when set.
type wrapMeasurer struct {
	width     int
	lh        float64
	fontSize  float64
	avail     float64
	base      float64
	native    bool
	err       error
	failAfter int
	calls     int
}

func (m *wrapMeasurer) MeasuredHeight(el *html.Node) (float64, error) {
	m.calls++
	if m.err != nil && m.calls > m.failAfter {
		return 0, m.err
	}
	return m.base + float64(wrapLines(el.TextContent(), m.width))*m.lh, nil
}

func (m *wrapMeasurer) FontSizePx(*html.Node) float64 { return m.fontSize }
func (m *wrapMeasurer) RootFontSizePx() float64 { return 16 }
func (m *wrapMeasurer) LineHeightPx(*html.Node) float64 { return m.lh }
func (m *wrapMeasurer) SupportsLineClamp() bool { return m.native }

func (m *wrapMeasurer) AvailableHeight(*html.Node) (float64, error) {
	if m.err != nil && m.failAfter == 0 {
		return 0, m.err
	}
	return m.avail, nil
}

func wrapLines(s string, width int) int {
	lines, cur := 0, 0
	for _, w := range strings.Fields(s) {
		n := utf8.RuneCountInString(w)
		switch {
		case cur == 0:
			lines++
			cur = n
		case cur+1+n <= width:
			cur += 1 + n
		default:
			lines++
			cur = n
		}
	}
	return lines
}

var errNoLayout = errors.New("no layout")

// manualClock queues timer and frame callbacks until the test runs them.
type manualClock struct {
	queue  []func()
	delays []time.Duration
	frames int
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) {
	c.queue = append(c.queue, f)
	c.delays = append(c.delays, d)
}

func (c *manualClock) RequestFrame(f func()) {
	c.frames++
	c.queue = append(c.queue, f)
}

// runNext runs one queued callback and reports whether there was one.
func (c *manualClock) runNext() bool {
	if len(c.queue) == 0 {
		return false
	}
	f := c.queue[0]
	c.queue = c.queue[1:]
	f()
	return true
}

func (c *manualClock) drain() int {
	n := 0
	for c.runNext() {
		n++
	}
	return n
}

type recordingObserver struct {
	paths    []string
	steps    int
	finished []Result
}

func (o *recordingObserver) RunStarted(path string) { o.paths = append(o.paths, path) }
func (o *recordingObserver) StepTaken() { o.steps++ }
func (o *recordingObserver) RunFinished(r Result) { o.finished = append(o.finished, r) }

// container parses markup and returns the element with id "c".
func container(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := html.Parse("<html><body>" + markup + "</body></html>")
	require.NoError(t, err)
	el := html.FindByID(doc.Root, "c")
	require.NotNil(t, el)
	return el
}

type staticCaps bool

func (c staticCaps) SupportsLineClamp() bool { return bool(c) }

func ptr[T any](v T) *T { return &v }
