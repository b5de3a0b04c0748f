package js

import (
	"context"
	"fmt"
	"log/slog"

	"lineclamp/pkg/clamp"
	"lineclamp/pkg/html"

	"github.com/dop251/goja"
)

// DefaultTaskLimit bounds the number of loop tasks one Execute may run.
const DefaultTaskLimit = 100000

// Engine executes a document's scripts against its DOM with a clamp()
// global bound to a layout measurer. One Engine serves one document.
type Engine struct {
	vm       *goja.Runtime
	log      *slog.Logger
	loop     *eventLoop
	observer clamp.Observer
	runs     []*clamp.Run
}

// New creates a new JS engine with a fresh goja runtime.
func New(log *slog.Logger) *Engine {
	vm := goja.New()
	e := &Engine{vm: vm, log: log, loop: newEventLoop(DefaultTaskLimit)}

	c := &consoleAPI{log: log}
	c.register(vm)
	e.registerTimers()

	return e
}

// SetObserver forwards run events from clamp() calls to o.
func (e *Engine) SetObserver(o clamp.Observer) { e.observer = o }

// SetTaskLimit changes the loop budget; zero disables the limit.
func (e *Engine) SetTaskLimit(n int) { e.loop.limit = n }

// Runs returns the handles of every run clamp() started.
func (e *Engine) Runs() []*clamp.Run { return e.runs }

// Execute runs all scripts from the document in order, then drains timers
// and animation frames until no work is left. m answers the layout
// questions for clamp() calls. Cancelling ctx interrupts a running script.
func (e *Engine) Execute(ctx context.Context, doc *html.Document, m clamp.Measurer) error {
	interrupted := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		e.vm.Interrupt(ctx.Err())
		close(interrupted)
	})
	defer func() {
		if !stop() {
			<-interrupted
			e.vm.ClearInterrupt()
		}
	}()

	dom := registerDocument(e.vm, doc)

	clamper := clamp.NewClamper(m)
	clamper.SetLogger(e.log)
	clamper.SetTimer(e.loop)
	clamper.SetFrameSource(e.loop)
	if e.observer != nil {
		clamper.SetObserver(e.observer)
	}
	e.registerClamp(ctx, dom, clamper)

	for i, script := range doc.Scripts {
		if _, err := e.vm.RunString(script); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("script %d interrupted: %w", i, ctxErr)
			}
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	if err := e.loop.run(ctx); err != nil {
		return fmt.Errorf("event loop: %w", err)
	}
	return nil
}

// registerTimers installs setTimeout, clearTimeout, requestAnimationFrame,
// cancelAnimationFrame, and performance.now on the loop's virtual clock.
func (e *Engine) registerTimers() {
	vm := e.vm
	vm.Set("setTimeout", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(argument(call, 0))
		if !ok {
			panic(vm.NewTypeError("setTimeout: callback is not a function"))
		}
		delay := argument(call, 1).ToFloat()
		var extra []goja.Value
		if len(call.Arguments) > 2 {
			extra = call.Arguments[2:]
		}
		id := e.loop.setTimeout(millis(delay), func() {
			e.invoke("setTimeout", fn, extra...)
		})
		return vm.ToValue(id)
	})
	vm.Set("requestAnimationFrame", func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(argument(call, 0))
		if !ok {
			panic(vm.NewTypeError("requestAnimationFrame: callback is not a function"))
		}
		id := e.loop.requestFrame(func() {
			e.invoke("requestAnimationFrame", fn, vm.ToValue(e.nowMillis()))
		})
		return vm.ToValue(id)
	})
	cancel := func(call goja.FunctionCall) goja.Value {
		e.loop.cancel(int(argument(call, 0).ToInteger()))
		return goja.Undefined()
	}
	vm.Set("clearTimeout", cancel)
	vm.Set("cancelAnimationFrame", cancel)

	perf := vm.NewObject()
	perf.Set("now", func(goja.FunctionCall) goja.Value { return vm.ToValue(e.nowMillis()) })
	vm.Set("performance", perf)
}

func (e *Engine) nowMillis() float64 {
	return float64(e.loop.Now().Microseconds()) / 1000
}

// invoke calls a script callback from the loop. Exceptions are logged; the
// loop keeps going, as a browser would.
func (e *Engine) invoke(source string, fn goja.Callable, args ...goja.Value) {
	if _, err := fn(goja.Undefined(), args...); err != nil {
		e.log.Warn("script callback failed", "source", source, "error", err)
	}
}
