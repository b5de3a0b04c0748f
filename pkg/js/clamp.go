package js

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"lineclamp/pkg/clamp"
	"lineclamp/pkg/html"

	"github.com/dop251/goja"
)

// registerClamp installs the global clamp(element, options). options is a
// line count, a target string, or an object with the keys of clamp.Config.
// The return value holds the original innerHTML and the innerHTML at the
// time clamp() returns, which is final unless the run is animated.
func (e *Engine) registerClamp(ctx context.Context, dom *domContext, clamper *clamp.Clamper) {
	vm := e.vm
	vm.Set("clamp", func(call goja.FunctionCall) goja.Value {
		el := dom.unwrapNode(argument(call, 0))
		if el == nil {
			panic(vm.NewTypeError("clamp: first argument must be an element"))
		}
		arg, err := e.clampArgument(dom, argument(call, 1))
		if err != nil {
			panic(vm.NewGoError(err))
		}
		original := el.Serialize()
		run, err := clamper.Clamp(ctx, el, arg)
		if err != nil {
			panic(vm.NewGoError(err))
		}
		e.runs = append(e.runs, run)

		out := vm.NewObject()
		out.Set("original", original)
		out.Set("clamped", el.Serialize())
		return out
	})
}

// clampArgument converts the script's options value into something
// clamp.Resolve accepts.
func (e *Engine) clampArgument(dom *domContext, v goja.Value) (any, error) {
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	switch x := v.Export().(type) {
	case int64:
		return x, nil
	case float64:
		return x, nil
	case string:
		return x, nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, fmt.Errorf("%w: clamp options must be a number, string or object", clamp.ErrInvalidOption)
	}

	var cfg clamp.Config
	if val := obj.Get("clamp"); present(val) {
		cfg.Clamp = scalarString(val)
	}
	if val := obj.Get("useNativeClamp"); present(val) {
		b := val.ToBoolean()
		cfg.UseNativeClamp = &b
	}
	if val := obj.Get("splitOnChars"); present(val) {
		list, ok := val.Export().([]any)
		if !ok {
			return nil, fmt.Errorf("%w: splitOnChars must be an array", clamp.ErrInvalidOption)
		}
		cfg.SplitOnChars = make([]string, 0, len(list))
		for _, item := range list {
			cfg.SplitOnChars = append(cfg.SplitOnChars, fmt.Sprint(item))
		}
	}
	if val := obj.Get("animate"); present(val) {
		cfg.Animate = scalarString(val)
	}
	if val := obj.Get("truncationChar"); present(val) {
		s := val.String()
		cfg.TruncationChar = &s
	}
	if val := obj.Get("truncationHTML"); present(val) {
		cfg.TruncationHTML = val.String()
	}
	if val := obj.Get("onComplete"); present(val) {
		fn, ok := goja.AssertFunction(val)
		if !ok {
			return nil, fmt.Errorf("%w: onComplete must be a function", clamp.ErrInvalidOption)
		}
		cfg.OnComplete = func(el *html.Node, lines int, heightPx float64) {
			e.invoke("onComplete", fn, dom.elementProxy(el), e.vm.ToValue(lines), e.vm.ToValue(heightPx))
		}
	}
	return cfg, nil
}

func present(v goja.Value) bool {
	return v != nil && !goja.IsUndefined(v) && !goja.IsNull(v)
}

// scalarString renders booleans and numbers the way the option parsers
// read them: true/false, integers without a fraction.
func scalarString(v goja.Value) string {
	switch x := v.Export().(type) {
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return v.String()
}

func millis(ms float64) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}
