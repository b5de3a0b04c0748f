package js

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dop251/goja"
)

// consoleAPI implements console.log, console.debug, console.warn, and
// console.error on top of a slog logger.
type consoleAPI struct {
	log *slog.Logger
}

func (c *consoleAPI) register(vm *goja.Runtime) {
	console := vm.NewObject()
	console.Set("log", c.emit(slog.LevelInfo))
	console.Set("info", c.emit(slog.LevelInfo))
	console.Set("debug", c.emit(slog.LevelDebug))
	console.Set("warn", c.emit(slog.LevelWarn))
	console.Set("error", c.emit(slog.LevelError))
	vm.Set("console", console)
}

func (c *consoleAPI) emit(level slog.Level) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		c.log.Log(context.Background(), level, formatArgs(call.Arguments), "source", "console")
		return goja.Undefined()
	}
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}
