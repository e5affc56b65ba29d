//go:build js && wasm
// +build js,wasm

package debug

import (
	"fmt"
	"syscall/js"

	"github.com/recera/skinview/pkg/live"
	"github.com/recera/skinview/pkg/reactive"
	"github.com/recera/skinview/pkg/scheduler"
	"github.com/recera/skinview/pkg/skinview"
)

// EnableLogging routes the runtime debug hooks to the browser console
func EnableLogging() {
	scheduler.SetDebugLog(Log)
	reactive.SetDebugLog(Log)
	skinview.SetDebugLog(Log)
	live.SetDebugLog(Log)
}

// DisableLogging turns the debug hooks off again
func DisableLogging() {
	scheduler.SetDebugLog(nil)
	reactive.SetDebugLog(nil)
	skinview.SetDebugLog(nil)
	live.SetDebugLog(nil)
}

// Log logs a message to the console
func Log(args ...interface{}) {
	js.Global().Get("console").Call("log", consoleArgs(args)...)
}

// Logf logs a formatted message to the console
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	js.Global().Get("console").Call("log", msg)
}

// consoleArgs converts values js.ValueOf cannot handle to strings
func consoleArgs(args []interface{}) []interface{} {
	out := make([]interface{}, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case nil, bool, string, int, int32, int64, uint, uint32, uint64, float32, float64, js.Value:
			out[i] = v
		case error:
			out[i] = v.Error()
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
