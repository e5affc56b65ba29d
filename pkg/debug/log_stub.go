//go:build !js || !wasm
// +build !js !wasm

package debug

import (
	"log"

	"github.com/recera/skinview/pkg/live"
	"github.com/recera/skinview/pkg/reactive"
	"github.com/recera/skinview/pkg/scheduler"
	"github.com/recera/skinview/pkg/skinview"
)

// EnableLogging routes the runtime debug hooks to the standard logger
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

// Log logs a message
func Log(args ...interface{}) {
	log.Println(args...)
}

// Logf logs a formatted message
func Logf(format string, args ...interface{}) {
	log.Printf(format, args...)
}
