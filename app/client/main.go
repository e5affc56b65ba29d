//go:build js && wasm
// +build js,wasm

// Command client is the playground's WASM client: it mounts a skin viewer
// and applies the props pushed by skinview serve.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"syscall/js"
	"time"

	"github.com/recera/skinview/pkg/debug"
	"github.com/recera/skinview/pkg/live"
	"github.com/recera/skinview/pkg/renderer/dom"
	"github.com/recera/skinview/pkg/scheduler"
	"github.com/recera/skinview/pkg/skinview"
)

const mountSelector = "#skinview"

func main() {
	if js.Global().Get("location").Get("search").String() == "?debug" {
		debug.EnableLogging()
	}

	sched := scheduler.NewScheduler()
	sched.Start()

	var client *live.Client
	report := func(evt live.Event) {
		if client == nil {
			return
		}
		if err := client.SendEvent(evt); err != nil {
			log.Printf("[Client] Failed to report %s: %v", evt.Type, err)
		}
	}

	comp, err := skinview.New(sched, skinview.DefaultProps(), &skinview.Options{
		Factory: skinview.JSFactory(&skinview.JSOptions{
			OnError: func(op string, err error) {
				report(live.Event{Type: live.EventLoadError, Message: fmt.Sprintf("%s: %v", op, err)})
			},
		}),
		OnError: func(err error) {
			report(live.Event{Type: live.EventLoadError, Message: err.Error()})
		},
	})
	if err != nil {
		log.Fatalf("[Client] %v", err)
	}

	applier := dom.NewDOMApplier()
	if err := applier.MountSelector(mountSelector, comp.Render()); err != nil {
		log.Fatalf("[Client] %v", err)
	}

	client = live.NewClient(liveURL())
	client.OnReady(func() {
		if comp.State() == skinview.Bound {
			report(live.Event{Type: live.EventMounted})
		}
	})
	client.OnProps(func(seq uint64, p skinview.Props) {
		if err := comp.SetProps(p); err != nil {
			log.Printf("[Client] Ignoring props #%d: %v", seq, err)
		}
	})
	client.OnError(func(err error) {
		log.Printf("[Client] %v", err)
	})
	if err := client.Connect(); err != nil {
		log.Fatalf("[Client] %v", err)
	}

	js.Global().Get("window").Call("addEventListener", "pagehide", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		report(live.Event{Type: live.EventDisposed})
		applier.Unmount()
		comp.Unmount()
		client.Close()
		sched.Stop()
		return nil
	}))

	// Keep the WASM runtime alive
	select {}
}

// liveURL builds the WebSocket URL for this page with a fresh session ID
func liveURL() string {
	location := js.Global().Get("location")
	scheme := "ws"
	if location.Get("protocol").String() == "https:" {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s%s%s", scheme, location.Get("host").String(), live.DefaultPath, sessionID())
}

func sessionID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
