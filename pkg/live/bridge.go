//go:build !wasm
// +build !wasm

package live

import (
	"log"
	"sync"

	"github.com/recera/skinview/pkg/reactive"
	"github.com/recera/skinview/pkg/scheduler"
	"github.com/recera/skinview/pkg/skinview"
)

// Bridge broadcasts a reactive props state: every change to the state is
// pushed to the live server on the scheduler's next flush.
type Bridge struct {
	mu     sync.Mutex
	server *Server
	sched  *scheduler.Scheduler
	state  *reactive.State[skinview.Props]
	effect *scheduler.Effect
	closed bool
}

// NewBridge connects state to server. The current value is broadcast on
// the first flush.
func NewBridge(server *Server, sched *scheduler.Scheduler, state *reactive.State[skinview.Props]) *Bridge {
	b := &Bridge{
		server: server,
		sched:  sched,
		state:  state,
	}

	b.effect = sched.CreateEffect(b.broadcast, nil)
	b.effect.SetErrorHandler(func(e *scheduler.Effect, err interface{}) bool {
		log.Printf("[Live Bridge] Broadcast failed: %v", err)
		return true
	})
	sched.MarkDirty(b.effect)
	return b
}

func (b *Bridge) broadcast() {
	var p skinview.Props
	reactive.Track(b.effect, func() { p = b.state.Get() })

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	if err := b.server.Broadcast(p); err != nil {
		log.Printf("[Live Bridge] Not broadcasting invalid props: %v", err)
		return
	}
	if debugLog != nil {
		seq, _ := b.server.Snapshot()
		debugLog("[Live Bridge] Broadcast snapshot", seq)
	}
}

// Close stops broadcasting
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.state.Unsubscribe(b.effect)
	b.sched.RemoveEffect(b.effect)
}
