package scheduler

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// EffectFunc is the body of an effect
type EffectFunc func()

// ErrorHandler handles panics raised by an effect.
// Returns true to keep the effect scheduled, false to remove it.
type ErrorHandler func(effect *Effect, err interface{}) bool

// Effect is a unit of work re-run whenever something it depends on changes
type Effect struct {
	id     uint32
	parent *Effect
	run    EffectFunc

	dirty atomic.Bool
	runs  atomic.Uint64

	onError  ErrorHandler
	userData interface{}
}

// debugLog is set by platform-specific code
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// Scheduler queues dirty effects and runs them in batches. Flushes are
// serialized, so effects never run concurrently with each other.
type Scheduler struct {
	mu      sync.Mutex
	effects map[uint32]*Effect
	nextID  uint32

	queueMu    sync.Mutex
	dirtyQueue []*Effect

	flushMu sync.Mutex
	wake    chan struct{}
	stop    chan struct{}
	running atomic.Bool

	defaultError ErrorHandler
}

// NewScheduler creates a new scheduler instance
func NewScheduler() *Scheduler {
	return &Scheduler{
		effects:    make(map[uint32]*Effect),
		nextID:     1,
		dirtyQueue: make([]*Effect, 0, 64),
		wake:       make(chan struct{}, 1),
	}
}

// SetDefaultErrorHandler sets the error handler given to new effects
func (s *Scheduler) SetDefaultErrorHandler(handler ErrorHandler) {
	s.defaultError = handler
}

// CreateEffect registers an effect. It does not run until marked dirty.
func (s *Scheduler) CreateEffect(run EffectFunc, parent *Effect) *Effect {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	effect := &Effect{
		id:      id,
		parent:  parent,
		run:     run,
		onError: s.defaultError,
	}
	s.effects[id] = effect
	return effect
}

// RemoveEffect unregisters an effect; a queued run is dropped
func (s *Scheduler) RemoveEffect(effect *Effect) {
	if effect == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.effects, effect.id)
}

func (s *Scheduler) registered(effect *Effect) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.effects[effect.id]
	return ok
}

// MarkDirty queues an effect for the next flush. Marking an already queued
// effect is a no-op.
func (s *Scheduler) MarkDirty(effect *Effect) {
	if effect == nil {
		return
	}

	if !effect.dirty.CompareAndSwap(false, true) {
		if debugLog != nil {
			debugLog("[Scheduler] Effect", effect.ID(), "already dirty")
		}
		return
	}

	s.queueMu.Lock()
	s.dirtyQueue = append(s.dirtyQueue, effect)
	s.queueMu.Unlock()

	if debugLog != nil {
		debugLog("[Scheduler] Effect", effect.ID(), "marked dirty")
	}

	if s.running.Load() {
		select {
		case s.wake <- struct{}{}:
		default:
			// A flush is already pending and will pick this effect up
		}
	}
}

// Pending returns the number of queued effects
func (s *Scheduler) Pending() int {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	return len(s.dirtyQueue)
}

// Flush runs queued effects until the queue is empty, including effects
// dirtied by the ones it runs. It returns how many effects ran.
func (s *Scheduler) Flush() int {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	ran := 0
	for {
		s.queueMu.Lock()
		batch := s.dirtyQueue
		s.dirtyQueue = make([]*Effect, 0, cap(batch))
		s.queueMu.Unlock()

		if len(batch) == 0 {
			return ran
		}

		if debugLog != nil {
			debugLog("[Scheduler] Processing batch of", len(batch), "effects")
		}
		for _, e := range batch {
			if s.processEffect(e) {
				ran++
			}
		}
	}
}

// Start runs a loop goroutine that flushes whenever effects are queued
func (s *Scheduler) Start() {
	if !s.running.CompareAndSwap(false, true) {
		if debugLog != nil {
			debugLog("[Scheduler] Scheduler already running")
		}
		return
	}

	s.mu.Lock()
	s.stop = make(chan struct{})
	stop := s.stop
	s.mu.Unlock()

	go s.loop(stop)

	// Work queued before Start
	if s.Pending() > 0 {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

// Stop stops the loop goroutine. Queued effects stay queued.
func (s *Scheduler) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	s.mu.Lock()
	close(s.stop)
	s.mu.Unlock()
}

// IsRunning returns whether the loop goroutine is running
func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

func (s *Scheduler) loop(stop <-chan struct{}) {
	if debugLog != nil {
		debugLog("[Scheduler] Loop started")
	}
	for {
		select {
		case <-stop:
			if debugLog != nil {
				debugLog("[Scheduler] Loop ended")
			}
			return
		case <-s.wake:
			s.Flush()
		}
	}
}

// processEffect runs one effect if it is still dirty and registered
func (s *Scheduler) processEffect(effect *Effect) bool {
	if !effect.dirty.CompareAndSwap(true, false) {
		return false
	}
	if !s.registered(effect) {
		if debugLog != nil {
			debugLog("[Scheduler] Effect", effect.ID(), "removed, skipping")
		}
		return false
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				s.handleEffectError(effect, r)
			}
		}()
		effect.runs.Add(1)
		effect.run()
	}()
	return true
}

// handleEffectError handles a panic raised by an effect
func (s *Scheduler) handleEffectError(effect *Effect, err interface{}) {
	errorMsg := fmt.Sprintf("Effect %d panic: %v\n%s", effect.id, err, debug.Stack())

	shouldContinue := false
	if effect.onError != nil {
		shouldContinue = effect.onError(effect, errorMsg)
	} else if debugLog != nil {
		debugLog("[Scheduler]", errorMsg)
	}

	if !shouldContinue {
		s.RemoveEffect(effect)
	}
}

// GetEffect returns an effect by ID
func (s *Scheduler) GetEffect(id uint32) *Effect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effects[id]
}

// EffectCount returns the number of registered effects
func (s *Scheduler) EffectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.effects)
}

// ID returns the effect's unique ID
func (e *Effect) ID() uint32 {
	return e.id
}

// Parent returns the effect's parent
func (e *Effect) Parent() *Effect {
	return e.parent
}

// Runs returns how many times the effect has run
func (e *Effect) Runs() uint64 {
	return e.runs.Load()
}

// SetErrorHandler sets a custom error handler for this effect
func (e *Effect) SetErrorHandler(handler ErrorHandler) {
	e.onError = handler
}

// SetUserData sets custom data on an effect
func (e *Effect) SetUserData(data interface{}) {
	e.userData = data
}

// GetUserData gets custom data from an effect
func (e *Effect) GetUserData() interface{} {
	return e.userData
}
