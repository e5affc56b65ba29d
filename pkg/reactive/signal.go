package reactive

import (
	"sync"
	"sync/atomic"

	"github.com/recera/skinview/pkg/scheduler"
)

// Scheduler interface for reactive system
type Scheduler interface {
	MarkDirty(effect *scheduler.Effect)
}

// debugLog is set by platform-specific code
var debugLog func(args ...interface{})

// SetDebugLog sets the debug logging function
func SetDebugLog(fn func(args ...interface{})) {
	debugLog = fn
}

// currentEffect is dynamically scoped to track dependencies
var currentEffect atomic.Pointer[scheduler.Effect]

// SetCurrentEffect sets the effect that reads are attributed to
func SetCurrentEffect(effect *scheduler.Effect) {
	currentEffect.Store(effect)
}

// GetCurrentEffect returns the current effect
func GetCurrentEffect() *scheduler.Effect {
	return currentEffect.Load()
}

// Track runs fn with effect as the current effect, so every State read
// inside fn subscribes effect to that State.
func Track(effect *scheduler.Effect, fn func()) {
	prev := currentEffect.Swap(effect)
	defer currentEffect.Store(prev)
	fn()
}

// Signal is the interface for reactive values
type Signal[T any] interface {
	Get() T
	Set(T)
	Subscribe(effect *scheduler.Effect)
	Unsubscribe(effect *scheduler.Effect)
}

// State represents a reactive state value
type State[T any] struct {
	value T
	mu    sync.RWMutex
	equal func(a, b T) bool

	// Effects that depend on this state
	deps      map[uint32]*scheduler.Effect
	depsMu    sync.RWMutex
	scheduler Scheduler
}

// NewState creates a new reactive state
func NewState[T any](initial T, sched Scheduler) *State[T] {
	return &State[T]{
		value:     initial,
		deps:      make(map[uint32]*scheduler.Effect),
		scheduler: sched,
	}
}

// NewStateWithEqual creates a state whose Set is ignored when the new
// value is equal to the current one
func NewStateWithEqual[T any](initial T, sched Scheduler, equal func(a, b T) bool) *State[T] {
	s := NewState(initial, sched)
	s.equal = equal
	return s
}

// Get returns the current value and tracks dependencies
func (s *State[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if effect := GetCurrentEffect(); effect != nil {
		s.Subscribe(effect)
	}

	return s.value
}

// Peek returns the current value without tracking
func (s *State[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the value and marks dependent effects as dirty
func (s *State[T]) Set(value T) {
	s.mu.Lock()
	if s.equal != nil && s.equal(s.value, value) {
		s.mu.Unlock()
		if debugLog != nil {
			debugLog("[State] Set ignored, value unchanged")
		}
		return
	}
	s.value = value
	s.mu.Unlock()

	s.notify()
}

// Update atomically reads, modifies, and writes the value
func (s *State[T]) Update(fn func(T) T) {
	s.mu.Lock()
	next := fn(s.value)
	if s.equal != nil && s.equal(s.value, next) {
		s.mu.Unlock()
		return
	}
	s.value = next
	s.mu.Unlock()

	s.notify()
}

// notify marks dependents dirty outside the value lock
func (s *State[T]) notify() {
	s.depsMu.RLock()
	deps := make([]*scheduler.Effect, 0, len(s.deps))
	for _, effect := range s.deps {
		deps = append(deps, effect)
	}
	s.depsMu.RUnlock()

	if debugLog != nil {
		debugLog("[State] Found", len(deps), "dependent effects")
	}

	if s.scheduler == nil {
		if debugLog != nil && len(deps) > 0 {
			debugLog("[State] ERROR: No scheduler available!")
		}
		return
	}
	for _, effect := range deps {
		s.scheduler.MarkDirty(effect)
	}
}

// Subscribe adds an effect as a dependency
func (s *State[T]) Subscribe(effect *scheduler.Effect) {
	if effect == nil {
		return
	}

	s.depsMu.Lock()
	defer s.depsMu.Unlock()

	s.deps[effect.ID()] = effect
}

// Unsubscribe removes an effect as a dependency
func (s *State[T]) Unsubscribe(effect *scheduler.Effect) {
	if effect == nil {
		return
	}

	s.depsMu.Lock()
	defer s.depsMu.Unlock()

	delete(s.deps, effect.ID())
}

// Dependents returns the number of subscribed effects
func (s *State[T]) Dependents() int {
	s.depsMu.RLock()
	defer s.depsMu.RUnlock()
	return len(s.deps)
}
