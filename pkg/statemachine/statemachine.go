// Package statemachine implements the hand lifecycle's phase driver: a
// generic, thread-safe state-function machine in Rob Pike's "state
// functions" style, adapted here to also track the current phase's name so
// callers (history logging, CLI status output) can report where a hand
// currently stands without reaching into engine internals.
package statemachine

import (
	"sync"
)

// StateEvent distinguishes why a callback fired.
type StateEvent int

const (
	StateEntered StateEvent = iota
	StateExited
	TransitionRequested
)

// StateFn is one phase: it performs that phase's entry action against the
// entity and returns the phase to run next. callback is optional (nil is a
// valid, common case — most phases never need to report an event) and
// reports named lifecycle events as they occur.
type StateFn[T any] func(*T, func(stateName string, event StateEvent)) StateFn[T]

// StateMachine drives one entity through a sequence of named StateFns. Its
// fields are guarded by a mutex, so CurrentPhase is safe to poll from
// another goroutine (a status RPC handler, say) while a hand is mid-action.
// The state functions run with the lock released, so a state function may
// call SetState itself, and Dispatch/SetState calls from different
// goroutines are not serialized against each other.
type StateMachine[T any] struct {
	entity  *T
	name    string
	stateFn StateFn[T]
	mutex   sync.RWMutex
}

// NewStateMachine creates a state machine for entity, starting in the
// named initial phase.
func NewStateMachine[T any](entity *T, initialName string, initialStateFn StateFn[T]) *StateMachine[T] {
	return &StateMachine[T]{
		entity:  entity,
		name:    initialName,
		stateFn: initialStateFn,
	}
}

// Dispatch runs the current phase once and, if it returns a different
// StateFn than the one already installed, advances to it under the same
// name it was installed with by the caller that set it. Phases that return
// themselves (the common case: "stay in this phase until an explicit
// SetState moves on") leave the name untouched.
func (sm *StateMachine[T]) Dispatch(callback func(stateName string, event StateEvent)) {
	sm.mutex.Lock()
	currentStateFn := sm.stateFn
	sm.mutex.Unlock()

	if currentStateFn == nil {
		return
	}

	nextStateFn := currentStateFn(sm.entity, callback)

	sm.mutex.Lock()
	sm.stateFn = nextStateFn
	sm.mutex.Unlock()
}

// CurrentPhase returns the name installed by the most recent SetState call.
func (sm *StateMachine[T]) CurrentPhase() string {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.name
}

// GetCurrentState returns the current state function (thread-safe).
func (sm *StateMachine[T]) GetCurrentState() StateFn[T] {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.stateFn
}

// SetState installs name/stateFn as the current phase and immediately runs
// it once (with a nil callback) so its entry action fires synchronously —
// the hand lifecycle relies on this to run a phase's side effects in the
// same call that transitions into it, never on a later Dispatch.
func (sm *StateMachine[T]) SetState(name string, stateFn StateFn[T]) {
	sm.mutex.Lock()
	sm.name = name
	sm.stateFn = stateFn
	sm.mutex.Unlock()

	sm.Dispatch(nil)
}
