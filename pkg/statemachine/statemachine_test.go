package statemachine

import "testing"

type counter struct {
	visits []string
}

func stateA(c *counter, cb func(string, StateEvent)) StateFn[counter] {
	c.visits = append(c.visits, "a")
	if cb != nil {
		cb("a", StateEntered)
	}
	return stateB
}

func stateB(c *counter, cb func(string, StateEvent)) StateFn[counter] {
	c.visits = append(c.visits, "b")
	return stateTerminal
}

func stateTerminal(c *counter, cb func(string, StateEvent)) StateFn[counter] {
	c.visits = append(c.visits, "terminal")
	return nil
}

func TestDispatchAdvancesOneStateAtATime(t *testing.T) {
	c := &counter{}
	sm := NewStateMachine(c, "a", stateA)

	sm.Dispatch(nil)
	if len(c.visits) != 1 || c.visits[0] != "a" {
		t.Fatalf("expected one visit to state a, got %v", c.visits)
	}

	sm.Dispatch(nil)
	if len(c.visits) != 2 || c.visits[1] != "b" {
		t.Fatalf("expected a second visit to state b, got %v", c.visits)
	}
}

func TestDispatchInvokesCallback(t *testing.T) {
	c := &counter{}
	sm := NewStateMachine(c, "a", stateA)

	var gotName string
	var gotEvent StateEvent
	sm.Dispatch(func(name string, event StateEvent) {
		gotName = name
		gotEvent = event
	})
	if gotName != "a" || gotEvent != StateEntered {
		t.Fatalf("callback not invoked with expected args: name=%q event=%v", gotName, gotEvent)
	}
}

func TestSetStateRunsSynchronously(t *testing.T) {
	c := &counter{}
	sm := NewStateMachine(c, "a", stateA)

	// SetState to stateB should run stateB immediately (via its internal
	// Dispatch(nil)), landing on stateTerminal without any further Dispatch
	// call from the caller.
	sm.SetState("b", stateB)
	if len(c.visits) != 1 || c.visits[0] != "b" {
		t.Fatalf("expected SetState to run the new state synchronously, got %v", c.visits)
	}
	if got := sm.CurrentPhase(); got != "b" {
		t.Fatalf("expected CurrentPhase to report the name passed to SetState, got %q", got)
	}
}

func TestDispatchOnNilStateIsNoop(t *testing.T) {
	c := &counter{}
	sm := NewStateMachine(c, "a", stateA)
	sm.Dispatch(nil) // -> b
	sm.Dispatch(nil) // -> terminal
	sm.Dispatch(nil) // terminal returns nil, stateFn becomes nil

	if len(c.visits) != 3 {
		t.Fatalf("expected exactly 3 visits before going nil, got %v", c.visits)
	}

	sm.Dispatch(nil) // should be a no-op, stateFn is nil
	if len(c.visits) != 3 {
		t.Fatalf("dispatching on a nil state must not invoke anything, got %v", c.visits)
	}
}

func TestGetCurrentStateReflectsTransitions(t *testing.T) {
	c := &counter{}
	sm := NewStateMachine(c, "a", stateA)
	if sm.GetCurrentState() == nil {
		t.Fatalf("initial state function should not be nil")
	}
	sm.Dispatch(nil)
	if sm.GetCurrentState() == nil {
		t.Fatalf("state after one dispatch (state b) should not be nil")
	}
}
