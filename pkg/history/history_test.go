package history

import "testing"

func TestLogAppendEventsTruncate(t *testing.T) {
	var l Log
	l.Append(CheckEvent{Serial: 1})
	l.Append(FoldEvent{Serial: 2})

	events := l.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Kind() != KindCheck || events[1].Kind() != KindFold {
		t.Fatalf("unexpected event kinds: %v, %v", events[0].Kind(), events[1].Kind())
	}

	l.Truncate()
	if len(l.Events()) != 0 {
		t.Fatalf("expected an empty log after Truncate")
	}
}

func TestLogEventsReturnsACopy(t *testing.T) {
	var l Log
	l.Append(CheckEvent{Serial: 1})
	events := l.Events()
	events[0] = FoldEvent{Serial: 99}

	if got := l.Events()[0]; got.Kind() != KindCheck {
		t.Fatalf("mutating the slice returned by Events() must not affect the log, got %v", got.Kind())
	}
}

func TestReduceCollapsesConsecutivePositionEvents(t *testing.T) {
	in := []Event{
		PositionEvent{Index: 0, Serial: 1},
		PositionEvent{Index: 1, Serial: 1},
		PositionEvent{Index: 2, Serial: 1},
	}
	out := Reduce(in)
	if len(out) != 1 {
		t.Fatalf("expected consecutive same-serial PositionEvents to collapse to 1, got %d", len(out))
	}
	if got := out[0].(PositionEvent).Index; got != 2 {
		t.Fatalf("collapsed PositionEvent should keep the last index, got %d", got)
	}
}

func TestReduceCancelsSitOutFollowedByAction(t *testing.T) {
	in := []Event{
		SitOutEvent{Serial: 1},
		CheckEvent{Serial: 1},
	}
	out := Reduce(in)
	if len(out) != 1 {
		t.Fatalf("expected the SitOutEvent to cancel, leaving 1 event, got %d", len(out))
	}
	if out[0].Kind() != KindCheck {
		t.Fatalf("surviving event should be the check, got %v", out[0].Kind())
	}
}

func TestReduceKeepsSitOutWithNoFollowingAction(t *testing.T) {
	in := []Event{
		SitOutEvent{Serial: 1},
		CheckEvent{Serial: 2},
	}
	out := Reduce(in)
	if len(out) != 2 {
		t.Fatalf("expected both events to survive (different serials), got %d", len(out))
	}
	if out[0].Kind() != KindSitOut {
		t.Fatalf("sit-out with no matching follow-up must survive")
	}
}
