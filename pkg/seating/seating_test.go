package seating

import "testing"

func TestIndexAddForward(t *testing.T) {
	always := func(Seat) bool { return true }
	seat, ok := IndexAdd(6, 0, 1, always)
	if !ok || seat != 1 {
		t.Fatalf("IndexAdd(6,0,1,always) = (%d,%v), want (1,true)", seat, ok)
	}
	seat, ok = IndexAdd(6, 0, 3, always)
	if !ok || seat != 3 {
		t.Fatalf("IndexAdd(6,0,3,always) = (%d,%v), want (3,true)", seat, ok)
	}
}

func TestIndexAddWrapsAround(t *testing.T) {
	always := func(Seat) bool { return true }
	seat, ok := IndexAdd(4, 3, 1, always)
	if !ok || seat != 0 {
		t.Fatalf("IndexAdd(4,3,1,always) = (%d,%v), want (0,true)", seat, ok)
	}
}

func TestIndexAddSkipsUnsatisfyingSeats(t *testing.T) {
	occupied := map[Seat]bool{1: true, 3: true}
	predicate := func(s Seat) bool { return !occupied[s] }
	seat, ok := IndexAdd(5, 0, 1, predicate)
	if !ok || seat != 2 {
		t.Fatalf("expected seat 2 (first free seat past 1), got (%d,%v)", seat, ok)
	}
}

func TestIndexAddZeroStepReturnsOriginIfSatisfying(t *testing.T) {
	predicate := func(s Seat) bool { return s == 2 }
	seat, ok := IndexAdd(5, 2, 0, predicate)
	if !ok || seat != 2 {
		t.Fatalf("k=0 with a satisfying origin should return origin, got (%d,%v)", seat, ok)
	}
}

func TestIndexAddNoSeatsReturnsFalse(t *testing.T) {
	_, ok := IndexAdd(0, 0, 1, func(Seat) bool { return true })
	if ok {
		t.Fatalf("IndexAdd on a zero-seat table should report false")
	}
}

func TestForwardRank(t *testing.T) {
	if got := ForwardRank(6, 0, 0); got != 0 {
		t.Fatalf("ForwardRank to self should be 0, got %d", got)
	}
	if got := ForwardRank(6, 4, 1); got != 3 {
		t.Fatalf("ForwardRank(6,4,1) = %d, want 3", got)
	}
}

func TestDistance(t *testing.T) {
	if got := Distance(6, 0, 3); got != 3 {
		t.Fatalf("Distance(6,0,3) = %d, want 3", got)
	}
	if got := Distance(6, 0, 5); got != 1 {
		t.Fatalf("Distance(6,0,5) = %d, want 1 (shorter way around)", got)
	}
}

func TestBestSeatPrefersFarthestFromDealerAndOccupied(t *testing.T) {
	seat, ok := BestSeat(6, map[Seat]bool{}, 0)
	if !ok || seat != 3 {
		t.Fatalf("first seat on an empty 6-seat table should be seat 3 (farthest from dealer), got (%d,%v)", seat, ok)
	}
}

func TestBestSeatTiesBreakByLowestIndex(t *testing.T) {
	// On an empty 5-seat table with the dealer at 0, seats 2 and 3 are both
	// two steps from the dealer: the lower index, 2, wins the tie.
	seat, ok := BestSeat(5, map[Seat]bool{}, 0)
	if !ok || seat != 2 {
		t.Fatalf("expected the tie between seats 2 and 3 to go to seat 2, got (%d,%v)", seat, ok)
	}
}

func TestDeterministicSeatsCoversEverySeatOnce(t *testing.T) {
	order := DeterministicSeats(6)
	if len(order) != 6 {
		t.Fatalf("expected 6 seats, got %d", len(order))
	}
	seen := map[Seat]bool{}
	for _, s := range order {
		if seen[s] {
			t.Fatalf("seat %d appears more than once in %v", s, order)
		}
		seen[s] = true
	}
}
