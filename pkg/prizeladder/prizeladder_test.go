package prizeladder

import "testing"

func TestWinnerTakeAllPaysOnlyFirstPlace(t *testing.T) {
	f := WinnerTakeAll()
	if got := f(1, 9, 10000); got != 10000 {
		t.Fatalf("place 1 should take the entire prize pool, got %d", got)
	}
	if got := f(2, 9, 10000); got != 0 {
		t.Fatalf("place 2 should take nothing, got %d", got)
	}
	if got := f(9, 9, 10000); got != 0 {
		t.Fatalf("last place should take nothing, got %d", got)
	}
}
