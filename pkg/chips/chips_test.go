package chips

import "testing"

func TestSplitEven(t *testing.T) {
	share, remainder := Split(90, 3)
	if share != 30 || remainder != 0 {
		t.Fatalf("Split(90, 3) = (%d, %d), want (30, 0)", share, remainder)
	}
}

func TestSplitWithRemainder(t *testing.T) {
	share, remainder := Split(100, 3)
	if share != 33 || remainder != 1 {
		t.Fatalf("Split(100, 3) = (%d, %d), want (33, 1)", share, remainder)
	}
}

func TestAllocateOddChipsGivesExcessToFirstInOrder(t *testing.T) {
	shares := AllocateOddChips(100, []int64{5, 2, 9})
	if shares[5] != 34 || shares[2] != 33 || shares[9] != 33 {
		t.Fatalf("unexpected shares: %+v", shares)
	}
	var total int64
	for _, v := range shares {
		total += v
	}
	if total != 100 {
		t.Fatalf("shares sum to %d, want 100", total)
	}
}

func TestAllocateOddChipsNoRecipientsRequiresZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic allocating chips with no recipients")
		}
	}()
	AllocateOddChips[int64](5, nil)
}

func TestMin(t *testing.T) {
	if Min(3, 7) != 3 {
		t.Fatalf("Min(3, 7) != 3")
	}
	if Min(7, 3) != 3 {
		t.Fatalf("Min(7, 3) != 3")
	}
}

func TestApportionProportionalSplitsByWeight(t *testing.T) {
	weights := map[int64]int64{1: 100, 2: 50}
	shares := ApportionProportional(10, weights, []int64{1, 2})
	if shares[1] != 7 || shares[2] != 3 {
		t.Fatalf("unexpected shares: %+v, want 1=7 2=3 (6+remainder, 3)", shares)
	}
	var total int64
	for _, v := range shares {
		total += v
	}
	if total != 10 {
		t.Fatalf("shares sum to %d, want 10", total)
	}
}

func TestApportionProportionalExactSplitHasNoRemainder(t *testing.T) {
	weights := map[int64]int64{1: 100, 2: 50}
	shares := ApportionProportional(9, weights, []int64{1, 2})
	if shares[1] != 6 || shares[2] != 3 {
		t.Fatalf("unexpected shares: %+v, want 1=6 2=3", shares)
	}
}

func TestApportionProportionalSkipsNonPositiveWeights(t *testing.T) {
	weights := map[int64]int64{1: 0, 2: 10}
	shares := ApportionProportional(5, weights, []int64{1, 2})
	if shares[1] != 0 {
		t.Fatalf("serial with zero weight should get no share, got %d", shares[1])
	}
	if shares[2] != 5 {
		t.Fatalf("sole positive-weight serial should get the whole total, got %d", shares[2])
	}
}

func TestApportionProportionalZeroTotalIsEmpty(t *testing.T) {
	shares := ApportionProportional(0, map[int64]int64{1: 10}, []int64{1})
	if len(shares) != 0 {
		t.Fatalf("expected no shares for a zero total, got %+v", shares)
	}
}

func TestRequireNonNegativePanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a negative balance")
		}
	}()
	RequireNonNegative("player.money", -1)
}
