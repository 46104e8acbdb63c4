package blinds

import "testing"

func TestHeadsUpDealerPostsSmall(t *testing.T) {
	seatOf := map[int64]Seat{1: 0, 2: 1}
	plan := Build(2, 0, seatOf, 25, map[int64]MissedBlind{})

	if plan.Obligations[1] != PostSmall {
		t.Fatalf("expected dealer (serial 1) to post small, got %v", plan.Obligations[1])
	}
	if plan.Obligations[2] != PostBig {
		t.Fatalf("expected serial 2 to post big, got %v", plan.Obligations[2])
	}
	if !plan.HasSmall {
		t.Fatalf("heads-up hands always have a small blind")
	}
}

func TestThreeHandedBlindsFollowDealer(t *testing.T) {
	seatOf := map[int64]Seat{1: 0, 2: 1, 3: 2}
	plan := Build(3, 0, seatOf, 25, map[int64]MissedBlind{})

	if plan.Obligations[2] != PostSmall {
		t.Fatalf("expected seat 1 (serial 2) to post small, got %v", plan.Obligations[2])
	}
	if plan.Obligations[3] != PostBig {
		t.Fatalf("expected seat 2 (serial 3) to post big, got %v", plan.Obligations[3])
	}
	if plan.Obligations[1] != NoBlind {
		t.Fatalf("expected the dealer to owe no blind, got %v", plan.Obligations[1])
	}
}

// A player who missed their small blind and now sits in the big-blind seat
// owes the catch-up: a live big blind plus a dead small blind that nobody
// is entitled to a refund on.
func TestMissedSmallBlindOwesBigAndDead(t *testing.T) {
	seatOf := map[int64]Seat{1: 0, 2: 1, 3: 2}
	missed := map[int64]MissedBlind{3: {Small: true}}
	plan := Build(3, 0, seatOf, 25, missed)

	if plan.Obligations[3] != PostBigAndDead {
		t.Fatalf("expected serial 3 to owe big+dead, got %v", plan.Obligations[3])
	}
	if plan.Dead[3] != 25 {
		t.Fatalf("expected a dead small blind of 25, got %d", plan.Dead[3])
	}
}

func TestFewerThanTwoSeatsProducesNoObligations(t *testing.T) {
	plan := Build(2, 0, map[int64]Seat{1: 0}, 25, map[int64]MissedBlind{})
	if len(plan.Obligations) != 0 {
		t.Fatalf("expected no obligations with a single seated player, got %+v", plan.Obligations)
	}
}

func TestEligibleWaitForBig(t *testing.T) {
	// Dealer seat 0, big blind seat 2 on a 4-seat table (n=4): a seat the
	// rotation has already reached or passed on its way to the big blind is
	// eligible; a seat still further around than the big blind must keep
	// waiting for the rotation to catch up.
	if !Eligible(WaitForBig, 2, 0, 2, 4) {
		t.Fatalf("a player exactly at the big blind seat should be eligible")
	}
	if Eligible(WaitForBig, 3, 0, 2, 4) {
		t.Fatalf("a seat further around than the big blind has not been reached yet, should not be eligible")
	}
}

func TestEligibleWaitForFirstNeverEligibleUntilCleared(t *testing.T) {
	if Eligible(WaitForFirst, 1, 0, 2, 4) {
		t.Fatalf("WaitForFirst must never be eligible on its own")
	}
}

func TestEligibleWaitNoneAlwaysEligible(t *testing.T) {
	if !Eligible(WaitNone, 3, 0, 2, 4) {
		t.Fatalf("WaitNone should always be eligible")
	}
}
