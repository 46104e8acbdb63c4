// Package blinds computes, for each new hand, who sits where in the blind
// rotation and what they owe before cards are dealt (spec.md §4.2,
// component 6). It is a thin layer over pkg/seating's rotation primitive:
// the dealer button, small blind, and big blind are all just IndexAdd calls
// against the table's occupied seats, and missed-blind catch-up is just an
// extra obligation layered on top of whichever seat the rotation lands on.
//
// Grounded on pkg/poker/game.go's stateBlinds (heads-up dealer-posts-small,
// everyone else's big blind is one seat further than the small) and on
// original_source/tests/test_allin.py's fixtures for the missed-blind
// catch-up amount (dead small + live big, scenario S6).
package blinds

import "github.com/rivertable/pokerengine/pkg/seating"

// Obligation is what a seated player owes before this hand's first betting
// round opens.
type Obligation int

const (
	NoBlind Obligation = iota
	PostSmall
	PostBig
	// PostBigAndDead is the missed-blind catch-up: the player posts a live
	// big blind plus a dead small blind (never returned, no matching
	// eligibility) to re-enter after having sat out through their own small
	// blind (spec.md §9 "big_and_dead").
	PostBigAndDead
)

// MissedBlind tracks which blinds a sitting-out (or just-joined) player has
// skipped since they last posted; Build consults it to decide whether
// re-entering them this hand requires the catch-up obligation.
type MissedBlind struct {
	Small bool
	Big   bool
}

// WaitRule is the entry condition a newly seated (or just-returned) player
// is held to before they're dealt into a hand (spec.md §4.2's wait_for_big
// / wait_for_late / wait_for_first).
type WaitRule int

const (
	// WaitNone deals the player in on the very next hand.
	WaitNone WaitRule = iota
	// WaitForBig holds the player out until the big blind position has
	// rotated at least as far as their seat, so they can't dodge a blind
	// they'd otherwise owe by sitting just behind the button.
	WaitForBig
	// WaitForLate holds the player out until the button has passed their
	// seat at least once (they'll post from a "late" position first).
	WaitForLate
	// WaitForFirst holds the player out indefinitely until explicitly
	// cleared by the caller (e.g. table.ComeBack) — used when a player asks
	// to wait for the next natural big blind rather than post immediately.
	WaitForFirst
)

func stepsForward(n int, dealer, seat seating.Seat) int {
	d := (int(seat) - int(dealer) + n) % n
	return d
}

// Eligible reports whether a player held to rule can be dealt into a hand
// whose dealer and big-blind seats are as given.
func Eligible(rule WaitRule, seat, dealer, bigBlind seating.Seat, n int) bool {
	switch rule {
	case WaitForBig:
		return stepsForward(n, dealer, seat) <= stepsForward(n, dealer, bigBlind)
	case WaitForLate:
		return stepsForward(n, dealer, seat) >= stepsForward(n, dealer, bigBlind)
	case WaitForFirst:
		return false
	default:
		return true
	}
}

// Plan is one hand's complete blind assignment.
type Plan struct {
	Dealer Seat
	Small  Seat
	Big    Seat

	// HasSmall reports whether a small blind is owed this hand. Heads-up it
	// is always true: the dealer posts small and the other player posts big.
	// It is false when fewer than two players are seated, or when no seat
	// forward of the small-blind seat is found, in which case that lone seat
	// posts big and no small blind is owed.
	HasSmall bool

	Obligations map[int64]Obligation
	Dead        map[int64]int64 // serial -> dead amount owed (PostBigAndDead only)
}

type Seat = seating.Seat

// Build computes the blind plan for a hand given the occupied seats
// (serial -> seat, already filtered to players eligible to be dealt in this
// hand) and the current dealer button. missed records any outstanding
// missed-blind obligations carried over from hands the player sat out.
func Build(n int, dealer Seat, seatOf map[int64]Seat, smallBlindAmount int64, missed map[int64]MissedBlind) Plan {
	occupiedSeats := make(map[Seat]int64, len(seatOf))
	occupied := func(s Seat) bool {
		_, ok := occupiedSeats[s]
		return ok
	}
	for serial, seat := range seatOf {
		occupiedSeats[seat] = serial
	}

	plan := Plan{
		Dealer:      dealer,
		Obligations: make(map[int64]Obligation, len(seatOf)),
		Dead:        make(map[int64]int64),
	}

	if len(seatOf) < 2 {
		return plan
	}

	headsUp := len(seatOf) == 2

	var smallSeat, bigSeat Seat
	if headsUp {
		// Heads-up: the dealer posts small, the only other seated player
		// posts big (pkg/poker/game.go's initializeCurrentPlayer heads-up
		// branch generalized to blind assignment).
		smallSeat = dealer
		bigSeat, _ = seating.IndexAdd(n, dealer, 1, occupied)
		plan.HasSmall = true
	} else {
		sb, ok := seating.IndexAdd(n, dealer, 1, occupied)
		if !ok {
			return plan
		}
		bb, ok := seating.IndexAdd(n, sb, 1, occupied)
		if !ok {
			// Only one seat forward of the dealer exists to post at all —
			// the degenerate no-valid-small-blind case (spec.md §9): skip
			// the small blind and promote that lone seat straight to big.
			plan.HasSmall = false
			bigSeat = sb
		} else {
			smallSeat = sb
			bigSeat = bb
			plan.HasSmall = true
		}
	}

	plan.Small = smallSeat
	plan.Big = bigSeat

	for serial, seat := range seatOf {
		m := missed[serial]
		switch {
		case seat == bigSeat && plan.HasSmall && m.Small:
			plan.Obligations[serial] = PostBigAndDead
			plan.Dead[serial] = smallBlindAmount
		case seat == bigSeat:
			plan.Obligations[serial] = PostBig
		case plan.HasSmall && seat == smallSeat:
			plan.Obligations[serial] = PostSmall
		default:
			plan.Obligations[serial] = NoBlind
		}
	}

	return plan
}
