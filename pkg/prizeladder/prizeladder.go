// Package prizeladder is the tournament prize-distribution collaborator
// (spec.md §1): converting a finishing place into a payout is explicitly
// out of scope for the hand engine, which only needs a single entry point
// to call once a player busts or a tournament ends.
package prizeladder

// Func maps a finishing place (1 = winner) out of totalPlayers to a payout
// from prizePool. The engine stores it as Table.PrizeLadder but does not
// call it itself; how the ladder is shaped (flat, top-heavy, ICM-derived)
// is the caller's concern entirely.
type Func func(place int, totalPlayers int, prizePool int64) int64

// WinnerTakeAll is the trivial ladder used when no cash-game rake or
// tournament structure applies (every spec.md scenario plays a single cash
// hand, so nothing else exercises this package beyond satisfying the
// collaborator's shape).
func WinnerTakeAll() Func {
	return func(place int, totalPlayers int, prizePool int64) int64 {
		if place == 1 {
			return prizePool
		}
		return 0
	}
}
