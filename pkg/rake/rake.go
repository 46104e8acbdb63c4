// Package rake computes the house's cut of a pot, applied once at
// showdown before the remaining amount is split among winners (spec.md
// §4.6). It is a single-function collaborator by design — like the
// evaluator, a real deployment would plug in a house-specific schedule,
// so the engine only ever depends on the RakeFunc type.
package rake

// RakeFunc computes the rake owed on a pot of the given amount.
// Implementations must never return more than potAmount.
type RakeFunc func(potAmount int64) int64

// None takes no rake — the default for scenarios S1-S6, none of which
// specify a house cut.
func None() RakeFunc {
	return func(potAmount int64) int64 { return 0 }
}

// Percentage returns a RakeFunc that takes bps basis points of the pot
// (100 bps = 1%), capped at cap (a non-positive cap means uncapped).
func Percentage(bps int64, cap int64) RakeFunc {
	return func(potAmount int64) int64 {
		if bps <= 0 || potAmount <= 0 {
			return 0
		}
		r := potAmount * bps / 10000
		if cap > 0 && r > cap {
			r = cap
		}
		if r > potAmount {
			r = potAmount
		}
		return r
	}
}
