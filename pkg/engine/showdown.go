package engine

import (
	"github.com/rivertable/pokerengine/pkg/chips"
	"github.com/rivertable/pokerengine/pkg/evaluator"
	"github.com/rivertable/pokerengine/pkg/history"
	"github.com/rivertable/pokerengine/pkg/variant"
)

// scoredHand is one contender's evaluated hand for one side of one pot.
type scoredHand struct {
	serial int64
	hand   evaluator.Hand
}

// enterShowdown sorts every live player by auto-muck policy: AutoMuckNever
// still needs a manual decision; AutoMuckAlways forfeits immediately;
// WinOnly/LoseOnly are resolved once hand strength is known, inside
// runShowdown itself (component 10, spec.md §6's muck/auto_muck operations).
func (h *Hand) enterShowdown() {
	h.AwaitingMuck = map[int64]bool{}
	h.Mucked = map[int64]bool{}
	for _, s := range h.liveSerials() {
		switch h.Table.Players[s].AutoMuckPolicy {
		case AutoMuckNever:
			h.AwaitingMuck[s] = true
		case AutoMuckAlways:
			h.Mucked[s] = true
		}
	}
	h.tryRunShowdown()
}

// muck lets a deciding player voluntarily decline to show — they forfeit
// any pot they might have won, exactly as a fold would, but are recorded
// distinctly in history.
func (h *Hand) muck(serial int64) (bool, error) {
	if !h.AwaitingMuck[serial] {
		return precondition(false)
	}
	delete(h.AwaitingMuck, serial)
	h.Mucked[serial] = true
	h.tryRunShowdown()
	return true, nil
}

// reveal lets a deciding player confirm they will show their hand, clearing
// their muck decision without forfeiting anything.
func (h *Hand) reveal(serial int64) (bool, error) {
	if !h.AwaitingMuck[serial] {
		return precondition(false)
	}
	delete(h.AwaitingMuck, serial)
	h.tryRunShowdown()
	return true, nil
}

func (h *Hand) tryRunShowdown() {
	if len(h.AwaitingMuck) > 0 {
		return
	}
	h.runShowdown()
	h.sm.SetState("end", stateEnd)
}

// holeCountFor returns the "exactly N hole cards" constraint Omaha-family
// variants impose on the best-hand search; -1 means unconstrained (best 5
// of hole+board combined, as hold'em and stud use).
func holeCountFor(v variant.Descriptor) int {
	switch v.Name {
	case "omaha", "omaha8":
		return 2
	default:
		return -1
	}
}

// runShowdown evaluates every side pot and distributes it to its winners
// (spec.md §4.4 step 5, component 10). A folded or voluntarily-mucked
// player is excluded from every pot's eligibility exactly alike.
func (h *Hand) runShowdown() {
	excluded := map[int64]bool{}
	for _, s := range h.Order {
		if h.Table.Players[s].Folded || h.Mucked[s] {
			excluded[s] = true
		}
	}

	pots, sidePotIndex := h.Pots.Build(excluded, h.allInLevels())
	for serial, idx := range sidePotIndex {
		h.Table.Players[serial].SidePotIndex = idx
	}

	holeCount := holeCountFor(h.Variant)
	sides := h.Variant.Sides()

	var stages []history.SidePotStage
	winnersSeen := map[int64]bool{}

	for potIndex, pot := range pots {
		if pot.Amount <= 0 {
			continue
		}
		amount := pot.Amount
		if potIndex == 0 {
			amount -= h.Table.Rake(amount)
		}

		contenders := make([]int64, 0, len(pot.Eligible))
		for _, s := range h.Order {
			if pot.Eligible[s] {
				contenders = append(contenders, s)
			}
		}
		if len(contenders) == 0 {
			continue
		}

		hiPool := h.scoreSide(variant.SideHi, contenders, holeCount)
		hiWinners := h.resolveSide(hiPool)

		var lowWinners []int64
		if len(sides) == 2 {
			lowPool := filterPool(h.scoreSide(variant.SideLow8, contenders, holeCount), h.Mucked)
			lowWinners = h.resolveSide(lowPool)
		}

		// AutoMuckWinOnly only shows a hand that actually won one of this
		// pot's sides; everyone else under that policy is mucked here, once
		// both sides are known, so a hi-lo split can't muck them prematurely.
		won := map[int64]bool{}
		for _, w := range hiWinners {
			won[w] = true
		}
		for _, w := range lowWinners {
			won[w] = true
		}
		for _, s := range contenders {
			if h.Table.Players[s].AutoMuckPolicy == AutoMuckWinOnly && !won[s] {
				h.Mucked[s] = true
			}
		}

		if len(lowWinners) > 0 {
			// Eight-or-better qualified: the pot splits, hi taking the odd
			// chip on an uneven amount (spec.md §4.4's rounding direction,
			// §9's design note on remainder allocation).
			half := amount / 2
			hiAmount := amount - half
			lowAmount := half
			if shares := h.payout(hiWinners, hiAmount); len(shares) > 0 {
				stages = append(stages, history.SidePotStage{PotIndex: potIndex, Amount: hiAmount, Side: string(variant.SideHi), Winners: hiWinners, Shares: shares})
				for _, w := range hiWinners {
					winnersSeen[w] = true
				}
			}
			if shares := h.payout(lowWinners, lowAmount); len(shares) > 0 {
				stages = append(stages, history.SidePotStage{PotIndex: potIndex, Amount: lowAmount, Side: string(variant.SideLow8), Winners: lowWinners, Shares: shares})
				for _, w := range lowWinners {
					winnersSeen[w] = true
				}
			}
		} else {
			// No qualifying low: hi takes the entire pot (standard hi-lo
			// rule), including a declared but unfilled low side.
			if shares := h.payout(hiWinners, amount); len(shares) > 0 {
				stages = append(stages, history.SidePotStage{PotIndex: potIndex, Amount: amount, Side: string(variant.SideHi), Winners: hiWinners, Shares: shares})
				for _, w := range hiWinners {
					winnersSeen[w] = true
				}
			}
		}
	}

	h.Winners = make([]int64, 0, len(winnersSeen))
	for _, s := range h.Order {
		if winnersSeen[s] {
			h.Winners = append(h.Winners, s)
		}
	}

	var rakeTotal int64
	var serialToRake map[int64]int64
	if len(pots) > 0 {
		rakeTotal = h.Table.Rake(pots[0].Amount)
		if rakeTotal > 0 {
			// Each contributor's share is their contribution to the raked pot
			// × rake / pot, remainder to the first contributor in dealer
			// order (spec.md §4.6) — h.Order already starts left of the
			// dealer, so it doubles as that tiebreak order.
			serialToRake = chips.ApportionProportional(rakeTotal, pots[0].Contributions, h.Order)
		}
	}

	h.Log.Append(history.ShowdownStackEvent{Stack: stages})
	h.Log.Append(history.EndEvent{
		Winners:       h.Winners,
		ShowdownStack: stages,
		SerialToDelta: h.deltas(),
		Rake:          rakeTotal,
		SerialToRake:  serialToRake,
	})
}

// scoreSide evaluates every contender's hand for one side (hi or low8). A
// low8 side drops any contender with no qualifying eight-or-better hand.
func (h *Hand) scoreSide(side variant.Side, contenders []int64, holeCount int) []scoredHand {
	var results []scoredHand
	for _, s := range contenders {
		p := h.Table.Players[s]
		hole := p.Hand.Cards()
		board := h.Board.Cards()
		if side == variant.SideLow8 {
			low, ok, err := h.Table.LowEvaluator.EvaluateLow8(hole, board, holeCount)
			if err != nil {
				invariantViolation("low showdown evaluation failed for serial %d: %v", s, err)
			}
			if !ok {
				continue
			}
			results = append(results, scoredHand{serial: s, hand: low})
			continue
		}
		hi, err := h.Table.Evaluator.EvaluateHi(hole, board, holeCount)
		if err != nil {
			invariantViolation("showdown evaluation failed for serial %d: %v", s, err)
		}
		results = append(results, scoredHand{serial: s, hand: hi})
	}
	return results
}

// bestTied returns the tied-for-best serials in pool, nil if pool is empty.
func bestTied(pool []scoredHand) []int64 {
	var best evaluator.Hand
	var winners []int64
	first := true
	for _, r := range pool {
		if first || evaluator.Compare(r.hand, best) > 0 {
			best = r.hand
			winners = []int64{r.serial}
			first = false
		} else if evaluator.Compare(r.hand, best) == 0 {
			winners = append(winners, r.serial)
		}
	}
	return winners
}

// removeScored returns pool with serial's entry dropped.
func removeScored(pool []scoredHand, serial int64) []scoredHand {
	out := make([]scoredHand, 0, len(pool))
	for _, r := range pool {
		if r.serial != serial {
			out = append(out, r)
		}
	}
	return out
}

// filterPool drops every entry whose serial is in exclude.
func filterPool(pool []scoredHand, exclude map[int64]bool) []scoredHand {
	if len(exclude) == 0 {
		return pool
	}
	out := make([]scoredHand, 0, len(pool))
	for _, r := range pool {
		if !exclude[r.serial] {
			out = append(out, r)
		}
	}
	return out
}

// resolveSide finds one side's tied-for-best winners, honoring
// AutoMuckLoseOnly: a LoseOnly player who ties for best forfeits (mucks)
// rather than be shown winning, and the search retries among whoever is
// left until a stable winner group survives or the pool runs out. Winners
// are returned in h.Order (left-of-dealer) order.
func (h *Hand) resolveSide(pool []scoredHand) []int64 {
	for len(pool) > 0 {
		tied := bestTied(pool)
		if len(tied) == 0 {
			return nil
		}
		var survivors []int64
		forfeited := false
		for _, s := range tied {
			if h.Table.Players[s].AutoMuckPolicy == AutoMuckLoseOnly {
				h.Mucked[s] = true
				pool = removeScored(pool, s)
				forfeited = true
				continue
			}
			survivors = append(survivors, s)
		}
		if forfeited && len(survivors) == 0 {
			continue
		}
		return h.orderBySeat(survivors)
	}
	return nil
}

// orderBySeat returns serials in h.Order (left-of-dealer) order.
func (h *Hand) orderBySeat(serials []int64) []int64 {
	if len(serials) == 0 {
		return nil
	}
	set := make(map[int64]bool, len(serials))
	for _, s := range serials {
		set[s] = true
	}
	ordered := make([]int64, 0, len(serials))
	for _, s := range h.Order {
		if set[s] {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

// payout splits amount evenly among winners, crediting their stacks, with
// any odd chip going to whoever is first in winners (already h.Order —
// left-of-dealer — priority; spec.md §4.4 step 6).
func (h *Hand) payout(winners []int64, amount int64) map[int64]int64 {
	if len(winners) == 0 || amount <= 0 {
		return nil
	}
	shares := chips.AllocateOddChips(amount, winners)
	for _, w := range winners {
		h.Table.Players[w].Money += shares[w]
	}
	return shares
}
