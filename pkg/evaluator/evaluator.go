// Package evaluator adapts the hand-strength evaluator the engine consumes
// purely through an interface (spec.md §1: "a hand evaluator... is an
// external collaborator"). The default hi-hand implementation wraps
// github.com/chehsunliu/poker exactly as pkg/poker/hand_evaluator.go does;
// the eight-or-better low side (no pack library covers ace-to-five
// lowball) is hand-rolled in low8.go and documented there.
package evaluator

import (
	"fmt"

	"github.com/chehsunliu/poker"

	"github.com/rivertable/pokerengine/pkg/cards"
)

// Hand is one evaluated 5-card hand, on whichever side (hi or low8)
// produced it. Strength is comparable within a side: higher always beats
// lower, regardless of which concrete evaluator produced the value — hi
// and low8 strengths are never compared against each other directly.
type Hand struct {
	Strength    int64
	Description string
	Best        []cards.Card
}

// Evaluator scores the best hand obtainable from hole and board cards.
// holeCount constrains how many of the hole cards must appear in the best
// five: -1 means unconstrained (best 5 of hole+board combined, as in
// hold'em and seven-card stud); a positive value (2, for Omaha) requires
// using exactly that many hole cards and 5-holeCount board cards.
type Evaluator interface {
	EvaluateHi(hole, board []cards.Card, holeCount int) (Hand, error)
}

// LowEvaluator scores the best qualifying low hand, if any.
type LowEvaluator interface {
	EvaluateLow8(hole, board []cards.Card, holeCount int) (hand Hand, qualifies bool, err error)
}

// Compare returns >0 if a beats b, <0 if b beats a, 0 on a tie. Both hands
// must be from the same side (both hi, or both low8).
func Compare(a, b Hand) int {
	switch {
	case a.Strength > b.Strength:
		return 1
	case a.Strength < b.Strength:
		return -1
	default:
		return 0
	}
}

// Default wraps github.com/chehsunliu/poker for the hi side.
type Default struct{}

func NewDefault() Default { return Default{} }

func (Default) EvaluateHi(hole, board []cards.Card, holeCount int) (Hand, error) {
	combos, err := combine(hole, board, holeCount)
	if err != nil {
		return Hand{}, err
	}

	var best Hand
	first := true
	for _, combo := range combos {
		cc := make([]poker.Card, len(combo))
		for i, c := range combo {
			cc[i] = toChehsunliu(c)
		}
		rank := poker.Evaluate(cc)
		// chehsunliu ranks lower-is-better; negate so Hand.Strength keeps
		// this package's higher-is-better convention throughout.
		strength := -int64(rank)
		if first || strength > best.Strength {
			best = Hand{
				Strength:    strength,
				Description: poker.RankString(rank),
				Best:        combo,
			}
			first = false
		}
	}
	if first {
		return Hand{}, fmt.Errorf("evaluator: no hand could be formed from %d hole + %d board cards", len(hole), len(board))
	}
	return best, nil
}

func toChehsunliu(c cards.Card) poker.Card {
	return poker.NewCard(c.Rank.String() + suitLetter(c.Suit))
}

func suitLetter(s cards.Suit) string {
	switch s {
	case cards.Spades:
		return "s"
	case cards.Hearts:
		return "h"
	case cards.Diamonds:
		return "d"
	case cards.Clubs:
		return "c"
	default:
		return "?"
	}
}

// combine builds every valid 5-card selection given the holeCount
// constraint: unconstrained (-1) combines hole+board and picks any 5;
// otherwise it picks exactly holeCount from hole and 5-holeCount from
// board, as Omaha's "use exactly two" rule requires.
func combine(hole, board []cards.Card, holeCount int) ([][]cards.Card, error) {
	if holeCount < 0 {
		pool := append(append([]cards.Card(nil), hole...), board...)
		if len(pool) < 5 {
			return nil, fmt.Errorf("evaluator: need at least 5 cards, have %d", len(pool))
		}
		return choose(pool, 5), nil
	}

	boardCount := 5 - holeCount
	if boardCount < 0 || holeCount > len(hole) || boardCount > len(board) {
		return nil, fmt.Errorf("evaluator: cannot form a hand using exactly %d hole + %d board cards from %d/%d available",
			holeCount, boardCount, len(hole), len(board))
	}
	holeCombos := choose(hole, holeCount)
	boardCombos := choose(board, boardCount)
	out := make([][]cards.Card, 0, len(holeCombos)*len(boardCombos))
	for _, h := range holeCombos {
		for _, b := range boardCombos {
			combo := make([]cards.Card, 0, 5)
			combo = append(combo, h...)
			combo = append(combo, b...)
			out = append(out, combo)
		}
	}
	return out, nil
}

// choose returns every k-combination of cards, preserving relative order.
func choose(cardsIn []cards.Card, k int) [][]cards.Card {
	n := len(cardsIn)
	if k <= 0 || k > n {
		return nil
	}
	var out [][]cards.Card
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]cards.Card, k)
		for i, v := range idx {
			combo[i] = cardsIn[v]
		}
		out = append(out, combo)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}
