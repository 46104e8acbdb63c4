package evaluator

import (
	"sort"

	"github.com/rivertable/pokerengine/pkg/cards"
)

// Low8 is a hand-rolled ace-to-five, eight-or-better low evaluator. No
// example repo or ecosystem library in the retrieval pack implements
// ace-to-five lowball (chehsunliu/poker is hi-only, and the one pack repo
// that wires an external evaluator — jackkayser2005-pokerBench — uses it
// purely for benchmarking hi hands, not for a low side); this is the one
// deliberate stdlib-only component of the evaluator package, justified by
// that absence.
type Low8 struct{}

func NewLow8() Low8 { return Low8{} }

// lowValue is a card's ace-to-five rank: ace counts as 1 (the best low
// card), and there is no value above eight for a qualifying hand.
func lowValue(r cards.Rank) int {
	if r == cards.Ace {
		return 1
	}
	return int(r)
}

func (Low8) EvaluateLow8(hole, board []cards.Card, holeCount int) (Hand, bool, error) {
	combos, err := combine(hole, board, holeCount)
	if err != nil {
		return Hand{}, false, err
	}

	var best Hand
	found := false
	for _, combo := range combos {
		values := make([]int, len(combo))
		seen := map[int]bool{}
		qualifies := true
		for i, c := range combo {
			v := lowValue(c.Rank)
			if v > 8 || seen[v] {
				qualifies = false
			}
			seen[v] = true
			values[i] = v
		}
		if !qualifies {
			continue
		}
		sort.Sort(sort.Reverse(sort.IntSlice(values)))
		strength := lowStrength(values)
		if !found || strength > best.Strength {
			best = Hand{Strength: strength, Description: lowDescription(values), Best: combo}
			found = true
		}
	}
	return best, found, nil
}

// lowStrength packs five descending low values (each 1..8) into a single
// comparable integer where a higher Strength is a better (lower-ranked)
// low hand — the inverse of each card's face value, base-9 encoded so no
// combination of values can collide.
func lowStrength(descValues []int) int64 {
	var s int64
	for _, v := range descValues {
		s = s*9 + int64(9-v)
	}
	return s
}

func lowDescription(descValues []int) string {
	names := make([]string, len(descValues))
	for i, v := range descValues {
		if v == 1 {
			names[i] = "A"
		} else {
			names[i] = string(rune('0' + v))
		}
	}
	out := names[0]
	for _, n := range names[1:] {
		out += "-" + n
	}
	return out + " low"
}
