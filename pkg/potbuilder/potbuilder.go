// Package potbuilder implements the hand's pot and side-pot accounting
// (spec.md §4.4, component 7): it accumulates per-round, per-player
// contributions and partitions them into ordered side pots whenever
// heterogeneous all-in amounts require it.
//
// Per spec.md §9's design note, contributions are kept as a small flat log
// of (round, serial, amount) rows rather than the nested
// round->pot->serial mapping a naive port would use; the pot structure
// itself — an ordered slice of (amount, cumulative) pairs — is derived from
// that log on demand by Build, which keeps the log the single source of
// truth and the derived pots always internally consistent.
package potbuilder

import (
	"fmt"
	"sort"

	"github.com/sanity-io/litter"
)

// Row is one contribution: serial put amount chips into the pot during
// round.
type Row struct {
	Round  int
	Serial int64
	Amount int64
}

// Pot is one side pot (or the main pot, always pots[0]).
type Pot struct {
	Amount          int64
	CumulativeAfter int64 // running total across pots[0..this], spec.md §3's "total_including_prior"
	Eligible        map[int64]bool
	// Contributions is how much of Amount each serial put in, including a
	// folded player's abandoned bet — rake apportionment (spec.md §4.6)
	// needs this even though Eligible excludes folded players from winning.
	Contributions map[int64]int64
}

// Builder accumulates contributions across a whole hand and derives the
// side-pot partition from them. It holds no notion of "current bet" or
// "folded" — those belong to the betting controller and player state; the
// builder is handed folded/all-in information explicitly by its caller at
// Build time so it stays a pure function of the contribution log.
type Builder struct {
	rows      []Row
	deadTotal int64
}

func New() *Builder { return &Builder{} }

// AddBet records a live contribution: it counts both toward the pot total
// and toward the contributing player's side-pot eligibility cap.
func (b *Builder) AddBet(round int, serial int64, amount int64) {
	if amount < 0 {
		panic(fmt.Sprintf("potbuilder: AddBet negative amount=%d (serial=%d round=%d)", amount, serial, round))
	}
	if amount == 0 {
		return
	}
	b.rows = append(b.rows, Row{Round: round, Serial: serial, Amount: amount})
}

// AddDead records dead money (spec.md glossary): chips that go straight
// into the currently open pot but grant the payer no extra eligibility —
// the big_and_dead obligation's dead small blind (scenario S6) is the
// canonical example. Dead money is folded into whichever pot Build()
// determines is still open (the highest-indexed one) when the hand reaches
// showdown, since it was never at stake for a capped side pot.
func (b *Builder) AddDead(amount int64) {
	if amount < 0 {
		panic(fmt.Sprintf("potbuilder: AddDead negative amount=%d", amount))
	}
	b.deadTotal += amount
}

// TotalBySerial sums every contribution (across all rounds) recorded for
// each player so far.
func (b *Builder) TotalBySerial() map[int64]int64 {
	out := map[int64]int64{}
	for _, r := range b.rows {
		out[r.Serial] += r.Amount
	}
	return out
}

// GrandTotal is the sum of every live contribution plus dead money
// recorded so far; conservation (spec.md §8) requires this equal
// sum(pots[*].Amount) once Build runs.
func (b *Builder) GrandTotal() int64 {
	var t int64
	for _, r := range b.rows {
		t += r.Amount
	}
	return t + b.deadTotal
}

// ReturnUncalled implements the uncalled-bet policy (spec.md §4.4 step 4,
// §8): among the contributions recorded for round, if exactly one
// non-folded player's contribution this round exceeds every other
// non-folded player's, the excess was never callable and must be returned
// before the pot is built further. It records the adjustment as a
// negative row so TotalBySerial and GrandTotal stay correct, and reports
// who gets the refund so the caller can credit their stack.
func (b *Builder) ReturnUncalled(round int, folded map[int64]bool) (serial int64, amount int64, ok bool) {
	roundTotals := map[int64]int64{}
	for _, r := range b.rows {
		if r.Round == round {
			roundTotals[r.Serial] += r.Amount
		}
	}
	var highest, second int64
	var highestSerial int64
	for s, amt := range roundTotals {
		if folded[s] {
			continue
		}
		if amt > highest {
			second = highest
			highest = amt
			highestSerial = s
		} else if amt > second {
			second = amt
		}
	}
	if highest > second {
		excess := highest - second
		b.rows = append(b.rows, Row{Round: round, Serial: highestSerial, Amount: -excess})
		return highestSerial, excess, true
	}
	return 0, 0, false
}

// Build partitions every contribution recorded so far into ordered side
// pots. folded marks players ineligible for any pot regardless of how much
// they contributed; allInTotal maps a player's serial to the cumulative
// total they've contributed across the whole hand if (and only if) they
// are currently all-in — that total is the "level" their all-in caps a
// side pot at. Players absent from allInTotal are still active and may
// contribute further without creating a new level.
//
// The partition follows spec.md §4.4's algorithm: sort distinct all-in
// levels ascending; each level creates a pot consuming, from every player,
// the slice of their contribution between the previous level and this one;
// eligibility for a pot is every non-folded player whose total reached
// that level; whatever is contributed above the highest level lands in one
// final pot open to every non-folded player still active there. A player's
// side-pot index is the highest-indexed pot they contributed to.
func (b *Builder) Build(folded map[int64]bool, allInTotal map[int64]int64) (pots []Pot, sidePotIndex map[int64]int) {
	totals := b.TotalBySerial()
	sidePotIndex = map[int64]int{}
	if len(totals) == 0 {
		if b.deadTotal > 0 {
			pots = []Pot{{Amount: b.deadTotal, CumulativeAfter: b.deadTotal, Eligible: map[int64]bool{}, Contributions: map[int64]int64{}}}
		}
		return pots, sidePotIndex
	}

	levelSet := map[int64]bool{}
	for serial, level := range allInTotal {
		if folded[serial] || level <= 0 {
			continue
		}
		levelSet[level] = true
	}
	levels := make([]int64, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	var running int64
	var prev int64
	for _, level := range levels {
		pot := Pot{Eligible: map[int64]bool{}, Contributions: map[int64]int64{}}
		for serial, total := range totals {
			if total <= prev {
				continue
			}
			take := total - prev
			if total > level {
				take = level - prev
			}
			if take <= 0 {
				continue
			}
			pot.Amount += take
			pot.Contributions[serial] = take
			sidePotIndex[serial] = len(pots)
			if !folded[serial] && total >= level {
				pot.Eligible[serial] = true
			}
		}
		running += pot.Amount
		pot.CumulativeAfter = running
		pots = append(pots, pot)
		prev = level
	}

	final := Pot{Eligible: map[int64]bool{}, Contributions: map[int64]int64{}}
	for serial, total := range totals {
		if total <= prev {
			continue
		}
		take := total - prev
		final.Amount += take
		final.Contributions[serial] = take
		sidePotIndex[serial] = len(pots)
		if !folded[serial] {
			final.Eligible[serial] = true
		}
	}
	final.Amount += b.deadTotal // dead money lands in whichever pot is still open
	if final.Amount > 0 || len(pots) == 0 {
		running += final.Amount
		final.CumulativeAfter = running
		pots = append(pots, final)
	}

	total := int64(0)
	for _, p := range pots {
		total += p.Amount
	}
	if total != b.GrandTotal() {
		panic(fmt.Sprintf("potbuilder: side-pot conservation violated: pots sum to %d, contributions sum to %d\n%s",
			total, b.GrandTotal(), litter.Sdump(b.rows)))
	}

	return pots, sidePotIndex
}
