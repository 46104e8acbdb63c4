// Package structure holds the immutable betting-structure descriptors: buy
// in bounds, per-round bet limits, the raise cap, and blind/ante schedules.
// As with pkg/variant, parsing these out of a config file is out of scope —
// the engine only ever consumes a Descriptor value.
package structure

import (
	"fmt"
	"math"
)

// Bound resolves a bet-limit endpoint that may be a literal amount, a
// reference to the big blind, a reference to the current pot, or
// "no limit" (spec.md §4.3's min/max: integer, "big", "pot", sys_max).
type Bound struct {
	Literal   int64
	IsBig     bool
	IsPot     bool
	IsNoLimit bool
}

func Lit(amount int64) Bound { return Bound{Literal: amount} }
func BigBlindBound() Bound   { return Bound{IsBig: true} }
func PotBound() Bound        { return Bound{IsPot: true} }
func NoLimitBound() Bound    { return Bound{IsNoLimit: true} }

// Resolve computes the bound's concrete value given the current big blind
// and the current pot-plus-bets total (the "pot" reference point spec.md
// §4.3 defines as "the current pot + current bets").
func (b Bound) Resolve(bigBlind, potAndBets int64) int64 {
	switch {
	case b.IsNoLimit:
		return math.MaxInt64
	case b.IsBig:
		return bigBlind
	case b.IsPot:
		return potAndBets
	default:
		return b.Literal
	}
}

// RoundLimit is the per-round bet-limit descriptor (spec.md §4.3).
type RoundLimit struct {
	Min Bound
	Max Bound
	// Fixed, if non-nil, forces min = max = *Fixed + currentHighestBet —
	// the limit-game case where every bet/raise is a fixed increment.
	Fixed *int64
	// PowLevel scales stakes by the blind-level index for structures whose
	// stakes grow by level (tournament-style escalation).
	PowLevel int
	// Cap is the maximum number of raises this round allows; negative means
	// uncapped (no-limit/pot-limit games typically leave this uncapped).
	Cap int
}

// Resolve returns the (min, max) total-bet bounds for this round given the
// current big blind, pot+bets, and blind-level index.
func (r RoundLimit) Resolve(bigBlind, potAndBets int64, currentHighestBet int64, level int) (min, max int64) {
	if r.Fixed != nil {
		scaled := *r.Fixed
		if r.PowLevel > 0 && level > 0 {
			for i := 0; i < level; i++ {
				scaled *= 2
			}
		}
		v := scaled + currentHighestBet
		return v, v
	}
	return r.Min.Resolve(bigBlind, potAndBets), r.Max.Resolve(bigBlind, potAndBets)
}

// BlindLevel is one row of a blind (or ante) schedule.
type BlindLevel struct {
	Small int64
	Big   int64
	Ante  int64
}

// ScheduleKind selects how a Schedule computes the level for a given hand.
type ScheduleKind int

const (
	StaticSchedule ScheduleKind = iota
	DoublingSchedule
	LevelTableSchedule
)

// Schedule is a blind or ante schedule: static, doubling every N hands, or
// driven by an explicit level table (spec.md §4.6).
type Schedule struct {
	Kind ScheduleKind

	// StaticSchedule
	Static BlindLevel

	// DoublingSchedule
	DoublingFrequencyHands int
	DoublingUnit           BlindLevel

	// LevelTableSchedule
	Levels []BlindLevel
}

// LevelIndex returns which level a given 1-based hand number falls into.
func (s Schedule) LevelIndex(handNumber int) int {
	switch s.Kind {
	case DoublingSchedule:
		if s.DoublingFrequencyHands <= 0 {
			return 0
		}
		return (handNumber - 1) / s.DoublingFrequencyHands
	case LevelTableSchedule:
		idx := (handNumber - 1)
		if idx < 0 {
			idx = 0
		}
		if idx >= len(s.Levels) {
			idx = len(s.Levels) - 1
		}
		return idx
	default:
		return 0
	}
}

// At returns the blind level in effect for the given 1-based hand number.
func (s Schedule) At(handNumber int) BlindLevel {
	switch s.Kind {
	case StaticSchedule:
		return s.Static
	case DoublingSchedule:
		level := s.LevelIndex(handNumber)
		mul := int64(1)
		for i := 0; i < level; i++ {
			mul *= 2
		}
		return BlindLevel{Small: s.DoublingUnit.Small * mul, Big: s.DoublingUnit.Big * mul, Ante: s.DoublingUnit.Ante * mul}
	case LevelTableSchedule:
		if len(s.Levels) == 0 {
			return BlindLevel{}
		}
		return s.Levels[s.LevelIndex(handNumber)]
	default:
		return BlindLevel{}
	}
}

// Descriptor is the immutable, structure-wide configuration: buy-in bounds,
// chip unit, per-round limits (indexed the same as the matching
// variant.Descriptor.Rounds), the blind schedule, and an optional ante
// schedule.
type Descriptor struct {
	Name string

	BuyInMin  int64
	BuyInMax  int64
	BuyInBest int64
	ChipUnit  int64

	RoundLimits []RoundLimit
	Blinds      Schedule
	Ante        *Schedule // nil if the structure has no ante
}

// Validate checks the descriptor is internally consistent. Malformed
// structures are a configuration error: fatal at load, per spec.md §7.
func (d Descriptor) Validate() error {
	if d.ChipUnit <= 0 {
		return fmt.Errorf("structure %q: chip_unit must be positive", d.Name)
	}
	if d.BuyInMin < 0 || d.BuyInMax < d.BuyInMin {
		return fmt.Errorf("structure %q: invalid buy-in bounds [%d, %d]", d.Name, d.BuyInMin, d.BuyInMax)
	}
	if len(d.RoundLimits) == 0 {
		return fmt.Errorf("structure %q: must declare at least one round limit", d.Name)
	}
	return nil
}

// NoLimitHoldem builds the common "blinds sb/bb, no cap, no-limit" betting
// structure used by spec.md scenarios S1, S2, S4, S5.
func NoLimitHoldem(smallBlind, bigBlind int64, rounds int) Descriptor {
	limits := make([]RoundLimit, rounds)
	for i := range limits {
		limits[i] = RoundLimit{Min: BigBlindBound(), Max: NoLimitBound(), Cap: -1}
	}
	return Descriptor{
		Name:      "no-limit",
		BuyInMin:  bigBlind * 20,
		BuyInMax:  bigBlind * 1000,
		BuyInBest: bigBlind * 100,
		ChipUnit:  1,
		Blinds:    Schedule{Kind: StaticSchedule, Static: BlindLevel{Small: smallBlind, Big: bigBlind}},
		RoundLimits: limits,
	}
}

// FixedLimit builds a limit-game structure where every bet/raise in round i
// is forced to fixedByRound[i] above the current highest bet, capped at
// maxRaises per round.
func FixedLimit(smallBlind, bigBlind int64, fixedByRound []int64, maxRaises int) Descriptor {
	limits := make([]RoundLimit, len(fixedByRound))
	for i, f := range fixedByRound {
		amt := f
		limits[i] = RoundLimit{Fixed: &amt, Cap: maxRaises}
	}
	return Descriptor{
		Name:        "fixed-limit",
		BuyInMin:    bigBlind * 10,
		BuyInMax:    bigBlind * 400,
		BuyInBest:   bigBlind * 100,
		ChipUnit:    1,
		Blinds:      Schedule{Kind: StaticSchedule, Static: BlindLevel{Small: smallBlind, Big: bigBlind}},
		RoundLimits: limits,
	}
}
