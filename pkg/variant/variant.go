// Package variant holds the immutable game-variant descriptors the hand
// state machine is driven by: the ordered rounds, each round's dealing
// template and first-to-act rule, and which pot sides the variant awards.
// Parsing these out of an XML/JSON variant file is explicitly out of scope
// (spec.md §1) — callers construct or decode a Descriptor and hand it to
// the engine.
package variant

import "fmt"

// PositionRule decides who acts first in a betting round.
type PositionRule int

const (
	// UnderTheGun: left of the big blind. Used pre-flop in flop games.
	UnderTheGun PositionRule = iota
	// NextToDealer: left of the dealer. Used post-flop in flop games.
	NextToDealer
	// Low: the player showing the lowest up-card/board acts first (stud).
	Low
	// High: the player showing the highest up-card/board acts first (stud).
	High
	// Invalid marks a round that can never compute a first-to-act seat;
	// Validate rejects any round that carries it.
	Invalid
)

func (r PositionRule) String() string {
	switch r {
	case UnderTheGun:
		return "under-the-gun"
	case NextToDealer:
		return "next-to-dealer"
	case Low:
		return "low"
	case High:
		return "high"
	default:
		return "invalid"
	}
}

// Face is a per-player card-dealing instruction for a round.
type Face int

const (
	Down Face = iota
	Up
	Unknown
)

// RoundInfo describes one round of a hand: what gets dealt and who acts
// first once betting opens.
type RoundInfo struct {
	Name            string
	PositionRule    PositionRule
	PlayerCards     []Face // face instructions for cards dealt to each player this round, in order
	BoardCards      int    // count of board cards dealt face-up this round
	HandSizeTarget  int    // cumulative hole cards a player should hold once this round's dealing completes
	BoardSizeTarget int    // cumulative board cards once this round's dealing completes
}

// Ways is how many independent sides a pot is split by at showdown.
type Ways int

const (
	HiOnly Ways = 1
	HiLow8 Ways = 2
)

// Side names a winner side for a multi-way (hi/lo) variant.
type Side string

const (
	SideHi    Side = "hi"
	SideLow8  Side = "low8"
)

// Descriptor is the immutable, variant-wide configuration consumed by the
// hand state machine (component 9). The same Descriptor drives every hand
// played at the table until set_variant is called again.
type Descriptor struct {
	Name   string
	Rounds []RoundInfo
	Ways   Ways
}

// Sides returns the winner sides this variant awards, in a fixed order so
// showdown iterates them deterministically.
func (d Descriptor) Sides() []Side {
	if d.Ways == HiLow8 {
		return []Side{SideHi, SideLow8}
	}
	return []Side{SideHi}
}

// Validate checks the descriptor is well-formed. A malformed variant is a
// configuration error (spec.md §7): fatal at load time, never silently
// tolerated by the hand state machine.
func (d Descriptor) Validate() error {
	if len(d.Rounds) == 0 {
		return fmt.Errorf("variant %q: must declare at least one round", d.Name)
	}
	for i, r := range d.Rounds {
		if r.PositionRule == Invalid {
			return fmt.Errorf("variant %q: round %d (%s) has an invalid position rule", d.Name, i, r.Name)
		}
		if r.HandSizeTarget < 0 || r.BoardSizeTarget < 0 {
			return fmt.Errorf("variant %q: round %d (%s) has a negative size target", d.Name, i, r.Name)
		}
	}
	if d.Ways != HiOnly && d.Ways != HiLow8 {
		return fmt.Errorf("variant %q: unknown ways=%d", d.Name, d.Ways)
	}
	return nil
}

// Holdem is the classic four-round, hold-'em-style board-game descriptor:
// two down cards, a flop/turn/river board, high hand only.
func Holdem() Descriptor {
	return Descriptor{
		Name: "holdem",
		Ways: HiOnly,
		Rounds: []RoundInfo{
			{Name: "pre-flop", PositionRule: UnderTheGun, PlayerCards: []Face{Down, Down}, HandSizeTarget: 2},
			{Name: "flop", PositionRule: NextToDealer, BoardCards: 3, BoardSizeTarget: 3},
			{Name: "turn", PositionRule: NextToDealer, BoardCards: 1, BoardSizeTarget: 4},
			{Name: "river", PositionRule: NextToDealer, BoardCards: 1, BoardSizeTarget: 5},
		},
	}
}

// Omaha is hold-'em-shaped but deals four down cards and awards high only.
func Omaha() Descriptor {
	d := Holdem()
	d.Name = "omaha"
	d.Rounds[0].PlayerCards = []Face{Down, Down, Down, Down}
	d.Rounds[0].HandSizeTarget = 4
	return d
}

// Omaha8 is Omaha with an additional eight-or-better low side.
func Omaha8() Descriptor {
	d := Omaha()
	d.Name = "omaha8"
	d.Ways = HiLow8
	return d
}

// SevenCardStud deals two down cards and one up card on third street, one
// up card on each of fourth through sixth street and a final down card on
// seventh street, with no shared board; first-to-act is by board rank.
func SevenCardStud() Descriptor {
	return Descriptor{
		Name: "seven_card_stud",
		Ways: HiOnly,
		Rounds: []RoundInfo{
			{Name: "third-street", PositionRule: Low, PlayerCards: []Face{Down, Down, Up}, HandSizeTarget: 3},
			{Name: "fourth-street", PositionRule: High, PlayerCards: []Face{Up}, HandSizeTarget: 4},
			{Name: "fifth-street", PositionRule: High, PlayerCards: []Face{Up}, HandSizeTarget: 5},
			{Name: "sixth-street", PositionRule: High, PlayerCards: []Face{Up}, HandSizeTarget: 6},
			{Name: "seventh-street", PositionRule: High, PlayerCards: []Face{Down}, HandSizeTarget: 7},
		},
	}
}
