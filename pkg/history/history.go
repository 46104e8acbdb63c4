// Package history implements the hand's append-only event log: a tagged
// sequence of the event kinds spec.md §6 enumerates, plus the reducer that
// collapses transient bookkeeping into a canonical replay. Per spec.md §9's
// design note, kinds are represented as enumerated variants (one struct per
// tuple kind implementing a common marker interface) rather than a
// stringly-typed payload map. Reduce does not special-case most kinds: any
// kind other than PositionEvent and SitOutEvent is copied through as-is.
package history

import (
	"time"

	"github.com/rivertable/pokerengine/pkg/cards"
)

// Kind names one of the tuple kinds spec.md §6 defines.
type Kind string

const (
	KindGame          Kind = "game"
	KindPosition      Kind = "position"
	KindBlindRequest  Kind = "blind_request"
	KindBlind         Kind = "blind"
	KindAnteRequest   Kind = "ante_request"
	KindAnte          Kind = "ante"
	KindRound         Kind = "round"
	KindCall          Kind = "call"
	KindCheck         Kind = "check"
	KindFold          Kind = "fold"
	KindRaise         Kind = "raise"
	KindAllIn         Kind = "all-in"
	KindCanceled      Kind = "canceled"
	KindShowdownStack Kind = "showdown_stack"
	KindEnd           Kind = "end"
	KindSitOut        Kind = "sitOut"
	KindRebuy         Kind = "rebuy"
	KindLeave         Kind = "leave"
)

// Event is implemented by every tuple kind below.
type Event interface {
	Kind() Kind
}

type GameEvent struct {
	Level         int
	HandSerial    int64
	HandsCount    int
	Time          time.Time
	Variant       string
	Structure     string
	PlayerList    []int64
	Dealer        int
	SerialToMoney map[int64]int64
}

func (GameEvent) Kind() Kind { return KindGame }

type PositionEvent struct {
	Index  int
	Serial int64
}

func (PositionEvent) Kind() Kind { return KindPosition }

type BlindRequestEvent struct {
	Serial int64
	Amount int64
	Dead   int64
	State  string
}

func (BlindRequestEvent) Kind() Kind { return KindBlindRequest }

type BlindEvent struct {
	Serial int64
	Amount int64
	Dead   int64
}

func (BlindEvent) Kind() Kind { return KindBlind }

type AnteRequestEvent struct {
	Serial int64
	Amount int64
}

func (AnteRequestEvent) Kind() Kind { return KindAnteRequest }

type AnteEvent struct {
	Serial int64
	Amount int64
}

func (AnteEvent) Kind() Kind { return KindAnte }

type RoundEvent struct {
	RoundName   string
	Board       []cards.Card
	SerialToHand map[int64][]cards.Card
}

func (RoundEvent) Kind() Kind { return KindRound }

type CallEvent struct {
	Serial int64
	Amount int64
}

func (CallEvent) Kind() Kind { return KindCall }

type CheckEvent struct {
	Serial int64
}

func (CheckEvent) Kind() Kind { return KindCheck }

type FoldEvent struct {
	Serial int64
}

func (FoldEvent) Kind() Kind { return KindFold }

type RaiseEvent struct {
	Serial int64
	Amount int64
}

func (RaiseEvent) Kind() Kind { return KindRaise }

type AllInEvent struct {
	Serial int64
}

func (AllInEvent) Kind() Kind { return KindAllIn }

type CanceledEvent struct {
	Serial int64
	Amount int64
}

func (CanceledEvent) Kind() Kind { return KindCanceled }

// SidePotStage describes one side pot's showdown resolution, in payout
// order, for the showdown_stack/end events.
type SidePotStage struct {
	PotIndex int
	Amount   int64
	Side     string // "hi" or "low8"
	Winners  []int64
	Shares   map[int64]int64
}

type ShowdownStackEvent struct {
	Stack []SidePotStage
}

func (ShowdownStackEvent) Kind() Kind { return KindShowdownStack }

type EndEvent struct {
	Winners       []int64
	ShowdownStack []SidePotStage
	SerialToDelta map[int64]int64
	Rake          int64
	// SerialToRake is each contributor's share of Rake: contribution × rake /
	// (pot - uncalled), remainder to the first contributor in dealer order
	// (spec.md §4.6).
	SerialToRake map[int64]int64
}

func (EndEvent) Kind() Kind { return KindEnd }

type SitOutEvent struct {
	Serial int64
}

func (SitOutEvent) Kind() Kind { return KindSitOut }

type RebuyEvent struct {
	Serial int64
	Amount int64
}

func (RebuyEvent) Kind() Kind { return KindRebuy }

type LeaveEvent struct {
	SeatsReleased []int
}

func (LeaveEvent) Kind() Kind { return KindLeave }

// Log is the append-only per-hand event sequence. Every hand gets its own
// Log, so a fresh Log starts at the next begin_hand; end_hand does not clear
// the ended hand's Log, which stays readable until then.
type Log struct {
	events []Event
}

func (l *Log) Append(e Event) {
	l.events = append(l.events, e)
}

// Events returns the raw, unreduced event sequence in append order.
func (l *Log) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Truncate clears the log. The engine does not call it; each hand starts
// with a new Log instead.
func (l *Log) Truncate() {
	l.events = nil
}

// Reduce collapses dead bookkeeping events into a canonical replay:
//   - consecutive PositionEvents for the same serial collapse to the last one
//   - a SitOutEvent followed anywhere later by an event from the same
//     serial cancels (the sit-out never actually took effect this hand)
func Reduce(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for i, e := range events {
		if pe, ok := e.(PositionEvent); ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(PositionEvent); ok && prev.Serial == pe.Serial {
				out[len(out)-1] = pe
				continue
			}
		}
		if so, ok := e.(SitOutEvent); ok {
			// A sit-out cancels against any later event from the same
			// serial, which proves they kept playing this hand.
			canceled := false
			for _, next := range events[i+1:] {
				if serialOf(next) != so.Serial {
					continue
				}
				canceled = true
				break
			}
			if canceled {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func serialOf(e Event) int64 {
	switch v := e.(type) {
	case PositionEvent:
		return v.Serial
	case BlindEvent:
		return v.Serial
	case AnteEvent:
		return v.Serial
	case CallEvent:
		return v.Serial
	case CheckEvent:
		return v.Serial
	case FoldEvent:
		return v.Serial
	case RaiseEvent:
		return v.Serial
	case AllInEvent:
		return v.Serial
	default:
		return 0
	}
}
