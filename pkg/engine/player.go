// Package engine is the hand-lifecycle core (components 3 and 6-10):
// Player and Table state, the Hand state machine that drives blind
// collection through showdown, and the showdown resolver. Grounded on
// pkg/poker/game.go and pkg/poker/player.go, restructured around the
// richer player/hand model spec.md §3 describes and decomposed into the
// supporting packages (pkg/blinds, pkg/betting, pkg/potbuilder, ...) those
// two teacher files mixed into one.
package engine

import (
	"github.com/rivertable/pokerengine/pkg/blinds"
	"github.com/rivertable/pokerengine/pkg/cards"
	"github.com/rivertable/pokerengine/pkg/seating"
)

// SitState is whether a seated player is part of the next hand dealt.
type SitState int

const (
	SitOut SitState = iota
	SitIn
)

// AutoMuckPolicy controls whether a live, non-folded player is asked to
// confirm showing their hand at showdown, or whether the engine decides
// for them (spec.md §3's auto_muck policy, §6's auto_muck(serial, policy)
// operation).
type AutoMuckPolicy int

const (
	// Never: the player is always asked; the hand blocks on their muck or
	// reveal decision (component 10's muck/reveal operations).
	AutoMuckNever AutoMuckPolicy = iota
	// Always: the player is never asked and never shown — they forfeit any
	// pot they might have won, exactly as a fold would.
	AutoMuckAlways
	// WinOnly: shown automatically only for a pot they win; mucked (and so
	// excluded from that pot) otherwise.
	AutoMuckWinOnly
	// LoseOnly: the mirror of WinOnly — shown automatically only for a pot
	// they lose, mucked (forfeiting the pot to the next-best hand) if they
	// would otherwise win it.
	AutoMuckLoseOnly
)

// Player is one seat's worth of persistent, cross-hand state (spec.md §3).
// Fields that only matter within a single hand (Bet, Folded, Hand, ...) are
// reset by resetForHand when a new hand begins.
type Player struct {
	Serial int64
	Name   string
	Seat   seating.Seat

	Money        int64
	Bet          int64 // this round's contribution, mirrors betting.Controller
	Dead         int64 // dead money owed/posted this hand
	RebuyPending int64

	SitState       SitState
	Folded         bool
	AllIn          bool
	BuyInPaid      bool
	RemoveNextTurn bool
	TalkedOnce     bool
	ActionIssued   bool

	Blind       blinds.Obligation
	MissedBlind blinds.MissedBlind
	WaitRule    blinds.WaitRule

	AutoPlay       bool
	AutoBlindAnte  bool
	AutoMuckPolicy AutoMuckPolicy

	Hand         cards.Set
	SidePotIndex int

	handStartMoney int64 // snapshot at begin_hand, for the end_hand delta
}

// NewPlayer constructs a newly seated player who has not yet paid their
// buy-in (spec.md §6's add_player/pay_buy_in split).
func NewPlayer(serial int64, name string, seat seating.Seat) *Player {
	return &Player{Serial: serial, Name: name, Seat: seat, SitState: SitOut}
}

// IsDealtIn reports whether the player is both sitting in and has money on
// the table — the minimum bar for being included in a new hand.
func (p *Player) IsDealtIn() bool {
	return p.SitState == SitIn && p.BuyInPaid && p.Money > 0
}

func (p *Player) resetForHand() {
	p.Bet = 0
	p.Dead = 0
	p.Folded = false
	p.AllIn = false
	p.RemoveNextTurn = false
	p.TalkedOnce = false
	p.ActionIssued = false
	p.Hand = nil
	p.SidePotIndex = 0
	p.handStartMoney = p.Money
}

// Delta is the player's net change in money since the current (or most
// recently completed) hand began — the SerialToDelta value in the end
// event (spec.md §6).
func (p *Player) Delta() int64 {
	return p.Money - p.handStartMoney
}
