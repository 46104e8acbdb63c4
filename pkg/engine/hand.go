package engine

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/rivertable/pokerengine/pkg/betting"
	"github.com/rivertable/pokerengine/pkg/blinds"
	"github.com/rivertable/pokerengine/pkg/cards"
	"github.com/rivertable/pokerengine/pkg/chips"
	"github.com/rivertable/pokerengine/pkg/history"
	"github.com/rivertable/pokerengine/pkg/potbuilder"
	"github.com/rivertable/pokerengine/pkg/seating"
	"github.com/rivertable/pokerengine/pkg/statemachine"
	"github.com/rivertable/pokerengine/pkg/structure"
	"github.com/rivertable/pokerengine/pkg/variant"
)

// handStateFn is one phase of the hand lifecycle, Rob-Pike style: it
// performs that phase's entry action and returns the state to run next.
// As in pkg/poker/game.go, most phases return themselves — actual
// advancement is driven by explicit sm.SetState calls from the methods
// player actions flow through (postBlind, applyAction, ...), not by
// repeated Dispatch calls.
type handStateFn = statemachine.StateFn[Hand]

// Hand drives one hand from blind collection through showdown (spec.md
// component 9). It owns the betting controller and pot builder for the
// hand's lifetime; once End has run it stays on the Table as the most
// recently ended hand until the next begin_hand creates a fresh Hand.
type Hand struct {
	ID     uuid.UUID
	Serial int64
	Table  *Table

	Variant   variant.Descriptor
	Structure structure.Descriptor
	Level     int

	Dealer    seating.Seat
	BlindPlan blinds.Plan
	Order     []int64 // serials dealt into this hand, in seat order starting left of the dealer

	RoundIndex int
	Board      cards.Set
	Deck       cards.Deck

	Pots    *potbuilder.Builder
	Betting *betting.Controller
	Log     *history.Log

	sm      *statemachine.StateMachine[Hand]
	Ended   bool
	Winners []int64

	pendingBlinds map[int64]bool // serials who still owe a blind obligation
	pendingAntes  map[int64]bool
	AwaitingMuck  map[int64]bool // live players who opted out of auto-muck, still deciding
	Mucked        map[int64]bool // players who voluntarily mucked instead of showing
}

func stateAwaitingBlinds(h *Hand, cb func(string, statemachine.StateEvent)) handStateFn {
	if cb != nil {
		cb("awaiting_blinds", statemachine.StateEntered)
	}
	return stateAwaitingBlinds
}

func stateBetting(h *Hand, cb func(string, statemachine.StateEvent)) handStateFn {
	if cb != nil {
		cb(fmt.Sprintf("betting:%s", h.Variant.Rounds[h.RoundIndex].Name), statemachine.StateEntered)
	}
	return stateBetting
}

func stateShowdown(h *Hand, cb func(string, statemachine.StateEvent)) handStateFn {
	if cb != nil {
		cb("showdown", statemachine.StateEntered)
	}
	h.enterShowdown()
	return stateShowdown
}

func stateEnd(h *Hand, cb func(string, statemachine.StateEvent)) handStateFn {
	if cb != nil {
		cb("end", statemachine.StateEntered)
	}
	h.Ended = true
	return stateEnd
}

// newHand starts a hand for the given participants (already filtered to
// players eligible to be dealt in — see Table.BeginHand).
func newHand(t *Table, plan blinds.Plan, participants []int64) (*Hand, error) {
	if err := t.Variant.Validate(); err != nil {
		return nil, configErrorf("%v", err)
	}
	if err := t.Structure.Validate(); err != nil {
		return nil, configErrorf("%v", err)
	}

	// Order starts left of the dealer, not at the dealer's own seat — the
	// dealer's rank must come last so AllocateOddChips's "first in order"
	// tiebreak lands on the player left of the dealer, per spec.md's own
	// worked side-pot-split example.
	leftOfDealer, _ := seating.IndexAdd(t.MaxPlayers, t.Dealer, 1, func(seating.Seat) bool { return true })
	order := make([]int64, len(participants))
	copy(order, participants)
	sort.Slice(order, func(i, j int) bool {
		ri := seating.ForwardRank(t.MaxPlayers, leftOfDealer, t.Players[order[i]].Seat)
		rj := seating.ForwardRank(t.MaxPlayers, leftOfDealer, t.Players[order[j]].Seat)
		return ri < rj
	})

	h := &Hand{
		ID:            uuid.New(),
		Serial:        t.nextHandSerial(),
		Table:         t,
		Variant:       t.Variant,
		Structure:     t.Structure,
		Level:         t.Level,
		Dealer:        plan.Dealer,
		BlindPlan:     plan,
		Order:         order,
		Deck:          t.newDeck(),
		Pots:          potbuilder.New(),
		Log:           &history.Log{},
		pendingBlinds: map[int64]bool{},
		pendingAntes:  map[int64]bool{},
	}
	h.sm = statemachine.NewStateMachine(h, "awaiting_blinds", stateAwaitingBlinds)

	serialToMoney := map[int64]int64{}
	for _, s := range order {
		p := t.Players[s]
		p.resetForHand()
		serialToMoney[s] = p.Money
	}
	h.Log.Append(history.GameEvent{
		Level:         h.Level,
		HandSerial:    h.Serial,
		HandsCount:    t.HandsCount,
		Variant:       t.Variant.Name,
		Structure:     t.Structure.Name,
		PlayerList:    order,
		Dealer:        int(h.Dealer),
		SerialToMoney: serialToMoney,
	})

	level := t.Structure.Blinds.At(t.HandsCount + 1)

	for _, s := range order {
		p := t.Players[s]
		switch p.Blind {
		case blinds.PostSmall:
			h.pendingBlinds[s] = true
			h.Log.Append(history.BlindRequestEvent{Serial: s, Amount: level.Small, State: "small"})
		case blinds.PostBig:
			h.pendingBlinds[s] = true
			h.Log.Append(history.BlindRequestEvent{Serial: s, Amount: level.Big, State: "big"})
		case blinds.PostBigAndDead:
			h.pendingBlinds[s] = true
			h.Log.Append(history.BlindRequestEvent{Serial: s, Amount: level.Big, Dead: plan.Dead[s], State: "big_and_dead"})
		}
		if t.Structure.Ante != nil {
			anteLevel := t.Structure.Ante.At(t.HandsCount + 1)
			if anteLevel.Ante > 0 {
				h.pendingAntes[s] = true
				h.Log.Append(history.AnteRequestEvent{Serial: s, Amount: anteLevel.Ante})
			}
		}
	}

	for _, s := range order {
		p := t.Players[s]
		if p.AutoBlindAnte {
			h.postAnte(s)
			h.postBlind(s)
		}
	}
	h.maybeOpenFirstRound()
	return h, nil
}

func (h *Hand) blindAmount(obligation blinds.Obligation) int64 {
	level := h.Table.Structure.Blinds.At(h.Table.HandsCount + 1)
	switch obligation {
	case blinds.PostSmall:
		return level.Small
	case blinds.PostBig, blinds.PostBigAndDead:
		return level.Big
	default:
		return 0
	}
}

// postBlind posts serial's blind obligation (if any), moving chips from
// their stack into the pot. A stack shorter than the obligation posts
// all-in for whatever they have, per spec.md's short-stack-on-blind case.
func (h *Hand) postBlind(serial int64) (bool, error) {
	if !h.pendingBlinds[serial] {
		return precondition(false)
	}
	p := h.Table.Players[serial]
	obligation := p.Blind
	amount := h.blindAmount(obligation)
	dead := h.BlindPlan.Dead[serial]

	pay := amount + dead
	allIn := false
	if pay >= p.Money {
		pay = p.Money
		allIn = true
	}
	deadPaid := chips.Min(dead, pay)
	live := pay - deadPaid
	p.Money -= pay
	chips.RequireNonNegative("player.money", p.Money)
	p.Bet = live
	p.Dead = deadPaid
	if allIn {
		p.AllIn = true
	}

	if deadPaid > 0 {
		h.Pots.AddDead(deadPaid)
	}
	if live > 0 {
		h.Pots.AddBet(0, serial, live)
	}

	h.Log.Append(history.BlindEvent{Serial: serial, Amount: live, Dead: deadPaid})
	delete(h.pendingBlinds, serial)
	if allIn {
		h.Log.Append(history.AllInEvent{Serial: serial})
	}
	h.maybeOpenFirstRound()
	return true, nil
}

func (h *Hand) postAnte(serial int64) (bool, error) {
	if !h.pendingAntes[serial] {
		return precondition(false)
	}
	p := h.Table.Players[serial]
	level := h.Table.Structure.Ante.At(h.Table.HandsCount + 1)
	amount := level.Ante
	if amount > p.Money {
		amount = p.Money
		p.AllIn = true
	}
	p.Money -= amount
	chips.RequireNonNegative("player.money", p.Money)
	h.Pots.AddDead(amount)
	h.Log.Append(history.AnteEvent{Serial: serial, Amount: amount})
	delete(h.pendingAntes, serial)
	return true, nil
}

func (h *Hand) allObligationsSettled() bool {
	return len(h.pendingBlinds) == 0 && len(h.pendingAntes) == 0
}

func (h *Hand) maybeOpenFirstRound() {
	if !h.allObligationsSettled() {
		return
	}
	h.sm.SetState("betting", stateBetting)
	h.openRound(0)
}

// openRound deals round i's cards and opens betting for it, unless the
// hand has already collapsed to at most one non-all-in player — in which
// case (spec.md §4.5's all-in runout) every remaining round is dealt
// without betting straight through to showdown.
func (h *Hand) openRound(i int) {
	h.RoundIndex = i
	if i > 0 {
		// bet = 0 at the start of every betting round after the first
		// (spec.md §3) — round 0's bet already carries the posted blinds,
		// which Betting.Seed below needs, so only later rounds reset here.
		for _, s := range h.liveSerials() {
			h.Table.Players[s].Bet = 0
		}
	}
	round := h.Variant.Rounds[i]
	h.dealRound(round)

	live := h.liveSerials()
	playable := 0
	for _, s := range live {
		if !h.Table.Players[s].AllIn {
			playable++
		}
	}
	if playable <= 1 && len(live) > 1 {
		if i+1 < len(h.Variant.Rounds) {
			h.openRound(i + 1)
			return
		}
		h.sm.SetState("showdown", stateShowdown)
		return
	}

	order := h.actionOrder(round)
	minRaise := h.Table.Structure.Blinds.At(h.Table.HandsCount + 1).Big
	cap := h.Table.Structure.RoundLimits[i].Cap
	h.Betting = betting.New(order, minRaise, cap)
	if i == 0 {
		for _, s := range order {
			h.Betting.Seed(s, h.Table.Players[s].Bet)
		}
	}
	h.Log.Append(history.RoundEvent{RoundName: round.Name, Board: h.Board.Cards(), SerialToHand: h.handsSnapshot()})

	if len(h.liveSerials()) <= 1 {
		h.concludeByFold()
	}
}

func (h *Hand) handsSnapshot() map[int64][]cards.Card {
	out := map[int64][]cards.Card{}
	for _, s := range h.Order {
		out[s] = h.Table.Players[s].Hand.Cards()
	}
	return out
}

func (h *Hand) potAndBets() int64 {
	total := h.Pots.GrandTotal()
	for _, s := range h.Order {
		total += h.Table.Players[s].Bet
	}
	return total
}

// dealRound deals this round's cards to every still-live player and/or the
// board, per the round's dealing template.
func (h *Hand) dealRound(round variant.RoundInfo) {
	for _, face := range round.PlayerCards {
		for _, s := range h.liveSerials() {
			p := h.Table.Players[s]
			c, ok := h.Deck.Draw()
			if !ok {
				invariantViolation("deck exhausted dealing round %q", round.Name)
			}
			vc := cards.Down(c)
			if face == variant.Up {
				vc = cards.Up(c)
			}
			p.Hand = append(p.Hand, vc)
		}
	}
	for i := 0; i < round.BoardCards; i++ {
		c, ok := h.Deck.Draw()
		if !ok {
			invariantViolation("deck exhausted dealing board for round %q", round.Name)
		}
		h.Board = append(h.Board, cards.Up(c))
	}
}

func (h *Hand) liveSerials() []int64 {
	out := make([]int64, 0, len(h.Order))
	for _, s := range h.Order {
		if !h.Table.Players[s].Folded {
			out = append(out, s)
		}
	}
	return out
}

// actionOrder computes who acts, and in what order, for this round given
// its position rule.
func (h *Hand) actionOrder(round variant.RoundInfo) []int64 {
	active := func(s seating.Seat) bool {
		serial, ok := h.Table.serialAt(s, h.Order)
		if !ok {
			return false
		}
		p := h.Table.Players[serial]
		return !p.Folded && !p.AllIn
	}

	var first seating.Seat
	switch round.PositionRule {
	case variant.UnderTheGun:
		first, _ = seating.IndexAdd(h.Table.MaxPlayers, h.BlindPlan.Big, 1, active)
	case variant.NextToDealer:
		first, _ = seating.IndexAdd(h.Table.MaxPlayers, h.Dealer, 1, active)
	case variant.Low:
		first = h.bringIn(true)
	case variant.High:
		first = h.bringIn(false)
	}

	n := h.Table.MaxPlayers
	out := make([]int64, 0, len(h.Order))
	for i := 0; i < n; i++ {
		seat := seating.Seat((int(first) + i) % n)
		if serial, ok := h.Table.serialAt(seat, h.Order); ok {
			p := h.Table.Players[serial]
			if !p.Folded {
				out = append(out, serial)
			}
		}
	}
	return out
}

// bringIn picks the seat whose exposed up-cards rank lowest (third street)
// or highest (later stud streets), approximated by each player's single
// best up-card — a simplification of full stud board comparison, which is
// not exercised by any of the engine's documented scenarios.
func (h *Hand) bringIn(low bool) seating.Seat {
	var best int64 = -1
	var bestRank cards.Rank
	for _, s := range h.liveSerials() {
		p := h.Table.Players[s]
		for _, vc := range p.Hand {
			if !vc.Visible {
				continue
			}
			if best == -1 || (low && vc.Card.Rank < bestRank) || (!low && vc.Card.Rank > bestRank) {
				best = s
				bestRank = vc.Card.Rank
			}
		}
	}
	if best == -1 {
		return h.Dealer
	}
	return h.Table.Players[best].Seat
}

func (h *Hand) concludeByFold() {
	live := h.liveSerials()
	if len(live) != 1 {
		return
	}
	winner := live[0]
	pots, sidePotIndex := h.Pots.Build(h.foldedSet(), h.allInLevels())
	var total int64
	for _, pot := range pots {
		total += pot.Amount
	}
	h.Table.Players[winner].Money += total
	h.Table.Players[winner].SidePotIndex = sidePotIndex[winner]
	h.Winners = []int64{winner}
	h.Log.Append(history.EndEvent{
		Winners:       h.Winners,
		SerialToDelta: h.deltas(),
	})
	h.sm.SetState("end", stateEnd)
}

func (h *Hand) foldedSet() map[int64]bool {
	out := map[int64]bool{}
	for _, s := range h.Order {
		out[s] = h.Table.Players[s].Folded
	}
	return out
}

func (h *Hand) allInLevels() map[int64]int64 {
	totals := h.Pots.TotalBySerial()
	out := map[int64]int64{}
	for _, s := range h.Order {
		p := h.Table.Players[s]
		if p.AllIn {
			out[s] = totals[s]
		}
	}
	return out
}

func (h *Hand) deltas() map[int64]int64 {
	out := map[int64]int64{}
	for _, s := range h.Order {
		out[s] = h.Table.Players[s].Delta()
	}
	return out
}

// ApplyAction is the entry point every call/check/fold/raise Table method
// funnels through.
func (h *Hand) ApplyAction(serial int64, action betting.Action, totalBet int64) (bool, error) {
	if h.Betting == nil {
		return precondition(false)
	}
	p := h.Table.Players[serial]
	prevBet := p.Bet
	allIn := totalBet >= p.Money+prevBet

	if turn, ok := h.Betting.Turn(); !ok || turn != serial {
		// turn-order precondition: only the player the controller is
		// waiting on may act; acting out of turn is rejected silently
		// (spec.md §7).
		return precondition(false)
	}

	if err := h.Betting.Apply(serial, action, totalBet, allIn); err != nil {
		// An action the controller refuses (a check while owing chips, a
		// raise below the minimum or past the cap) is rejected silently.
		return precondition(false)
	}

	switch action {
	case betting.Fold:
		p.Folded = true
		h.Log.Append(history.FoldEvent{Serial: serial})
	case betting.Check:
		h.Log.Append(history.CheckEvent{Serial: serial})
	case betting.Call:
		delta := totalBet - prevBet
		p.Money -= delta
		chips.RequireNonNegative("player.money", p.Money)
		p.Bet = totalBet
		h.Pots.AddBet(h.RoundIndex, serial, delta)
		h.Log.Append(history.CallEvent{Serial: serial, Amount: totalBet})
	case betting.Raise:
		delta := totalBet - prevBet
		p.Money -= delta
		chips.RequireNonNegative("player.money", p.Money)
		p.Bet = totalBet
		h.Pots.AddBet(h.RoundIndex, serial, delta)
		h.Log.Append(history.RaiseEvent{Serial: serial, Amount: totalBet})
	}
	if allIn {
		p.AllIn = true
		h.Log.Append(history.AllInEvent{Serial: serial})
	}

	if len(h.liveSerials()) <= 1 {
		h.concludeByFold()
		return true, nil
	}

	if h.Betting.Complete() {
		h.advanceAfterRound()
	}
	return true, nil
}

func (h *Hand) advanceAfterRound() {
	if serial, amount, ok := h.Pots.ReturnUncalled(h.RoundIndex, h.foldedSet()); ok {
		p := h.Table.Players[serial]
		p.Money += amount
		p.Bet -= amount
		h.Log.Append(history.CanceledEvent{Serial: serial, Amount: amount})
	}
	if h.RoundIndex+1 < len(h.Variant.Rounds) {
		h.openRound(h.RoundIndex + 1)
		return
	}
	h.sm.SetState("showdown", stateShowdown)
}
