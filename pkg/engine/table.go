package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/samber/lo"

	"github.com/rivertable/pokerengine/pkg/betting"
	"github.com/rivertable/pokerengine/pkg/blinds"
	"github.com/rivertable/pokerengine/pkg/cards"
	"github.com/rivertable/pokerengine/pkg/evaluator"
	"github.com/rivertable/pokerengine/pkg/history"
	"github.com/rivertable/pokerengine/pkg/potbuilder"
	"github.com/rivertable/pokerengine/pkg/prizeladder"
	"github.com/rivertable/pokerengine/pkg/rake"
	"github.com/rivertable/pokerengine/pkg/seating"
	"github.com/rivertable/pokerengine/pkg/structure"
	"github.com/rivertable/pokerengine/pkg/variant"
)

// RejectReason names why add_player refused to seat a player (spec.md §6).
type RejectReason int

const (
	RejectNone RejectReason = iota
	RejectClosed
	RejectNoSeat
	RejectDuplicateSeat
	RejectInvalidSeat
	RejectAlreadyAdded
)

func (r RejectReason) String() string {
	switch r {
	case RejectClosed:
		return "Closed"
	case RejectNoSeat:
		return "NoSeat"
	case RejectDuplicateSeat:
		return "DuplicateSeat"
	case RejectInvalidSeat:
		return "InvalidSeat"
	case RejectAlreadyAdded:
		return "AlreadyAdded"
	default:
		return "None"
	}
}

// TableConfig seeds a new Table's collaborators. Every field but MaxPlayers
// has a sensible default (spec.md §1's external-collaborator list: rake,
// evaluator, prize ladder, shuffler source) so callers can build a working
// table with only a seat count.
type TableConfig struct {
	MaxPlayers int
	Seed       int64 // 0 means seed from the wall clock, as pkg/poker/game.go's NewGame does
	Rake       rake.RakeFunc
	Evaluator  evaluator.Evaluator
	LowEval    evaluator.LowEvaluator
	Ladder     prizeladder.Func
	Log        slog.Logger
}

// Table is the external operation surface (spec.md §6) every caller drives:
// seat and buy-in management, variant/structure configuration, and the
// begin_hand/action/end_hand lifecycle. It mirrors pkg/poker/table.go's
// shape — a mutex-guarded struct of config plus a single active hand —
// generalized from one hard-coded hold'em game to the full variant- and
// obligation-driven operation set.
type Table struct {
	mu sync.Mutex

	MaxPlayers int
	Dealer     seating.Seat
	Level      int
	HandsCount int

	Variant   variant.Descriptor
	Structure structure.Descriptor

	variantSet   bool
	structureSet bool

	Players     map[int64]*Player
	removeQueue map[int64]bool

	Rake         rake.RakeFunc
	Evaluator    evaluator.Evaluator
	LowEvaluator evaluator.LowEvaluator
	PrizeLadder  prizeladder.Func

	// NewDeck is the injected shuffler (spec.md §1: "the core consumes a
	// deck iterator from an externally injected shuffler"). Tests override
	// it to return a *cards.FixedDeck; production callers leave the
	// rng-backed default in place.
	NewDeck func() cards.Deck

	rng *rand.Rand
	log slog.Logger

	handSerial int64
	current    *Hand // in-progress or most recently ended hand; nil before the first begin_hand
}

// NewTable constructs a table seeded with working defaults for every
// external collaborator spec.md §1 names out of scope for the core itself.
func NewTable(cfg TableConfig) *Table {
	if cfg.MaxPlayers <= 0 {
		panic("engine: NewTable requires a positive MaxPlayers")
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	t := &Table{
		MaxPlayers:   cfg.MaxPlayers,
		Players:      make(map[int64]*Player, cfg.MaxPlayers),
		removeQueue:  map[int64]bool{},
		Rake:         cfg.Rake,
		Evaluator:    cfg.Evaluator,
		LowEvaluator: cfg.LowEval,
		PrizeLadder:  cfg.Ladder,
		rng:          rng,
		log:          cfg.Log,
	}
	if t.Rake == nil {
		t.Rake = rake.None()
	}
	if t.Evaluator == nil {
		t.Evaluator = evaluator.NewDefault()
	}
	if t.LowEvaluator == nil {
		t.LowEvaluator = evaluator.NewLow8()
	}
	if t.PrizeLadder == nil {
		t.PrizeLadder = prizeladder.WinnerTakeAll()
	}
	if t.log == nil {
		t.log = slog.Disabled
	}
	t.NewDeck = func() cards.Deck { return cards.NewRandomDeck(t.rng) }
	return t
}

// running reports whether a hand is currently in progress (configuration
// operations are only legal when it is not, spec.md §6).
func (t *Table) running() bool {
	return t.current != nil && !t.current.Ended
}

// --- configuration (spec.md §6, "allowed only when not running") ---

func (t *Table) SetVariant(d variant.Descriptor) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running() {
		return precondition(false)
	}
	if err := d.Validate(); err != nil {
		return false, configErrorf("%v", err)
	}
	t.Variant = d
	t.variantSet = true
	return true, nil
}

func (t *Table) SetBettingStructure(d structure.Descriptor) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running() {
		return precondition(false)
	}
	if err := d.Validate(); err != nil {
		return false, configErrorf("%v", err)
	}
	t.Structure = d
	t.structureSet = true
	return true, nil
}

func (t *Table) SetMaxPlayers(n int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running() || n <= 0 || n < len(t.Players) {
		return precondition(false)
	}
	t.MaxPlayers = n
	return true, nil
}

// SetSeats reassigns seats wholesale from a serial->seat map; every serial
// must already be a known player and every seat distinct and in range.
func (t *Table) SetSeats(seatOf map[int64]seating.Seat) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running() {
		return precondition(false)
	}
	seen := map[seating.Seat]bool{}
	for serial, seat := range seatOf {
		if _, ok := t.Players[serial]; !ok {
			return precondition(false)
		}
		if seat < 0 || int(seat) >= t.MaxPlayers || seen[seat] {
			return precondition(false)
		}
		seen[seat] = true
	}
	for serial, seat := range seatOf {
		t.Players[serial].Seat = seat
	}
	return true, nil
}

func (t *Table) SetDealer(seat seating.Seat) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running() || seat < 0 || int(seat) >= t.MaxPlayers {
		return precondition(false)
	}
	t.Dealer = seat
	return true, nil
}

// --- seating & buy-in (spec.md §6) ---

func (t *Table) occupiedSeats() map[seating.Seat]bool {
	out := make(map[seating.Seat]bool, len(t.Players))
	for _, p := range t.Players {
		out[p.Seat] = true
	}
	return out
}

// AddPlayer seats a new player, auto-assigning the fairest open seat via
// seating.BestSeat when the caller doesn't name one.
func (t *Table) AddPlayer(serial int64, name string, seat seating.Seat, hasSeat bool) (*Player, RejectReason) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.Players[serial]; ok {
		return nil, RejectAlreadyAdded
	}
	if len(t.Players) >= t.MaxPlayers {
		return nil, RejectClosed
	}

	occupied := t.occupiedSeats()
	if hasSeat {
		if seat < 0 || int(seat) >= t.MaxPlayers {
			return nil, RejectInvalidSeat
		}
		if occupied[seat] {
			return nil, RejectDuplicateSeat
		}
	} else {
		s, ok := seating.BestSeat(t.MaxPlayers, occupied, t.Dealer)
		if !ok {
			return nil, RejectNoSeat
		}
		seat = s
	}

	p := NewPlayer(serial, name, seat)
	t.Players[serial] = p
	t.log.Debugf("engine: seated serial=%d name=%q seat=%d", serial, name, seat)
	return p, RejectNone
}

// RemovePlayer queues the player for removal at end_hand; if no hand is
// running, it takes effect immediately.
func (t *Table) RemovePlayer(serial int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.Players[serial]; !ok {
		return false
	}
	if t.running() {
		t.removeQueue[serial] = true
		return true
	}
	delete(t.Players, serial)
	return true
}

func (t *Table) PayBuyIn(serial int64, amount int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.Players[serial]
	if !ok {
		return precondition(false)
	}
	if amount < t.Structure.BuyInMin || (t.Structure.BuyInMax > 0 && amount > t.Structure.BuyInMax) {
		return precondition(false)
	}
	p.Money += amount
	p.BuyInPaid = true
	return true, nil
}

func (t *Table) Sit(serial int64) (bool, error) {
	return t.setSitState(serial, SitIn)
}

func (t *Table) SitOut(serial int64) (bool, error) {
	return t.setSitState(serial, SitOut)
}

func (t *Table) setSitState(serial int64, state SitState) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.Players[serial]
	if !ok {
		return precondition(false)
	}
	p.SitState = state
	return true, nil
}

// SitOutNextTurn marks the player to be sat out once the current hand ends,
// without disturbing their participation in the hand already under way.
func (t *Table) SitOutNextTurn(serial int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.Players[serial]
	if !ok {
		return precondition(false)
	}
	p.RemoveNextTurn = true
	return true, nil
}

// ComeBack clears a wait-for-blind hold, allowing the player back in on the
// very next hand the rotation makes eligible.
func (t *Table) ComeBack(serial int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.Players[serial]
	if !ok {
		return precondition(false)
	}
	p.SitState = SitIn
	p.WaitRule = blinds.WaitNone
	return true, nil
}

func (t *Table) AutoPlayer(serial int64) (bool, error)        { return t.setAuto(serial, true) }
func (t *Table) BotPlayer(serial int64) (bool, error)         { return t.setAuto(serial, true) }
func (t *Table) InteractivePlayer(serial int64) (bool, error) { return t.setAuto(serial, false) }

func (t *Table) setAuto(serial int64, auto bool) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.Players[serial]
	if !ok {
		return precondition(false)
	}
	p.AutoPlay = auto
	return true, nil
}

func (t *Table) AutoBlindAnte(serial int64, enabled bool) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.Players[serial]
	if !ok {
		return precondition(false)
	}
	p.AutoBlindAnte = enabled
	return true, nil
}

// AutoMuck sets serial's showdown auto-muck policy (spec.md §6's
// auto_muck(serial, policy)).
func (t *Table) AutoMuck(serial int64, policy AutoMuckPolicy) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.Players[serial]
	if !ok {
		return precondition(false)
	}
	p.AutoMuckPolicy = policy
	return true, nil
}

func (t *Table) Rebuy(serial int64, amount int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.Players[serial]
	if !ok || amount <= 0 {
		return precondition(false)
	}
	if t.running() {
		p.RebuyPending += amount
		return true, nil
	}
	p.Money += amount
	return true, nil
}

// --- hand lifecycle (spec.md §6, §4.9) ---

// nextHandSerial hands out the next hand serial (pkg/engine.Hand.ID's
// numeric counterpart, used for the game event and for log correlation).
func (t *Table) nextHandSerial() int64 {
	t.handSerial++
	return t.handSerial
}

func (t *Table) newDeck() cards.Deck { return t.NewDeck() }

// serialAt finds which participant of order (if any) occupies seat.
func (t *Table) serialAt(seat seating.Seat, order []int64) (int64, bool) {
	for _, s := range order {
		if p, ok := t.Players[s]; ok && p.Seat == seat {
			return s, true
		}
	}
	return 0, false
}

// applyRebuys folds in any rebuy queued mid-hand (spec.md §6's rebuy,
// applied once the hand it was queued during ends).
func (t *Table) applyRebuys() {
	for _, p := range t.Players {
		if p.RebuyPending > 0 {
			p.Money += p.RebuyPending
			t.current.Log.Append(history.RebuyEvent{Serial: p.Serial, Amount: p.RebuyPending})
			p.RebuyPending = 0
		}
	}
}

// advanceDealer moves the button to the next occupied seat.
func (t *Table) advanceDealer() {
	occupied := t.occupiedSeats()
	if next, ok := seating.IndexAdd(t.MaxPlayers, t.Dealer, 1, func(s seating.Seat) bool { return occupied[s] }); ok {
		t.Dealer = next
	}
}

// BeginHand deals a new hand in, computing the blind plan (spec.md §4.2)
// over every seated, funded player, then excluding anyone a wait-for-blind
// hold still applies to (spec.md §9's open question on wait_for_big: this
// implementation resolves it by computing the rotation once over every
// seated player to find the would-be dealer/big-blind seats, deciding
// eligibility against those seats, and then rebuilding the final plan over
// only the eligible subset — so a held-out player never shifts who the
// eligible players' blinds land on).
func (t *Table) BeginHand() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running() || !t.variantSet || !t.structureSet {
		return precondition(false)
	}

	dealt := lo.Filter(lo.Values(t.Players), func(p *Player, _ int) bool { return p.IsDealtIn() })
	if len(dealt) < 2 {
		return precondition(false)
	}

	seatOf := make(map[int64]seating.Seat, len(dealt))
	missed := make(map[int64]blinds.MissedBlind, len(dealt))
	for _, p := range dealt {
		seatOf[p.Serial] = p.Seat
		missed[p.Serial] = p.MissedBlind
	}
	smallBlind := t.Structure.Blinds.At(t.HandsCount + 1).Small

	prelim := blinds.Build(t.MaxPlayers, t.Dealer, seatOf, smallBlind, missed)

	participants := make(map[int64]bool, len(dealt))
	for _, p := range dealt {
		if blinds.Eligible(p.WaitRule, p.Seat, prelim.Dealer, prelim.Big, t.MaxPlayers) {
			participants[p.Serial] = true
			continue
		}
		switch prelim.Obligations[p.Serial] {
		case blinds.PostSmall:
			p.MissedBlind.Small = true
		case blinds.PostBig, blinds.PostBigAndDead:
			p.MissedBlind.Big = true
		}
	}
	if len(participants) < 2 {
		return precondition(false)
	}

	finalSeatOf := make(map[int64]seating.Seat, len(participants))
	finalMissed := make(map[int64]blinds.MissedBlind, len(participants))
	order := make([]int64, 0, len(participants))
	for serial := range participants {
		finalSeatOf[serial] = seatOf[serial]
		finalMissed[serial] = missed[serial]
		order = append(order, serial)
	}
	plan := blinds.Build(t.MaxPlayers, t.Dealer, finalSeatOf, smallBlind, finalMissed)
	for _, serial := range order {
		t.Players[serial].Blind = plan.Obligations[serial]
		t.Players[serial].MissedBlind = blinds.MissedBlind{}
	}

	h, err := newHand(t, plan, order)
	if err != nil {
		return false, err
	}
	t.current = h
	t.log.Debugf("engine: begin_hand serial=%d dealer=%d players=%v", h.Serial, h.Dealer, order)
	return true, nil
}

// EndHand closes out the hand in progress: removes anyone queued for
// removal, sits out anyone who asked to, applies pending rebuys, advances
// the dealer, and bumps the hand counter for the blind/ante schedule.
func (t *Table) EndHand() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil || !t.current.Ended {
		return precondition(false)
	}

	t.applyRebuys()
	var released []int
	for serial := range t.removeQueue {
		if p, ok := t.Players[serial]; ok {
			released = append(released, int(p.Seat))
			delete(t.Players, serial)
		}
	}
	t.removeQueue = map[int64]bool{}
	if len(released) > 0 {
		t.current.Log.Append(history.LeaveEvent{SeatsReleased: released})
	}
	for _, p := range t.Players {
		if p.RemoveNextTurn {
			p.SitState = SitOut
			p.RemoveNextTurn = false
			t.current.Log.Append(history.SitOutEvent{Serial: p.Serial})
		}
	}

	t.HandsCount++
	t.advanceDealer()
	t.log.Debugf("engine: end_hand serial=%d hands_count=%d", t.current.Serial, t.HandsCount)
	return true, nil
}

// --- in-hand actions (spec.md §6) ---

func (t *Table) Blind(serial int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil || t.current.Ended {
		return precondition(false)
	}
	return t.current.postBlind(serial)
}

func (t *Table) Ante(serial int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil || t.current.Ended {
		return precondition(false)
	}
	return t.current.postAnte(serial)
}

func (t *Table) Call(serial int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, err := t.liveHand()
	if err != nil {
		return precondition(false)
	}
	p, ok := t.Players[serial]
	if !ok {
		return precondition(false)
	}
	// A stack shorter than the amount due calls all-in for whatever is
	// left, rather than the full highest bet (spec.md §4.5's short-stack
	// call case).
	total := h.Betting.HighestBet
	if max := p.Bet + p.Money; max < total {
		total = max
	}
	return h.ApplyAction(serial, betting.Call, total)
}

func (t *Table) Check(serial int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, err := t.liveHand()
	if err != nil {
		return precondition(false)
	}
	p, ok := t.Players[serial]
	if !ok {
		return precondition(false)
	}
	return h.ApplyAction(serial, betting.Check, p.Bet)
}

func (t *Table) Fold(serial int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, err := t.liveHand()
	if err != nil {
		return precondition(false)
	}
	return h.ApplyAction(serial, betting.Fold, 0)
}

func (t *Table) CallNRaise(serial int64, targetTotalBet int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, err := t.liveHand()
	if err != nil {
		return precondition(false)
	}
	return h.ApplyAction(serial, betting.Raise, targetTotalBet)
}

// Muck settles the showdown decision of a player the hand is waiting on:
// reveal=false mucks their cards, reveal=true shows them. Either answer
// clears the pending decision, and the showdown runs once none remain.
func (t *Table) Muck(serial int64, reveal bool) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return precondition(false)
	}
	if reveal {
		return t.current.reveal(serial)
	}
	return t.current.muck(serial)
}

func (t *Table) liveHand() (*Hand, error) {
	if t.current == nil || t.current.Ended || t.current.Betting == nil {
		return nil, fmt.Errorf("engine: no betting round in progress")
	}
	return t.current, nil
}

// --- queries (spec.md §6) ---

// PossibleActions returns fold, then check or call (whichever matches
// serial's bet against the highest bet), then raise while the round's raise
// cap allows one. It does not check whether it is serial's turn, nor whether
// a short all-in raise has left serial unable to raise; the action methods
// reject such actions with (false, nil).
func (t *Table) PossibleActions(serial int64) []betting.Action {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, err := t.liveHand()
	if err != nil {
		return nil
	}
	ps, ok := h.Betting.Get(serial)
	if !ok || ps.Folded || ps.AllIn {
		return nil
	}
	out := []betting.Action{betting.Fold}
	if ps.Bet == h.Betting.HighestBet {
		out = append(out, betting.Check)
	} else {
		out = append(out, betting.Call)
	}
	if h.Betting.CanRaise() {
		out = append(out, betting.Raise)
	}
	return out
}

// BetLimits returns the (min, max, call_amount) triple for serial's next
// raise (spec.md §6), resolved against the current round's limit
// descriptor, the table's big blind, and pot-plus-bets.
func (t *Table) BetLimits(serial int64) (min int64, max int64, call int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, err := t.liveHand()
	if err != nil {
		return 0, 0, 0
	}
	call, _ = h.Betting.CallAmount(serial)
	bigBlind := t.Structure.Blinds.At(t.HandsCount + 1).Big
	limit := t.Structure.RoundLimits[h.RoundIndex]
	min, max = limit.Resolve(bigBlind, h.potAndBets(), h.Betting.HighestBet, t.Level)
	return min, max, call
}

func (t *Table) Pots() ([]potbuilder.Pot, map[int64]int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return nil, nil
	}
	return t.current.Pots.Build(t.current.foldedSet(), t.current.allInLevels())
}

// Phase reports the hand in progress's current lifecycle phase — one of
// "awaiting_blinds", "betting", "showdown", "end" — and false if no hand has
// ever begun.
func (t *Table) Phase() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return "", false
	}
	return t.current.sm.CurrentPhase(), true
}

func (t *Table) Winners() []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return nil
	}
	return t.current.Winners
}

func (t *Table) ShowdownStack() []history.SidePotStage {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return nil
	}
	for _, e := range t.current.Log.Events() {
		if se, ok := e.(history.ShowdownStackEvent); ok {
			return se.Stack
		}
	}
	return nil
}

func (t *Table) History() []history.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return nil
	}
	return history.Reduce(t.current.Log.Events())
}
