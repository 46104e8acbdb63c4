// Command handctl drives a single table through one or more hands from the
// command line, printing the history log as each hand plays itself out.
// It exists to exercise pkg/engine directly, the way a real caller (a game
// server's RPC handler, a bot) would, without standing up any transport.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/decred/slog"

	"github.com/rivertable/pokerengine/pkg/betting"
	"github.com/rivertable/pokerengine/pkg/engine"
	"github.com/rivertable/pokerengine/pkg/structure"
	"github.com/rivertable/pokerengine/pkg/variant"
)

func main() {
	var (
		seed       int64
		hands      int
		players    int
		buyIn      int64
		debugLevel string
	)
	flag.Int64Var(&seed, "seed", 0, "deterministic RNG seed for the deck (0 = random)")
	flag.IntVar(&hands, "hands", 1, "number of hands to deal and auto-play")
	flag.IntVar(&players, "players", 6, "number of players to seat")
	flag.Int64Var(&buyIn, "buyin", 10000, "starting stack for each seated player")
	flag.StringVar(&debugLevel, "debuglevel", "info", "logging level: trace, debug, info, warn, error")
	flag.Parse()

	backend := slog.NewBackend(os.Stdout)
	log := backend.Logger("HNDC")
	lvl, ok := slog.LevelFromString(debugLevel)
	if !ok {
		fmt.Fprintf(os.Stderr, "handctl: unknown debug level %q\n", debugLevel)
		os.Exit(1)
	}
	log.SetLevel(lvl)

	table := engine.NewTable(engine.TableConfig{
		MaxPlayers: players,
		Seed:       seed,
		Log:        log,
	})
	if _, err := table.SetVariant(variant.Holdem()); err != nil {
		fmt.Fprintf(os.Stderr, "handctl: set_variant: %v\n", err)
		os.Exit(1)
	}
	if _, err := table.SetBettingStructure(structure.NoLimitHoldem(25, 50, 4)); err != nil {
		fmt.Fprintf(os.Stderr, "handctl: set_betting_structure: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < players; i++ {
		serial := int64(i + 1)
		p, reason := table.AddPlayer(serial, fmt.Sprintf("player-%d", serial), 0, false)
		if p == nil {
			fmt.Fprintf(os.Stderr, "handctl: add_player %d rejected: %s\n", serial, reason)
			os.Exit(1)
		}
		if _, err := table.PayBuyIn(serial, buyIn); err != nil {
			fmt.Fprintf(os.Stderr, "handctl: pay_buy_in %d: %v\n", serial, err)
			os.Exit(1)
		}
		if _, err := table.Sit(serial); err != nil {
			fmt.Fprintf(os.Stderr, "handctl: sit %d: %v\n", serial, err)
			os.Exit(1)
		}
		if _, err := table.AutoBlindAnte(serial, true); err != nil {
			fmt.Fprintf(os.Stderr, "handctl: auto_blind_ante %d: %v\n", serial, err)
			os.Exit(1)
		}
		if _, err := table.AutoMuck(serial, engine.AutoMuckWinOnly); err != nil {
			fmt.Fprintf(os.Stderr, "handctl: auto_muck %d: %v\n", serial, err)
			os.Exit(1)
		}
	}

	for h := 0; h < hands; h++ {
		ok, err := table.BeginHand()
		if err != nil {
			fmt.Fprintf(os.Stderr, "handctl: begin_hand: %v\n", err)
			os.Exit(1)
		}
		if !ok {
			fmt.Println("handctl: no hand dealt, fewer than two funded players remain")
			break
		}
		playAutoHand(table)

		for _, evt := range table.History() {
			fmt.Printf("%+v\n", evt)
		}
		if _, err := table.EndHand(); err != nil {
			fmt.Fprintf(os.Stderr, "handctl: end_hand: %v\n", err)
			os.Exit(1)
		}
	}
}

// playAutoHand checks every still-live player in turn until the hand reaches
// showdown or concludes by fold, demonstrating the possible_actions/check
// loop a real client would drive interactively: always take the cheapest
// legal option (check over call, never raise) so the hand runs to
// completion deterministically.
func playAutoHand(table *engine.Table) {
	for round := 0; round < 10000; round++ {
		if table.Winners() != nil {
			return
		}
		acted := false
		for serial := int64(1); serial <= 64; serial++ {
			actions := table.PossibleActions(serial)
			if len(actions) == 0 {
				continue
			}
			acted = true
			hasCheck := false
			for _, a := range actions {
				if a == betting.Check {
					hasCheck = true
				}
			}
			if hasCheck {
				table.Check(serial)
			} else {
				table.Call(serial)
			}
		}
		if !acted {
			return
		}
	}
}
