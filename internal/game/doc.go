// Package game implements the betting rules of a single No-Limit Texas
// Hold'em hand.
//
// The hand is held in a State value. Every rule is a transition applied with
// Apply, which runs the command against a copy and returns the new state, so
// a rejected command never leaves a half-applied change behind:
//
//	st, err := game.NewHand(game.DefaultSettings(), randutil.New(42))
//	st, err = game.Apply(st, game.DealHole{RNG: rng})
//	st, err = game.Apply(st, game.StartRound{Round: game.Preflop})
//	st, err = game.Apply(st, game.Act{PlayerID: "P3", Action: game.Call})
//
// # Engine
//
// Engine wraps the same transitions behind the stateful operations an
// orchestrator expects (Reset, DealHoleCards, StartNewRound, ExecuteAction,
// MoveToNextPlayer and friends). It owns the random source used for stacks,
// the dealer seat and shuffling:
//
//	e := game.NewEngine(randutil.New(42), logger)
//	if err := e.Reset(settings); err != nil {
//	    return err
//	}
//
// # Deterministic Testing
//
// Pass a seeded generator from randutil and fix the table with hand options:
//
//	e.Reset(settings, game.WithDealer(0), game.WithStacks([]int{1000, 1000}))
//
// Preset hole and community cards in Settings.Presets remove the named cards
// from the deck before shuffling and are dealt in place of random cards.
//
// # Limitations
//
// A hand keeps a single pot. When players are all-in for different amounts
// no side pots are formed; distributing the pot is left to the caller.
//
// The engine is not safe for concurrent use. Hand a copy to another goroutine
// with GameState and LoadState.
package game
