package game

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-trainer/poker"
)

// Engine is the stateful front of the rules: it holds the current hand and
// the random source, and applies each operation as a State transition.
type Engine struct {
	state     *State
	rng       poker.RNG
	logger    *log.Logger
	handCount int
}

// NewEngine creates an engine. The rng is used for stacks, the dealer seat
// and shuffling.
func NewEngine(rng poker.RNG, logger *log.Logger) *Engine {
	if rng == nil {
		panic("rng is required for engine creation")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		rng:    rng,
		logger: logger.WithPrefix("engine"),
	}
}

// Reset discards the current hand and seats a new one
func (e *Engine) Reset(settings Settings, opts ...HandOption) error {
	opts = append([]HandOption{WithHandCount(e.handCount + 1), WithLogger(e.logger)}, opts...)
	st, err := NewHand(settings, e.rng, opts...)
	if err != nil {
		return err
	}
	e.handCount++
	e.state = st
	e.logger.Debug("New hand",
		"hand", st.HandCount,
		"players", len(st.Players),
		"dealer", PlayerID(st.DealerIndex),
		"blinds", fmt.Sprintf("%d/%d", st.Settings.SmallBlind, st.Settings.BigBlind))
	return nil
}

// DealHoleCards shuffles a fresh deck and deals two cards to every player
func (e *Engine) DealHoleCards() error {
	return e.apply(DealHole{RNG: e.rng})
}

// DealFlop burns one card and deals three community cards
func (e *Engine) DealFlop() error {
	if err := e.apply(DealFlopCards{}); err != nil {
		return err
	}
	e.logger.Debug("Dealt flop", "flop", poker.FormatCards(e.state.CommunityCards))
	return nil
}

// DealTurnOrRiver burns one card and deals the next community card
func (e *Engine) DealTurnOrRiver() error {
	if err := e.apply(DealStreet{}); err != nil {
		return err
	}
	e.logger.Debug("Dealt street", "board", poker.FormatCards(e.state.CommunityCards))
	return nil
}

// StartNewRound sweeps bets into the pot and starts the given round
func (e *Engine) StartNewRound(r Round) error {
	if err := e.apply(StartRound{Round: r}); err != nil {
		return err
	}
	e.logger.Debug("Round started",
		"round", r,
		"pot", e.state.Pot,
		"first", e.state.currentID())
	return nil
}

// ExecuteAction applies an action for the player. Amount is the target total
// bet for Bet and Raise.
func (e *Engine) ExecuteAction(playerID string, action Action, amount int) error {
	if err := e.apply(Act{PlayerID: playerID, Action: action, Amount: amount}); err != nil {
		e.logger.Debug("Rejected action", "player", playerID, "action", action, "amount", amount, "error", err)
		return err
	}
	p, _ := e.state.Player(playerID)
	e.logger.Debug("Player action",
		"player", playerID,
		"action", action,
		"bet", p.Bet,
		"stack", p.Stack)
	return nil
}

// MoveToNextPlayer advances the turn past folded and all-in seats
func (e *Engine) MoveToNextPlayer() {
	if e.state == nil {
		return
	}
	e.state.moveToNextPlayer()
}

// IsBettingRoundComplete reports whether the current round needs no more action
func (e *Engine) IsBettingRoundComplete() bool {
	return e.state != nil && e.state.IsBettingRoundComplete()
}

// IsShowdown reports whether every remaining player is all-in
func (e *Engine) IsShowdown() bool {
	return e.state != nil && e.state.IsShowdown()
}

// IsHandComplete reports whether at most one player has not folded
func (e *Engine) IsHandComplete() bool {
	return e.state != nil && e.state.IsHandComplete()
}

// CurrentPlayer returns a copy of the seat to act
func (e *Engine) CurrentPlayer() (Player, bool) {
	if e.state == nil {
		return Player{}, false
	}
	p, ok := e.state.CurrentPlayer()
	if !ok {
		return Player{}, false
	}
	return p.clone(), true
}

// ValidActions returns the legal actions for the seat to act
func (e *Engine) ValidActions() []ValidAction {
	if e.state == nil {
		return nil
	}
	return e.state.ValidActions()
}

// GameState returns a snapshot of the hand
func (e *Engine) GameState() Snapshot {
	if e.state == nil {
		return Snapshot{CurrentPlayerIndex: -1, LastAggressorIndex: -1}
	}
	return e.state.Snapshot()
}

// LoadState replaces the current hand with the snapshot
func (e *Engine) LoadState(snap Snapshot) error {
	st, err := Restore(snap)
	if err != nil {
		return err
	}
	e.state = st
	e.handCount = max(e.handCount, st.HandCount)
	return nil
}

// State returns a copy of the current hand state, or nil before Reset
func (e *Engine) State() *State {
	if e.state == nil {
		return nil
	}
	return e.state.Clone()
}

func (e *Engine) apply(cmd Command) error {
	if e.state == nil {
		return fmt.Errorf("%w: no hand in progress", ErrInvalidState)
	}
	next, err := Apply(e.state, cmd)
	if err != nil {
		return err
	}
	e.state = next
	return nil
}
