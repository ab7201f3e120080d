package game

import (
	"errors"

	"github.com/lox/holdem-trainer/poker"
)

// Command is a transition of the hand state. The set of commands is closed.
type Command interface {
	apply(s *State) error
}

// StartRound begins a betting round
type StartRound struct {
	Round Round
}

// Act executes a player action. Amount is the target total bet for Bet and
// Raise and is ignored otherwise.
type Act struct {
	PlayerID string
	Action   Action
	Amount   int
}

// Advance moves the turn to the next seat that can still wager
type Advance struct{}

// DealHole shuffles a fresh deck with RNG and deals the hole cards
type DealHole struct {
	RNG poker.RNG
}

// DealFlopCards deals the flop
type DealFlopCards struct{}

// DealStreet deals the turn, or the river once the turn is out
type DealStreet struct{}

func (c StartRound) apply(s *State) error { return s.startNewRound(c.Round) }

func (c Act) apply(s *State) error { return s.executeAction(c.PlayerID, c.Action, c.Amount) }

func (Advance) apply(s *State) error {
	s.moveToNextPlayer()
	return nil
}

func (c DealHole) apply(s *State) error {
	if c.RNG == nil {
		return errors.New("deal hole cards: rng is required")
	}
	return s.dealHoleCards(c.RNG)
}

func (DealFlopCards) apply(s *State) error { return s.dealFlop() }

func (DealStreet) apply(s *State) error { return s.dealTurnOrRiver() }

// Apply runs cmd against a copy of s and returns the new state. On error the
// returned state is nil and s is untouched.
func Apply(s *State, cmd Command) (*State, error) {
	if s == nil {
		return nil, ErrInvalidState
	}
	next := s.Clone()
	if err := cmd.apply(next); err != nil {
		return nil, err
	}
	return next, nil
}
