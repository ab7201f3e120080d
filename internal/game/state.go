package game

import (
	"fmt"
	"slices"

	"github.com/lox/holdem-trainer/poker"
)

// State is the complete state of one hand. Seat order in Players is fixed
// for the hand.
type State struct {
	Settings           Settings
	Players            []Player
	CommunityCards     []poker.Card
	Pot                int // Chips swept from completed rounds
	Round              Round
	HighestBet         int
	LastRaiseAmount    int // Minimum legal raise increment
	MinRaise           int // Minimum opening bet, the big blind
	LastAggressorIndex int // -1 when nobody has bet this round
	PreflopRaiseCount  int
	DealerIndex        int
	SBIndex            int
	BBIndex            int
	CurrentPlayerIndex int // -1 before the first round starts
	Deck               poker.Deck
	HandCount          int
	StartingChips      int // Sum of stacks when the hand began
}

// Status describes how far a hand has progressed
type Status int

const (
	StatusInProgress Status = iota
	StatusShowdown
	StatusHandComplete
)

func (s Status) String() string {
	switch s {
	case StatusShowdown:
		return "showdown"
	case StatusHandComplete:
		return "hand_complete"
	default:
		return "in_progress"
	}
}

// Clone returns a deep copy of the state
func (s *State) Clone() *State {
	c := *s
	c.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = p.clone()
	}
	c.CommunityCards = slices.Clone(s.CommunityCards)
	c.Deck = s.Deck.Clone()
	return &c
}

// Player returns the player with the given ID
func (s *State) Player(id string) (*Player, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return &s.Players[i], true
}

func (s *State) indexOf(id string) int {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// CurrentPlayer returns the seat to act, if any
func (s *State) CurrentPlayer() (*Player, bool) {
	if s.Round == RoundNone || s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return nil, false
	}
	return &s.Players[s.CurrentPlayerIndex], true
}

// ChipsInPlay returns pot + outstanding bets + stacks
func (s *State) ChipsInPlay() int {
	total := s.Pot
	for _, p := range s.Players {
		total += p.Bet + p.Stack
	}
	return total
}

// TotalPot returns the pot including bets not yet swept this round
func (s *State) TotalPot() int {
	total := s.Pot
	for _, p := range s.Players {
		total += p.Bet
	}
	return total
}

// ActivePlayers returns the number of players that have not folded
func (s *State) ActivePlayers() int {
	n := 0
	for _, p := range s.Players {
		if !p.IsFolded {
			n++
		}
	}
	return n
}

// IsBettingRoundComplete reports whether no further betting is needed in the
// current round: every player still able to wager has acted and their bets
// are level, or at most one player is left in the hand. A short all-in above
// their level does not by itself send them back into the round.
func (s *State) IsBettingRoundComplete() bool {
	if s.ActivePlayers() <= 1 {
		return true
	}

	var betting []*Player
	for i := range s.Players {
		if s.Players[i].CanAct() {
			betting = append(betting, &s.Players[i])
		}
	}

	if len(betting) <= 1 {
		return len(betting) == 0 || betting[0].Bet >= s.HighestBet
	}

	for _, p := range betting {
		if !p.HasActed || p.Bet != betting[0].Bet {
			return false
		}
	}
	return true
}

// IsShowdown reports whether two or more players remain and all of them are
// all-in, so no more betting is possible.
func (s *State) IsShowdown() bool {
	if s.ActivePlayers() < 2 {
		return false
	}
	for _, p := range s.Players {
		if p.CanAct() {
			return false
		}
	}
	return true
}

// IsHandComplete reports whether at most one player has not folded
func (s *State) IsHandComplete() bool {
	return s.ActivePlayers() <= 1
}

// Status returns the terminal state of the hand, if it has reached one. A
// settled river round counts as a showdown.
func (s *State) Status() Status {
	switch {
	case s.IsHandComplete():
		return StatusHandComplete
	case s.IsShowdown(), s.Round == River && s.IsBettingRoundComplete():
		return StatusShowdown
	default:
		return StatusInProgress
	}
}

// ValidActions returns the legal actions for the seat to act
func (s *State) ValidActions() []ValidAction {
	p, ok := s.CurrentPlayer()
	if !ok || !p.CanAct() {
		return nil
	}

	actions := []ValidAction{{Action: Fold}}
	toCall := s.HighestBet - p.Bet
	if toCall <= 0 {
		actions = append(actions, ValidAction{Action: Check})
	} else {
		actions = append(actions, ValidAction{Action: Call, MinAmount: min(toCall, p.Stack), MaxAmount: min(toCall, p.Stack)})
	}

	allIn := p.Stack + p.Bet
	switch {
	case s.HighestBet == 0 && p.Stack > 0:
		actions = append(actions, ValidAction{Action: Bet, MinAmount: min(s.MinRaise, p.Stack), MaxAmount: p.Stack})
	case s.HighestBet > 0 && p.Stack > toCall:
		minRaise := min(s.HighestBet+s.LastRaiseAmount, allIn)
		actions = append(actions, ValidAction{Action: Raise, MinAmount: minRaise, MaxAmount: allIn})
	}
	if p.Stack > 0 {
		actions = append(actions, ValidAction{Action: AllIn, MinAmount: allIn, MaxAmount: allIn})
	}
	return actions
}

// CheckInvariants verifies chip conservation and the per-player flags. It
// is used by tests and by the simulator after every action.
func (s *State) CheckInvariants() error {
	if got := s.ChipsInPlay(); got != s.StartingChips {
		return fmt.Errorf("%w: chip conservation violated: %d in play, %d at hand start", ErrInvalidState, got, s.StartingChips)
	}
	maxBet := 0
	for _, p := range s.Players {
		if p.Stack < 0 {
			return fmt.Errorf("%w: %s has negative stack %d", ErrInvalidState, p.ID, p.Stack)
		}
		if p.IsFolded && p.IsAllIn {
			return fmt.Errorf("%w: %s is both folded and all-in", ErrInvalidState, p.ID)
		}
		if p.Bet > p.TotalInvested {
			return fmt.Errorf("%w: %s bet %d exceeds total invested %d", ErrInvalidState, p.ID, p.Bet, p.TotalInvested)
		}
		if !p.IsFolded {
			maxBet = max(maxBet, p.Bet)
		}
	}
	if maxBet > s.HighestBet {
		return fmt.Errorf("%w: highest bet %d below outstanding bet %d", ErrInvalidState, s.HighestBet, maxBet)
	}
	return nil
}
