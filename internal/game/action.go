package game

import (
	"fmt"
	"strings"
)

// Round represents the betting round
type Round int

const (
	RoundNone Round = iota
	Preflop
	Flop
	Turn
	River
)

var roundNames = [...]string{"", "preflop", "flop", "turn", "river"}

func (r Round) String() string {
	if r < RoundNone || int(r) >= len(roundNames) {
		return fmt.Sprintf("Round(%d)", int(r))
	}
	return roundNames[r]
}

// Valid reports whether r is one of the four betting rounds
func (r Round) Valid() bool {
	return r >= Preflop && r <= River
}

// Next returns the round that follows r, or RoundNone after the river
func (r Round) Next() Round {
	if r >= River || r < RoundNone {
		return RoundNone
	}
	return r + 1
}

// ParseRound parses a round name such as "flop" (case-insensitive)
func ParseRound(s string) (Round, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range roundNames {
		if i > 0 && name == s {
			return Round(i), nil
		}
	}
	return RoundNone, fmt.Errorf("%w: %q", ErrInvalidRound, s)
}

func (r Round) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Round) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = RoundNone
		return nil
	}
	round, err := ParseRound(string(text))
	if err != nil {
		return err
	}
	*r = round
	return nil
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

var actionNames = [...]string{"fold", "check", "call", "bet", "raise", "allin"}

func (a Action) String() string {
	if a < Fold || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction parses an action name. Upper and lower case are accepted, as
// are the "all-in" and "all_in" spellings.
func ParseAction(s string) (Action, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "", " ", "").Replace(norm)
	for i, name := range actionNames {
		if name == norm {
			return Action(i), nil
		}
	}
	return Fold, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

func (a Action) MarshalText() ([]byte, error) {
	if a < Fold || int(a) >= len(actionNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, int(a))
	}
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	action, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = action
	return nil
}

// ValidAction describes one legal action for the seat to act. For Bet, Raise
// and AllIn the amounts are target total bets for the round; for Call
// MinAmount is the chips needed to call.
type ValidAction struct {
	Action    Action `json:"action"`
	MinAmount int    `json:"minAmount,omitempty"`
	MaxAmount int    `json:"maxAmount,omitempty"`
}
