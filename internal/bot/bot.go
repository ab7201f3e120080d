// Package bot contains the decision policies that play the seats of a
// simulated hand.
package bot

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-trainer/internal/game"
)

// Decision is the action a policy chose for the current seat
type Decision struct {
	Action game.Action
	Amount int
}

func (d Decision) String() string {
	if d.Amount > 0 {
		return fmt.Sprintf("%s %d", d.Action, d.Amount)
	}
	return d.Action.String()
}

// Policy chooses an action for playerID. reviewed holds the players whose
// decisions are being compared against strategy advice.
type Policy interface {
	Decide(snap game.Snapshot, playerID string, reviewed map[string]bool) (Decision, error)
}

// PotType steers how far pre-flop raising is pushed
type PotType string

const (
	Unrestricted PotType = "unrestricted"
	SingleRaised PotType = "single_raised"
	ThreeBet     PotType = "3bet"
	FourBet      PotType = "4bet"
)

// ParsePotType parses a pot type name
func ParsePotType(s string) (PotType, error) {
	switch p := PotType(strings.ToLower(strings.TrimSpace(s))); p {
	case Unrestricted, SingleRaised, ThreeBet, FourBet:
		return p, nil
	case "":
		return SingleRaised, nil
	default:
		return "", fmt.Errorf("unknown pot type %q", s)
	}
}

// requiredRaises is the number of pre-flop raises a pot type forces
func (p PotType) requiredRaises() int {
	switch p {
	case SingleRaised:
		return 1
	case ThreeBet:
		return 2
	case FourBet:
		return 3
	}
	return 0
}

// raiseCap is the pre-flop raise count after which raising stops, or -1
func (p PotType) raiseCap() int {
	switch p {
	case SingleRaised:
		return 1
	case ThreeBet:
		return 2
	}
	return -1
}
