package game

import (
	"fmt"
	"slices"

	"github.com/lox/holdem-trainer/internal/position"
	"github.com/lox/holdem-trainer/poker"
)

// Player represents a seat in a hand
type Player struct {
	ID            string        `json:"id"`
	Role          position.Role `json:"role"`
	Stack         int           `json:"stack"`
	Bet           int           `json:"bet"`           // Chips committed in the current round
	TotalInvested int           `json:"totalInvested"` // Chips committed in the whole hand
	HoleCards     []poker.Card  `json:"holeCards"`
	IsFolded      bool          `json:"isFolded"`
	IsAllIn       bool          `json:"isAllIn"`
	HasActed      bool          `json:"hasActed"`
}

// PlayerID returns the identifier of the seat, "P1" for seat 0
func PlayerID(seat int) string {
	return fmt.Sprintf("P%d", seat+1)
}

// CanAct returns true if the player can still wager this hand
func (p *Player) CanAct() bool {
	return !p.IsFolded && !p.IsAllIn
}

// commit moves chips from the stack into the current bet
func (p *Player) commit(chips int) {
	chips = min(chips, p.Stack)
	p.Stack -= chips
	p.Bet += chips
	p.TotalInvested += chips
	if p.Stack == 0 {
		p.IsAllIn = true
	}
}

func (p Player) clone() Player {
	p.HoleCards = slices.Clone(p.HoleCards)
	return p
}
