package game

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-trainer/internal/position"
	"github.com/lox/holdem-trainer/poker"
)

// Settings is the table configuration a hand is started with. It is stored
// in the hand state and never changes while the hand is played.
type Settings struct {
	PlayerCount int     `json:"playerCount"`
	SmallBlind  int     `json:"smallBlind"`
	BigBlind    int     `json:"bigBlind"`
	MinStack    int     `json:"minStack"`
	MaxStack    int     `json:"maxStack"`
	P1Role      string  `json:"p1Role"` // Role name for seat P1, or "random"
	Presets     Presets `json:"presets"`
}

// Presets are forced cards for building deterministic scenarios. Hands are
// keyed by player ID.
type Presets struct {
	UseHands     bool                    `json:"useHands"`
	UseCommunity bool                    `json:"useCommunity"`
	Hands        map[string][]poker.Card `json:"hands,omitempty"`
	Flop         []poker.Card            `json:"flop,omitempty"`
	Turn         []poker.Card            `json:"turn,omitempty"`
	River        []poker.Card            `json:"river,omitempty"`
}

// DefaultSettings returns an eight-handed 10/20 table with stacks between
// 1000 and 2000 and a random seat for P1.
func DefaultSettings() Settings {
	return Settings{
		PlayerCount: 8,
		SmallBlind:  10,
		BigBlind:    20,
		MinStack:    1000,
		MaxStack:    2000,
		P1Role:      position.Random,
	}
}

// Normalized returns the settings with the stack range in ascending order
func (s Settings) Normalized() Settings {
	if s.MinStack > s.MaxStack {
		s.MinStack, s.MaxStack = s.MaxStack, s.MinStack
	}
	return s
}

// Validate checks the table size, blinds, stack range and any enabled presets
func (s Settings) Validate() error {
	if s.PlayerCount < position.MinPlayers || s.PlayerCount > position.MaxPlayers {
		return fmt.Errorf("%w: player count must be between %d and %d, got %d",
			ErrConfiguration, position.MinPlayers, position.MaxPlayers, s.PlayerCount)
	}
	if s.BigBlind <= 0 {
		return fmt.Errorf("%w: big blind must be positive, got %d", ErrConfiguration, s.BigBlind)
	}
	if s.SmallBlind <= 0 || s.SmallBlind > s.BigBlind {
		return fmt.Errorf("%w: small blind must be between 1 and the big blind, got %d", ErrConfiguration, s.SmallBlind)
	}
	if s.MinStack <= 0 || s.MaxStack <= 0 {
		return fmt.Errorf("%w: stack range must be positive, got [%d, %d]", ErrConfiguration, s.MinStack, s.MaxStack)
	}
	return s.Presets.validate(s.PlayerCount)
}

// validate checks that every enabled preset is complete and that no card is
// named twice.
func (p Presets) validate(playerCount int) error {
	seen := make(map[poker.Card]string)
	claim := func(owner string, cards []poker.Card, want int) error {
		if len(cards) != want {
			return fmt.Errorf("%w: preset %s needs %d cards, got %d", ErrConfiguration, owner, want, len(cards))
		}
		for _, c := range cards {
			if !c.IsValid() {
				return fmt.Errorf("%w: preset %s has an unset card", ErrConfiguration, owner)
			}
			if prev, dup := seen[c]; dup {
				return fmt.Errorf("%w: card %s is preset for both %s and %s", ErrConfiguration, c, prev, owner)
			}
			seen[c] = owner
		}
		return nil
	}

	if p.UseHands {
		for seat := range playerCount {
			id := PlayerID(seat)
			if err := claim(id, p.Hands[id], 2); err != nil {
				return err
			}
		}
	}
	if p.UseCommunity {
		if err := claim("flop", p.Flop, 3); err != nil {
			return err
		}
		if err := claim("turn", p.Turn, 1); err != nil {
			return err
		}
		if err := claim("river", p.River, 1); err != nil {
			return err
		}
	}
	return nil
}

// reserved returns the cards that must not be dealt at random
func (p Presets) reserved() []poker.Card {
	var cards []poker.Card
	if p.UseHands {
		for _, hand := range p.Hands {
			cards = append(cards, hand...)
		}
	}
	if p.UseCommunity {
		cards = append(cards, p.Flop...)
		cards = append(cards, p.Turn...)
		cards = append(cards, p.River...)
	}
	return cards
}

// dealerSeat resolves the P1Role setting. ok is false when the role is not a
// known role for this table size, in which case the caller picks at random.
func (s Settings) dealerSeat() (seat int, random bool, ok bool) {
	name := strings.TrimSpace(s.P1Role)
	if name == "" || strings.EqualFold(name, position.Random) {
		return 0, true, true
	}
	role, err := position.ParseRole(name)
	if err != nil {
		return 0, true, false
	}
	seat, ok = position.DealerForRole(role, s.PlayerCount)
	return seat, !ok, ok
}
