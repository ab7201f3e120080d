package game

import (
	"fmt"
	"slices"

	"github.com/lox/holdem-trainer/poker"
)

// dealHoleCards builds a fresh deck without the preset cards, shuffles it and
// gives every player two cards, preset hands taking priority.
func (s *State) dealHoleCards(rng poker.RNG) error {
	if len(s.CommunityCards) > 0 || s.Round != RoundNone {
		return fmt.Errorf("%w: hole cards are dealt before the first round", ErrInvalidRound)
	}
	presets := s.Settings.Presets

	deck := poker.NewDeck().Remove(presets.reserved()...)
	deck.Shuffle(rng)

	needed := 2 * len(s.Players)
	if presets.UseHands {
		needed = 0
	}
	if deck.Len() < needed {
		return fmt.Errorf("%w: need %d for hole cards, %d left", ErrInsufficientCards, needed, deck.Len())
	}

	for i := range s.Players {
		p := &s.Players[i]
		if presets.UseHands {
			p.HoleCards = slices.Clone(presets.Hands[p.ID])
			continue
		}
		p.HoleCards = deck.PopN(2)
	}
	s.Deck = deck
	return nil
}

// dealFlop burns one card and deals three, or uses the preset flop
func (s *State) dealFlop() error {
	if len(s.CommunityCards) != 0 {
		return fmt.Errorf("%w: flop already dealt", ErrInvalidRound)
	}
	presets := s.Settings.Presets
	if presets.UseCommunity {
		s.CommunityCards = slices.Clone(presets.Flop)
		return nil
	}
	if s.Deck.Len() < 4 {
		return fmt.Errorf("%w: need 4 for the flop, %d left", ErrInsufficientCards, s.Deck.Len())
	}
	s.Deck.Pop()
	s.CommunityCards = append(s.CommunityCards, s.Deck.PopN(3)...)
	return nil
}

// dealTurnOrRiver burns one card and deals one: the turn after the flop, the
// river after the turn.
func (s *State) dealTurnOrRiver() error {
	var preset []poker.Card
	switch len(s.CommunityCards) {
	case 3:
		preset = s.Settings.Presets.Turn
	case 4:
		preset = s.Settings.Presets.River
	default:
		return fmt.Errorf("%w: cannot deal turn or river with %d community cards",
			ErrInvalidRound, len(s.CommunityCards))
	}

	if s.Settings.Presets.UseCommunity {
		s.CommunityCards = append(s.CommunityCards, preset[0])
		return nil
	}
	if s.Deck.Len() < 2 {
		return fmt.Errorf("%w: need 2 for the next street, %d left", ErrInsufficientCards, s.Deck.Len())
	}
	s.Deck.Pop()
	card, _ := s.Deck.Pop()
	s.CommunityCards = append(s.CommunityCards, card)
	return nil
}
