package poker

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the single-letter suit code used in card codes
func (s Suit) String() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// Symbol returns the suit glyph (e.g. "♠")
func (s Suit) Symbol() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. The zero value is not a valid rank.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankCodes = "23456789TJQKA"

// String returns the single-character rank code ("T" for ten)
func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return rankCodes[r-Two : r-Two+1]
}

// Card represents a playing card. The zero Card is an unset slot.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Suit: suit, Rank: rank}
}

// IsValid reports whether the card names a real rank and suit
func (c Card) IsValid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit >= Spades && c.Suit <= Clubs
}

// String returns the canonical card code (e.g. "As", "Td"). Unset cards render as "".
func (c Card) String() string {
	if c == (Card{}) {
		return ""
	}
	return c.Rank.String() + c.Suit.String()
}

// Pretty returns the card with a suit glyph (e.g. "A♠")
func (c Card) Pretty() string {
	if !c.IsValid() {
		return "??"
	}
	return c.Rank.String() + c.Suit.Symbol()
}

// MarshalText encodes the card as its canonical code
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a card code. An empty string yields the unset card.
func (c *Card) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = Card{}
		return nil
	}
	card, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = card
	return nil
}

// ParseCard parses a card code. Both the rank-suit form ("As", "Th", "10h")
// and the suit-glyph-first form ("♠A", "♥10") are accepted.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}

	for _, suit := range []Suit{Spades, Hearts, Diamonds, Clubs} {
		if rest, ok := strings.CutPrefix(s, suit.Symbol()); ok {
			rank, err := parseRank(rest)
			if err != nil {
				return Card{}, fmt.Errorf("invalid card string %q: %w", s, err)
			}
			return NewCard(rank, suit), nil
		}
	}

	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card string: %q", s)
	}

	rank, err := parseRank(s[:len(s)-1])
	if err != nil {
		return Card{}, fmt.Errorf("invalid card string %q: %w", s, err)
	}

	var suit Suit
	switch s[len(s)-1] {
	case 's', 'S':
		suit = Spades
	case 'h', 'H':
		suit = Hearts
	case 'd', 'D':
		suit = Diamonds
	case 'c', 'C':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit: %c", s[len(s)-1])
	}

	return NewCard(rank, suit), nil
}

func parseRank(s string) (Rank, error) {
	if s == "10" {
		return Ten, nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("invalid rank: %q", s)
	}
	idx := strings.IndexByte(rankCodes, strings.ToUpper(s)[0])
	if idx < 0 {
		return 0, fmt.Errorf("invalid rank: %q", s)
	}
	return Two + Rank(idx), nil
}

// ParseCards parses a list of card codes
func ParseCards(codes ...string) ([]Card, error) {
	cards := make([]Card, 0, len(codes))
	for _, code := range codes {
		card, err := ParseCard(code)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests and fixtures.
func MustParseCards(codes ...string) []Card {
	cards, err := ParseCards(codes...)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards returns the canonical codes joined by spaces
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
