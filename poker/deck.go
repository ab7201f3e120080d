package poker

// RNG is the source of randomness used for shuffling. *rand.Rand from
// math/rand/v2 satisfies it; tests pass a seeded generator.
type RNG interface {
	IntN(n int) int
}

// Deck holds the undealt cards. Cards are dealt from the end of the slice.
type Deck []Card

// NewDeck creates an ordered standard 52-card deck
func NewDeck() Deck {
	d := make(Deck, 0, 52)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d = append(d, NewCard(rank, suit))
		}
	}
	return d
}

// Shuffle shuffles the deck in place using Fisher-Yates
func (d Deck) Shuffle(rng RNG) {
	for i := len(d) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}

// Remove returns the deck without any of the given cards. Unset cards are ignored.
func (d Deck) Remove(cards ...Card) Deck {
	if len(cards) == 0 {
		return d
	}
	drop := make(map[Card]struct{}, len(cards))
	for _, c := range cards {
		if c.IsValid() {
			drop[c] = struct{}{}
		}
	}
	kept := d[:0:0]
	for _, c := range d {
		if _, ok := drop[c]; !ok {
			kept = append(kept, c)
		}
	}
	return kept
}

// Contains reports whether the card is still in the deck
func (d Deck) Contains(card Card) bool {
	for _, c := range d {
		if c == card {
			return true
		}
	}
	return false
}

// Len returns the number of cards left in the deck
func (d Deck) Len() int {
	return len(d)
}

// Pop deals the top card. It returns false when the deck is empty.
func (d *Deck) Pop() (Card, bool) {
	n := len(*d)
	if n == 0 {
		return Card{}, false
	}
	card := (*d)[n-1]
	*d = (*d)[:n-1]
	return card, true
}

// PopN deals n cards, or returns nil without dealing if fewer than n remain
func (d *Deck) PopN(n int) []Card {
	if n > len(*d) {
		return nil
	}
	cards := make([]Card, n)
	for i := range n {
		cards[i], _ = d.Pop()
	}
	return cards
}

// Clone returns an independent copy of the deck
func (d Deck) Clone() Deck {
	if d == nil {
		return nil
	}
	out := make(Deck, len(d))
	copy(out, d)
	return out
}
