package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/randutil"
	"github.com/lox/holdem-trainer/poker"
)

func TestDealHoleCards(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 0, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000)

	st := e.State()
	seen := make(map[poker.Card]bool)
	for _, p := range st.Players {
		require.Len(t, p.HoleCards, 2)
		for _, c := range p.HoleCards {
			assert.False(t, seen[c], "card %s dealt twice", c)
			seen[c] = true
		}
	}
	assert.Equal(t, 32, st.Deck.Len())
	for c := range seen {
		assert.False(t, st.Deck.Contains(c))
	}

	require.NoError(t, e.DealHoleCards(), "re-dealing before the first round starts a fresh deck")
	require.NoError(t, e.StartNewRound(Preflop))
	assert.ErrorIs(t, e.DealHoleCards(), ErrInvalidRound)
}

func TestDealCommunityCards(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 0, 1000, 1000)

	assert.ErrorIs(t, e.DealTurnOrRiver(), ErrInvalidRound, "turn needs a flop")

	require.NoError(t, e.DealFlop())
	st := e.State()
	assert.Len(t, st.CommunityCards, 3)
	assert.Equal(t, 44, st.Deck.Len(), "one burn and three cards")
	assert.ErrorIs(t, e.DealFlop(), ErrInvalidRound)

	require.NoError(t, e.DealTurnOrRiver())
	require.NoError(t, e.DealTurnOrRiver())
	st = e.State()
	assert.Len(t, st.CommunityCards, 5)
	assert.Equal(t, 40, st.Deck.Len())
	assert.ErrorIs(t, e.DealTurnOrRiver(), ErrInvalidRound)

	seen := make(map[poker.Card]bool)
	all := append(append([]poker.Card{}, st.CommunityCards...), st.Deck...)
	for _, p := range st.Players {
		all = append(all, p.HoleCards...)
	}
	for _, c := range all {
		assert.False(t, seen[c], "card %s appears twice", c)
		seen[c] = true
	}
	assert.Len(t, seen, 52-3, "three burn cards are gone")
}

func TestDealIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	deal := func(seed int64) *State {
		e := NewEngine(randutil.New(seed), log.New(io.Discard))
		require.NoError(t, e.Reset(DefaultSettings()))
		require.NoError(t, e.DealHoleCards())
		require.NoError(t, e.DealFlop())
		return e.State()
	}

	assert.Equal(t, deal(7), deal(7))
	assert.NotEqual(t, deal(7).CommunityCards, deal(8).CommunityCards)
}

func TestPresetCards(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()
	settings.PlayerCount = 3
	settings.Presets = Presets{
		UseHands:     true,
		UseCommunity: true,
		Hands: map[string][]poker.Card{
			"P1": poker.MustParseCards("As", "Ah"),
			"P2": poker.MustParseCards("Ks", "Kh"),
			"P3": poker.MustParseCards("♣7", "♦2"),
		},
		Flop:  poker.MustParseCards("Qs", "Jd", "Tc"),
		Turn:  poker.MustParseCards("9h"),
		River: poker.MustParseCards("8s"),
	}

	e := NewEngine(randutil.New(1), log.New(io.Discard))
	require.NoError(t, e.Reset(settings, WithDealer(0)))
	require.NoError(t, e.DealHoleCards())
	require.NoError(t, e.DealFlop())
	require.NoError(t, e.DealTurnOrRiver())
	require.NoError(t, e.DealTurnOrRiver())

	st := e.State()
	assert.Equal(t, poker.MustParseCards("As", "Ah"), st.Players[0].HoleCards)
	assert.Equal(t, poker.MustParseCards("7c", "2d"), st.Players[2].HoleCards)
	assert.Equal(t, poker.MustParseCards("Qs", "Jd", "Tc", "9h", "8s"), st.CommunityCards)
	assert.Equal(t, 52-11, st.Deck.Len(), "preset cards never enter the deck")
	for _, c := range poker.MustParseCards("As", "Ah", "Qs", "8s") {
		assert.False(t, st.Deck.Contains(c))
	}
}

func TestPresetHandsOnlyDealsCommunityFromDeck(t *testing.T) {
	t.Parallel()

	settings := DefaultSettings()
	settings.PlayerCount = 2
	settings.Presets = Presets{
		UseHands: true,
		Hands: map[string][]poker.Card{
			"P1": poker.MustParseCards("As", "Ah"),
			"P2": poker.MustParseCards("Ks", "Kh"),
		},
		// Ignored while UseCommunity is off
		Flop: poker.MustParseCards("Qs"),
	}

	e := NewEngine(randutil.New(3), log.New(io.Discard))
	require.NoError(t, e.Reset(settings))
	require.NoError(t, e.DealHoleCards())
	require.NoError(t, e.DealFlop())

	st := e.State()
	assert.Equal(t, 48-4, st.Deck.Len())
	for _, c := range st.CommunityCards {
		assert.NotContains(t, poker.MustParseCards("As", "Ah", "Ks", "Kh"), c)
	}
}

func TestInsufficientCards(t *testing.T) {
	t.Parallel()

	st := &State{Deck: poker.MustParseCards("2c", "3c", "4c")}
	_, err := Apply(st, DealFlopCards{})
	assert.ErrorIs(t, err, ErrInsufficientCards)

	st = &State{
		CommunityCards: poker.MustParseCards("As", "Ks", "Qs"),
		Deck:           poker.MustParseCards("2c"),
	}
	_, err = Apply(st, DealStreet{})
	assert.ErrorIs(t, err, ErrInsufficientCards)
	assert.Equal(t, 1, st.Deck.Len(), "failed deal leaves the deck alone")
}
