package game

import (
	"fmt"
	"slices"

	"github.com/lox/holdem-trainer/poker"
)

// Snapshot is the serialisable form of a hand. Pot holds only swept chips;
// TotalPot adds the bets of the current round and is informational.
type Snapshot struct {
	HandCount          int          `json:"handCount"`
	Settings           Settings     `json:"settings"`
	Players            []Player     `json:"players"`
	CommunityCards     []poker.Card `json:"communityCards"`
	Pot                int          `json:"pot"`
	TotalPot           int          `json:"totalPot"`
	CurrentRound       Round        `json:"currentRound"`
	CurrentPlayerIndex int          `json:"currentPlayerIndex"`
	HighestBet         int          `json:"highestBet"`
	LastRaiseAmount    int          `json:"lastRaiseAmount"`
	MinRaise           int          `json:"minRaise"`
	LastAggressorIndex int          `json:"lastAggressorIndex"`
	PreflopRaiseCount  int          `json:"preflopRaiseCount"`
	DealerIndex        int          `json:"dealerIndex"`
	SBIndex            int          `json:"sbIndex"`
	BBIndex            int          `json:"bbIndex"`
	StartingChips      int          `json:"startingChips"`
	Deck               []poker.Card `json:"deck"`
}

// Snapshot returns a copy of the state that shares no memory with it
func (s *State) Snapshot() Snapshot {
	c := s.Clone()
	return Snapshot{
		HandCount:          c.HandCount,
		Settings:           c.Settings,
		Players:            c.Players,
		CommunityCards:     c.CommunityCards,
		Pot:                c.Pot,
		TotalPot:           s.TotalPot(),
		CurrentRound:       c.Round,
		CurrentPlayerIndex: c.CurrentPlayerIndex,
		HighestBet:         c.HighestBet,
		LastRaiseAmount:    c.LastRaiseAmount,
		MinRaise:           c.MinRaise,
		LastAggressorIndex: c.LastAggressorIndex,
		PreflopRaiseCount:  c.PreflopRaiseCount,
		DealerIndex:        c.DealerIndex,
		SBIndex:            c.SBIndex,
		BBIndex:            c.BBIndex,
		StartingChips:      c.StartingChips,
		Deck:               c.Deck,
	}
}

// Restore rebuilds a state from a snapshot. Roles are reassigned from the
// dealer seat, and the snapshot is checked for structural consistency.
func Restore(snap Snapshot) (*State, error) {
	n := len(snap.Players)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 players, got %d", ErrInvalidState, n)
	}
	if snap.Settings.PlayerCount != n {
		return nil, fmt.Errorf("%w: settings say %d players, snapshot has %d", ErrInvalidState, snap.Settings.PlayerCount, n)
	}
	if err := snap.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if snap.CurrentRound != RoundNone && !snap.CurrentRound.Valid() {
		return nil, fmt.Errorf("%w: round %s", ErrInvalidState, snap.CurrentRound)
	}
	for name, idx := range map[string]int{"dealer": snap.DealerIndex, "small blind": snap.SBIndex, "big blind": snap.BBIndex} {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: %s seat %d out of range", ErrInvalidState, name, idx)
		}
	}
	if snap.CurrentPlayerIndex < -1 || snap.CurrentPlayerIndex >= n {
		return nil, fmt.Errorf("%w: current seat %d out of range", ErrInvalidState, snap.CurrentPlayerIndex)
	}
	if snap.LastAggressorIndex < -1 || snap.LastAggressorIndex >= n {
		return nil, fmt.Errorf("%w: aggressor seat %d out of range", ErrInvalidState, snap.LastAggressorIndex)
	}
	switch len(snap.CommunityCards) {
	case 0, 3, 4, 5:
	default:
		return nil, fmt.Errorf("%w: %d community cards", ErrInvalidState, len(snap.CommunityCards))
	}

	ids := make(map[string]bool, n)
	for _, p := range snap.Players {
		if p.ID == "" || ids[p.ID] {
			return nil, fmt.Errorf("%w: missing or duplicate player id %q", ErrInvalidState, p.ID)
		}
		ids[p.ID] = true
		if p.Stack < 0 || p.Bet < 0 || p.TotalInvested < 0 {
			return nil, fmt.Errorf("%w: %s has negative chips", ErrInvalidState, p.ID)
		}
		if len(p.HoleCards) != 0 && len(p.HoleCards) != 2 {
			return nil, fmt.Errorf("%w: %s has %d hole cards", ErrInvalidState, p.ID, len(p.HoleCards))
		}
	}

	s := &State{
		Settings:           snap.Settings,
		Players:            make([]Player, n),
		CommunityCards:     slices.Clone(snap.CommunityCards),
		Pot:                snap.Pot,
		Round:              snap.CurrentRound,
		HighestBet:         snap.HighestBet,
		LastRaiseAmount:    snap.LastRaiseAmount,
		MinRaise:           snap.MinRaise,
		LastAggressorIndex: snap.LastAggressorIndex,
		PreflopRaiseCount:  snap.PreflopRaiseCount,
		CurrentPlayerIndex: snap.CurrentPlayerIndex,
		Deck:               poker.Deck(snap.Deck).Clone(),
		HandCount:          snap.HandCount,
		StartingChips:      snap.StartingChips,
	}
	for i, p := range snap.Players {
		s.Players[i] = p.clone()
	}
	if s.MinRaise <= 0 {
		s.MinRaise = s.Settings.BigBlind
	}
	if s.StartingChips == 0 {
		s.StartingChips = s.ChipsInPlay()
	}

	s.seat(snap.DealerIndex)
	s.SBIndex, s.BBIndex = snap.SBIndex, snap.BBIndex
	return s, nil
}
