package game

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-trainer/internal/position"
	"github.com/lox/holdem-trainer/poker"
)

// HandOption configures a hand during creation.
type HandOption func(*handConfig)

// handConfig holds the optional parts of hand creation.
type handConfig struct {
	dealer    int   // -1 resolves from Settings.P1Role
	stacks    []int // If nil, stacks are drawn from the settings range
	handCount int
	logger    *log.Logger
}

// WithDealer forces the dealer seat, overriding the P1Role setting.
func WithDealer(seat int) HandOption {
	return func(c *handConfig) {
		c.dealer = seat
	}
}

// WithStacks sets individual starting stacks for each seat.
// The length must match the player count.
func WithStacks(stacks []int) HandOption {
	return func(c *handConfig) {
		c.stacks = stacks
	}
}

// WithHandCount sets the hand number recorded in the state.
func WithHandCount(n int) HandOption {
	return func(c *handConfig) {
		c.handCount = n
	}
}

// WithLogger sets the logger used to report setting fallbacks.
func WithLogger(logger *log.Logger) HandOption {
	return func(c *handConfig) {
		c.logger = logger
	}
}

// NewHand seats the players for a new hand: stacks are drawn from the
// configured range, the dealer is placed and roles assigned. No cards are
// dealt and no round is started.
//
// The RNG is required to make randomness explicit and testing deterministic.
//
//	st, err := NewHand(settings, randutil.New(42),
//	    WithDealer(0), WithStacks([]int{1000, 800, 1200}))
func NewHand(settings Settings, rng poker.RNG, opts ...HandOption) (*State, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: rng is required for hand creation", ErrConfiguration)
	}
	settings = settings.Normalized()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	cfg := &handConfig{dealer: -1}
	for _, opt := range opts {
		opt(cfg)
	}

	n := settings.PlayerCount
	if cfg.stacks != nil && len(cfg.stacks) != n {
		return nil, fmt.Errorf("%w: %d stacks for %d players", ErrConfiguration, len(cfg.stacks), n)
	}

	players := make([]Player, n)
	starting := 0
	for i := range players {
		stack := settings.MinStack + rng.IntN(settings.MaxStack-settings.MinStack+1)
		if cfg.stacks != nil {
			stack = cfg.stacks[i]
		}
		if stack <= 0 {
			return nil, fmt.Errorf("%w: %s stack must be positive, got %d", ErrConfiguration, PlayerID(i), stack)
		}
		players[i] = Player{ID: PlayerID(i), Stack: stack}
		starting += stack
	}

	dealer := cfg.dealer
	switch {
	case dealer >= n:
		return nil, fmt.Errorf("%w: dealer seat %d out of range", ErrConfiguration, dealer)
	case dealer < 0:
		seat, random, ok := settings.dealerSeat()
		if !ok && cfg.logger != nil {
			cfg.logger.Warn("Unknown P1 role, choosing a random dealer", "role", settings.P1Role, "players", n)
		}
		if random {
			seat = rng.IntN(n)
		}
		dealer = seat
	}

	s := &State{
		Settings:           settings,
		Players:            players,
		MinRaise:           settings.BigBlind,
		LastRaiseAmount:    settings.BigBlind,
		LastAggressorIndex: -1,
		CurrentPlayerIndex: -1,
		HandCount:          cfg.handCount,
		StartingChips:      starting,
	}
	s.seat(dealer)
	return s, nil
}

// seat places the dealer button, assigns every role and fixes the blinds.
// Heads-up the dealer posts the small blind.
func (s *State) seat(dealer int) {
	n := len(s.Players)
	s.DealerIndex = dealer
	for i, role := range position.Assign(dealer, n) {
		s.Players[i].Role = role
	}
	// Roles keep the two-handed list, so the seat labelled SB posts the big blind
	if n == 2 {
		s.SBIndex = dealer
		s.BBIndex = (dealer + 1) % n
		return
	}
	s.SBIndex = (dealer + 1) % n
	s.BBIndex = (dealer + 2) % n
}
