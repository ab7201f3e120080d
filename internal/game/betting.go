package game

import "fmt"

// startNewRound sweeps outstanding bets into the pot, resets the round
// aggregates and picks the first seat to act. Pre-flop it also posts blinds.
func (s *State) startNewRound(r Round) error {
	if !r.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidRound, r)
	}
	if r <= s.Round {
		return fmt.Errorf("%w: cannot start %s during %s", ErrInvalidRound, r, s.Round)
	}

	for i := range s.Players {
		p := &s.Players[i]
		s.Pot += p.Bet
		p.Bet = 0
		if !p.IsFolded {
			p.HasActed = false
		}
	}

	s.Round = r
	s.HighestBet = 0
	s.LastRaiseAmount = s.MinRaise
	s.LastAggressorIndex = -1

	n := len(s.Players)
	var first int
	if r == Preflop {
		s.postBlinds()
		if n == 2 {
			first = s.SBIndex
		} else {
			first = (s.BBIndex + 1) % n
		}
		s.LastAggressorIndex = s.BBIndex
	} else {
		first = (s.DealerIndex + 1) % n
	}

	s.CurrentPlayerIndex = first
	for i := range n {
		seat := (first + i) % n
		if s.Players[seat].CanAct() {
			s.CurrentPlayerIndex = seat
			break
		}
	}
	return nil
}

func (s *State) postBlinds() {
	sb := &s.Players[s.SBIndex]
	sb.commit(s.Settings.SmallBlind)
	bb := &s.Players[s.BBIndex]
	bb.commit(s.Settings.BigBlind)
	// A big blind shorter than the small blind leaves the small blind highest
	s.HighestBet = max(sb.Bet, bb.Bet)
}

// executeAction applies one player action. All validation happens before the
// first chip moves.
func (s *State) executeAction(playerID string, action Action, amount int) error {
	idx := s.indexOf(playerID)
	if idx < 0 {
		return fmt.Errorf("%w: unknown player %q", ErrNotPlayersTurn, playerID)
	}
	if s.Round == RoundNone || idx != s.CurrentPlayerIndex {
		return fmt.Errorf("%w: %s tried to act, current player is %s",
			ErrNotPlayersTurn, playerID, s.currentID())
	}
	p := &s.Players[idx]
	if !p.CanAct() {
		return fmt.Errorf("%w: %s has folded or is all-in", ErrPlayerCannotAct, playerID)
	}

	if action == AllIn {
		amount = p.Stack + p.Bet
		if s.HighestBet > 0 {
			action = Raise
		} else {
			action = Bet
		}
	}

	switch action {
	case Fold:
		p.IsFolded = true

	case Check:
		if p.Bet != s.HighestBet {
			return fmt.Errorf("%w: %s must call %d", ErrIllegalCheck, playerID, s.HighestBet-p.Bet)
		}

	case Call:
		p.commit(max(s.HighestBet-p.Bet, 0))

	case Bet:
		if err := s.bet(idx, amount); err != nil {
			return err
		}

	case Raise:
		if err := s.raise(idx, amount); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	p.HasActed = true
	return nil
}

func (s *State) bet(idx int, amount int) error {
	p := &s.Players[idx]
	if s.HighestBet > 0 {
		return fmt.Errorf("%w: facing a bet of %d, raise instead", ErrIllegalBet, s.HighestBet)
	}

	size := min(amount, p.Stack)
	allIn := size == p.Stack
	if size <= 0 || (size < s.MinRaise && !allIn) {
		return fmt.Errorf("%w: minimum bet is %d", ErrRaiseTooSmall, s.MinRaise)
	}

	p.commit(size)
	s.HighestBet = p.Bet
	s.LastRaiseAmount = size
	s.LastAggressorIndex = idx
	s.reopen(idx)
	return nil
}

// raise takes amount as the target total bet for the round
func (s *State) raise(idx int, amount int) error {
	p := &s.Players[idx]
	total := p.Stack + p.Bet
	allIn := amount == total
	increment := amount - s.HighestBet

	if increment < s.LastRaiseAmount && !allIn {
		return fmt.Errorf("%w: minimum raise is to %d", ErrRaiseTooSmall, s.HighestBet+s.LastRaiseAmount)
	}
	if amount > total {
		return fmt.Errorf("%w: raise to %d, only %d available", ErrInsufficientStack, amount, total)
	}

	p.commit(amount - p.Bet)

	// An all-in that does not cover the highest bet is a call
	if increment <= 0 {
		return nil
	}

	s.HighestBet = amount
	if increment >= s.LastRaiseAmount {
		s.LastRaiseAmount = increment
		s.LastAggressorIndex = idx
		if s.Round == Preflop {
			s.PreflopRaiseCount++
		}
		s.reopen(idx)
	}
	return nil
}

// reopen clears HasActed for every other player still able to wager
func (s *State) reopen(aggressor int) {
	for i := range s.Players {
		if i != aggressor && s.Players[i].CanAct() {
			s.Players[i].HasActed = false
		}
	}
}

// moveToNextPlayer advances to the next seat that can still wager. If there
// is none the index is left unchanged.
func (s *State) moveToNextPlayer() {
	n := len(s.Players)
	if n == 0 || s.CurrentPlayerIndex < 0 {
		return
	}
	for i := 1; i < n; i++ {
		seat := (s.CurrentPlayerIndex + i) % n
		if s.Players[seat].CanAct() {
			s.CurrentPlayerIndex = seat
			return
		}
	}
}

func (s *State) currentID() string {
	if p, ok := s.CurrentPlayer(); ok {
		return p.ID
	}
	return "nobody"
}
