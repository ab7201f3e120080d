package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/position"
)

func TestHeadsUpBlinds(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 0, 1000, 1000)
	require.NoError(t, e.StartNewRound(Preflop))

	st := e.State()
	assert.Equal(t, 20, st.HighestBet)
	assert.Equal(t, 0, st.SBIndex, "dealer posts the small blind heads-up")
	assert.Equal(t, position.BTN, st.Players[0].Role)
	assert.Equal(t, position.SB, st.Players[1].Role, "the big blind poster keeps the two-handed SB label")
	assert.Equal(t, 10, st.Players[0].Bet)
	assert.Equal(t, 20, st.Players[1].Bet)
	assert.Equal(t, 0, st.CurrentPlayerIndex, "small blind acts first pre-flop")
	assert.Equal(t, 1, st.LastAggressorIndex)

	act(t, e, "P1", Call, 0)
	assert.False(t, e.IsBettingRoundComplete(), "big blind has the option")
	act(t, e, "P2", Check, 0)
	assert.True(t, e.IsBettingRoundComplete())

	require.NoError(t, e.DealFlop())
	require.NoError(t, e.StartNewRound(Flop))
	st = e.State()
	assert.Equal(t, 40, st.Pot)
	assert.Equal(t, 1, st.CurrentPlayerIndex, "big blind acts first after the flop")
	assert.Equal(t, 0, st.HighestBet)
	assert.Equal(t, 20, st.LastRaiseAmount)
}

func TestPreflopFirstToActIsAfterBigBlind(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 3, 1000, 1000, 1000, 1000, 1000, 1000)
	require.NoError(t, e.StartNewRound(Preflop))

	st := e.State()
	assert.Equal(t, 4, st.SBIndex)
	assert.Equal(t, 5, st.BBIndex)
	assert.Equal(t, 0, st.CurrentPlayerIndex)
	assert.Equal(t, "UTG", st.Players[0].Role.String())
}

func TestMinimumRaise(t *testing.T) {
	t.Parallel()

	t.Run("undersized raise is rejected", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(t, 0, 1000, 1000, 1000)
		require.NoError(t, e.StartNewRound(Preflop))

		act(t, e, "P1", Raise, 60)
		st := e.State()
		assert.Equal(t, 60, st.HighestBet)
		assert.Equal(t, 40, st.LastRaiseAmount)
		assert.Equal(t, 1, st.PreflopRaiseCount)

		err := e.ExecuteAction("P2", Raise, 90)
		require.ErrorIs(t, err, ErrRaiseTooSmall)
		assert.Equal(t, st, e.State(), "rejected raise must not change state")

		act(t, e, "P2", Raise, 100)
		assert.Equal(t, 100, e.State().HighestBet)
		assert.Equal(t, 2, e.State().PreflopRaiseCount)
	})

	t.Run("all-in below minimum is allowed and does not reopen", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(t, 0, 1000, 90, 1000)
		require.NoError(t, e.StartNewRound(Preflop))

		act(t, e, "P1", Raise, 60)
		act(t, e, "P2", Raise, 90)

		st := e.State()
		p2 := st.Players[1]
		assert.True(t, p2.IsAllIn)
		assert.Equal(t, 0, p2.Stack)
		assert.Equal(t, 90, st.HighestBet)
		assert.Equal(t, 40, st.LastRaiseAmount, "under-raise keeps the last full increment")
		assert.Equal(t, 0, st.LastAggressorIndex)
		assert.Equal(t, 1, st.PreflopRaiseCount)
		assert.True(t, st.Players[0].HasActed, "under-raise does not reopen the action")
		assert.False(t, e.IsBettingRoundComplete(), "P3 has not acted")

		act(t, e, "P3", Call, 0)
		assert.Equal(t, 90, player(t, e, "P3").Bet)
		assert.False(t, e.IsBettingRoundComplete(), "P1 at 60 and P3 at 90 are not level")

		act(t, e, "P1", Call, 0)
		assert.True(t, e.IsBettingRoundComplete())
	})

	t.Run("short all-in after callers completes the round", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(t, 0, 1000, 1000, 80)
		require.NoError(t, e.StartNewRound(Preflop))

		act(t, e, "P1", Raise, 60)
		act(t, e, "P2", Call, 0)
		act(t, e, "P3", AllIn, 0)

		st := e.State()
		assert.Equal(t, 80, st.HighestBet)
		assert.Equal(t, 40, st.LastRaiseAmount)
		assert.True(t, st.Players[2].IsAllIn)
		assert.True(t, st.Players[0].HasActed)
		assert.True(t, st.Players[1].HasActed)
		assert.True(t, e.IsBettingRoundComplete(), "P1 and P2 are level at 60 and the under-raise does not reopen")
		require.NoError(t, st.CheckInvariants())
	})

	t.Run("raise beyond stack", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(t, 0, 1000, 1000, 500)
		require.NoError(t, e.StartNewRound(Preflop))
		act(t, e, "P1", Call, 0)
		act(t, e, "P2", Call, 0)

		err := e.ExecuteAction("P3", Raise, 800)
		assert.ErrorIs(t, err, ErrInsufficientStack)
	})
}

func TestCheckRequiresMatchedBet(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 0, 1000, 1000, 1000)
	require.NoError(t, e.StartNewRound(Preflop))

	before := e.State()
	err := e.ExecuteAction("P1", Check, 0)
	require.ErrorIs(t, err, ErrIllegalCheck)
	assert.Equal(t, before, e.State())
}

func TestTurnOrder(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 0, 1000, 1000, 1000)
	require.NoError(t, e.StartNewRound(Preflop))

	err := e.ExecuteAction("P2", Call, 0)
	assert.ErrorIs(t, err, ErrNotPlayersTurn)

	err = e.ExecuteAction("P9", Call, 0)
	assert.ErrorIs(t, err, ErrNotPlayersTurn)

	err = e.ExecuteAction("P1", Action(42), 0)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestFoldedPlayerIsSkipped(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 0, 1000, 1000, 1000, 1000)
	require.NoError(t, e.StartNewRound(Preflop))

	// P4 is first, then P1, P2 (SB), P3 (BB)
	act(t, e, "P4", Call, 0)
	act(t, e, "P1", Fold, 0)
	act(t, e, "P2", Call, 0)
	act(t, e, "P3", Check, 0)
	require.True(t, e.IsBettingRoundComplete())

	require.NoError(t, e.DealFlop())
	require.NoError(t, e.StartNewRound(Flop))
	act(t, e, "P2", Check, 0)
	act(t, e, "P3", Check, 0)
	cur, ok := e.CurrentPlayer()
	require.True(t, ok)
	assert.Equal(t, "P4", cur.ID)
	act(t, e, "P4", Check, 0)
	assert.Equal(t, "P2", e.State().currentID(), "folded P1 is skipped")

	err := e.ExecuteAction("P1", Check, 0)
	assert.ErrorIs(t, err, ErrNotPlayersTurn)
}

func TestFoldedPlayerCannotAct(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 0, 1000, 1000, 1000)
	require.NoError(t, e.StartNewRound(Preflop))
	require.NoError(t, e.ExecuteAction("P1", Fold, 0))

	err := e.ExecuteAction("P1", Call, 0)
	assert.ErrorIs(t, err, ErrPlayerCannotAct)
}

func TestBetting(t *testing.T) {
	t.Parallel()

	newFlop := func(t *testing.T, stacks ...int) *Engine {
		e := newTestEngine(t, 2, stacks...)
		require.NoError(t, e.StartNewRound(Preflop))
		act(t, e, "P3", Call, 0)
		act(t, e, "P1", Call, 0)
		act(t, e, "P2", Check, 0)
		require.NoError(t, e.DealFlop())
		require.NoError(t, e.StartNewRound(Flop))
		return e
	}

	t.Run("bet reopens action", func(t *testing.T) {
		t.Parallel()
		e := newFlop(t, 1000, 1000, 1000)
		act(t, e, "P1", Check, 0)
		act(t, e, "P2", Bet, 50)

		st := e.State()
		assert.Equal(t, 50, st.HighestBet)
		assert.Equal(t, 50, st.LastRaiseAmount)
		assert.Equal(t, 1, st.LastAggressorIndex)
		assert.False(t, st.Players[0].HasActed)
		assert.Equal(t, 0, st.PreflopRaiseCount, "post-flop bets are not counted")
	})

	t.Run("bet facing a bet", func(t *testing.T) {
		t.Parallel()
		e := newFlop(t, 1000, 1000, 1000)
		act(t, e, "P1", Bet, 40)
		err := e.ExecuteAction("P2", Bet, 100)
		assert.ErrorIs(t, err, ErrIllegalBet)
	})

	t.Run("bet below the big blind", func(t *testing.T) {
		t.Parallel()
		e := newFlop(t, 1000, 1000, 1000)
		err := e.ExecuteAction("P1", Bet, 10)
		assert.ErrorIs(t, err, ErrRaiseTooSmall)
	})

	t.Run("short all-in bet", func(t *testing.T) {
		t.Parallel()
		e := newFlop(t, 30, 1000, 1000)
		act(t, e, "P1", AllIn, 0)

		st := e.State()
		assert.True(t, st.Players[0].IsAllIn)
		assert.Equal(t, 10, st.HighestBet)
		assert.Equal(t, 10, st.LastRaiseAmount, "the bet sets the raise increment")

		act(t, e, "P2", Raise, 20)
		assert.Equal(t, 20, e.State().HighestBet)
		assert.Equal(t, 10, e.State().LastRaiseAmount)
	})

	t.Run("bet larger than stack is capped", func(t *testing.T) {
		t.Parallel()
		e := newFlop(t, 200, 1000, 1000)
		act(t, e, "P1", Bet, 500)

		p1 := player(t, e, "P1")
		assert.Equal(t, 180, p1.Bet)
		assert.True(t, p1.IsAllIn)
	})
}

func TestAllInBelowHighestBetIsACall(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 0, 1000, 1000, 50)
	require.NoError(t, e.StartNewRound(Preflop))

	act(t, e, "P1", Raise, 100)
	act(t, e, "P2", Fold, 0)
	act(t, e, "P3", AllIn, 0)

	st := e.State()
	assert.Equal(t, 100, st.HighestBet, "highest bet never decreases")
	assert.Equal(t, 50, st.Players[2].Bet)
	assert.True(t, st.Players[2].IsAllIn)
	assert.Equal(t, 0, st.LastAggressorIndex)
	assert.True(t, e.IsBettingRoundComplete())
	assert.False(t, e.IsShowdown(), "P1 can still bet")
}

func TestRoundCompletesWithAllInBettor(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 2, 120, 1000, 1000)
	require.NoError(t, e.StartNewRound(Preflop))

	act(t, e, "P3", Call, 0)
	act(t, e, "P1", Call, 0)
	assert.False(t, e.IsBettingRoundComplete())
	act(t, e, "P2", Check, 0)
	require.True(t, e.IsBettingRoundComplete(), "three players called to the same bet")

	require.NoError(t, e.DealFlop())
	require.NoError(t, e.StartNewRound(Flop))
	assert.Equal(t, 60, e.State().Pot)

	act(t, e, "P1", Bet, 100)
	p1 := player(t, e, "P1")
	assert.Equal(t, 0, p1.Stack)
	assert.True(t, p1.IsAllIn)

	act(t, e, "P2", Call, 0)
	act(t, e, "P3", Fold, 0)
	assert.True(t, e.IsBettingRoundComplete())
	assert.False(t, e.IsHandComplete())
}

func TestShowdownWhenEveryoneIsAllIn(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 0, 300, 500)
	require.NoError(t, e.StartNewRound(Preflop))

	act(t, e, "P1", AllIn, 0)
	act(t, e, "P2", Call, 0)

	assert.False(t, e.IsShowdown(), "P2 still has chips")
	assert.True(t, e.IsBettingRoundComplete())

	e = newTestEngine(t, 0, 300, 300)
	require.NoError(t, e.StartNewRound(Preflop))
	act(t, e, "P1", AllIn, 0)
	act(t, e, "P2", Call, 0)
	assert.True(t, e.IsShowdown())
	assert.Equal(t, StatusShowdown, e.State().Status())
}

func TestHandCompleteWhenOthersFold(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 0, 1000, 1000, 1000)
	require.NoError(t, e.StartNewRound(Preflop))

	act(t, e, "P1", Fold, 0)
	act(t, e, "P2", Fold, 0)
	assert.True(t, e.IsHandComplete())
	assert.True(t, e.IsBettingRoundComplete())
	assert.Equal(t, StatusHandComplete, e.State().Status())
}

func TestStartNewRound(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 0, 1000, 1000, 1000)

	assert.ErrorIs(t, e.StartNewRound(RoundNone), ErrInvalidRound)
	assert.ErrorIs(t, e.StartNewRound(Round(9)), ErrInvalidRound)

	require.NoError(t, e.StartNewRound(Preflop))
	assert.ErrorIs(t, e.StartNewRound(Preflop), ErrInvalidRound, "rounds only move forward")

	act(t, e, "P1", Raise, 80)
	act(t, e, "P2", Call, 0)
	act(t, e, "P3", Call, 0)
	require.NoError(t, e.DealFlop())
	require.NoError(t, e.StartNewRound(Flop))

	st := e.State()
	assert.Equal(t, 240, st.Pot)
	for _, p := range st.Players {
		assert.Zero(t, p.Bet)
		assert.False(t, p.HasActed)
		assert.Equal(t, 80, p.TotalInvested)
	}
	assert.Equal(t, 1, st.CurrentPlayerIndex, "seat after the dealer acts first")
	assert.Equal(t, -1, st.LastAggressorIndex)
	assert.Equal(t, 1, st.PreflopRaiseCount)
}

func TestBlindsLargerThanStack(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 0, 1000, 5, 15)
	require.NoError(t, e.StartNewRound(Preflop))

	st := e.State()
	assert.True(t, st.Players[1].IsAllIn)
	assert.True(t, st.Players[2].IsAllIn)
	assert.Equal(t, 15, st.HighestBet)
	assert.Equal(t, 0, st.CurrentPlayerIndex)
	require.NoError(t, st.CheckInvariants())

	act(t, e, "P1", Call, 0)
	assert.True(t, e.IsBettingRoundComplete())
	assert.Equal(t, 15, player(t, e, "P1").Bet)
}

func TestBigBlindShorterThanSmallBlind(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 0, 1000, 1000, 6)
	require.NoError(t, e.StartNewRound(Preflop))

	st := e.State()
	assert.Equal(t, 10, st.Players[1].Bet)
	assert.Equal(t, 6, st.Players[2].Bet)
	assert.True(t, st.Players[2].IsAllIn)
	assert.Equal(t, 10, st.HighestBet, "the small blind is the largest bet")
	require.NoError(t, st.CheckInvariants())

	act(t, e, "P1", Call, 0)
	assert.Equal(t, 10, player(t, e, "P1").Bet)
}

func TestValidActions(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, 0, 1000, 1000, 1000)
	require.NoError(t, e.StartNewRound(Preflop))

	assert.Equal(t, []ValidAction{
		{Action: Fold},
		{Action: Call, MinAmount: 20, MaxAmount: 20},
		{Action: Raise, MinAmount: 40, MaxAmount: 1000},
		{Action: AllIn, MinAmount: 1000, MaxAmount: 1000},
	}, e.ValidActions())

	act(t, e, "P1", Call, 0)
	act(t, e, "P2", Call, 0)
	actions := e.ValidActions()
	assert.Equal(t, Check, actions[1].Action)
}
