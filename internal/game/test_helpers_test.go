package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/randutil"
)

// newTestEngine seats a hand with fixed stacks and dealer and returns the
// engine with hole cards dealt but no round started.
func newTestEngine(t *testing.T, dealer int, stacks ...int) *Engine {
	t.Helper()
	settings := DefaultSettings()
	settings.PlayerCount = len(stacks)

	e := NewEngine(randutil.New(42), log.New(io.Discard))
	require.NoError(t, e.Reset(settings, WithDealer(dealer), WithStacks(stacks)))
	require.NoError(t, e.DealHoleCards())
	return e
}

// act executes an action for the current seat and moves the turn on
func act(t *testing.T, e *Engine, playerID string, action Action, amount int) {
	t.Helper()
	require.NoError(t, e.ExecuteAction(playerID, action, amount))
	e.MoveToNextPlayer()
}

func player(t *testing.T, e *Engine, id string) Player {
	t.Helper()
	p, ok := e.State().Player(id)
	require.True(t, ok, "no player %s", id)
	return *p
}
