package advice

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/position"
	"github.com/lox/holdem-trainer/internal/randutil"
	"github.com/lox/holdem-trainer/poker"
)

// sixHanded returns a pre-flop hand where P1 is UTG and has raised to 60
func sixHanded(t *testing.T) *game.Engine {
	t.Helper()
	settings := game.DefaultSettings()
	settings.PlayerCount = 6
	settings.Presets = game.Presets{UseHands: true, Hands: map[string][]poker.Card{}}
	for i := range 6 {
		settings.Presets.Hands[game.PlayerID(i)] = []poker.Card{
			poker.NewCard(poker.Rank(2+2*i), poker.Spades),
			poker.NewCard(poker.Rank(3+2*i), poker.Hearts),
		}
	}
	settings.Presets.Hands["P1"] = poker.MustParseCards("As", "Th")

	e := game.NewEngine(randutil.New(1), log.New(io.Discard))
	require.NoError(t, e.Reset(settings, game.WithDealer(3), game.WithStacks([]int{1000, 1000, 1000, 1000, 1000, 1000})))
	require.NoError(t, e.DealHoleCards())
	require.NoError(t, e.StartNewRound(game.Preflop))
	require.NoError(t, e.ExecuteAction("P1", game.Raise, 60))
	e.MoveToNextPlayer()
	return e
}

func TestPotTypeFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, PotUnopened, PotTypeFor(0))
	assert.Equal(t, PotSingleRaised, PotTypeFor(1))
	assert.Equal(t, Pot3Bet, PotTypeFor(2))
	assert.Equal(t, Pot4Bet, PotTypeFor(3))
	assert.Equal(t, Pot4Bet, PotTypeFor(7))
}

func TestBuildRequest(t *testing.T) {
	t.Parallel()
	e := sixHanded(t)
	snap := e.GameState()

	// Dealer is seat 3: P5 SB, P6 BB, P1 UTG, P2 HJ, P3 CO, P4 BTN
	require.Equal(t, position.UTG, snap.Players[0].Role)

	req, err := BuildRequest(snap, "P2", nil)
	require.NoError(t, err)
	assert.Equal(t, 8, req.MyRole, "HJ")
	assert.Equal(t, 1000, req.MyStack)
	assert.Equal(t, 60+10+20, req.PotChips, "pot includes outstanding bets")
	assert.Equal(t, 60, req.ToCall)
	assert.Equal(t, 5, req.Opponents)
	assert.Equal(t, 1, req.PreFlopRaisers)
	assert.Equal(t, PotSingleRaised, req.PotType)
	assert.False(t, req.HasPosition)
	assert.Equal(t, 0, req.FlopActionSituation)
	assert.Equal(t, 1, req.Phase)
	assert.Equal(t, 20, req.BigBlind)
	assert.Empty(t, req.BoardCards)

	req, err = BuildRequest(snap, "P1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"As", "Th"}, req.MyCards)
	assert.Equal(t, 0, req.ToCall)

	_, err = BuildRequest(snap, "P9", nil)
	assert.Error(t, err)
}

func TestBuildRequestHeadsUp(t *testing.T) {
	t.Parallel()
	settings := game.DefaultSettings()
	settings.PlayerCount = 2
	e := game.NewEngine(randutil.New(5), log.New(io.Discard))
	require.NoError(t, e.Reset(settings, game.WithDealer(0), game.WithStacks([]int{1000, 1000})))
	require.NoError(t, e.DealHoleCards())
	require.NoError(t, e.StartNewRound(game.Preflop))
	snap := e.GameState()

	require.Equal(t, 1, snap.BBIndex)
	req, err := BuildRequest(snap, "P2", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, req.MyRole, "heads-up big blind is labelled SB")
	assert.Equal(t, 0, req.ToCall)

	req, err = BuildRequest(snap, "P1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, req.MyRole, "dealer is BTN")
	assert.Equal(t, 10, req.ToCall)
	assert.True(t, req.HasPosition)
}

func TestHasPosition(t *testing.T) {
	t.Parallel()
	e := sixHanded(t)
	snap := e.GameState()

	assert.True(t, HasPosition(snap, "P4"), "BTN pre-flop")
	assert.True(t, HasPosition(snap, "P3"), "CO pre-flop")
	assert.False(t, HasPosition(snap, "P1"))

	snap.CurrentRound = game.Flop
	assert.True(t, HasPosition(snap, "P4"), "BTN is last to act")
	assert.False(t, HasPosition(snap, "P3"))

	snap.Players[3].IsFolded = true
	assert.True(t, HasPosition(snap, "P3"), "CO is last once the BTN folds")

	for i := range snap.Players {
		snap.Players[i].IsFolded = i != 0
	}
	assert.True(t, HasPosition(snap, "P1"), "alone in the hand")
}

func TestFlopActionSituation(t *testing.T) {
	t.Parallel()
	snap := game.Snapshot{CurrentRound: game.Flop}

	tests := []struct {
		name    string
		records map[string][]string
		want    FlopSituation
	}{
		{"nobody acted", nil, FirstToAct},
		{"checked to", map[string][]string{"P2": {"CHECK"}, "P3": {"CHECK"}}, AfterCheck},
		{"facing a bet", map[string][]string{"P2": {"CHECK"}, "P3": {"BET 40"}}, FacingBet},
		{"facing a raise", map[string][]string{"P2": {"RAISE 120"}}, FacingBet},
		{"own bet does not count", map[string][]string{"P1": {"BET 40"}, "P2": {"CALL"}}, AfterCheck},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := FlopActionSituation(snap, "P1", tc.records)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	_, ok := FlopActionSituation(game.Snapshot{CurrentRound: game.Turn}, "P1", nil)
	assert.False(t, ok)
}

func TestClientSuggest(t *testing.T) {
	t.Parallel()

	queries := make(chan url.Values, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/poker/suggestion", r.URL.Path)
		queries <- r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"advices":[{"action":"CALL","frequency":0.3},{"action":"RAISE","frequency":0.6,"sizingRange":{"min":2.5,"max":3}}],"explanation":"in position"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", WithLogger(log.New(io.Discard)), WithRateLimit(100))
	resp, err := c.Suggest(context.Background(), Request{
		MyCards:     []string{"As", "Kd"},
		MyRole:      0,
		HasPosition: true,
		Phase:       1,
		BigBlind:    20,
	})
	require.NoError(t, err)

	gotQuery := <-queries
	assert.Equal(t, []string{"As", "Kd"}, gotQuery["myCards"])
	assert.Equal(t, []string{"true"}, gotQuery["hasPosition"])
	assert.Equal(t, []string{"20"}, gotQuery["bigBlind"])

	require.Len(t, resp.Advices, 2)
	best, ok := resp.Best()
	require.True(t, ok)
	assert.Equal(t, "RAISE", best.Action)
	require.NotNil(t, best.SizingRange)
	assert.InDelta(t, 2.5, best.SizingRange.Min, 0.001)
	assert.Equal(t, "in position", resp.Explanation)
}

func TestClientErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no strategy for spot", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithLogger(log.New(io.Discard)))
	_, err := c.Suggest(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "no strategy for spot")

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer slow.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = NewClient(slow.URL, WithLogger(log.New(io.Discard))).Suggest(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
