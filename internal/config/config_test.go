package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/bot"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/poker"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, game.DefaultSettings(), s)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, bot.SingleRaised, cfg.PotType())
	assert.Equal(t, 100, cfg.Simulation.Hands)
	assert.Equal(t, 4, cfg.Simulation.Workers)
	assert.Equal(t, "snapshots", cfg.Storage.Dir)

	rounds, err := cfg.AdviceRounds()
	require.NoError(t, err)
	assert.Equal(t, map[game.Round]bool{game.Preflop: true, game.Flop: true}, rounds)

	timeout, err := cfg.AdviceTimeout()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, timeout)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	src := `
log_level = "debug"

table {
  players     = 3
  small_blind = 5
  big_blind   = 10
  min_stack   = 800
  max_stack   = 400
  p1_role     = "BTN"
}

presets {
  use_hands     = true
  use_community = true
  flop          = ["As", "Kd", "2c"]
  turn          = "7h"
  river         = "♠9"

  player "P1" {
    cards = ["Ah", "Ad"]
  }
  player "P2" {
    cards = ["Qc", "Qd"]
  }
  player "P3" {
    cards = ["♥10", "Jh"]
  }
}

bot {
  pot_type = "3bet"
}

advice {
  enabled    = true
  base_url   = "http://advice.local:9000"
  rate_limit = 2.5
  timeout    = "3s"
  rounds     = ["flop", "turn"]
  review     = ["P1"]
}

simulation {
  hands          = 250
  workers        = 8
  seed           = 42
  save_snapshots = true
}

storage {
  dir = "/var/lib/trainer"
}
`
	path := filepath.Join(t.TempDir(), DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, 3, s.PlayerCount)
	assert.Equal(t, 5, s.SmallBlind)
	assert.Equal(t, 400, s.MinStack, "stack range is normalised")
	assert.Equal(t, 800, s.MaxStack)
	assert.Equal(t, "BTN", s.P1Role)
	assert.True(t, s.Presets.UseHands)
	assert.Equal(t, poker.MustParseCards("Th", "Jh"), s.Presets.Hands["P3"])
	assert.Equal(t, poker.MustParseCards("As", "Kd", "2c"), s.Presets.Flop)
	assert.Equal(t, poker.MustParseCards("9s"), s.Presets.River)

	assert.Equal(t, bot.ThreeBet, cfg.PotType())
	assert.True(t, cfg.Advice.Enabled)
	assert.Equal(t, "http://advice.local:9000", cfg.Advice.BaseURL)
	assert.InDelta(t, 2.5, cfg.Advice.RateLimit, 0.001)
	assert.Equal(t, []string{"P1"}, cfg.Advice.Review)

	rounds, err := cfg.AdviceRounds()
	require.NoError(t, err)
	assert.Equal(t, map[game.Round]bool{game.Flop: true, game.Turn: true}, rounds)

	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.True(t, cfg.Simulation.SaveSnapshots)
	assert.Equal(t, "/var/lib/trainer", cfg.Storage.Dir)
	assert.Empty(t, cfg.Storage.HistoryDir)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte(`table {`), "broken.hcl")
	assert.ErrorContains(t, err, "failed to parse")

	_, err = Parse([]byte(`table { seats = 3 }`), "unknown.hcl")
	assert.ErrorContains(t, err, "failed to decode")
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"too many players", `table { players = 11 }`, game.ErrConfiguration},
		{"small blind above big blind", `table {
  small_blind = 30
  big_blind   = 20
}`, game.ErrConfiguration},
		{"incomplete hand presets", `presets {
  use_hands = true
  player "P1" { cards = ["Ah", "Ad"] }
}`, game.ErrConfiguration},
		{"duplicate preset card", `table { players = 2 }
presets {
  use_hands = true
  player "P1" { cards = ["Ah", "Ad"] }
  player "P2" { cards = ["Ah", "Kd"] }
}`, game.ErrConfiguration},
		{"bad card", `presets { flop = ["Xx", "Kd", "2c"] }`, nil},
		{"bad pot type", `bot { pot_type = "limped" }`, nil},
		{"bad advice round", `advice { rounds = ["showdown"] }`, game.ErrInvalidRound},
		{"bad timeout", `advice { timeout = "soon" }`, nil},
		{"bad log level", `log_level = "loud"`, nil},
		{"negative workers", `simulation { workers = -1 }`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := Parse([]byte(tc.src), "test.hcl")
			require.NoError(t, err)
			err = cfg.Validate()
			require.Error(t, err)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}
