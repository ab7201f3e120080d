package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-trainer/internal/bot"
	"github.com/lox/holdem-trainer/internal/config"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/phh"
	"github.com/lox/holdem-trainer/internal/simulator"
	"github.com/lox/holdem-trainer/internal/snapshot"
)

func parse(t *testing.T, args ...string) *CLI {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("holdem-trainer"),
		kong.Exit(func(int) { t.Fatalf("unexpected exit parsing %v", args) }),
		kong.Vars{"version": "test", "config_file": config.DefaultFilename},
	)
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return &cli
}

func TestParseCommands(t *testing.T) {
	cli := parse(t, "snapshot", "list", "--page", "2", "--size", "10")
	assert.Equal(t, 2, cli.Snapshot.List.Page)
	assert.Equal(t, 10, cli.Snapshot.List.Size)

	cli = parse(t, "replay", "abc")
	assert.Equal(t, "abc", cli.Replay.ID)
	assert.Equal(t, -1, cli.Replay.Steps)

	cli = parse(t, "hand-history", "export", "abc", "-o", "out.phh")
	assert.Equal(t, "out.phh", cli.HandHistory.Export.Output)

	cli = parse(t, "roles")
	assert.Equal(t, 6, cli.Roles.Players)

	cli = parse(t, "simulate", "--hands", "20", "--pot-type", "3bet", "--seed", "9")
	assert.Equal(t, 20, cli.Simulate.Hands)
	assert.Equal(t, "3bet", cli.Simulate.PotType)
	require.NotNil(t, cli.Simulate.Seed)
	assert.Equal(t, int64(9), *cli.Simulate.Seed)
}

// savedHand runs one simulated hand into a store under dir and returns
// globals pointing at it
func savedHand(t *testing.T) (*Globals, *snapshot.FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "holdem-trainer.hcl")
	storeDir := filepath.Join(dir, "snapshots")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf("log_level = \"error\"\n\nstorage {\n  dir = %q\n}\n", storeDir)), 0o644))

	store, err := snapshot.NewFileStore(storeDir)
	require.NoError(t, err)

	settings := game.DefaultSettings()
	settings.PlayerCount = 4
	sim := simulator.New(simulator.Config{
		Hands:    1,
		Seed:     11,
		Settings: settings,
		PotType:  bot.SingleRaised,
		Store:    store,
		Logger:   log.New(io.Discard),
	})
	_, err = sim.Run(context.Background())
	require.NoError(t, err)

	page, err := store.List(0, 5)
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	return &Globals{Config: cfgPath, NoColor: true}, store, page.Content[0].ID
}

func TestSnapshotCommands(t *testing.T) {
	globals, store, id := savedHand(t)

	require.NoError(t, (&SnapshotListCmd{Size: 5}).Run(globals))
	require.NoError(t, (&SnapshotRenameCmd{ID: id, Name: "  Squeeze spot "}).Run(globals))
	require.NoError(t, (&SnapshotRemarkCmd{ID: id, Player: "P2", Remark: "overfolds to 3bets"}).Run(globals))
	require.NoError(t, (&SnapshotShowCmd{ID: id}).Run(globals))

	rec, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Squeeze spot", rec.Name)
	assert.Equal(t, map[string]string{"P2": "overfolds to 3bets"}, rec.Remarks)

	require.NoError(t, (&SnapshotRemarkCmd{ID: id, Player: "P2"}).Run(globals))
	rec, err = store.Get(id)
	require.NoError(t, err)
	assert.Empty(t, rec.Remarks)

	require.NoError(t, (&SnapshotDeleteCmd{ID: id}).Run(globals))
	_, err = store.Get(id)
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	assert.ErrorIs(t, (&SnapshotShowCmd{ID: id}).Run(globals), snapshot.ErrNotFound)
}

func TestReplayCommand(t *testing.T) {
	globals, _, id := savedHand(t)

	require.NoError(t, (&ReplayCmd{ID: id, Steps: -1}).Run(globals))
	require.NoError(t, (&ReplayCmd{ID: id, Steps: 2, Log: true}).Run(globals))
	require.NoError(t, (&ReplayCmd{ID: id, Steps: 0}).Run(globals))
}

func TestHandHistoryExport(t *testing.T) {
	globals, store, id := savedHand(t)
	out := filepath.Join(t.TempDir(), "hand.phh")

	require.NoError(t, (&HandHistoryExportCmd{ID: id, Output: out}).Run(globals))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	hand, err := phh.Decode(f)
	require.NoError(t, err)

	rec, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "NT", hand.Variant)
	assert.Equal(t, rec.HandID, hand.HandID)
	assert.Len(t, hand.StartingStacks, 4)
	assert.NotEmpty(t, hand.Actions)
}

func TestRolesCommand(t *testing.T) {
	require.NoError(t, (&RolesCmd{Players: 6}).Run(&Globals{}))
	require.NoError(t, (&RolesCmd{Players: 2}).Run(&Globals{}))
	assert.Error(t, (&RolesCmd{Players: 1}).Run(&Globals{}))
	assert.Error(t, (&RolesCmd{Players: 11}).Run(&Globals{}))
}
