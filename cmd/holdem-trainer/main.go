package main

import (
	"github.com/alecthomas/kong"

	"github.com/lox/holdem-trainer/internal/config"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version     kong.VersionFlag `short:"v" help:"Show version"`
	Simulate    SimulateCmd      `cmd:"" help:"Play a batch of hands with the weighted-random bots"`
	Snapshot    SnapshotCmd      `cmd:"" help:"Manage saved hands"`
	Replay      ReplayCmd        `cmd:"" help:"Replay a saved hand up to a given step"`
	HandHistory HandHistoryCmd   `cmd:"hand-history" help:"Export saved hands as PHH hand histories"`
	Roles       RolesCmd         `cmd:"" help:"Show the seat roles for a table size"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem-trainer"),
		kong.Description("No-limit hold'em betting simulator and hand trainer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFilename,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
