package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lox/holdem-trainer/internal/advice"
	"github.com/lox/holdem-trainer/internal/bot"
	"github.com/lox/holdem-trainer/internal/randutil"
	"github.com/lox/holdem-trainer/internal/simulator"
	"github.com/lox/holdem-trainer/internal/snapshot"
)

// SimulateCmd plays a batch of hands. Flags override the config file.
type SimulateCmd struct {
	Hands      int           `short:"n" help:"Number of hands to play"`
	Workers    int           `short:"w" help:"Number of concurrent workers"`
	Seed       *int64        `help:"Random seed for reproducible results"`
	Players    int           `short:"p" help:"Players at the table (2-10)"`
	PotType    string        `help:"Pre-flop raising target (unrestricted, single_raised, 3bet, 4bet)"`
	Advice     bool          `help:"Ask the advice service for suggestions (also enabled by the config file)"`
	Save       bool          `help:"Save every hand to the snapshot store (also enabled by the config file)"`
	HistoryDir string        `help:"Write a PHH hand history per hand to this directory"`
	Timeout    time.Duration `help:"Abort a hand that runs longer than this" default:"30s"`
	Verbose    bool          `help:"Print a line for every hand"`
}

func (cmd *SimulateCmd) Run(globals *Globals) error {
	cfg, logger, err := globals.setup()
	if err != nil {
		return err
	}

	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	if cmd.Players > 0 {
		settings.PlayerCount = cmd.Players
	}

	potType := cfg.PotType()
	if cmd.PotType != "" {
		if potType, err = bot.ParsePotType(cmd.PotType); err != nil {
			return err
		}
	}

	sc := simulator.Config{
		Hands:       cfg.Simulation.Hands,
		Workers:     cfg.Simulation.Workers,
		Seed:        cfg.Simulation.Seed,
		Settings:    settings,
		PotType:     potType,
		HistoryDir:  cfg.Storage.HistoryDir,
		HandTimeout: cmd.Timeout,
		Logger:      logger,
	}
	if cmd.Hands > 0 {
		sc.Hands = cmd.Hands
	}
	if cmd.Workers > 0 {
		sc.Workers = cmd.Workers
	}
	if cmd.Seed != nil {
		sc.Seed = *cmd.Seed
	} else if sc.Seed == 0 {
		_, sc.Seed = randutil.NewTimeSeeded()
	}
	if cmd.HistoryDir != "" {
		sc.HistoryDir = cmd.HistoryDir
	}
	if sc.HistoryDir != "" {
		if err := os.MkdirAll(sc.HistoryDir, 0o755); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	useAdvice := cfg.Advice.Enabled || cmd.Advice
	if useAdvice {
		if sc.AdviceRounds, err = cfg.AdviceRounds(); err != nil {
			return err
		}
		if sc.AdviceTimeout, err = cfg.AdviceTimeout(); err != nil {
			return err
		}
		sc.Advice = advice.NewClient(cfg.Advice.BaseURL,
			advice.WithRateLimit(cfg.Advice.RateLimit),
			advice.WithLogger(logger))
		sc.Review = make(map[string]bool, len(cfg.Advice.Review))
		for _, id := range cfg.Advice.Review {
			sc.Review[id] = true
		}
	}

	if cfg.Simulation.SaveSnapshots || cmd.Save {
		store, err := snapshot.NewFileStore(cfg.Storage.Dir, snapshot.WithLogger(logger))
		if err != nil {
			return err
		}
		sc.Store = store
	}

	if cmd.Verbose {
		sc.OnHand = func(h *simulator.Hand) {
			line := fmt.Sprintf("%s  seed=%-20d %-8s pot=%-6d actions=%d",
				h.ID, h.Seed, h.Final.CurrentRound, h.Final.TotalPot, h.Result.Actions)
			if h.SnapshotID != "" {
				line += "  snapshot=" + h.SnapshotID
			}
			fmt.Println(line)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting simulation", "hands", sc.Hands, "workers", sc.Workers, "seed", sc.Seed,
		"players", settings.PlayerCount, "potType", potType, "advice", useAdvice)
	start := time.Now()
	stats, err := simulator.New(sc).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf(" Simulation: %d hands, seed %d ", stats.Hands, sc.Seed)))
	fmt.Println()
	simulator.PrintSummary(os.Stdout, stats)
	fmt.Println(mutedStyle.Render(fmt.Sprintf("\nCompleted in %s", time.Since(start).Round(time.Millisecond))))
	return nil
}
