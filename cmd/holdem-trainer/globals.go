package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/holdem-trainer/internal/config"
	"github.com/lox/holdem-trainer/internal/snapshot"
)

// Globals are the flags shared by every command
type Globals struct {
	Config   string `short:"c" help:"Path to the HCL config file" default:"${config_file}" env:"HOLDEM_TRAINER_CONFIG"`
	LogLevel string `help:"Log level (debug, info, warn, error); overrides the config file"`
	NoColor  bool   `help:"Disable colored output" env:"NO_COLOR"`
}

// setup loads the configuration and prepares logging and colour output
func (g *Globals) setup() (*config.Config, *log.Logger, error) {
	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	path := g.Config
	if path == "" {
		path = config.DefaultFilename
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if g.NoColor {
		logger.SetColorProfile(termenv.Ascii)
	}
	return cfg, logger, nil
}

// store opens the snapshot store named by the configuration
func (g *Globals) store() (*snapshot.FileStore, *config.Config, *log.Logger, error) {
	cfg, logger, err := g.setup()
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := snapshot.NewFileStore(cfg.Storage.Dir, snapshot.WithLogger(logger))
	if err != nil {
		return nil, nil, nil, err
	}
	return store, cfg, logger, nil
}
