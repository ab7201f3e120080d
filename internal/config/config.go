// Package config loads the trainer configuration from an HCL file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-trainer/internal/bot"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/poker"
)

// DefaultFilename is the configuration file looked for by the CLI
const DefaultFilename = "holdem-trainer.hcl"

// Config is the complete trainer configuration
type Config struct {
	LogLevel   string            `hcl:"log_level,optional"`
	Table      *TableConfig      `hcl:"table,block"`
	Presets    *PresetsConfig    `hcl:"presets,block"`
	Bot        *BotConfig        `hcl:"bot,block"`
	Advice     *AdviceConfig     `hcl:"advice,block"`
	Simulation *SimulationConfig `hcl:"simulation,block"`
	Storage    *StorageConfig    `hcl:"storage,block"`
}

// TableConfig describes the table every hand is played on
type TableConfig struct {
	Players    int    `hcl:"players,optional"`
	SmallBlind int    `hcl:"small_blind,optional"`
	BigBlind   int    `hcl:"big_blind,optional"`
	MinStack   int    `hcl:"min_stack,optional"`
	MaxStack   int    `hcl:"max_stack,optional"`
	P1Role     string `hcl:"p1_role,optional"`
}

// PresetsConfig forces cards for scenario practice
type PresetsConfig struct {
	UseHands     bool           `hcl:"use_hands,optional"`
	UseCommunity bool           `hcl:"use_community,optional"`
	Flop         []string       `hcl:"flop,optional"`
	Turn         string         `hcl:"turn,optional"`
	River        string         `hcl:"river,optional"`
	Players      []PlayerPreset `hcl:"player,block"`
}

// PlayerPreset holds the hole cards for one player
type PlayerPreset struct {
	ID    string   `hcl:"id,label"`
	Cards []string `hcl:"cards"`
}

// BotConfig configures the opponent policy
type BotConfig struct {
	PotType string `hcl:"pot_type,optional"`
}

// AdviceConfig configures the strategy advice service
type AdviceConfig struct {
	Enabled   bool     `hcl:"enabled,optional"`
	BaseURL   string   `hcl:"base_url,optional"`
	RateLimit float64  `hcl:"rate_limit,optional"`
	Timeout   string   `hcl:"timeout,optional"`
	Rounds    []string `hcl:"rounds,optional"`
	Review    []string `hcl:"review,optional"`
}

// SimulationConfig controls batch runs
type SimulationConfig struct {
	Hands         int   `hcl:"hands,optional"`
	Workers       int   `hcl:"workers,optional"`
	Seed          int64 `hcl:"seed,optional"`
	SaveSnapshots bool  `hcl:"save_snapshots,optional"`
}

// StorageConfig locates persisted data. An empty HistoryDir disables PHH
// files during simulation.
type StorageConfig struct {
	Dir        string `hcl:"dir,optional"`
	HistoryDir string `hcl:"history_dir,optional"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills in defaults
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := game.DefaultSettings()

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.Table == nil {
		c.Table = &TableConfig{}
	}
	if c.Table.Players == 0 {
		c.Table.Players = def.PlayerCount
	}
	if c.Table.SmallBlind == 0 {
		c.Table.SmallBlind = def.SmallBlind
	}
	if c.Table.BigBlind == 0 {
		c.Table.BigBlind = def.BigBlind
	}
	if c.Table.MinStack == 0 {
		c.Table.MinStack = def.MinStack
	}
	if c.Table.MaxStack == 0 {
		c.Table.MaxStack = def.MaxStack
	}
	if c.Table.P1Role == "" {
		c.Table.P1Role = def.P1Role
	}

	if c.Presets == nil {
		c.Presets = &PresetsConfig{}
	}

	if c.Bot == nil {
		c.Bot = &BotConfig{}
	}
	if c.Bot.PotType == "" {
		c.Bot.PotType = string(bot.SingleRaised)
	}

	if c.Advice == nil {
		c.Advice = &AdviceConfig{}
	}
	if c.Advice.BaseURL == "" {
		c.Advice.BaseURL = "http://localhost:8080"
	}
	if c.Advice.Timeout == "" {
		c.Advice.Timeout = "10s"
	}
	if c.Advice.Rounds == nil {
		c.Advice.Rounds = []string{"preflop", "flop"}
	}

	if c.Simulation == nil {
		c.Simulation = &SimulationConfig{}
	}
	if c.Simulation.Hands == 0 {
		c.Simulation.Hands = 100
	}
	if c.Simulation.Workers == 0 {
		c.Simulation.Workers = 4
	}

	if c.Storage == nil {
		c.Storage = &StorageConfig{}
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "snapshots"
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if _, err := c.Settings(); err != nil {
		return err
	}
	if _, err := bot.ParsePotType(c.Bot.PotType); err != nil {
		return fmt.Errorf("bot: %w", err)
	}
	if _, err := c.AdviceRounds(); err != nil {
		return fmt.Errorf("advice: %w", err)
	}
	if _, err := c.AdviceTimeout(); err != nil {
		return fmt.Errorf("advice: %w", err)
	}
	if c.Advice.RateLimit < 0 {
		return fmt.Errorf("advice: rate_limit cannot be negative")
	}
	if c.Simulation.Hands < 1 {
		return fmt.Errorf("simulation: hands must be positive")
	}
	if c.Simulation.Workers < 1 {
		return fmt.Errorf("simulation: workers must be positive")
	}
	return nil
}

// Settings converts the table and preset blocks into engine settings
func (c *Config) Settings() (game.Settings, error) {
	s := game.Settings{
		PlayerCount: c.Table.Players,
		SmallBlind:  c.Table.SmallBlind,
		BigBlind:    c.Table.BigBlind,
		MinStack:    c.Table.MinStack,
		MaxStack:    c.Table.MaxStack,
		P1Role:      c.Table.P1Role,
	}

	p := c.Presets
	s.Presets.UseHands = p.UseHands
	s.Presets.UseCommunity = p.UseCommunity

	var err error
	if len(p.Players) > 0 {
		s.Presets.Hands = make(map[string][]poker.Card, len(p.Players))
		for _, pp := range p.Players {
			if s.Presets.Hands[pp.ID], err = poker.ParseCards(pp.Cards...); err != nil {
				return game.Settings{}, fmt.Errorf("presets: player %s: %w", pp.ID, err)
			}
		}
	}
	if len(p.Flop) > 0 {
		if s.Presets.Flop, err = poker.ParseCards(p.Flop...); err != nil {
			return game.Settings{}, fmt.Errorf("presets: flop: %w", err)
		}
	}
	if s.Presets.Turn, err = parseOptional(p.Turn); err != nil {
		return game.Settings{}, fmt.Errorf("presets: turn: %w", err)
	}
	if s.Presets.River, err = parseOptional(p.River); err != nil {
		return game.Settings{}, fmt.Errorf("presets: river: %w", err)
	}

	s = s.Normalized()
	if err := s.Validate(); err != nil {
		return game.Settings{}, err
	}
	return s, nil
}

// PotType returns the configured bot pot type
func (c *Config) PotType() bot.PotType {
	pt, err := bot.ParsePotType(c.Bot.PotType)
	if err != nil {
		return bot.SingleRaised
	}
	return pt
}

// AdviceRounds returns the rounds on which advice is requested
func (c *Config) AdviceRounds() (map[game.Round]bool, error) {
	rounds := make(map[game.Round]bool, len(c.Advice.Rounds))
	for _, name := range c.Advice.Rounds {
		r, err := game.ParseRound(name)
		if err != nil {
			return nil, err
		}
		rounds[r] = true
	}
	return rounds, nil
}

// AdviceTimeout returns the per-request advice timeout
func (c *Config) AdviceTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Advice.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Advice.Timeout, err)
	}
	return d, nil
}

func parseOptional(code string) ([]poker.Card, error) {
	if code == "" {
		return nil, nil
	}
	return poker.ParseCards(code)
}
