// Package simulator plays batches of independent hands with the bot policy,
// optionally asking the advice service for suggestions, and records each hand
// for later review.
package simulator

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem-trainer/internal/actionlog"
	"github.com/lox/holdem-trainer/internal/advice"
	"github.com/lox/holdem-trainer/internal/bot"
	"github.com/lox/holdem-trainer/internal/fileutil"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/gameid"
	"github.com/lox/holdem-trainer/internal/phh"
	"github.com/lox/holdem-trainer/internal/randutil"
	"github.com/lox/holdem-trainer/internal/snapshot"
	"github.com/lox/holdem-trainer/internal/statistics"
)

// maxSteps bounds the actions in one betting round
const maxSteps = 1000

// Config holds configuration for running simulations
type Config struct {
	Hands    int
	Workers  int
	Seed     int64
	Settings game.Settings
	PotType  bot.PotType

	// Advice is consulted on AdviceRounds for the Review players, or for
	// every player when Review is empty. Nil disables advice.
	Advice        advice.Source
	AdviceRounds  map[game.Round]bool
	AdviceTimeout time.Duration
	Review        map[string]bool

	// Store receives every finished hand when set
	Store snapshot.Store
	// HistoryDir receives a PHH file per hand when set
	HistoryDir string

	HandTimeout time.Duration
	Clock       quartz.Clock
	Logger      *log.Logger

	// OnHand is called after each hand, one call at a time
	OnHand func(*Hand)
}

// Hand is a finished simulated hand
type Hand struct {
	ID          string
	Seed        int64
	Final       game.Snapshot
	History     []actionlog.Entry
	Suggestions []advice.Suggestion
	SnapshotID  string
	Result      statistics.HandResult
}

// Simulator runs poker hand simulations
type Simulator struct {
	config Config
	logger *log.Logger
	mu     sync.Mutex
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.AdviceTimeout <= 0 {
		config.AdviceTimeout = 10 * time.Second
	}
	return &Simulator{config: config, logger: config.Logger.WithPrefix("simulator")}
}

// Run plays config.Hands hands across the configured workers. Each hand is
// seeded from the run seed and its index, so results do not depend on the
// number of workers.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Hands < 1 {
		return nil, fmt.Errorf("hands must be positive, got %d", s.config.Hands)
	}
	if err := s.config.Settings.Validate(); err != nil {
		return nil, err
	}

	jobs := make(chan int)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := range s.config.Hands {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	total := &statistics.Statistics{}
	for w := range s.config.Workers {
		g.Go(func() error {
			stats := &statistics.Statistics{}
			for i := range jobs {
				hand, err := s.PlayHand(ctx, randutil.SeedFor(s.config.Seed, i))
				if err != nil {
					return fmt.Errorf("hand %d: %w", i+1, err)
				}
				stats.Add(hand.Result)
				s.report(hand)
			}
			s.logger.Debug("Worker finished", "worker", w, "hands", stats.Hands)

			s.mu.Lock()
			total.Merge(stats)
			s.mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return total, nil
}

func (s *Simulator) report(hand *Hand) {
	if s.config.OnHand == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config.OnHand(hand)
}

// PlayHand plays a single hand from seed to completion
func (s *Simulator) PlayHand(ctx context.Context, seed int64) (*Hand, error) {
	if s.config.HandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.HandTimeout)
		defer cancel()
	}

	rng := randutil.New(seed)
	hand := &Hand{
		ID:   gameid.NewGenerator(s.config.Clock, rng).Generate(),
		Seed: seed,
	}
	logger := s.logger.With("hand", hand.ID)

	engine := game.NewEngine(rng, logger)
	if err := engine.Reset(s.config.Settings); err != nil {
		return nil, err
	}
	if err := engine.DealHoleCards(); err != nil {
		return nil, err
	}

	policy := bot.NewWeightedRandom(rng, s.config.PotType, logger)
	history := actionlog.New(s.config.Clock)
	history.Start(engine.State())

	actions := 0
	for _, round := range []game.Round{game.Preflop, game.Flop, game.Turn, game.River} {
		if engine.IsHandComplete() {
			break
		}
		switch round {
		case game.Flop:
			if err := engine.DealFlop(); err != nil {
				return nil, err
			}
			history.Dealt(engine.State())
		case game.Turn, game.River:
			if err := engine.DealTurnOrRiver(); err != nil {
				return nil, err
			}
			history.Dealt(engine.State())
		}
		if err := engine.StartNewRound(round); err != nil {
			return nil, err
		}
		history.RoundStarted(engine.State())

		for steps := 0; !engine.IsBettingRoundComplete() && !engine.IsHandComplete(); steps++ {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("hand %s (seed %d) aborted: %w", hand.ID, seed, err)
			}
			if steps >= maxSteps {
				return nil, fmt.Errorf("hand %s (seed %d): %s did not finish", hand.ID, seed, round)
			}

			p, ok := engine.CurrentPlayer()
			if !ok {
				return nil, fmt.Errorf("hand %s: no player to act in %s", hand.ID, round)
			}
			snap := engine.GameState()
			if s.wantsAdvice(round, p.ID) {
				hand.Suggestions = append(hand.Suggestions, s.suggest(ctx, logger, snap, p.ID, history))
			}

			d, err := policy.Decide(snap, p.ID, s.config.Review)
			if err != nil {
				return nil, err
			}
			if err := engine.ExecuteAction(p.ID, d.Action, d.Amount); err != nil {
				return nil, fmt.Errorf("hand %s: %s chose %s: %w", hand.ID, p.ID, d, err)
			}
			history.Acted(engine.State(), p.ID, d.Action)
			actions++

			if err := engine.State().CheckInvariants(); err != nil {
				return nil, fmt.Errorf("hand %s after %s %s: %w", hand.ID, p.ID, d, err)
			}
			engine.MoveToNextPlayer()
		}
	}

	hand.Final = engine.GameState()
	hand.History = history.Entries()
	hand.Result = statistics.HandResult{
		HandID:        hand.ID,
		Seed:          seed,
		FinalRound:    hand.Final.CurrentRound,
		Showdown:      !engine.IsHandComplete(),
		PotChips:      hand.Final.TotalPot,
		BigBlind:      s.config.Settings.BigBlind,
		Actions:       actions,
		PreflopRaises: hand.Final.PreflopRaiseCount,
		Suggestions:   len(hand.Suggestions),
	}
	for _, sg := range hand.Suggestions {
		if sg.Error != "" {
			hand.Result.AdviceErrors++
		}
	}

	if err := s.persist(hand); err != nil {
		return nil, err
	}
	logger.Debug("Hand finished", "round", hand.Final.CurrentRound, "pot", hand.Final.TotalPot, "actions", actions)
	return hand, nil
}

func (s *Simulator) wantsAdvice(round game.Round, playerID string) bool {
	if s.config.Advice == nil || !s.config.AdviceRounds[round] {
		return false
	}
	return len(s.config.Review) == 0 || s.config.Review[playerID]
}

// suggest asks the advice service about the current spot. Failures are
// recorded on the suggestion and never stop the hand.
func (s *Simulator) suggest(ctx context.Context, logger *log.Logger, snap game.Snapshot, playerID string, history *actionlog.Log) advice.Suggestion {
	sg := advice.Suggestion{PlayerID: playerID, Round: snap.CurrentRound}

	req, err := advice.BuildRequest(snap, playerID, history.Records(game.Flop))
	if err != nil {
		sg.Error = err.Error()
		logger.Warn("Could not build advice request", "player", playerID, "error", err)
		return sg
	}
	sg.Request = req

	ctx, cancel := context.WithTimeout(ctx, s.config.AdviceTimeout)
	defer cancel()
	resp, err := s.config.Advice.Suggest(ctx, req)
	if err != nil {
		sg.Error = err.Error()
		logger.Warn("Advice request failed", "player", playerID, "error", err)
		return sg
	}
	sg.Response = resp
	return sg
}

func (s *Simulator) persist(hand *Hand) error {
	if s.config.Store != nil {
		rec, err := s.config.Store.Create(snapshot.Record{
			HandID:      hand.ID,
			Name:        fmt.Sprintf("Hand %s", hand.ID[:8]),
			State:       hand.Final,
			History:     hand.History,
			Suggestions: hand.Suggestions,
		})
		if err != nil {
			return err
		}
		hand.SnapshotID = rec.ID
	}

	if s.config.HistoryDir != "" {
		hh, err := phh.FromHistory(hand.ID, hand.History, hand.Final)
		if err != nil {
			return err
		}
		data, err := phh.EncodeToBytes(hh)
		if err != nil {
			return err
		}
		path := filepath.Join(s.config.HistoryDir, hand.ID+".phh")
		if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write hand history: %w", err)
		}
	}
	return nil
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "Hands played: %d (%d actions)\n", stats.Hands, stats.Actions)
	fmt.Fprintf(w, "Showdowns: %d (%.1f%%), folded out: %d\n",
		stats.Showdowns, stats.ShowdownRate()*100, stats.FoldedOut)

	fmt.Fprintf(w, "\nPot size: mean %.2f bb, median %.2f bb, std dev %.2f bb\n",
		stats.Mean(), stats.Median(), stats.StdDev())
	fmt.Fprintf(w, "95%% CI: [%.2f, %.2f] bb\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
	fmt.Fprintf(w, "Max pot: %d chips (%.1f bb), big pots (>=%dbb): %d\n",
		stats.MaxPotChips, stats.MaxPotBB, statistics.BigPotBB, stats.BigPots)

	fmt.Fprintf(w, "\nHands ending on each round:\n")
	for _, r := range []game.Round{game.Preflop, game.Flop, game.Turn, game.River} {
		fmt.Fprintf(w, "  %-8s %d\n", r, stats.RoundCounts[r])
	}
	fmt.Fprintf(w, "Pre-flop raises: none %d, one %d, two %d, three+ %d\n",
		stats.RaiseCounts[0], stats.RaiseCounts[1], stats.RaiseCounts[2], stats.RaiseCounts[3])

	if stats.Suggestions > 0 {
		fmt.Fprintf(w, "\nAdvice requests: %d (%d failed)\n", stats.Suggestions, stats.AdviceErrors)
	}
}
