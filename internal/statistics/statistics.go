// Package statistics aggregates the outcome of simulated hands.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/holdem-trainer/internal/game"
)

// HandResult is the outcome of a single simulated hand
type HandResult struct {
	HandID        string
	Seed          int64      // RNG seed for this hand (for replay)
	FinalRound    game.Round // Furthest round reached
	Showdown      bool       // More than one player was left at the end
	PotChips      int        // Pot including the last round's bets
	BigBlind      int
	Actions       int // Voluntary actions taken
	PreflopRaises int
	Suggestions   int // Advice requests made
	AdviceErrors  int // Advice requests that failed
}

// PotBB is the final pot in big blinds
func (r HandResult) PotBB() float64 {
	if r.BigBlind <= 0 {
		return 0
	}
	return float64(r.PotChips) / float64(r.BigBlind)
}

// BigPotBB is the size from which a pot counts as big
const BigPotBB = 50

// Statistics tracks pot sizes and how far hands went
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64   // Sum of squares for variance calculation
	Values []float64 // Pot sizes in bb, kept for median and percentiles

	Showdowns   int // Hands that ended with two or more players
	FoldedOut   int // Hands won by everyone else folding
	RoundCounts map[game.Round]int

	// Pre-flop raise counts, capped at 3
	RaiseCounts [4]int

	Actions      int
	Suggestions  int
	AdviceErrors int

	MaxPotChips int
	MaxPotBB    float64
	BigPots     int // Pots >= BigPotBB
}

// Mean returns the mean final pot in big blinds
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance of the pot sizes
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(math.Max(s.Variance(), 0))
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a hand result
func (s *Statistics) Add(result HandResult) {
	potBB := result.PotBB()
	s.Hands++
	s.SumBB += potBB
	s.SumBB2 += potBB * potBB
	s.Values = append(s.Values, potBB)

	if result.Showdown {
		s.Showdowns++
	} else {
		s.FoldedOut++
	}
	if s.RoundCounts == nil {
		s.RoundCounts = make(map[game.Round]int)
	}
	s.RoundCounts[result.FinalRound]++
	s.RaiseCounts[min(max(result.PreflopRaises, 0), len(s.RaiseCounts)-1)]++

	s.Actions += result.Actions
	s.Suggestions += result.Suggestions
	s.AdviceErrors += result.AdviceErrors

	if result.PotChips > s.MaxPotChips {
		s.MaxPotChips = result.PotChips
		s.MaxPotBB = potBB
	}
	if potBB >= BigPotBB {
		s.BigPots++
	}
}

// Merge folds the results of another collector into s
func (s *Statistics) Merge(o *Statistics) {
	s.Hands += o.Hands
	s.SumBB += o.SumBB
	s.SumBB2 += o.SumBB2
	s.Values = append(s.Values, o.Values...)
	s.Showdowns += o.Showdowns
	s.FoldedOut += o.FoldedOut
	for r, n := range o.RoundCounts {
		if s.RoundCounts == nil {
			s.RoundCounts = make(map[game.Round]int)
		}
		s.RoundCounts[r] += n
	}
	for i, n := range o.RaiseCounts {
		s.RaiseCounts[i] += n
	}
	s.Actions += o.Actions
	s.Suggestions += o.Suggestions
	s.AdviceErrors += o.AdviceErrors
	if o.MaxPotChips > s.MaxPotChips {
		s.MaxPotChips = o.MaxPotChips
		s.MaxPotBB = o.MaxPotBB
	}
	s.BigPots += o.BigPots
}

// ShowdownRate is the share of hands that reached a showdown
func (s *Statistics) ShowdownRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Showdowns) / float64(s.Hands)
}

// Median returns the median pot size in big blinds
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the pot size at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks that the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)",
			len(s.Values), s.Hands)
	}
	if s.Showdowns+s.FoldedOut != s.Hands {
		return fmt.Errorf("showdowns (%d) and folded-out hands (%d) do not add up to %d",
			s.Showdowns, s.FoldedOut, s.Hands)
	}

	rounds := 0
	for _, n := range s.RoundCounts {
		rounds += n
	}
	if rounds != s.Hands {
		return fmt.Errorf("round totals (%d) do not match total hands (%d)", rounds, s.Hands)
	}

	raises := 0
	for _, n := range s.RaiseCounts {
		raises += n
	}
	if raises != s.Hands {
		return fmt.Errorf("raise totals (%d) do not match total hands (%d)", raises, s.Hands)
	}
	if s.AdviceErrors > s.Suggestions {
		return fmt.Errorf("advice errors (%d) exceed requests (%d)", s.AdviceErrors, s.Suggestions)
	}
	return nil
}
