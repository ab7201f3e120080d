package bot

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/poker"
)

// ShortStack is the stack below which the weighted policy only checks or
// folds.
const ShortStack = 100

// DefaultWeights is the relative chance of each action being picked
var DefaultWeights = map[game.Action]int{
	game.Check: 5,
	game.Call:  4,
	game.Bet:   3,
	game.Raise: 2,
	game.Fold:  1,
	game.AllIn: 0,
}

// WeightedRandom picks among the legal actions with fixed weights. It never
// moves all in: bets and raises always leave at least one chip behind.
type WeightedRandom struct {
	rng     poker.RNG
	potType PotType
	weights map[game.Action]int
	logger  *log.Logger
}

// NewWeightedRandom creates the policy
func NewWeightedRandom(rng poker.RNG, potType PotType, logger *log.Logger) *WeightedRandom {
	if potType == "" {
		potType = SingleRaised
	}
	return &WeightedRandom{
		rng:     rng,
		potType: potType,
		weights: DefaultWeights,
		logger:  logger.WithPrefix("bot"),
	}
}

// Decide implements Policy
func (w *WeightedRandom) Decide(snap game.Snapshot, playerID string, reviewed map[string]bool) (Decision, error) {
	var me *game.Player
	for i := range snap.Players {
		if snap.Players[i].ID == playerID {
			me = &snap.Players[i]
			break
		}
	}
	if me == nil {
		return Decision{}, fmt.Errorf("player %s not found", playerID)
	}

	d := w.decide(snap, *me, reviewed[playerID])
	w.logger.Debug("Decision", "player", playerID, "round", snap.CurrentRound, "decision", d.String())
	return d, nil
}

func (w *WeightedRandom) decide(snap game.Snapshot, me game.Player, underReview bool) Decision {
	toCall := snap.HighestBet - me.Bet
	if me.Stack < ShortStack {
		if toCall <= 0 {
			return Decision{Action: game.Check}
		}
		return Decision{Action: game.Fold}
	}

	minRaiseTarget := snap.HighestBet + snap.LastRaiseAmount
	canRaise := snap.HighestBet > 0 && me.Stack+me.Bet > minRaiseTarget

	var options []game.Action
	if toCall <= 0 {
		options = append(options, game.Check)
		switch {
		case snap.HighestBet == 0 && me.Stack > snap.Settings.BigBlind:
			options = append(options, game.Bet)
		case canRaise:
			// The big blind's option: the wager is already matched.
			options = append(options, game.Raise)
		}
	} else {
		options = append(options, game.Fold)
		if me.Stack > toCall {
			options = append(options, game.Call)
			if canRaise {
				options = append(options, game.Raise)
			}
		}
	}

	forced := false
	if snap.CurrentRound == game.Preflop && w.potType != Unrestricted {
		raises := snap.PreflopRaiseCount
		switch w.potType {
		case ThreeBet, FourBet:
			if raises < w.potType.requiredRaises() && slices.Contains(options, game.Raise) {
				return Decision{Action: game.Raise, Amount: minRaiseTarget}
			}
		case SingleRaised:
			forced = raises < 1 && slices.Contains(options, game.Raise)
		}
		if limit := w.potType.raiseCap(); limit >= 0 && raises >= limit {
			options = slices.DeleteFunc(options, func(a game.Action) bool { return a == game.Raise })
		}
	}

	var action game.Action
	if forced {
		action = game.Raise
	} else {
		var ok bool
		if action, ok = w.pick(options, underReview); !ok {
			if toCall <= 0 {
				return Decision{Action: game.Check}
			}
			return Decision{Action: game.Fold}
		}
	}

	switch action {
	case game.Bet:
		lo, hi := min(snap.Settings.BigBlind, me.Stack-1), me.Stack-1
		if lo >= hi {
			return Decision{Action: game.Check}
		}
		return Decision{Action: game.Bet, Amount: lo + w.rng.IntN(hi-lo+1)}
	case game.Raise:
		lo, hi := minRaiseTarget, me.Stack+me.Bet-1
		if lo >= hi {
			if toCall <= 0 {
				return Decision{Action: game.Check}
			}
			return Decision{Action: game.Call}
		}
		return Decision{Action: game.Raise, Amount: lo + w.rng.IntN(hi-lo+1)}
	default:
		return Decision{Action: action}
	}
}

// pick draws one option with probability proportional to its weight.
// Players under review never fold.
func (w *WeightedRandom) pick(options []game.Action, underReview bool) (game.Action, bool) {
	total := 0
	weights := make([]int, len(options))
	for i, a := range options {
		weight := w.weights[a]
		if a == game.Fold && underReview {
			weight = 0
		}
		weights[i] = weight
		total += weight
	}
	if total == 0 {
		return 0, false
	}

	n := w.rng.IntN(total)
	for i, weight := range weights {
		if n < weight {
			return options[i], true
		}
		n -= weight
	}
	return options[len(options)-1], true
}
