package actionlog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/poker"
)

// ErrReplayMismatch is returned when a recorded step does not reproduce
var ErrReplayMismatch = errors.New("replay does not match history")

// Replay rebuilds the hand from a history, applying the first steps entries
// after the initial state. A negative steps replays everything. Dealt cards
// come from the deck saved in the initial state and are checked against the
// recorded ones.
func Replay(entries []Entry, steps int) (*game.State, error) {
	if len(entries) == 0 || entries[0].Type != EntryInitialState || entries[0].Snapshot == nil {
		return nil, fmt.Errorf("%w: history must begin with an initial state", ErrReplayMismatch)
	}
	st, err := game.Restore(*entries[0].Snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to restore initial state: %w", err)
	}

	rest := entries[1:]
	if steps >= 0 && steps < len(rest) {
		rest = rest[:steps]
	}

	for _, e := range rest {
		var cmds []game.Command
		switch e.Type {
		case EntryRoundStart:
			cmds = []game.Command{game.StartRound{Round: e.Round}}
		case EntryBlind:
			// Posted by the round start
			continue
		case EntryAction:
			action, err := game.ParseAction(e.Action)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", e.Seq, err)
			}
			cmds = []game.Command{
				game.Act{PlayerID: e.PlayerID, Action: action, Amount: e.Amount},
				game.Advance{},
			}
		case EntryDealCommunity:
			if len(st.CommunityCards) == 0 {
				cmds = []game.Command{game.DealFlopCards{}}
			} else {
				cmds = []game.Command{game.DealStreet{}}
			}
		default:
			return nil, fmt.Errorf("%w: step %d has unexpected type %q", ErrReplayMismatch, e.Seq, e.Type)
		}

		before := len(st.CommunityCards)
		for _, cmd := range cmds {
			if st, err = game.Apply(st, cmd); err != nil {
				return nil, fmt.Errorf("step %d: %w", e.Seq, err)
			}
		}

		if e.Type == EntryDealCommunity && !slices.Equal(st.CommunityCards[before:], e.Cards) {
			return nil, fmt.Errorf("%w: step %d dealt %s, recorded %s", ErrReplayMismatch, e.Seq,
				poker.FormatCards(st.CommunityCards[before:]), poker.FormatCards(e.Cards))
		}
	}
	return st, nil
}
