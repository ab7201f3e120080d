package phh

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-trainer/internal/actionlog"
	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/poker"
)

// FromHistory builds a hand history from a recorded hand. final is the state
// the hand ended in; when everyone but one player folded, the finishing
// stacks award that player the pot. Hands that reach a showdown are left
// without finishing stacks since no hand evaluation is done.
func FromHistory(handID string, entries []actionlog.Entry, final game.Snapshot) (*HandHistory, error) {
	if len(entries) == 0 || entries[0].Type != actionlog.EntryInitialState || entries[0].Snapshot == nil {
		return nil, fmt.Errorf("phh: history does not start with the initial state")
	}
	initial := entries[0].Snapshot
	n := len(initial.Players)
	if n < 2 || initial.SBIndex < 0 || initial.SBIndex >= n {
		return nil, fmt.Errorf("phh: initial state has no small blind")
	}
	if len(final.Players) != n {
		return nil, fmt.Errorf("phh: final state has %d players, want %d", len(final.Players), n)
	}

	// PHH seat of each engine seat
	seatOf := make(map[string]int, n)
	order := make([]int, n)
	for i := range n {
		engineSeat := (initial.SBIndex + i) % n
		order[i] = engineSeat
		seatOf[initial.Players[engineSeat].ID] = i
	}

	ts := entries[0].Timestamp.UTC()
	hand := &HandHistory{
		Variant:           "NT",
		SeatCount:         n,
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            initial.Settings.BigBlind,
		StartingStacks:    make([]int, n),
		Players:           make([]string, n),
		HandID:            handID,
		Metadata:          map[string]any{"final_round": final.CurrentRound.String()},
		Timestamp:         ts,
	}
	if !ts.IsZero() {
		hand.Time = ts.Format("15:04:05")
		hand.TimeZone = "UTC"
		hand.Day, hand.Month, hand.Year = ts.Day(), int(ts.Month()), ts.Year()
	}

	for i, engineSeat := range order {
		p := initial.Players[engineSeat]
		hand.Seats = append(hand.Seats, engineSeat+1)
		hand.Players[i] = p.ID
		hand.StartingStacks[i] = p.Stack + p.Bet
		if len(p.HoleCards) > 0 {
			hand.Actions = append(hand.Actions, fmt.Sprintf("d dh p%d %s", i+1, joinCards(p.HoleCards)))
		}
	}

	for _, e := range entries[1:] {
		switch e.Type {
		case actionlog.EntryBlind:
			seat, ok := seatOf[e.PlayerID]
			if !ok {
				return nil, fmt.Errorf("phh: unknown player %s", e.PlayerID)
			}
			hand.BlindsOrStraddles[seat] = e.Amount
		case actionlog.EntryAction:
			seat, ok := seatOf[e.PlayerID]
			if !ok {
				return nil, fmt.Errorf("phh: unknown player %s", e.PlayerID)
			}
			action, err := game.ParseAction(e.Action)
			if err != nil {
				return nil, fmt.Errorf("phh: %w", err)
			}
			if s, ok := FormatAction(seat, action, e.Amount); ok {
				hand.Actions = append(hand.Actions, s)
			}
		case actionlog.EntryDealCommunity:
			hand.Actions = append(hand.Actions, "d db "+joinCards(e.Cards))
		}
	}

	winner := -1
	for i, engineSeat := range order {
		if final.Players[engineSeat].IsFolded {
			continue
		}
		if winner >= 0 {
			winner = -1
			break
		}
		winner = i
	}
	if winner >= 0 {
		hand.FinishingStacks = make([]int, n)
		hand.Winnings = make([]int, n)
		for i, engineSeat := range order {
			hand.FinishingStacks[i] = final.Players[engineSeat].Stack
		}
		hand.FinishingStacks[winner] += final.TotalPot
		hand.Winnings[winner] = final.TotalPot
	}
	return hand, nil
}

func joinCards(cards []poker.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.String())
	}
	return b.String()
}
