package main

import (
	"fmt"
	"os"

	"github.com/lox/holdem-trainer/internal/actionlog"
)

// ReplayCmd rebuilds a saved hand from its history
type ReplayCmd struct {
	ID    string `arg:"" help:"Snapshot ID"`
	Steps int    `short:"s" help:"Number of history steps to apply after the initial state (-1 for all)" default:"-1"`
	Log   bool   `help:"Print the history up to the replayed step"`
}

func (cmd *ReplayCmd) Run(globals *Globals) error {
	store, _, _, err := globals.store()
	if err != nil {
		return err
	}
	rec, err := store.Get(cmd.ID)
	if err != nil {
		return err
	}

	st, err := actionlog.Replay(rec.History, cmd.Steps)
	if err != nil {
		return err
	}

	if cmd.Log {
		last := len(rec.History) - 1
		if cmd.Steps >= 0 {
			last = min(cmd.Steps, last)
		}
		for _, e := range rec.History[:last+1] {
			fmt.Println(describeEntry(e))
		}
		fmt.Println()
	}

	title := fmt.Sprintf(" %s, step %d of %d ", rec.Name, min(max(cmd.Steps, 0), len(rec.History)-1), len(rec.History)-1)
	if cmd.Steps < 0 {
		title = fmt.Sprintf(" %s, final state ", rec.Name)
	}
	renderState(os.Stdout, title, st.Snapshot())
	return nil
}

func describeEntry(e actionlog.Entry) string {
	ts := mutedStyle.Render(e.Timestamp.Local().Format("15:04:05"))
	switch e.Type {
	case actionlog.EntryInitialState:
		return fmt.Sprintf("%s %3d  hand started", ts, e.Seq)
	case actionlog.EntryRoundStart:
		return fmt.Sprintf("%s %3d  %s begins", ts, e.Seq, e.Round)
	case actionlog.EntryBlind:
		return fmt.Sprintf("%s %3d  %s posts %d", ts, e.Seq, e.PlayerID, e.Amount)
	case actionlog.EntryDealCommunity:
		return fmt.Sprintf("%s %3d  dealt %s", ts, e.Seq, renderCards(e.Cards))
	default:
		if e.Amount > 0 {
			return fmt.Sprintf("%s %3d  %s %s (bet %d)", ts, e.Seq, e.PlayerID, e.Action, e.Amount)
		}
		return fmt.Sprintf("%s %3d  %s %s", ts, e.Seq, e.PlayerID, e.Action)
	}
}
