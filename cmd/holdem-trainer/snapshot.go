package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/lox/holdem-trainer/internal/gameid"
	"github.com/lox/holdem-trainer/internal/snapshot"
)

// SnapshotCmd groups the saved-hand commands
type SnapshotCmd struct {
	List   SnapshotListCmd   `cmd:"" default:"withargs" help:"List saved hands, newest first"`
	Show   SnapshotShowCmd   `cmd:"" help:"Show a saved hand"`
	Rename SnapshotRenameCmd `cmd:"" help:"Rename a saved hand"`
	Remark SnapshotRemarkCmd `cmd:"" help:"Attach a remark about a player to a saved hand"`
	Delete SnapshotDeleteCmd `cmd:"" help:"Delete a saved hand"`
}

type SnapshotListCmd struct {
	Page int `help:"Page number, starting at 0" default:"0"`
	Size int `help:"Hands per page" default:"5"`
}

func (cmd *SnapshotListCmd) Run(globals *Globals) error {
	store, _, _, err := globals.store()
	if err != nil {
		return err
	}
	page, err := store.List(cmd.Page, cmd.Size)
	if err != nil {
		return err
	}
	if page.TotalElements == 0 {
		fmt.Println(mutedStyle.Render("No saved hands"))
		return nil
	}

	t := newTable("ID", "Name", "Round", "Created")
	for _, s := range page.Content {
		t.Row(s.ID, s.Name, roundName(s.Round), s.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Println(t.String())
	fmt.Println(mutedStyle.Render(fmt.Sprintf("Page %d of %d (%d hands)",
		page.Number+1, max(page.TotalPages, 1), page.TotalElements)))
	return nil
}

type SnapshotShowCmd struct {
	ID string `arg:"" help:"Snapshot ID"`
}

func (cmd *SnapshotShowCmd) Run(globals *Globals) error {
	store, _, _, err := globals.store()
	if err != nil {
		return err
	}
	rec, err := store.Get(cmd.ID)
	if err != nil {
		return err
	}
	printRecord(rec)
	return nil
}

func printRecord(rec snapshot.Record) {
	renderState(os.Stdout, " "+rec.Name+" ", rec.State)
	if started, err := gameid.Time(rec.HandID); err == nil {
		fmt.Println(mutedStyle.Render(fmt.Sprintf("Hand %s, started %s", rec.HandID, started.Local().Format("2006-01-02 15:04:05"))))
	} else if rec.HandID != "" {
		fmt.Println(mutedStyle.Render("Hand " + rec.HandID))
	}

	if len(rec.Suggestions) > 0 {
		t := newTable("Player", "Round", "To call", "Advice")
		for _, sg := range rec.Suggestions {
			var text string
			switch best, ok := sg.Response.Best(); {
			case sg.Error != "":
				text = warningStyle.Render(sg.Error)
			case ok:
				text = fmt.Sprintf("%s %.0f%%", best.Action, best.Frequency*100)
			default:
				text = mutedStyle.Render("no advice")
			}
			t.Row(sg.PlayerID, sg.Round.String(), strconv.Itoa(sg.Request.ToCall), text)
		}
		fmt.Println(t.String())
	}

	if len(rec.Remarks) > 0 {
		ids := make([]string, 0, len(rec.Remarks))
		for id := range rec.Remarks {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Println(headerStyle.Render("Remarks"))
		for _, id := range ids {
			fmt.Printf("  %s: %s\n", id, rec.Remarks[id])
		}
	}
}

type SnapshotRenameCmd struct {
	ID   string `arg:"" help:"Snapshot ID"`
	Name string `arg:"" help:"New name"`
}

func (cmd *SnapshotRenameCmd) Run(globals *Globals) error {
	store, _, _, err := globals.store()
	if err != nil {
		return err
	}
	rec, err := store.Update(cmd.ID, snapshot.Update{Name: &cmd.Name})
	if err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Renamed " + rec.ID + " to " + rec.Name))
	return nil
}

type SnapshotRemarkCmd struct {
	ID     string `arg:"" help:"Snapshot ID"`
	Player string `arg:"" help:"Player ID, e.g. P3"`
	Remark string `arg:"" optional:"" help:"Remark text; empty removes the remark"`
}

func (cmd *SnapshotRemarkCmd) Run(globals *Globals) error {
	store, _, _, err := globals.store()
	if err != nil {
		return err
	}
	if _, err := store.Update(cmd.ID, snapshot.Update{Remarks: map[string]string{cmd.Player: cmd.Remark}}); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Updated remark for " + cmd.Player))
	return nil
}

type SnapshotDeleteCmd struct {
	ID string `arg:"" help:"Snapshot ID"`
}

func (cmd *SnapshotDeleteCmd) Run(globals *Globals) error {
	store, _, _, err := globals.store()
	if err != nil {
		return err
	}
	if err := store.Delete(cmd.ID); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Deleted " + cmd.ID))
	return nil
}
