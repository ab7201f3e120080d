package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lox/holdem-trainer/internal/fileutil"
	"github.com/lox/holdem-trainer/internal/phh"
)

// HandHistoryCmd is the root command for PHH utilities.
type HandHistoryCmd struct {
	Export HandHistoryExportCmd `cmd:"export" help:"Export a saved hand as a PHH file"`
}

// HandHistoryExportCmd writes a saved hand in PHH format
type HandHistoryExportCmd struct {
	ID     string `arg:"" help:"Snapshot ID"`
	Output string `short:"o" help:"Output file (default stdout)"`
}

func (cmd *HandHistoryExportCmd) Run(globals *Globals) error {
	store, _, _, err := globals.store()
	if err != nil {
		return err
	}
	rec, err := store.Get(cmd.ID)
	if err != nil {
		return err
	}
	if len(rec.History) == 0 {
		return errors.New("saved hand has no action history")
	}

	handID := rec.HandID
	if handID == "" {
		handID = rec.ID
	}
	hand, err := phh.FromHistory(handID, rec.History, rec.State)
	if err != nil {
		return err
	}
	data, err := phh.EncodeToBytes(hand)
	if err != nil {
		return err
	}

	if cmd.Output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := fileutil.WriteFileAtomic(cmd.Output, data, 0o644); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Wrote " + cmd.Output))
	return nil
}
