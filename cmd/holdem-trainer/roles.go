package main

import (
	"fmt"

	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/position"
)

// RolesCmd prints the role of every seat for each dealer position
type RolesCmd struct {
	Players int `arg:"" optional:"" help:"Players at the table (2-10)" default:"6"`
}

func (cmd *RolesCmd) Run(globals *Globals) error {
	if cmd.Players < position.MinPlayers || cmd.Players > position.MaxPlayers {
		return fmt.Errorf("players must be between %d and %d", position.MinPlayers, position.MaxPlayers)
	}

	headers := []string{"Dealer"}
	for seat := range cmd.Players {
		headers = append(headers, game.PlayerID(seat))
	}
	t := newTable(headers...)
	for dealer := range cmd.Players {
		row := []string{game.PlayerID(dealer)}
		for _, role := range position.Assign(dealer, cmd.Players) {
			row = append(row, role.String())
		}
		t.Row(row...)
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf(" Roles at a %d-handed table ", cmd.Players)))
	fmt.Println(t.String())
	fmt.Println(mutedStyle.Render("Acting order: " + fmt.Sprint(position.Roles(cmd.Players))))
	return nil
}
