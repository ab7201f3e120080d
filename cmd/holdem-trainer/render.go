package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/poker"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	redCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	blackCardStyle = lipgloss.NewStyle().Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)
)

func renderCards(cards []poker.Card) string {
	if len(cards) == 0 {
		return mutedStyle.Render("-")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.Suit.IsRed() {
			parts[i] = redCardStyle.Render(c.Pretty())
		} else {
			parts[i] = blackCardStyle.Render(c.Pretty())
		}
	}
	return strings.Join(parts, " ")
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})
}

// renderState prints the table as it stands in snap
func renderState(w io.Writer, title string, snap game.Snapshot) {
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintf(w, "\nRound: %s   Pot: %d (%d with bets)   Highest bet: %d   Min raise to: %d\n",
		roundName(snap.CurrentRound), snap.Pot, snap.TotalPot, snap.HighestBet, snap.HighestBet+snap.LastRaiseAmount)
	fmt.Fprintf(w, "Board: %s\n\n", renderCards(snap.CommunityCards))

	t := newTable("Seat", "Role", "Stack", "Bet", "Invested", "Cards", "State")
	for i, p := range snap.Players {
		seat := p.ID
		if i == snap.CurrentPlayerIndex && snap.CurrentRound != game.RoundNone {
			seat = successStyle.Render("▶ " + p.ID)
		}
		t.Row(seat, p.Role.String(), strconv.Itoa(p.Stack), strconv.Itoa(p.Bet),
			strconv.Itoa(p.TotalInvested), renderCards(p.HoleCards), playerState(p))
	}
	fmt.Fprintln(w, t.String())
}

func playerState(p game.Player) string {
	switch {
	case p.IsFolded:
		return mutedStyle.Render("folded")
	case p.IsAllIn:
		return warningStyle.Render("all in")
	case p.HasActed:
		return "acted"
	default:
		return ""
	}
}

func roundName(r game.Round) string {
	if r == game.RoundNone {
		return "not started"
	}
	return r.String()
}
