// Package actionlog records what happened during a hand: a per-round action
// record for every player and an ordered, timestamped history that can be
// replayed to rebuild the hand at any step.
package actionlog

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/poker"
)

// EntryType identifies a history entry
type EntryType string

const (
	EntryInitialState  EntryType = "initialState"
	EntryRoundStart    EntryType = "roundStart"
	EntryBlind         EntryType = "blind"
	EntryAction        EntryType = "action"
	EntryDealCommunity EntryType = "dealCommunity"
)

// Entry is one step of the hand history
type Entry struct {
	Seq       int            `json:"seq"`
	Type      EntryType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Round     game.Round     `json:"round"`
	PlayerID  string         `json:"playerId,omitempty"`
	Action    string         `json:"action,omitempty"`
	Amount    int            `json:"amount,omitempty"` // Player's bet for the round after the action
	Cards     []poker.Card   `json:"cards,omitempty"`
	Snapshot  *game.Snapshot `json:"snapshot,omitempty"`
}

// Log accumulates the history of one hand. It is not safe for concurrent use.
type Log struct {
	clock   quartz.Clock
	entries []Entry
	records map[game.Round]map[string][]string
	board   int
}

// New creates an empty log stamped by clock
func New(clock quartz.Clock) *Log {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Log{
		clock:   clock,
		records: make(map[game.Round]map[string][]string),
	}
}

// Start records the initial state of a hand. It is called once, after hole
// cards are dealt and before the first round starts.
func (l *Log) Start(st *game.State) {
	snap := st.Snapshot()
	l.entries = l.entries[:0]
	l.records = make(map[game.Round]map[string][]string)
	l.board = len(st.CommunityCards)
	l.append(Entry{Type: EntryInitialState, Round: st.Round, Snapshot: &snap})
}

// RoundStarted records the start of st.Round. Pre-flop the posted blinds are
// recorded as well.
func (l *Log) RoundStarted(st *game.State) {
	l.append(Entry{Type: EntryRoundStart, Round: st.Round})
	if st.Round != game.Preflop {
		return
	}
	for _, seat := range []int{st.SBIndex, st.BBIndex} {
		p := st.Players[seat]
		l.append(Entry{Type: EntryBlind, Round: st.Round, PlayerID: p.ID, Action: "posts", Amount: p.Bet})
		l.record(st.Round, p.ID, fmt.Sprintf("POSTS %d", p.Bet))
	}
}

// Acted records an action taken by playerID; st is the state after it
func (l *Log) Acted(st *game.State, playerID string, action game.Action) {
	p, ok := st.Player(playerID)
	if !ok {
		return
	}
	e := Entry{Type: EntryAction, Round: st.Round, PlayerID: playerID, Action: action.String()}
	rec := strings.ToUpper(action.String())
	switch action {
	case game.Bet, game.Raise, game.AllIn:
		e.Amount = p.Bet
		rec = fmt.Sprintf("%s %d", rec, p.Bet)
	case game.Call:
		e.Amount = p.Bet
	}
	l.append(e)
	l.record(st.Round, playerID, rec)
}

// Dealt records the community cards dealt since the last call
func (l *Log) Dealt(st *game.State) {
	if len(st.CommunityCards) <= l.board {
		return
	}
	cards := slices.Clone(st.CommunityCards[l.board:])
	l.board = len(st.CommunityCards)
	l.append(Entry{Type: EntryDealCommunity, Round: st.Round, Cards: cards})
}

// Entries returns a copy of the history
func (l *Log) Entries() []Entry {
	return slices.Clone(l.entries)
}

// Records returns each player's action records for a round, in order, such
// as ["POSTS 10", "CALL", "RAISE 80"].
func (l *Log) Records(round game.Round) map[string][]string {
	out := make(map[string][]string, len(l.records[round]))
	for id, recs := range l.records[round] {
		out[id] = slices.Clone(recs)
	}
	return out
}

// Actions returns the voluntary actions taken in a round, in order
func (l *Log) Actions(round game.Round) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.Type == EntryAction && e.Round == round {
			out = append(out, e)
		}
	}
	return out
}

func (l *Log) record(round game.Round, playerID, rec string) {
	if l.records[round] == nil {
		l.records[round] = make(map[string][]string)
	}
	l.records[round][playerID] = append(l.records[round][playerID], rec)
}

func (l *Log) append(e Entry) {
	e.Seq = len(l.entries)
	e.Timestamp = l.clock.Now()
	l.entries = append(l.entries, e)
}
