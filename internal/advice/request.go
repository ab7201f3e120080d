// Package advice builds strategy-advice requests from a hand snapshot and
// fetches recommendations from the advice service.
package advice

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lox/holdem-trainer/internal/game"
	"github.com/lox/holdem-trainer/internal/position"
)

// PotType is the service's code for how far the pre-flop betting went
type PotType int

const (
	PotSingleRaised PotType = 0
	Pot3Bet         PotType = 2
	Pot4Bet         PotType = 3
	PotUnopened     PotType = 4
)

// PotTypeFor maps the number of pre-flop raises to a pot type
func PotTypeFor(preflopRaises int) PotType {
	switch preflopRaises {
	case 0:
		return PotUnopened
	case 1:
		return PotSingleRaised
	case 2:
		return Pot3Bet
	default:
		return Pot4Bet
	}
}

// FlopSituation describes what the acting player faces on the flop
type FlopSituation int

const (
	FirstToAct FlopSituation = iota
	FacingBet
	AfterCheck
)

func (f FlopSituation) String() string {
	switch f {
	case FacingBet:
		return "FACING_BET"
	case AfterCheck:
		return "AFTER_CHECK"
	default:
		return "FIRST_TO_ACT"
	}
}

// Heads-up the big blind poster carries the SB role and is sent as code 1
var roleCodes = map[position.Role]int{
	position.BTN:  0,
	position.SB:   1,
	position.BB:   2,
	position.UTG:  3,
	position.UTG1: 4,
	position.UTG2: 5,
	position.MP1:  6,
	position.MP2:  7,
	position.HJ:   8,
	position.CO:   9,
}

var phaseCodes = map[game.Round]int{
	game.Preflop: 1,
	game.Flop:    2,
	game.Turn:    3,
	game.River:   4,
}

// Request is the query sent to the advice service
type Request struct {
	MyCards             []string `json:"myCards"`
	BoardCards          []string `json:"boardCards"`
	MyRole              int      `json:"myRole"`
	MyStack             int      `json:"myStack"`
	PotChips            int      `json:"potChips"`
	ToCall              int      `json:"toCall"`
	Opponents           int      `json:"opponents"`
	PreFlopRaisers      int      `json:"preFlopRaisers"`
	PotType             PotType  `json:"potType"`
	HasPosition         bool     `json:"hasPosition"`
	FlopActionSituation int      `json:"flopActionSituation"`
	Phase               int      `json:"phase"`
	BigBlind            int      `json:"bigBlind"`
}

// BuildRequest describes the hand from playerID's seat. flopRecords are the
// per-player action records of the flop, as kept by the action log; they
// are only consulted during the flop.
func BuildRequest(snap game.Snapshot, playerID string, flopRecords map[string][]string) (Request, error) {
	me, ok := findPlayer(snap, playerID)
	if !ok {
		return Request{}, fmt.Errorf("player %s not found", playerID)
	}
	role, ok := roleCodes[me.Role]
	if !ok {
		return Request{}, fmt.Errorf("player %s has no role assigned", playerID)
	}

	opponents := 0
	for _, p := range snap.Players {
		if !p.IsFolded && p.ID != playerID {
			opponents++
		}
	}

	situation := FirstToAct
	if s, ok := FlopActionSituation(snap, playerID, flopRecords); ok {
		situation = s
	}

	phase, ok := phaseCodes[snap.CurrentRound]
	if !ok {
		phase = phaseCodes[game.Preflop]
	}

	req := Request{
		MyRole:              role,
		MyStack:             me.Stack,
		PotChips:            snap.TotalPot,
		ToCall:              max(0, snap.HighestBet-me.Bet),
		Opponents:           opponents,
		PreFlopRaisers:      snap.PreflopRaiseCount,
		PotType:             PotTypeFor(snap.PreflopRaiseCount),
		HasPosition:         HasPosition(snap, playerID),
		FlopActionSituation: int(situation),
		Phase:               phase,
		BigBlind:            snap.Settings.BigBlind,
	}
	for _, c := range me.HoleCards {
		req.MyCards = append(req.MyCards, c.String())
	}
	for _, c := range snap.CommunityCards {
		req.BoardCards = append(req.BoardCards, c.String())
	}
	return req, nil
}

// HasPosition reports whether the player acts with position. Pre-flop only
// the BTN and CO count; after the flop the player must be the last to act
// among those still in the hand.
func HasPosition(snap game.Snapshot, playerID string) bool {
	me, ok := findPlayer(snap, playerID)
	if !ok {
		return false
	}
	if snap.CurrentRound == game.Preflop {
		return me.Role == position.BTN || me.Role == position.CO
	}

	last, best := "", -1
	active := 0
	for _, p := range snap.Players {
		if p.IsFolded {
			continue
		}
		active++
		if order := p.Role.Order(); order > best {
			best, last = order, p.ID
		}
	}
	if active <= 1 {
		return true
	}
	return last == playerID
}

// FlopActionSituation classifies the flop from playerID's seat using each
// player's first flop action. ok is false outside the flop.
func FlopActionSituation(snap game.Snapshot, playerID string, flopRecords map[string][]string) (FlopSituation, bool) {
	if snap.CurrentRound != game.Flop {
		return FirstToAct, false
	}

	acted := false
	for id, recs := range flopRecords {
		if len(recs) == 0 {
			continue
		}
		acted = true
		first := recs[0]
		if id != playerID && (strings.HasPrefix(first, "BET") || strings.HasPrefix(first, "RAISE")) {
			return FacingBet, true
		}
	}
	if !acted {
		return FirstToAct, true
	}
	return AfterCheck, true
}

// Values encodes the request as query parameters. Card lists repeat the key.
func (r Request) Values() url.Values {
	v := url.Values{}
	for _, c := range r.MyCards {
		v.Add("myCards", c)
	}
	for _, c := range r.BoardCards {
		v.Add("boardCards", c)
	}
	v.Set("myRole", strconv.Itoa(r.MyRole))
	v.Set("myStack", strconv.Itoa(r.MyStack))
	v.Set("potChips", strconv.Itoa(r.PotChips))
	v.Set("toCall", strconv.Itoa(r.ToCall))
	v.Set("opponents", strconv.Itoa(r.Opponents))
	v.Set("preFlopRaisers", strconv.Itoa(r.PreFlopRaisers))
	v.Set("potType", strconv.Itoa(int(r.PotType)))
	v.Set("hasPosition", strconv.FormatBool(r.HasPosition))
	v.Set("flopActionSituation", strconv.Itoa(r.FlopActionSituation))
	v.Set("phase", strconv.Itoa(r.Phase))
	v.Set("bigBlind", strconv.Itoa(r.BigBlind))
	return v
}

func findPlayer(snap game.Snapshot, id string) (game.Player, bool) {
	for _, p := range snap.Players {
		if p.ID == id {
			return p, true
		}
	}
	return game.Player{}, false
}
