// Package phh exports recorded hands in the PHH hand history format.
package phh

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lox/holdem-trainer/internal/game"
)

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return fmt.Errorf("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf strings.Builder
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// Decode reads a PHH document
func Decode(r io.Reader) (*HandHistory, error) {
	var hand HandHistory
	if _, err := toml.NewDecoder(r).Decode(&hand); err != nil {
		return nil, fmt.Errorf("phh: %w", err)
	}
	return &hand, nil
}

// FormatAction converts an engine action to a PHH action string. seat is
// the zero-based PHH seat and bet the player's bet for the round after the
// action. ok is false when the action has no PHH form.
func FormatAction(seat int, action game.Action, bet int) (string, bool) {
	player := fmt.Sprintf("p%d", seat+1)
	switch action {
	case game.Fold:
		return player + " f", true
	case game.Check, game.Call:
		return player + " cc", true
	case game.Bet, game.Raise, game.AllIn:
		if bet <= 0 {
			return "", false
		}
		return fmt.Sprintf("%s cbr %d", player, bet), true
	default:
		return "", false
	}
}
