package game

import "errors"

// Errors returned by hand setup, dealing and betting. They are wrapped with
// detail, so match them with errors.Is.
var (
	ErrConfiguration     = errors.New("invalid configuration")
	ErrInsufficientCards = errors.New("insufficient cards in deck")
	ErrInvalidRound      = errors.New("invalid round")
	ErrUnknownAction     = errors.New("unknown action")
	ErrNotPlayersTurn    = errors.New("not player's turn")
	ErrPlayerCannotAct   = errors.New("player cannot act")
	ErrIllegalCheck      = errors.New("cannot check")
	ErrIllegalBet        = errors.New("cannot bet")
	ErrRaiseTooSmall     = errors.New("raise too small")
	ErrInsufficientStack = errors.New("insufficient chips")
	ErrInvalidState      = errors.New("invalid game state")
)
