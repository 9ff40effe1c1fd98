package game

import "errors"

// Errors returned by Session transitions. All of them are recoverable: a
// rejected call leaves the session untouched.
var (
	ErrWrongPhase          = errors.New("action not allowed in current phase")
	ErrInvalidBet          = errors.New("invalid bet")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrOutOfCredits        = errors.New("out of credits")
	ErrNoWin               = errors.New("no win to gamble")
	ErrRevealPending       = errors.New("gamble card is still being revealed")
	ErrStreakComplete      = errors.New("maximum gamble streak reached")
	ErrInvalidHoldIndex    = errors.New("hold index out of range")
	ErrInvalidColor        = errors.New("invalid color")
	ErrNoRestarts          = errors.New("no restarts remaining")
	ErrClosed              = errors.New("session closed")
)
