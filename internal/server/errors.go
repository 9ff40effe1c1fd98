package server

import (
	"errors"
	"net/http"

	"github.com/lox/videopoker/internal/game"
)

// errorCodes maps engine errors to stable codes for clients.
var errorCodes = []struct {
	err  error
	code string
}{
	{game.ErrWrongPhase, "wrong_phase"},
	{game.ErrInvalidBet, "invalid_bet"},
	{game.ErrInsufficientCredits, "insufficient_credits"},
	{game.ErrOutOfCredits, "out_of_credits"},
	{game.ErrNoWin, "no_win"},
	{game.ErrRevealPending, "reveal_pending"},
	{game.ErrStreakComplete, "streak_complete"},
	{game.ErrInvalidHoldIndex, "invalid_hold_index"},
	{game.ErrInvalidColor, "invalid_color"},
	{game.ErrNoRestarts, "no_restarts"},
	{game.ErrClosed, "closed"},
}

// classify returns the status and code for err. Engine rejections are
// conflicts with the machine's current state; anything else is ours.
func classify(err error) (int, string) {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return http.StatusConflict, ec.code
		}
	}
	return http.StatusInternalServerError, "internal"
}
