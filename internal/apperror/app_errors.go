package apperror

import "errors"

// Exchange failures surfaced to the user. None of them is retried
// automatically; the user re-triggers input or starts a new game.
var (
	ErrNetwork     = errors.New("network error")
	ErrServer      = errors.New("server error")
	ErrInvalidMove = errors.New("move rejected by server")
)

// Local guard rejections. These never reach the network and never
// change session state.
var (
	ErrNoActiveSession = errors.New("no active session")
	ErrGameFinished    = errors.New("game is already finished")
	ErrInputLocked     = errors.New("input is not accepted right now")
	ErrIllegalMove     = errors.New("move is not in the legal set")
	ErrNotYourTurn     = errors.New("it's not your turn")
)
