package quiz

import "errors"

// Service-level sentinel errors. Handlers translate these to HTTP statuses;
// anything not in this list is treated as a storage failure.
var (
	// ErrValidation indicates bad user input, such as an empty room name.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound indicates the room, session, or membership row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermission indicates a non-creator attempted a creator-only action.
	ErrPermission = errors.New("permission denied")

	// ErrRoomFull indicates the room is at max_players capacity.
	ErrRoomFull = errors.New("room is full")

	// ErrNotReady indicates at least one player has not readied up.
	ErrNotReady = errors.New("not all players are ready")

	// ErrNoQuestions indicates the question bank has no rows for the
	// requested category and difficulty. Terminal; not retried.
	ErrNoQuestions = errors.New("no questions available")
)
