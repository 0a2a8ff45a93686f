package engine

import "errors"

// Validation errors: expected, recoverable, returned synchronously without
// mutating state. Never logged as failures.
var (
	ErrNotYourTurn         = errors.New("not your turn")
	ErrTimerExpired        = errors.New("pick timer expired")
	ErrPlayerUnavailable   = errors.New("player unavailable")
	ErrPositionCapExceeded = errors.New("position cap exceeded")
)

// Infrastructure and lifecycle errors.
var (
	ErrCommitTimeout      = errors.New("commit timed out")
	ErrRoomNotActive      = errors.New("room is not active")
	ErrDraftComplete      = errors.New("draft is complete")
	ErrInvalidTransition  = errors.New("invalid room status transition")
	ErrUnknownParticipant = errors.New("participant not in draft order")
	ErrQueueLocked        = errors.New("queue is locked while a commit is in flight")
)
