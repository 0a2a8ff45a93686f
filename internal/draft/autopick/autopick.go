// Package autopick selects a player on behalf of a participant whose pick
// timer elapsed.
package autopick

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/draftclock/draftroom/internal/players"
	"github.com/draftclock/draftroom/internal/queue"
)

// ErrNoPlayersAvailable means the entire pool is exhausted. The coordinator
// treats it as terminal and completes the room.
var ErrNoPlayersAvailable = errors.New("no players available")

// Strategy picks a player for the participant currently on the clock. The
// result is submitted to the coordinator as a normal pick request tagged
// automatic.
type Strategy interface {
	Resolve(ctx context.Context, participantID uuid.UUID) (uuid.UUID, error)
}

// TakenSource answers which players are already off the board.
type TakenSource interface {
	IsPlayerTaken(playerID uuid.UUID) bool
	TakenSet() map[uuid.UUID]bool
}

// Resolver scans the participant's priority queue in order and takes the
// first entry that is still available and legal, falling back to the
// best-ranked remaining player. Taken queue entries are skipped here, which
// is the lazy pruning the queue store relies on.
type Resolver struct {
	roomID  uuid.UUID
	queues  queue.Store
	players players.Repository
	taken   TakenSource
	legal   func(ctx context.Context, participantID, playerID uuid.UUID) bool
}

func NewResolver(
	roomID uuid.UUID,
	queues queue.Store,
	pool players.Repository,
	taken TakenSource,
	legal func(ctx context.Context, participantID, playerID uuid.UUID) bool,
) *Resolver {
	return &Resolver{
		roomID:  roomID,
		queues:  queues,
		players: pool,
		taken:   taken,
		legal:   legal,
	}
}

func (r *Resolver) Resolve(ctx context.Context, participantID uuid.UUID) (uuid.UUID, error) {
	queued, err := r.queues.List(ctx, r.roomID, participantID)
	if err != nil {
		// A queue read failure degrades to the rank fallback rather than
		// stalling the draft.
		log.Warn().
			Err(err).
			Str("room_id", r.roomID.String()).
			Str("participant_id", participantID.String()).
			Msg("queue read failed; falling back to rank order")
		queued = nil
	}

	for _, playerID := range queued {
		if r.taken.IsPlayerTaken(playerID) {
			continue
		}
		if r.legal != nil && !r.legal(ctx, participantID, playerID) {
			continue
		}
		return playerID, nil
	}

	available, err := r.players.AllAvailable(ctx, r.taken.TakenSet())
	if err != nil {
		return uuid.Nil, err
	}

	for _, p := range available {
		if r.legal != nil && !r.legal(ctx, participantID, p.ID) {
			continue
		}
		return p.ID, nil
	}

	// Pool not empty but nothing passed the legality check: surface the
	// top-ranked player and let the coordinator report the precise reason.
	if len(available) > 0 {
		return available[0].ID, nil
	}

	return uuid.Nil, ErrNoPlayersAvailable
}
