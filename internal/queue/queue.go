// Package queue stores each participant's ordered list of preferred
// players. Entries for already-picked players are pruned lazily at read
// time by the auto-pick resolver, not here.
package queue

import (
	"context"

	"github.com/google/uuid"
)

// Store is the participant queue collaborator. A queue is owned by its
// participant; the engine guards mutation while that participant's own
// commit is in flight.
type Store interface {
	// Replace swaps the participant's queue for the given ordering.
	Replace(ctx context.Context, roomID, participantID uuid.UUID, playerIDs []uuid.UUID) error
	// List returns the queue in priority order.
	List(ctx context.Context, roomID, participantID uuid.UUID) ([]uuid.UUID, error)
}
