// Package players is the player reference collaborator: a read-only pool
// the engine looks players up in and pulls rank-ordered availability from.
package players

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/draftclock/draftroom/internal/models"
)

// ErrPlayerNotFound is returned when a player ID is not in the pool.
var ErrPlayerNotFound = errors.New("player not found")

// Repository is the read surface the engine consumes.
type Repository interface {
	// Lookup returns the player or ErrPlayerNotFound.
	Lookup(ctx context.Context, playerID uuid.UUID) (*models.Player, error)
	// AllAvailable returns the pool minus the excluded set, ordered by
	// ascending rank.
	AllAvailable(ctx context.Context, excluding map[uuid.UUID]bool) ([]models.Player, error)
}
