package players

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/draftclock/draftroom/internal/models"
)

// MemoryRepository is an in-process pool for tests and local runs.
type MemoryRepository struct {
	mu      sync.RWMutex
	players map[uuid.UUID]models.Player
}

func NewMemoryRepository(players ...models.Player) *MemoryRepository {
	r := &MemoryRepository{players: make(map[uuid.UUID]models.Player, len(players))}
	for _, p := range players {
		r.players[p.ID] = p
	}
	return r
}

func (r *MemoryRepository) Lookup(ctx context.Context, playerID uuid.UUID) (*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) AllAvailable(ctx context.Context, excluding map[uuid.UUID]bool) ([]models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Player, 0, len(r.players))
	for id, p := range r.players {
		if excluding[id] {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}
