package queue

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for tests and single-node runs.
type MemoryStore struct {
	mu     sync.RWMutex
	queues map[string][]uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{queues: make(map[string][]uuid.UUID)}
}

func (s *MemoryStore) Replace(ctx context.Context, roomID, participantID uuid.UUID, playerIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]uuid.UUID, len(playerIDs))
	copy(cp, playerIDs)
	s.queues[queueKey(roomID, participantID)] = cp
	return nil
}

func (s *MemoryStore) List(ctx context.Context, roomID, participantID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := s.queues[queueKey(roomID, participantID)]
	out := make([]uuid.UUID, len(q))
	copy(out, q)
	return out, nil
}
