package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/draftclock/draftroom/internal/models"
)

// MemoryStore is an in-process Store for tests and single-node runs.
type MemoryStore struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]models.Room
	picks map[uuid.UUID][]models.DraftPick
	*notifier
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:    make(map[uuid.UUID]models.Room),
		picks:    make(map[uuid.UUID][]models.DraftPick),
		notifier: newNotifier(),
	}
}

func (s *MemoryStore) CreateRoom(ctx context.Context, room models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room
	return nil
}

func (s *MemoryStore) LoadRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return &room, nil
}

func (s *MemoryStore) UpdateRoomStatus(ctx context.Context, roomID uuid.UUID, status models.RoomStatus) error {
	s.mu.Lock()
	room, ok := s.rooms[roomID]
	if !ok {
		s.mu.Unlock()
		return ErrRoomNotFound
	}
	room.Status = status
	s.rooms[roomID] = room
	s.mu.Unlock()

	s.notifyRoomChange(roomID, status)
	return nil
}

func (s *MemoryStore) AppendAtomic(ctx context.Context, roomID uuid.UUID, pick models.DraftPick, expectedNextPickNumber int) error {
	s.mu.Lock()
	if _, ok := s.rooms[roomID]; !ok {
		s.mu.Unlock()
		return ErrRoomNotFound
	}
	if len(s.picks[roomID])+1 != expectedNextPickNumber {
		s.mu.Unlock()
		return ErrConflict
	}
	s.picks[roomID] = append(s.picks[roomID], pick)
	s.mu.Unlock()

	s.notifyPickAppended(roomID, pick)
	return nil
}

func (s *MemoryStore) LoadPicks(ctx context.Context, roomID uuid.UUID) ([]models.DraftPick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	picks := s.picks[roomID]
	out := make([]models.DraftPick, len(picks))
	copy(out, picks)
	return out, nil
}

func (s *MemoryStore) Subscribe(roomID uuid.UUID, onRoomChange func(models.RoomStatus), onPickAppended func(models.DraftPick)) {
	s.subscribe(roomID, onRoomChange, onPickAppended)
}
