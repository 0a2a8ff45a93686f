package gateway

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/draftclock/draftroom/internal/draft/events"
	"github.com/draftclock/draftroom/internal/outbox"
)

// EventBridge feeds bus events to websocket subscribers. The bus delivers
// at least once, so PickMade frames are deduped by pick number per room
// before broadcast.
type EventBridge struct {
	manager *ConnectionManager

	mu       sync.Mutex
	lastPick map[uuid.UUID]int
}

func NewEventBridge(manager *ConnectionManager) *EventBridge {
	return &EventBridge{
		manager:  manager,
		lastPick: make(map[uuid.UUID]int),
	}
}

// Handle is the outbox consumer callback.
func (b *EventBridge) Handle(ctx context.Context, event outbox.Event) error {
	if event.Type == events.TypePickMade && b.isDuplicatePick(event) {
		return nil
	}

	b.manager.Broadcast(event.RoomID, &RoomEvent{
		ID:        event.ID.String(),
		RoomID:    event.RoomID.String(),
		Type:      event.Type,
		Timestamp: event.Timestamp,
		Data:      event.Payload,
	})
	return nil
}

func (b *EventBridge) isDuplicatePick(event outbox.Event) bool {
	var payload events.PickMadePayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		log.Error().Err(err).Str("room_id", event.RoomID.String()).Msg("malformed PickMade payload")
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if payload.PickNumber <= b.lastPick[event.RoomID] {
		log.Debug().
			Str("room_id", event.RoomID.String()).
			Int("pick_number", payload.PickNumber).
			Msg("duplicate PickMade dropped")
		return true
	}
	b.lastPick[event.RoomID] = payload.PickNumber
	return false
}
