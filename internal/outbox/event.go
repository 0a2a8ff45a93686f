// Package outbox publishes room events to NATS JetStream and feeds them
// back to in-process consumers such as the websocket gateway. Delivery is
// at-least-once; PickMade consumers dedupe by pick number.
package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is the envelope published on the bus.
type Event struct {
	ID        uuid.UUID       `json:"event_id"`
	RoomID    uuid.UUID       `json:"room_id"`
	Type      string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEvent wraps a payload in an envelope, marshaling it to JSON.
func NewEvent(roomID uuid.UUID, eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:        uuid.New(),
		RoomID:    roomID,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   data,
	}, nil
}

// Publisher pushes events onto the bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
