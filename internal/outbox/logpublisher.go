package outbox

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogPublisher logs events instead of publishing them. Used in tests and
// local runs without a broker.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	log.Info().
		Str("event_id", event.ID.String()).
		Str("event_type", event.Type).
		Str("room_id", event.RoomID.String()).
		Msg("publishing event")
	return nil
}
