package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/draftclock/draftroom/internal/draft/engine"
	"github.com/draftclock/draftroom/internal/draft/events"
	"github.com/draftclock/draftroom/internal/latency"
)

// RoomViewer is the read-only slice of the engine the gateway needs.
type RoomViewer interface {
	RoomView(ctx context.Context, roomID uuid.UUID, includePicks bool) (*engine.View, error)
}

// TickBroadcaster pushes a once-per-second TimerTick frame to each
// subscribed room. The broadcast value is compensated by the latency
// estimate for display only; the authoritative countdown stays with the
// engine's timer.
type TickBroadcaster struct {
	manager   *ConnectionManager
	viewer    RoomViewer
	estimator *latency.Estimator
	clock     clockwork.Clock
}

func NewTickBroadcaster(manager *ConnectionManager, viewer RoomViewer, estimator *latency.Estimator, clock clockwork.Clock) *TickBroadcaster {
	return &TickBroadcaster{
		manager:   manager,
		viewer:    viewer,
		estimator: estimator,
		clock:     clock,
	}
}

// Run broadcasts until ctx is done.
func (t *TickBroadcaster) Run(ctx context.Context) {
	ticker := t.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			t.broadcastTicks(ctx)
		}
	}
}

func (t *TickBroadcaster) broadcastTicks(ctx context.Context) {
	for _, roomID := range t.manager.SubscribedRooms() {
		view, err := t.viewer.RoomView(ctx, roomID, false)
		if err != nil {
			log.Debug().Err(err).Str("room_id", roomID.String()).Msg("tick view failed")
			continue
		}
		if view.OnTheClock == nil {
			continue
		}

		oneWay := t.estimator.Estimate()
		remainingMs := int64(view.Timer.RemainingSeconds) * 1000

		payload := events.TimerTickPayload{
			PickNumber:      view.CurrentPickNumber,
			ParticipantID:   view.OnTheClock.String(),
			RemainingMs:     latency.Compensate(remainingMs, oneWay),
			Phase:           string(view.Timer.Phase),
			TickedAt:        t.clock.Now().UTC(),
			EstimatedOneWay: oneWay,
		}

		data, err := json.Marshal(payload)
		if err != nil {
			continue
		}

		t.manager.Broadcast(roomID, &RoomEvent{
			ID:        uuid.New().String(),
			RoomID:    roomID.String(),
			Type:      events.TypeTimerTick,
			Timestamp: payload.TickedAt,
			Data:      data,
		})
	}
}
