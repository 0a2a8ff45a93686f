package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/draftclock/draftroom/internal/draft/position"
	"github.com/draftclock/draftroom/internal/draft/timer"
	"github.com/draftclock/draftroom/internal/models"
)

// View is the read-only projection exposed to UI consumers. Reads never
// touch the mutable path.
type View struct {
	RoomID            uuid.UUID          `json:"room_id"`
	Status            models.RoomStatus  `json:"status"`
	CurrentPickNumber int                `json:"current_pick_number"`
	Round             int                `json:"round"`
	OnTheClock        *uuid.UUID         `json:"on_the_clock,omitempty"`
	PicksMade         int                `json:"picks_made"`
	TotalPicks        int                `json:"total_picks"`
	Timer             timer.State        `json:"timer"`
	Picks             []models.DraftPick `json:"picks,omitempty"`
}

// RoomView snapshots the room for display. includePicks controls whether
// the full board rides along.
func (e *Engine) RoomView(ctx context.Context, roomID uuid.UUID, includePicks bool) (*View, error) {
	r, err := e.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	status := r.status
	r.mu.Unlock()

	v := &View{
		RoomID:     roomID,
		Status:     status,
		PicksMade:  r.ledger.Len(),
		TotalPicks: r.settings.TotalPicks(),
		Timer:      r.timer.State(),
	}

	next := r.ledger.NextPickNumber()
	if slot, ok := position.LocateIn(next, len(r.settings.DraftOrder), r.settings.TotalRounds); ok {
		v.CurrentPickNumber = next
		v.Round = slot.Round
		onClock := r.settings.DraftOrder[slot.ParticipantIndex]
		v.OnTheClock = &onClock
	}

	if includePicks {
		v.Picks = r.ledger.All()
	}
	return v, nil
}
