package engine

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/draftclock/draftroom/internal/draft/autopick"
	"github.com/draftclock/draftroom/internal/draft/ledger"
	"github.com/draftclock/draftroom/internal/draft/roster"
	"github.com/draftclock/draftroom/internal/draft/timer"
	"github.com/draftclock/draftroom/internal/models"
)

// room is the runtime state the engine keeps per draft room. mu is the
// room's single-writer critical section: every validate-then-append runs
// under it, so no two commits for the same room can interleave. Rooms are
// independent and proceed fully in parallel.
type room struct {
	id       uuid.UUID
	mu       sync.Mutex
	status   models.RoomStatus
	settings models.RoomSettings

	ledger    *ledger.Ledger
	validator *roster.Validator
	timer     *timer.Timer
	resolver  autopick.Strategy

	timerCancel context.CancelFunc

	// inFlight tracks participants whose own commit is between validation
	// and durability, guarding their queue from concurrent mutation. Kept
	// outside mu so queue updates can be rejected without waiting on a
	// commit.
	inFlightMu sync.Mutex
	inFlight   map[uuid.UUID]bool
}

func (r *room) setInFlight(participantID uuid.UUID, v bool) {
	r.inFlightMu.Lock()
	defer r.inFlightMu.Unlock()
	if v {
		r.inFlight[participantID] = true
	} else {
		delete(r.inFlight, participantID)
	}
}

func (r *room) isInFlight(participantID uuid.UUID) bool {
	r.inFlightMu.Lock()
	defer r.inFlightMu.Unlock()
	return r.inFlight[participantID]
}

func (r *room) hasParticipant(participantID uuid.UUID) bool {
	for _, id := range r.settings.DraftOrder {
		if id == participantID {
			return true
		}
	}
	return false
}
