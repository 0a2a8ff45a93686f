package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftPick represents a single committed pick. Picks are immutable once
// created: the ledger never updates or deletes them.
type DraftPick struct {
	ID            uuid.UUID `json:"id"`
	RoomID        uuid.UUID `json:"room_id"`
	PickNumber    int       `json:"pick_number"` // overall, 1-based
	Round         int       `json:"round"`
	Pick          int       `json:"pick"` // pick number within the round
	ParticipantID uuid.UUID `json:"participant_id"`
	PlayerID      uuid.UUID `json:"player_id"`
	Auto          bool      `json:"auto"`
	CommittedAt   time.Time `json:"committed_at"`
}
