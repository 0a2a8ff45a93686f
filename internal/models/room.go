package models

import (
	"time"

	"github.com/google/uuid"
)

// RoomStatus defines the lifecycle state of a draft room.
type RoomStatus string

const (
	RoomStatusWaiting   RoomStatus = "WAITING"
	RoomStatusActive    RoomStatus = "ACTIVE"
	RoomStatusPaused    RoomStatus = "PAUSED"
	RoomStatusCompleted RoomStatus = "COMPLETED"
)

// RoomSettings holds the configuration a room is created with. The draft
// order is fixed for the room's lifetime.
type RoomSettings struct {
	TimerSeconds    int         `json:"timer_seconds"`
	GraceSeconds    int         `json:"grace_seconds"`
	TotalRounds     int         `json:"total_rounds"`
	MaxParticipants int         `json:"max_participants"`
	DraftOrder      []uuid.UUID `json:"draft_order"`
}

// TotalPicks returns the number of pick slots the room will fill.
func (s RoomSettings) TotalPicks() int {
	return s.TotalRounds * len(s.DraftOrder)
}

// Room represents a draft room instance.
type Room struct {
	ID          uuid.UUID    `json:"id"`
	Status      RoomStatus   `json:"status"`
	Settings    RoomSettings `json:"settings"`
	StartedAt   *time.Time   `json:"started_at,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}
