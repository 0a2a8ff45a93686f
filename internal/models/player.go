package models

import "github.com/google/uuid"

// Position is a roster position in the player reference pool.
type Position string

const (
	PositionQB Position = "QB"
	PositionRB Position = "RB"
	PositionWR Position = "WR"
	PositionTE Position = "TE"
)

// Player represents an entry in the player reference pool. Read-only from
// the engine's perspective.
type Player struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Position Position  `json:"position"`
	Team     string    `json:"team"`
	Rank     int       `json:"rank"` // ADP-style rank, lower is better
}
