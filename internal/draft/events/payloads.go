// Package events defines the payloads shared between the engine, the
// outbox, and the gateway.
package events

import "time"

// Event type names as they appear on the bus subject and envelope.
const (
	TypePickStarted    = "PickStarted"
	TypePickMade       = "PickMade"
	TypeDraftStarted   = "DraftStarted"
	TypeDraftPaused    = "DraftPaused"
	TypeDraftResumed   = "DraftResumed"
	TypeDraftCompleted = "DraftCompleted"
	TypeTimerTick      = "TimerTick"
)

// PickStartedPayload announces that a participant is on the clock.
type PickStartedPayload struct {
	PickNumber     int       `json:"pick_number"`
	Round          int       `json:"round"`
	Pick           int       `json:"pick"`
	ParticipantID  string    `json:"participant_id"`
	StartedAt      time.Time `json:"started_at"`
	TimeoutAt      time.Time `json:"timeout_at"`
	TimePerPickSec int       `json:"time_per_pick_sec"`
}

// PickMadePayload announces a committed pick.
type PickMadePayload struct {
	PickNumber    int       `json:"pick_number"`
	Round         int       `json:"round"`
	Pick          int       `json:"pick"`
	ParticipantID string    `json:"participant_id"`
	PlayerID      string    `json:"player_id"`
	Auto          bool      `json:"auto"`
	MadeAt        time.Time `json:"made_at"`
}

// DraftStartedPayload announces the room going active.
type DraftStartedPayload struct {
	RoomID      string    `json:"room_id"`
	StartedAt   time.Time `json:"started_at"`
	TotalRounds int       `json:"total_rounds"`
	TotalPicks  int       `json:"total_picks"`
}

// DraftPausedPayload announces a pause of the pick timer.
type DraftPausedPayload struct {
	RoomID   string    `json:"room_id"`
	PausedAt time.Time `json:"paused_at"`
}

// DraftResumedPayload announces the timer continuing.
type DraftResumedPayload struct {
	RoomID    string    `json:"room_id"`
	ResumedAt time.Time `json:"resumed_at"`
}

// DraftCompletedPayload announces the final pick landing.
type DraftCompletedPayload struct {
	RoomID      string    `json:"room_id"`
	CompletedAt time.Time `json:"completed_at"`
	TotalPicks  int       `json:"total_picks"`
}

// TimerTickPayload carries the display countdown to clients. The value is
// latency-compensated for display only; the authoritative timer lives
// server-side.
type TimerTickPayload struct {
	PickNumber      int       `json:"pick_number"`
	ParticipantID   string    `json:"participant_id"`
	RemainingMs     int64     `json:"remaining_ms"`
	Phase           string    `json:"phase"`
	TickedAt        time.Time `json:"ticked_at"`
	EstimatedOneWay int64     `json:"estimated_one_way_ms"`
}
