// Package roster decides pick legality against per-position caps.
package roster

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/draftclock/draftroom/internal/models"
)

// Caps maps a position to the maximum number of players a participant may
// roster there. Caps are configuration, not hard-coded constants.
type Caps map[models.Position]int

// DefaultCaps mirrors the thresholds the product ships with. They are
// looser than an 18-round roster could ever fill.
func DefaultCaps() Caps {
	return Caps{
		models.PositionQB: 4,
		models.PositionRB: 11,
		models.PositionWR: 11,
		models.PositionTE: 5,
	}
}

// PlayerLookup is the slice of the player reference the validator needs.
type PlayerLookup interface {
	Lookup(ctx context.Context, playerID uuid.UUID) (*models.Player, error)
}

// PickSource supplies a participant's committed picks.
type PickSource interface {
	PicksFor(participantID uuid.UUID) []models.DraftPick
}

// Validator checks whether a proposed pick fits under the position caps.
// It has no side effects and is safe to call speculatively.
type Validator struct {
	players PlayerLookup
	picks   PickSource
	caps    Caps
}

func NewValidator(players PlayerLookup, picks PickSource, caps Caps) *Validator {
	if caps == nil {
		caps = DefaultCaps()
	}
	return &Validator{players: players, picks: picks, caps: caps}
}

// CanDraft reports whether the participant may draft the player. It returns
// false, not an error, when the player does not exist in the reference pool
// or when the participant is at the cap for the player's position.
func (v *Validator) CanDraft(ctx context.Context, participantID, playerID uuid.UUID) bool {
	player, err := v.players.Lookup(ctx, playerID)
	if err != nil {
		log.Debug().
			Err(err).
			Str("player_id", playerID.String()).
			Msg("roster check: player lookup failed")
		return false
	}

	cap, ok := v.caps[player.Position]
	if !ok {
		// Unconfigured positions are uncapped.
		return true
	}

	count := 0
	for _, p := range v.picks.PicksFor(participantID) {
		committed, err := v.players.Lookup(ctx, p.PlayerID)
		if err != nil {
			continue
		}
		if committed.Position == player.Position {
			count++
		}
	}

	return count < cap
}
