package roster

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/draftclock/draftroom/internal/models"
	"github.com/draftclock/draftroom/internal/players"
)

type fakePicks struct {
	picks []models.DraftPick
}

func (f *fakePicks) PicksFor(participantID uuid.UUID) []models.DraftPick {
	var out []models.DraftPick
	for _, p := range f.picks {
		if p.ParticipantID == participantID {
			out = append(out, p)
		}
	}
	return out
}

func TestCanDraftUnderCap(t *testing.T) {
	ctx := context.Background()
	participant := uuid.New()

	qb1 := models.Player{ID: uuid.New(), Name: "QB One", Position: models.PositionQB, Rank: 1}
	qb2 := models.Player{ID: uuid.New(), Name: "QB Two", Position: models.PositionQB, Rank: 2}
	qb3 := models.Player{ID: uuid.New(), Name: "QB Three", Position: models.PositionQB, Rank: 3}
	rb := models.Player{ID: uuid.New(), Name: "RB One", Position: models.PositionRB, Rank: 4}
	pool := players.NewMemoryRepository(qb1, qb2, qb3, rb)

	picks := &fakePicks{picks: []models.DraftPick{
		{ParticipantID: participant, PlayerID: qb1.ID},
		{ParticipantID: participant, PlayerID: qb2.ID},
	}}

	v := NewValidator(pool, picks, Caps{models.PositionQB: 2})

	if v.CanDraft(ctx, participant, qb3.ID) {
		t.Error("third QB allowed past a cap of 2")
	}
	if !v.CanDraft(ctx, participant, rb.ID) {
		t.Error("RB rejected although uncapped")
	}
}

func TestCanDraftCountsOnlyOwnPicks(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	qb1 := models.Player{ID: uuid.New(), Position: models.PositionQB, Rank: 1}
	qb2 := models.Player{ID: uuid.New(), Position: models.PositionQB, Rank: 2}
	qb3 := models.Player{ID: uuid.New(), Position: models.PositionQB, Rank: 3}
	pool := players.NewMemoryRepository(qb1, qb2, qb3)

	picks := &fakePicks{picks: []models.DraftPick{
		{ParticipantID: alice, PlayerID: qb1.ID},
		{ParticipantID: bob, PlayerID: qb2.ID},
	}}

	v := NewValidator(pool, picks, Caps{models.PositionQB: 2})

	if !v.CanDraft(ctx, alice, qb3.ID) {
		t.Error("alice rejected although only one of the QBs is hers")
	}
}

func TestCanDraftUnknownPlayer(t *testing.T) {
	ctx := context.Background()
	pool := players.NewMemoryRepository()
	v := NewValidator(pool, &fakePicks{}, nil)

	if v.CanDraft(ctx, uuid.New(), uuid.New()) {
		t.Error("unknown player passed the roster check")
	}
}

func TestDefaultCapsAppliedWhenNil(t *testing.T) {
	ctx := context.Background()
	participant := uuid.New()

	var pool []models.Player
	var committed []models.DraftPick
	for i := 0; i < 4; i++ {
		p := models.Player{ID: uuid.New(), Position: models.PositionQB, Rank: i + 1}
		pool = append(pool, p)
		committed = append(committed, models.DraftPick{ParticipantID: participant, PlayerID: p.ID})
	}
	fifth := models.Player{ID: uuid.New(), Position: models.PositionQB, Rank: 5}
	pool = append(pool, fifth)

	v := NewValidator(players.NewMemoryRepository(pool...), &fakePicks{picks: committed}, nil)

	// Default QB cap is 4.
	if v.CanDraft(ctx, participant, fifth.ID) {
		t.Error("fifth QB allowed past the default cap")
	}
}
