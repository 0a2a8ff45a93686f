package ledger

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/draftclock/draftroom/internal/models"
)

func newPick(number int, playerID uuid.UUID) models.DraftPick {
	return models.DraftPick{
		ID:         uuid.New(),
		RoomID:     uuid.New(),
		PickNumber: number,
		PlayerID:   playerID,
	}
}

func TestAppendSequence(t *testing.T) {
	l := New()

	if got := l.NextPickNumber(); got != 1 {
		t.Fatalf("NextPickNumber = %d, want 1", got)
	}

	if err := l.Append(newPick(1, uuid.New())); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := l.Append(newPick(2, uuid.New())); err != nil {
		t.Fatalf("second append: %v", err)
	}

	if got := l.NextPickNumber(); got != 3 {
		t.Errorf("NextPickNumber = %d, want 3", got)
	}
	if got := l.Len(); got != 2 {
		t.Errorf("Len = %d, want 2", got)
	}
}

func TestAppendRejectsGap(t *testing.T) {
	l := New()

	if err := l.Append(newPick(2, uuid.New())); !errors.Is(err, ErrSequenceViolation) {
		t.Errorf("gap append error = %v, want ErrSequenceViolation", err)
	}

	if err := l.Append(newPick(1, uuid.New())); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.Append(newPick(1, uuid.New())); !errors.Is(err, ErrSequenceViolation) {
		t.Errorf("repeat append error = %v, want ErrSequenceViolation", err)
	}
}

func TestAppendRejectsDuplicatePlayer(t *testing.T) {
	l := New()
	playerID := uuid.New()

	if err := l.Append(newPick(1, playerID)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := l.Append(newPick(2, playerID)); !errors.Is(err, ErrDuplicatePlayer) {
		t.Errorf("duplicate player error = %v, want ErrDuplicatePlayer", err)
	}
	if !l.IsPlayerTaken(playerID) {
		t.Error("IsPlayerTaken = false after commit")
	}
}

func TestApplyRemoteDedupes(t *testing.T) {
	l := New()
	pick := newPick(1, uuid.New())

	if err := l.ApplyRemote(pick); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	// At-least-once delivery: the same pick arrives again.
	if err := l.ApplyRemote(pick); err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if got := l.Len(); got != 1 {
		t.Errorf("Len = %d after redelivery, want 1", got)
	}
}

func TestApplyRemoteRejectsGap(t *testing.T) {
	l := New()

	if err := l.ApplyRemote(newPick(3, uuid.New())); !errors.Is(err, ErrSequenceViolation) {
		t.Errorf("future pick error = %v, want ErrSequenceViolation", err)
	}
}

func TestPicksFor(t *testing.T) {
	l := New()
	alice := uuid.New()
	bob := uuid.New()

	for i, participant := range []uuid.UUID{alice, bob, alice} {
		pick := newPick(i+1, uuid.New())
		pick.ParticipantID = participant
		if err := l.Append(pick); err != nil {
			t.Fatalf("append %d: %v", i+1, err)
		}
	}

	got := l.PicksFor(alice)
	if len(got) != 2 {
		t.Fatalf("PicksFor(alice) = %d picks, want 2", len(got))
	}
	if got[0].PickNumber != 1 || got[1].PickNumber != 3 {
		t.Errorf("PicksFor order = %d, %d, want 1, 3", got[0].PickNumber, got[1].PickNumber)
	}

	if taken := l.TakenSet(); len(taken) != 3 {
		t.Errorf("TakenSet size = %d, want 3", len(taken))
	}
}
