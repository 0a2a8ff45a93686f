package queue

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestReplaceAndList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	roomID, participant := uuid.New(), uuid.New()

	players := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	if err := s.Replace(ctx, roomID, participant, players); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, err := s.List(ctx, roomID, participant)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 || got[0] != players[0] || got[2] != players[2] {
		t.Errorf("List = %v, want %v in order", got, players)
	}

	// Replace is a full overwrite, not a merge.
	if err := s.Replace(ctx, roomID, participant, players[:1]); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, err = s.List(ctx, roomID, participant)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("List after overwrite = %v, want single entry", got)
	}
}

func TestListEmptyQueue(t *testing.T) {
	s := NewMemoryStore()

	got, err := s.List(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List = %v, want empty", got)
	}
}
