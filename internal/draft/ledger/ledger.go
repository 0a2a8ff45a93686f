// Package ledger holds the ordered, append-only list of committed picks for
// a room. The ledger is the sole source of truth for the next pick number;
// whose turn it is derives from applying the position calculator to it.
package ledger

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/draftclock/draftroom/internal/models"
)

var (
	// ErrSequenceViolation is returned when an appended pick does not carry
	// the ledger's next pick number.
	ErrSequenceViolation = errors.New("pick number out of sequence")

	// ErrDuplicatePlayer is returned when the pick's player is already on
	// the ledger.
	ErrDuplicatePlayer = errors.New("player already drafted")
)

// Ledger is safe for concurrent use. All mutation funnels through the
// commit coordinator's critical section; reads may come from anywhere.
type Ledger struct {
	mu    sync.RWMutex
	picks []models.DraftPick
	taken map[uuid.UUID]int // playerID -> pickNumber
}

func New() *Ledger {
	return &Ledger{taken: make(map[uuid.UUID]int)}
}

// NextPickNumber returns the pick number the next Append must carry.
// Pick numbers form a contiguous 1-based sequence.
func (l *Ledger) NextPickNumber() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.picks) + 1
}

// Len returns the number of committed picks.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.picks)
}

// IsPlayerTaken reports whether the player already appears on the ledger.
func (l *Ledger) IsPlayerTaken(playerID uuid.UUID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.taken[playerID]
	return ok
}

// Append commits a pick. It fails with ErrSequenceViolation when the pick
// number is not the next in sequence and ErrDuplicatePlayer when the player
// is already taken.
func (l *Ledger) Append(pick models.DraftPick) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if pick.PickNumber != len(l.picks)+1 {
		return ErrSequenceViolation
	}
	if _, ok := l.taken[pick.PlayerID]; ok {
		return ErrDuplicatePlayer
	}

	l.picks = append(l.picks, pick)
	l.taken[pick.PlayerID] = pick.PickNumber
	return nil
}

// ApplyRemote applies a pick delivered by the store's change feed. Delivery
// is at-least-once, so a pick the ledger already holds is ignored. A pick
// from the future still fails with ErrSequenceViolation: the feed replays
// in order, so a gap means lost state.
func (l *Ledger) ApplyRemote(pick models.DraftPick) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if pick.PickNumber <= len(l.picks) {
		return nil // duplicate notification
	}
	if pick.PickNumber != len(l.picks)+1 {
		return ErrSequenceViolation
	}
	if _, ok := l.taken[pick.PlayerID]; ok {
		return ErrDuplicatePlayer
	}

	l.picks = append(l.picks, pick)
	l.taken[pick.PlayerID] = pick.PickNumber
	return nil
}

// PicksFor returns the participant's committed picks in draft order.
func (l *Ledger) PicksFor(participantID uuid.UUID) []models.DraftPick {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []models.DraftPick
	for _, p := range l.picks {
		if p.ParticipantID == participantID {
			out = append(out, p)
		}
	}
	return out
}

// All returns a copy of every committed pick in order.
func (l *Ledger) All() []models.DraftPick {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.DraftPick, len(l.picks))
	copy(out, l.picks)
	return out
}

// TakenSet returns the set of drafted player IDs, used to filter the
// available pool.
func (l *Ledger) TakenSet() map[uuid.UUID]bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[uuid.UUID]bool, len(l.taken))
	for id := range l.taken {
		out[id] = true
	}
	return out
}
