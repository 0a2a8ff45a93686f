package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/draftclock/draftroom/internal/models"
)

// notifier fans change callbacks out to room subscribers. One authoritative
// process serializes each room, so in-process delivery is sufficient;
// cross-instance consumers ride the event bus instead.
type notifier struct {
	mu   sync.RWMutex
	subs map[uuid.UUID][]subscriber
}

type subscriber struct {
	onRoomChange   func(models.RoomStatus)
	onPickAppended func(models.DraftPick)
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[uuid.UUID][]subscriber)}
}

func (n *notifier) subscribe(roomID uuid.UUID, onRoomChange func(models.RoomStatus), onPickAppended func(models.DraftPick)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs[roomID] = append(n.subs[roomID], subscriber{
		onRoomChange:   onRoomChange,
		onPickAppended: onPickAppended,
	})
}

func (n *notifier) notifyRoomChange(roomID uuid.UUID, status models.RoomStatus) {
	n.mu.RLock()
	subs := n.subs[roomID]
	n.mu.RUnlock()

	for _, s := range subs {
		if s.onRoomChange != nil {
			s.onRoomChange(status)
		}
	}
}

func (n *notifier) notifyPickAppended(roomID uuid.UUID, pick models.DraftPick) {
	n.mu.RLock()
	subs := n.subs[roomID]
	n.mu.RUnlock()

	for _, s := range subs {
		if s.onPickAppended != nil {
			s.onPickAppended(pick)
		}
	}
}
