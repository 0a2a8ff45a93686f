// Package store is the persistence collaborator: room documents plus an
// ordered pick sub-collection keyed by pick number, with an atomic
// compare-and-append used as the commit point.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/draftclock/draftroom/internal/models"
)

var (
	// ErrConflict is returned by AppendAtomic when the room's pick counter
	// no longer matches the expected next pick number.
	ErrConflict = errors.New("pick sequence conflict")

	// ErrRoomNotFound is returned when a room ID is unknown.
	ErrRoomNotFound = errors.New("room not found")
)

// Store is the backing document store. Change delivery is at-least-once;
// subscribers dedupe picks by pick number.
type Store interface {
	CreateRoom(ctx context.Context, room models.Room) error
	LoadRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error)
	UpdateRoomStatus(ctx context.Context, roomID uuid.UUID, status models.RoomStatus) error

	// AppendAtomic commits the pick iff the room's pick count still equals
	// expectedNextPickNumber-1. On a lost race it returns ErrConflict.
	AppendAtomic(ctx context.Context, roomID uuid.UUID, pick models.DraftPick, expectedNextPickNumber int) error
	LoadPicks(ctx context.Context, roomID uuid.UUID) ([]models.DraftPick, error)

	// Subscribe registers change callbacks for the room. Either callback
	// may be nil.
	Subscribe(roomID uuid.UUID, onRoomChange func(models.RoomStatus), onPickAppended func(models.DraftPick))
}
