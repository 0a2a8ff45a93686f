// Package engine is the draft commit coordinator: it derives whose turn it
// is, enforces pick legality, runs the per-pick countdown, fires auto-picks
// on expiry, and guarantees exactly one committed pick per turn under
// concurrent submission.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/draftclock/draftroom/internal/draft/autopick"
	"github.com/draftclock/draftroom/internal/draft/events"
	"github.com/draftclock/draftroom/internal/draft/ledger"
	"github.com/draftclock/draftroom/internal/draft/position"
	"github.com/draftclock/draftroom/internal/draft/roster"
	"github.com/draftclock/draftroom/internal/draft/timer"
	"github.com/draftclock/draftroom/internal/models"
	"github.com/draftclock/draftroom/internal/outbox"
	"github.com/draftclock/draftroom/internal/players"
	"github.com/draftclock/draftroom/internal/queue"
	"github.com/draftclock/draftroom/internal/store"
)

const DefaultCommitTimeout = 5 * time.Second

// Config tunes the coordinator.
type Config struct {
	CommitTimeout time.Duration
	Caps          roster.Caps
}

// PickRequest is a manual or automatic pick submission. PickNumber zero
// means "the current pick"; a non-zero value from a stale client is
// rejected with a sequence violation so the client re-reads state.
type PickRequest struct {
	ParticipantID uuid.UUID
	PlayerID      uuid.UUID
	PickNumber    int
	Auto          bool
}

// Engine coordinates every draft room in this process.
type Engine struct {
	store   store.Store
	players players.Repository
	queues  queue.Store
	bus     outbox.Publisher
	clock   clockwork.Clock
	config  Config

	mu    sync.RWMutex
	rooms map[uuid.UUID]*room
}

func New(st store.Store, pool players.Repository, queues queue.Store, bus outbox.Publisher, clock clockwork.Clock, cfg Config) *Engine {
	if cfg.CommitTimeout <= 0 {
		cfg.CommitTimeout = DefaultCommitTimeout
	}
	if cfg.Caps == nil {
		cfg.Caps = roster.DefaultCaps()
	}
	return &Engine{
		store:   st,
		players: pool,
		queues:  queues,
		bus:     bus,
		clock:   clock,
		config:  cfg,
		rooms:   make(map[uuid.UUID]*room),
	}
}

// CreateRoom persists a new room in the waiting state and registers its
// runtime.
func (e *Engine) CreateRoom(ctx context.Context, settings models.RoomSettings) (*models.Room, error) {
	if len(settings.DraftOrder) == 0 {
		return nil, fmt.Errorf("draft order is empty")
	}
	if settings.TotalRounds <= 0 {
		return nil, fmt.Errorf("total rounds must be positive")
	}
	if settings.TimerSeconds <= 0 {
		return nil, fmt.Errorf("timer seconds must be positive")
	}
	if settings.GraceSeconds < 0 {
		return nil, fmt.Errorf("grace seconds must not be negative")
	}

	m := models.Room{
		ID:        uuid.New(),
		Status:    models.RoomStatusWaiting,
		Settings:  settings,
		CreatedAt: e.clock.Now().UTC(),
	}
	if err := e.store.CreateRoom(ctx, m); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	e.registerRoom(m, ledger.New())

	log.Info().
		Str("room_id", m.ID.String()).
		Int("teams", len(settings.DraftOrder)).
		Int("rounds", settings.TotalRounds).
		Msg("room created")
	return &m, nil
}

func (e *Engine) registerRoom(m models.Room, led *ledger.Ledger) *room {
	r := &room{
		id:       m.ID,
		status:   m.Status,
		settings: m.Settings,
		ledger:   led,
		inFlight: make(map[uuid.UUID]bool),
	}
	r.validator = roster.NewValidator(e.players, led, e.config.Caps)
	r.timer = timer.New(e.clock, m.Settings.GraceSeconds, func() { e.handleExpiry(m.ID) })
	r.resolver = autopick.NewResolver(m.ID, e.queues, e.players, led,
		func(ctx context.Context, participantID, playerID uuid.UUID) bool {
			return r.validator.CanDraft(ctx, participantID, playerID)
		})

	// The store's change feed delivers at least once; ApplyRemote ignores
	// picks the ledger already holds, our own commits included.
	e.store.Subscribe(m.ID, nil, func(pick models.DraftPick) {
		if err := led.ApplyRemote(pick); err != nil {
			log.Warn().
				Err(err).
				Str("room_id", m.ID.String()).
				Int("pick_number", pick.PickNumber).
				Msg("change feed pick rejected")
		}
	})

	e.mu.Lock()
	e.rooms[m.ID] = r
	e.mu.Unlock()
	return r
}

// getRoom returns the runtime for a room, lazily recovering it from the
// store after a restart.
func (e *Engine) getRoom(ctx context.Context, roomID uuid.UUID) (*room, error) {
	e.mu.RLock()
	r, ok := e.rooms[roomID]
	e.mu.RUnlock()
	if ok {
		return r, nil
	}

	m, err := e.store.LoadRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	picks, err := e.store.LoadPicks(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load picks: %w", err)
	}

	led := ledger.New()
	for _, p := range picks {
		if err := led.Append(p); err != nil {
			return nil, fmt.Errorf("replay pick %d: %w", p.PickNumber, err)
		}
	}

	r = e.registerRoom(*m, led)
	if m.Status == models.RoomStatusActive {
		// Recovered mid-draft: arm a fresh countdown for the current slot.
		e.startTimer(r)
	}
	return r, nil
}

func (e *Engine) startTimer(r *room) {
	ctx, cancel := context.WithCancel(context.Background())
	r.timerCancel = cancel
	r.timer.Reset(r.settings.TimerSeconds)
	go r.timer.Run(ctx)
}

// Start transitions the room from waiting to active and puts the first
// participant on the clock.
func (e *Engine) Start(ctx context.Context, roomID uuid.UUID) error {
	r, err := e.getRoom(ctx, roomID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != models.RoomStatusWaiting {
		return ErrInvalidTransition
	}
	if err := e.store.UpdateRoomStatus(ctx, roomID, models.RoomStatusActive); err != nil {
		return fmt.Errorf("persist start: %w", err)
	}
	r.status = models.RoomStatusActive
	e.startTimer(r)

	now := e.clock.Now().UTC()
	e.emit(ctx, roomID, events.TypeDraftStarted, events.DraftStartedPayload{
		RoomID:      roomID.String(),
		StartedAt:   now,
		TotalRounds: r.settings.TotalRounds,
		TotalPicks:  r.settings.TotalPicks(),
	})
	e.emitPickStarted(ctx, r, now)

	log.Info().Str("room_id", roomID.String()).Msg("draft started")
	return nil
}

// Pause freezes the pick timer. An in-flight commit always completes first:
// this transition waits on the room's critical section.
func (e *Engine) Pause(ctx context.Context, roomID uuid.UUID) error {
	r, err := e.getRoom(ctx, roomID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != models.RoomStatusActive {
		return ErrInvalidTransition
	}
	if err := e.store.UpdateRoomStatus(ctx, roomID, models.RoomStatusPaused); err != nil {
		return fmt.Errorf("persist pause: %w", err)
	}
	r.status = models.RoomStatusPaused
	r.timer.Pause()

	e.emit(ctx, roomID, events.TypeDraftPaused, events.DraftPausedPayload{
		RoomID:   roomID.String(),
		PausedAt: e.clock.Now().UTC(),
	})

	log.Info().Str("room_id", roomID.String()).Msg("draft paused")
	return nil
}

// Resume continues the countdown from where Pause left it.
func (e *Engine) Resume(ctx context.Context, roomID uuid.UUID) error {
	r, err := e.getRoom(ctx, roomID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if r.status != models.RoomStatusPaused {
		r.mu.Unlock()
		return ErrInvalidTransition
	}
	if err := e.store.UpdateRoomStatus(ctx, roomID, models.RoomStatusActive); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("persist resume: %w", err)
	}
	r.status = models.RoomStatusActive
	r.timer.Resume()
	elapsed := r.timer.State().Phase == timer.PhaseElapsed
	r.mu.Unlock()

	e.emit(ctx, roomID, events.TypeDraftResumed, events.DraftResumedPayload{
		RoomID:    roomID.String(),
		ResumedAt: e.clock.Now().UTC(),
	})

	// If the slot elapsed while paused (or the auto-pick was rejected by
	// the pause), fire it now rather than waiting on a dead timer.
	if elapsed {
		go e.handleExpiry(roomID)
	}

	log.Info().Str("room_id", roomID.String()).Msg("draft resumed")
	return nil
}

// RequestPick validates and commits a pick. Exactly one caller proceeds
// through the commit at a time; losers of the race observe a validation
// error against the advanced state, never a double commit.
func (e *Engine) RequestPick(ctx context.Context, roomID uuid.UUID, req PickRequest) (*models.DraftPick, error) {
	r, err := e.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != models.RoomStatusActive {
		if r.status == models.RoomStatusCompleted {
			return nil, ErrDraftComplete
		}
		return nil, ErrRoomNotActive
	}

	next := r.ledger.NextPickNumber()
	slot, ok := position.LocateIn(next, len(r.settings.DraftOrder), r.settings.TotalRounds)
	if !ok {
		return nil, ErrDraftComplete
	}
	if req.PickNumber != 0 && req.PickNumber != next {
		return nil, ledger.ErrSequenceViolation
	}
	if r.settings.DraftOrder[slot.ParticipantIndex] != req.ParticipantID {
		return nil, ErrNotYourTurn
	}
	if !req.Auto && r.timer.State().Phase == timer.PhaseElapsed {
		return nil, ErrTimerExpired
	}
	if r.ledger.IsPlayerTaken(req.PlayerID) {
		return nil, ErrPlayerUnavailable
	}
	if _, err := e.players.Lookup(ctx, req.PlayerID); err != nil {
		if errors.Is(err, players.ErrPlayerNotFound) {
			return nil, ErrPlayerUnavailable
		}
		return nil, fmt.Errorf("lookup player: %w", err)
	}
	if !r.validator.CanDraft(ctx, req.ParticipantID, req.PlayerID) {
		return nil, ErrPositionCapExceeded
	}

	r.setInFlight(req.ParticipantID, true)
	defer r.setInFlight(req.ParticipantID, false)

	pick := models.DraftPick{
		ID:            uuid.New(),
		RoomID:        roomID,
		PickNumber:    next,
		Round:         slot.Round,
		Pick:          slot.IndexInRound + 1,
		ParticipantID: req.ParticipantID,
		PlayerID:      req.PlayerID,
		Auto:          req.Auto,
		CommittedAt:   e.clock.Now().UTC(),
	}

	commitCtx, cancel := context.WithTimeout(ctx, e.config.CommitTimeout)
	defer cancel()
	if err := e.store.AppendAtomic(commitCtx, roomID, pick, next); err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			// Nothing advanced; a retried request re-validates against the
			// unchanged turn.
			return nil, ErrCommitTimeout
		case errors.Is(err, store.ErrConflict):
			return nil, ledger.ErrSequenceViolation
		default:
			return nil, fmt.Errorf("append pick: %w", err)
		}
	}

	// The change feed subscription usually lands the pick first; ApplyRemote
	// makes the direct path a no-op in that case. A failure here means the
	// room state diverged.
	if err := r.ledger.ApplyRemote(pick); err != nil {
		return nil, fmt.Errorf("ledger apply after durable commit: %w", err)
	}

	r.timer.Reset(r.settings.TimerSeconds)

	log.Info().
		Str("room_id", roomID.String()).
		Str("participant_id", req.ParticipantID.String()).
		Str("player_id", req.PlayerID.String()).
		Int("pick_number", next).
		Bool("auto", req.Auto).
		Msg("pick committed")

	e.emit(ctx, roomID, events.TypePickMade, events.PickMadePayload{
		PickNumber:    pick.PickNumber,
		Round:         pick.Round,
		Pick:          pick.Pick,
		ParticipantID: pick.ParticipantID.String(),
		PlayerID:      pick.PlayerID.String(),
		Auto:          pick.Auto,
		MadeAt:        pick.CommittedAt,
	})

	if next == r.settings.TotalPicks() {
		e.completeLocked(ctx, r)
	} else {
		e.emitPickStarted(ctx, r, pick.CommittedAt)
	}

	return &pick, nil
}

// UpdateQueue replaces a participant's priority queue. It is rejected only
// while that participant's own commit is in flight.
func (e *Engine) UpdateQueue(ctx context.Context, roomID, participantID uuid.UUID, playerIDs []uuid.UUID) error {
	r, err := e.getRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if !r.hasParticipant(participantID) {
		return ErrUnknownParticipant
	}
	if r.isInFlight(participantID) {
		return ErrQueueLocked
	}
	return e.queues.Replace(ctx, roomID, participantID, playerIDs)
}

// Complete force-finishes an active or paused room.
func (e *Engine) Complete(ctx context.Context, roomID uuid.UUID) error {
	r, err := e.getRoom(ctx, roomID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != models.RoomStatusActive && r.status != models.RoomStatusPaused {
		return ErrInvalidTransition
	}
	e.completeLocked(ctx, r)
	return nil
}

// completeLocked finishes the room. Caller holds r.mu.
func (e *Engine) completeLocked(ctx context.Context, r *room) {
	if err := e.store.UpdateRoomStatus(ctx, r.id, models.RoomStatusCompleted); err != nil {
		log.Error().Err(err).Str("room_id", r.id.String()).Msg("failed to persist completion")
	}
	r.status = models.RoomStatusCompleted
	if r.timerCancel != nil {
		r.timerCancel()
		r.timerCancel = nil
	}
	r.timer.Pause()

	e.emit(ctx, r.id, events.TypeDraftCompleted, events.DraftCompletedPayload{
		RoomID:      r.id.String(),
		CompletedAt: e.clock.Now().UTC(),
		TotalPicks:  r.ledger.Len(),
	})

	log.Info().
		Str("room_id", r.id.String()).
		Int("total_picks", r.ledger.Len()).
		Msg("draft completed")
}

// handleExpiry runs on the timer goroutine when a slot elapses with no
// manual pick. It resolves a player for the participant on the clock and
// resubmits through the normal commit path, which re-validates everything
// under the room lock.
func (e *Engine) handleExpiry(roomID uuid.UUID) {
	ctx := context.Background()

	r, err := e.getRoom(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID.String()).Msg("expiry for unknown room")
		return
	}

	r.mu.Lock()
	if r.status != models.RoomStatusActive {
		r.mu.Unlock()
		return
	}
	next := r.ledger.NextPickNumber()
	slot, ok := position.LocateIn(next, len(r.settings.DraftOrder), r.settings.TotalRounds)
	if !ok {
		r.mu.Unlock()
		return
	}
	participantID := r.settings.DraftOrder[slot.ParticipantIndex]
	r.mu.Unlock()

	playerID, err := r.resolver.Resolve(ctx, participantID)
	if err != nil {
		if errors.Is(err, autopick.ErrNoPlayersAvailable) {
			// Terminal: the pool ran dry, so the draft is over.
			r.mu.Lock()
			if r.status == models.RoomStatusActive {
				e.completeLocked(ctx, r)
			}
			r.mu.Unlock()
			return
		}
		log.Error().
			Err(err).
			Str("room_id", roomID.String()).
			Str("participant_id", participantID.String()).
			Msg("auto-pick resolution failed")
		return
	}

	if _, err := e.RequestPick(ctx, roomID, PickRequest{
		ParticipantID: participantID,
		PlayerID:      playerID,
		PickNumber:    next,
		Auto:          true,
	}); err != nil {
		log.Warn().
			Err(err).
			Str("room_id", roomID.String()).
			Str("participant_id", participantID.String()).
			Int("pick_number", next).
			Msg("auto-pick commit rejected")
	}
}

// emit publishes an event, logging failures rather than failing the
// operation that produced them.
func (e *Engine) emit(ctx context.Context, roomID uuid.UUID, eventType string, payload any) {
	event, err := outbox.NewEvent(roomID, eventType, payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to build event")
		return
	}
	if err := e.bus.Publish(ctx, event); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to publish event")
	}
}

// emitPickStarted announces the next participant on the clock. Caller
// holds r.mu.
func (e *Engine) emitPickStarted(ctx context.Context, r *room, startedAt time.Time) {
	next := r.ledger.NextPickNumber()
	slot, ok := position.LocateIn(next, len(r.settings.DraftOrder), r.settings.TotalRounds)
	if !ok {
		return
	}

	e.emit(ctx, r.id, events.TypePickStarted, events.PickStartedPayload{
		PickNumber:     next,
		Round:          slot.Round,
		Pick:           slot.IndexInRound + 1,
		ParticipantID:  r.settings.DraftOrder[slot.ParticipantIndex].String(),
		StartedAt:      startedAt,
		TimeoutAt:      startedAt.Add(time.Duration(r.settings.TimerSeconds) * time.Second),
		TimePerPickSec: r.settings.TimerSeconds,
	})
}

// Close stops every room's timer goroutine.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range e.rooms {
		r.mu.Lock()
		if r.timerCancel != nil {
			r.timerCancel()
			r.timerCancel = nil
		}
		r.mu.Unlock()
	}
}
