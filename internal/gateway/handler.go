package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/draftclock/draftroom/internal/draft/engine"
	"github.com/draftclock/draftroom/internal/draft/ledger"
	"github.com/draftclock/draftroom/internal/models"
	"github.com/draftclock/draftroom/internal/store"
)

// Handler exposes the engine over HTTP.
type Handler struct {
	engine  *engine.Engine
	manager *ConnectionManager
}

func NewHandler(eng *engine.Engine, manager *ConnectionManager) *Handler {
	return &Handler{engine: eng, manager: manager}
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// Router builds the HTTP surface.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.AllowAll().Handler)

	r.Get("/health", h.health)

	r.Route("/rooms", func(r chi.Router) {
		r.Post("/", h.createRoom)

		r.Route("/{roomID}", func(r chi.Router) {
			r.Get("/", h.roomView)
			r.Get("/ws", h.serveWS)
			r.Post("/start", h.lifecycle(h.engine.Start))
			r.Post("/pause", h.lifecycle(h.engine.Pause))
			r.Post("/resume", h.lifecycle(h.engine.Resume))
			r.Post("/complete", h.lifecycle(h.engine.Complete))
			r.Post("/picks", h.submitPick)
			r.Put("/participants/{participantID}/queue", h.updateQueue)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createRoomRequest struct {
	TimerSeconds    int         `json:"timer_seconds"`
	GraceSeconds    int         `json:"grace_seconds"`
	TotalRounds     int         `json:"total_rounds"`
	MaxParticipants int         `json:"max_participants"`
	DraftOrder      []uuid.UUID `json:"draft_order"`
}

func (h *Handler) createRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "BAD_REQUEST", err)
		return
	}

	room, err := h.engine.CreateRoom(r.Context(), models.RoomSettings{
		TimerSeconds:    req.TimerSeconds,
		GraceSeconds:    req.GraceSeconds,
		TotalRounds:     req.TotalRounds,
		MaxParticipants: req.MaxParticipants,
		DraftOrder:      req.DraftOrder,
	})
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_SETTINGS", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, room)
}

func (h *Handler) roomView(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "BAD_ROOM_ID", err)
		return
	}

	includePicks := r.URL.Query().Get("picks") == "true"
	view, err := h.engine.RoomView(r.Context(), roomID, includePicks)
	if err != nil {
		h.writePickError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "BAD_ROOM_ID", err)
		return
	}
	if err := h.manager.UpgradeConnection(w, r, roomID); err != nil {
		log.Error().Err(err).Str("room_id", roomID.String()).Msg("websocket upgrade failed")
	}
}

// lifecycle adapts a room transition (start, pause, resume, complete)
// into an HTTP handler.
func (h *Handler) lifecycle(op func(ctx context.Context, roomID uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "BAD_ROOM_ID", err)
			return
		}
		if err := op(r.Context(), roomID); err != nil {
			h.writePickError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type submitPickRequest struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	PlayerID      uuid.UUID `json:"player_id"`
	PickNumber    int       `json:"pick_number,omitempty"`
}

func (h *Handler) submitPick(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "BAD_ROOM_ID", err)
		return
	}

	var req submitPickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "BAD_REQUEST", err)
		return
	}

	pick, err := h.engine.RequestPick(r.Context(), roomID, engine.PickRequest{
		ParticipantID: req.ParticipantID,
		PlayerID:      req.PlayerID,
		PickNumber:    req.PickNumber,
	})
	if err != nil {
		h.writePickError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, pick)
}

type updateQueueRequest struct {
	PlayerIDs []uuid.UUID `json:"player_ids"`
}

func (h *Handler) updateQueue(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "roomID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "BAD_ROOM_ID", err)
		return
	}
	participantID, err := uuid.Parse(chi.URLParam(r, "participantID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "BAD_PARTICIPANT_ID", err)
		return
	}

	var req updateQueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "BAD_REQUEST", err)
		return
	}

	if err := h.engine.UpdateQueue(r.Context(), roomID, participantID, req.PlayerIDs); err != nil {
		h.writePickError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writePickError maps engine errors onto status codes and stable reason
// strings so clients can explain why a pick was rejected.
func (h *Handler) writePickError(w http.ResponseWriter, err error) {
	status, reason := pickErrorStatus(err)
	h.writeJSON(w, status, errorResponse{Error: err.Error(), Reason: reason})
}

func pickErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, engine.ErrNotYourTurn):
		return http.StatusConflict, "NOT_YOUR_TURN"
	case errors.Is(err, engine.ErrTimerExpired):
		return http.StatusConflict, "TIMER_EXPIRED"
	case errors.Is(err, engine.ErrPlayerUnavailable):
		return http.StatusConflict, "PLAYER_UNAVAILABLE"
	case errors.Is(err, engine.ErrPositionCapExceeded):
		return http.StatusConflict, "POSITION_CAP_EXCEEDED"
	case errors.Is(err, ledger.ErrSequenceViolation):
		return http.StatusConflict, "SEQUENCE_VIOLATION"
	case errors.Is(err, ledger.ErrDuplicatePlayer):
		return http.StatusConflict, "DUPLICATE_PLAYER"
	case errors.Is(err, engine.ErrQueueLocked):
		return http.StatusConflict, "QUEUE_LOCKED"
	case errors.Is(err, engine.ErrRoomNotActive):
		return http.StatusConflict, "ROOM_NOT_ACTIVE"
	case errors.Is(err, engine.ErrDraftComplete):
		return http.StatusConflict, "DRAFT_COMPLETE"
	case errors.Is(err, engine.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, engine.ErrUnknownParticipant):
		return http.StatusNotFound, "UNKNOWN_PARTICIPANT"
	case errors.Is(err, store.ErrRoomNotFound):
		return http.StatusNotFound, "ROOM_NOT_FOUND"
	case errors.Is(err, engine.ErrCommitTimeout):
		return http.StatusGatewayTimeout, "COMMIT_TIMEOUT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, reason string, err error) {
	h.writeJSON(w, status, errorResponse{Error: err.Error(), Reason: reason})
}
