package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/draftclock/draftroom/internal/draft/engine"
	"github.com/draftclock/draftroom/internal/models"
	"github.com/draftclock/draftroom/internal/outbox"
	"github.com/draftclock/draftroom/internal/players"
	"github.com/draftclock/draftroom/internal/queue"
	"github.com/draftclock/draftroom/internal/store"
)

func newTestServer(t *testing.T, pool []models.Player) (*httptest.Server, *engine.Engine) {
	t.Helper()

	eng := engine.New(
		store.NewMemoryStore(),
		players.NewMemoryRepository(pool...),
		queue.NewMemoryStore(),
		outbox.NewLogPublisher(),
		clockwork.NewFakeClock(),
		engine.Config{},
	)
	t.Cleanup(eng.Close)

	handler := NewHandler(eng, NewConnectionManager(DefaultConnectionConfig()))
	srv := httptest.NewServer(handler.Router())
	t.Cleanup(srv.Close)
	return srv, eng
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestCreateStartAndPickOverHTTP(t *testing.T) {
	pool := []models.Player{
		{ID: uuid.New(), Name: "RB One", Position: models.PositionRB, Rank: 1},
		{ID: uuid.New(), Name: "WR One", Position: models.PositionWR, Rank: 2},
	}
	srv, _ := newTestServer(t, pool)

	order := []uuid.UUID{uuid.New(), uuid.New()}
	resp := postJSON(t, srv.URL+"/rooms", map[string]any{
		"timer_seconds": 30,
		"grace_seconds": 1,
		"total_rounds":  1,
		"draft_order":   order,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create room status = %d, want 201", resp.StatusCode)
	}

	var room models.Room
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		t.Fatalf("decode room: %v", err)
	}

	resp = postJSON(t, fmt.Sprintf("%s/rooms/%s/start", srv.URL, room.ID), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("start status = %d, want 204", resp.StatusCode)
	}

	resp = postJSON(t, fmt.Sprintf("%s/rooms/%s/picks", srv.URL, room.ID), map[string]any{
		"participant_id": order[0],
		"player_id":      pool[0].ID,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("pick status = %d, want 201", resp.StatusCode)
	}

	var pick models.DraftPick
	if err := json.NewDecoder(resp.Body).Decode(&pick); err != nil {
		t.Fatalf("decode pick: %v", err)
	}
	if pick.PickNumber != 1 || pick.PlayerID != pool[0].ID {
		t.Errorf("pick = %+v, want number 1 player %s", pick, pool[0].ID)
	}

	viewResp, err := http.Get(fmt.Sprintf("%s/rooms/%s?picks=true", srv.URL, room.ID))
	if err != nil {
		t.Fatalf("GET room: %v", err)
	}
	defer viewResp.Body.Close()

	var view engine.View
	if err := json.NewDecoder(viewResp.Body).Decode(&view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.PicksMade != 1 || len(view.Picks) != 1 {
		t.Errorf("view = %+v, want one committed pick", view)
	}
}

func TestPickRejectionBody(t *testing.T) {
	pool := []models.Player{{ID: uuid.New(), Position: models.PositionRB, Rank: 1}}
	srv, eng := newTestServer(t, pool)

	order := []uuid.UUID{uuid.New(), uuid.New()}
	room, err := eng.CreateRoom(context.Background(), models.RoomSettings{
		TimerSeconds: 30, TotalRounds: 1, DraftOrder: order,
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if err := eng.Start(context.Background(), room.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// The second participant is not on the clock.
	resp := postJSON(t, fmt.Sprintf("%s/rooms/%s/picks", srv.URL, room.ID), map[string]any{
		"participant_id": order[1],
		"player_id":      pool[0].ID,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}

	var body struct {
		Error  string `json:"error"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Reason != "NOT_YOUR_TURN" {
		t.Errorf("reason = %q, want NOT_YOUR_TURN", body.Reason)
	}
}

func TestUnknownRoomIs404(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(fmt.Sprintf("%s/rooms/%s", srv.URL, uuid.New()))
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestBadRoomIDIs400(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/rooms/not-a-uuid")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
