package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/draftclock/draftroom/internal/models"
)

// PostgresStore persists rooms and picks. The rooms row carries a next_pick
// counter that AppendAtomic compares-and-advances under a row lock, which
// is the store-level half of the single-writer invariant.
type PostgresStore struct {
	pool *pgxpool.Pool
	*notifier
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, notifier: newNotifier()}
}

func (s *PostgresStore) CreateRoom(ctx context.Context, room models.Room) error {
	settings, err := json.Marshal(room.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO rooms (id, status, settings, next_pick, created_at)
		 VALUES ($1, $2, $3, 1, $4)`,
		room.ID, room.Status, settings, room.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, status, settings, started_at, completed_at, created_at
		   FROM rooms WHERE id = $1`,
		roomID,
	)

	var (
		room     models.Room
		settings []byte
	)
	if err := row.Scan(&room.ID, &room.Status, &settings, &room.StartedAt, &room.CompletedAt, &room.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("load room: %w", err)
	}
	if err := json.Unmarshal(settings, &room.Settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	return &room, nil
}

func (s *PostgresStore) UpdateRoomStatus(ctx context.Context, roomID uuid.UUID, status models.RoomStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE rooms
		    SET status = $2,
		        started_at = CASE WHEN $2 = 'ACTIVE' AND started_at IS NULL THEN now() ELSE started_at END,
		        completed_at = CASE WHEN $2 = 'COMPLETED' THEN now() ELSE completed_at END
		  WHERE id = $1`,
		roomID, status,
	)
	if err != nil {
		return fmt.Errorf("update room status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoomNotFound
	}

	s.notifyRoomChange(roomID, status)
	return nil
}

func (s *PostgresStore) AppendAtomic(ctx context.Context, roomID uuid.UUID, pick models.DraftPick, expectedNextPickNumber int) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback(ctx)

	var nextPick int
	err = tx.QueryRow(ctx,
		`SELECT next_pick FROM rooms WHERE id = $1 FOR UPDATE`,
		roomID,
	).Scan(&nextPick)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("lock room: %w", err)
	}
	if nextPick != expectedNextPickNumber {
		return ErrConflict
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO picks (id, room_id, pick_number, round, pick, participant_id, player_id, auto, committed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		pick.ID, pick.RoomID, pick.PickNumber, pick.Round, pick.Pick,
		pick.ParticipantID, pick.PlayerID, pick.Auto, pick.CommittedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Unique violation on (room_id, pick_number) or
			// (room_id, player_id): a lost race surfaced at the store.
			return ErrConflict
		}
		return fmt.Errorf("insert pick: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE rooms SET next_pick = next_pick + 1 WHERE id = $1`,
		roomID,
	); err != nil {
		return fmt.Errorf("advance pick counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}

	s.notifyPickAppended(roomID, pick)
	return nil
}

func (s *PostgresStore) LoadPicks(ctx context.Context, roomID uuid.UUID) ([]models.DraftPick, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, room_id, pick_number, round, pick, participant_id, player_id, auto, committed_at
		   FROM picks
		  WHERE room_id = $1
		  ORDER BY pick_number ASC`,
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("load picks: %w", err)
	}
	defer rows.Close()

	var out []models.DraftPick
	for rows.Next() {
		var p models.DraftPick
		if err := rows.Scan(&p.ID, &p.RoomID, &p.PickNumber, &p.Round, &p.Pick,
			&p.ParticipantID, &p.PlayerID, &p.Auto, &p.CommittedAt); err != nil {
			return nil, fmt.Errorf("scan pick: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate picks: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Subscribe(roomID uuid.UUID, onRoomChange func(models.RoomStatus), onPickAppended func(models.DraftPick)) {
	s.subscribe(roomID, onRoomChange, onPickAppended)
}
