package players

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/draftclock/draftroom/internal/models"
)

// PostgresRepository serves the player pool from the players table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Lookup(ctx context.Context, playerID uuid.UUID) (*models.Player, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, position, team, rank FROM players WHERE id = $1`,
		playerID,
	)

	var p models.Player
	if err := row.Scan(&p.ID, &p.Name, &p.Position, &p.Team, &p.Rank); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("lookup player: %w", err)
	}
	return &p, nil
}

func (r *PostgresRepository) AllAvailable(ctx context.Context, excluding map[uuid.UUID]bool) ([]models.Player, error) {
	excluded := make([]uuid.UUID, 0, len(excluding))
	for id := range excluding {
		excluded = append(excluded, id)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, position, team, rank
		   FROM players
		  WHERE NOT (id = ANY($1))
		  ORDER BY rank ASC`,
		excluded,
	)
	if err != nil {
		return nil, fmt.Errorf("list available players: %w", err)
	}
	defer rows.Close()

	var out []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Position, &p.Team, &p.Rank); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return out, nil
}

// Insert adds a player to the pool. Used by the seeding tool, not the
// engine.
func (r *PostgresRepository) Insert(ctx context.Context, p models.Player) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO players (id, name, position, team, rank)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		    SET name = EXCLUDED.name,
		        position = EXCLUDED.position,
		        team = EXCLUDED.team,
		        rank = EXCLUDED.rank`,
		p.ID, p.Name, p.Position, p.Team, p.Rank,
	)
	if err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}
