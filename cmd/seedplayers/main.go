// Command seedplayers loads the player reference pool from a CSV file into
// postgres. Expected columns: name, position, team, rank.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/draftclock/draftroom/internal/config"
	"github.com/draftclock/draftroom/internal/models"
	"github.com/draftclock/draftroom/internal/players"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}

func run() error {
	_ = godotenv.Load()

	csvPath := flag.String("csv", "players.csv", "path to the player CSV")
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = config.DefaultConfig()
		} else {
			return err
		}
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.Postgres.ConnectionString())
	if err != nil {
		return fmt.Errorf("create postgres pool: %w", err)
	}
	defer pool.Close()

	f, err := os.Open(*csvPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	repo := players.NewPostgresRepository(pool)

	count, err := seed(ctx, repo, f)
	if err != nil {
		return err
	}

	log.Info().Int("players", count).Msg("player pool seeded")
	return nil
}

func seed(ctx context.Context, repo *players.PostgresRepository, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4

	// Skip a header row if present.
	first, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv: %w", err)
	}

	count := 0
	if !strings.EqualFold(first[0], "name") {
		if err := insertRecord(ctx, repo, first); err != nil {
			return 0, err
		}
		count++
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("read csv: %w", err)
		}
		if err := insertRecord(ctx, repo, record); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func insertRecord(ctx context.Context, repo *players.PostgresRepository, record []string) error {
	rank, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil {
		return fmt.Errorf("parse rank %q: %w", record[3], err)
	}

	position := models.Position(strings.ToUpper(strings.TrimSpace(record[1])))
	switch position {
	case models.PositionQB, models.PositionRB, models.PositionWR, models.PositionTE:
	default:
		return fmt.Errorf("unknown position %q for %q", record[1], record[0])
	}

	name := strings.TrimSpace(record[0])

	return repo.Insert(ctx, models.Player{
		// Deterministic IDs so re-running the seed updates in place.
		ID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		Name:     name,
		Position: position,
		Team:     strings.TrimSpace(record[2]),
		Rank:     rank,
	})
}
