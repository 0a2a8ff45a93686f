package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/draftclock/draftroom/internal/config"
	"github.com/draftclock/draftroom/internal/draft/engine"
	"github.com/draftclock/draftroom/internal/draft/roster"
	"github.com/draftclock/draftroom/internal/gateway"
	"github.com/draftclock/draftroom/internal/latency"
	"github.com/draftclock/draftroom/internal/models"
	"github.com/draftclock/draftroom/internal/outbox"
	"github.com/draftclock/draftroom/internal/players"
	"github.com/draftclock/draftroom/internal/queue"
	"github.com/draftclock/draftroom/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("draftroom failed")
	}
}

func run() error {
	// Load .env if present (dev convenience, no-op in production).
	_ = godotenv.Load()

	setupLogging()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Postgres.ConnectionString())
	if err != nil {
		return fmt.Errorf("create postgres pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	log.Info().Str("database", cfg.Postgres.Database).Msg("connected to postgres")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	manager := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	go manager.Start(ctx)

	bridge := gateway.NewEventBridge(manager)

	publisher, stopConsumer, err := setupEventBus(cfg, bridge)
	if err != nil {
		return err
	}
	defer stopConsumer()

	eng := engine.New(
		store.NewPostgresStore(pool),
		players.NewPostgresRepository(pool),
		queue.NewRedisStore(redisClient),
		publisher,
		clockwork.NewRealClock(),
		engine.Config{
			CommitTimeout: cfg.Draft.CommitTimeout,
			Caps:          capsFromConfig(cfg.Draft.PositionCaps),
		},
	)
	defer eng.Close()

	estimator := latency.NewEstimator(cfg.Latency.WindowSize)

	probeURL := cfg.Latency.ProbeURL
	if probeURL == "" {
		probeURL = fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port)
	}
	sampler := latency.NewSampler(estimator, probeURL, cfg.Latency.SampleInterval, clockwork.NewRealClock())
	go sampler.Run(ctx)

	ticker := gateway.NewTickBroadcaster(manager, eng, estimator, clockwork.NewRealClock())
	go ticker.Run(ctx)

	handler := gateway.NewHandler(eng, manager)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("draftroom listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)

	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func loadConfig() (*config.Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("path", path).Msg("config file not found, using defaults")
			return config.DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// setupEventBus returns the publisher the engine emits through and starts
// the gateway-side consumer. With NATS disabled, events are handed to the
// bridge in-process so local runs still stream frames to websocket clients.
func setupEventBus(cfg *config.Config, bridge *gateway.EventBridge) (outbox.Publisher, func(), error) {
	if !cfg.NATS.Enabled {
		log.Info().Msg("NATS disabled, bridging events in-process")
		return &localBus{bridge: bridge}, func() {}, nil
	}

	jsCfg := outbox.DefaultJetStreamConfig()
	jsCfg.URL = cfg.NATS.URL
	jsCfg.StreamName = cfg.NATS.StreamName
	jsCfg.SubjectPrefix = cfg.NATS.SubjectPrefix
	jsCfg.ConsumerName = cfg.NATS.ConsumerName

	publisher, err := outbox.NewJetStreamPublisher(jsCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create publisher: %w", err)
	}

	consumer, err := outbox.NewConsumer(jsCfg)
	if err != nil {
		publisher.Close()
		return nil, nil, fmt.Errorf("create consumer: %w", err)
	}

	stopConsume, err := consumer.Consume(bridge.Handle)
	if err != nil {
		consumer.Close()
		publisher.Close()
		return nil, nil, fmt.Errorf("start consumer: %w", err)
	}

	stop := func() {
		stopConsume()
		consumer.Close()
		publisher.Close()
	}
	return publisher, stop, nil
}

// localBus delivers events straight to the websocket bridge, bypassing
// NATS. Single-process deployments only.
type localBus struct {
	bridge *gateway.EventBridge
}

func (b *localBus) Publish(ctx context.Context, event outbox.Event) error {
	return b.bridge.Handle(ctx, event)
}

func capsFromConfig(raw map[string]int) roster.Caps {
	if len(raw) == 0 {
		return nil
	}
	caps := make(roster.Caps, len(raw))
	for pos, limit := range raw {
		caps[models.Position(pos)] = limit
	}
	return caps
}
