// Package config loads the service configuration from a YAML file with
// environment variable expansion and sensible defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	NATS     NATSConfig     `yaml:"nats"`
	Draft    DraftConfig    `yaml:"draft"`
	Latency  LatencyConfig  `yaml:"latency"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// ConnectionString returns the PostgreSQL connection URL.
func (c *PostgresConfig) ConnectionString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, sslMode,
	)
}

// RedisConfig holds Redis connection configuration for participant queues.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// NATSConfig holds event bus configuration.
type NATSConfig struct {
	URL           string `yaml:"url"`
	StreamName    string `yaml:"stream_name"`
	SubjectPrefix string `yaml:"subject_prefix"`
	ConsumerName  string `yaml:"consumer_name"`
	Enabled       bool   `yaml:"enabled"`
}

// DraftConfig holds the room defaults.
type DraftConfig struct {
	TimerSeconds  int            `yaml:"timer_seconds"`
	GraceSeconds  int            `yaml:"grace_seconds"`
	TotalRounds   int            `yaml:"total_rounds"`
	CommitTimeout time.Duration  `yaml:"commit_timeout"`
	PositionCaps  map[string]int `yaml:"position_caps"`
}

// LatencyConfig tunes the display-latency sampler.
type LatencyConfig struct {
	WindowSize     int           `yaml:"window_size"`
	SampleInterval time.Duration `yaml:"sample_interval"`
	ProbeURL       string        `yaml:"probe_url"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}

	if c.Postgres.Host == "" {
		c.Postgres.Host = "localhost"
	}
	if c.Postgres.Port == 0 {
		c.Postgres.Port = 5432
	}
	if c.Postgres.User == "" {
		c.Postgres.User = "postgres"
	}
	if c.Postgres.Database == "" {
		c.Postgres.Database = "draftroom"
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}

	if c.NATS.URL == "" {
		c.NATS.URL = "nats://localhost:4222"
	}
	if c.NATS.StreamName == "" {
		c.NATS.StreamName = "ROOM_EVENTS"
	}
	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = "draft.events"
	}
	if c.NATS.ConsumerName == "" {
		c.NATS.ConsumerName = "draftroom-gateway"
	}

	if c.Draft.TimerSeconds == 0 {
		c.Draft.TimerSeconds = 30
	}
	if c.Draft.GraceSeconds == 0 {
		c.Draft.GraceSeconds = 1
	}
	if c.Draft.TotalRounds == 0 {
		c.Draft.TotalRounds = 18
	}
	if c.Draft.CommitTimeout == 0 {
		c.Draft.CommitTimeout = 5 * time.Second
	}

	if c.Latency.WindowSize == 0 {
		c.Latency.WindowSize = 10
	}
	if c.Latency.SampleInterval == 0 {
		c.Latency.SampleInterval = 10 * time.Second
	}
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
