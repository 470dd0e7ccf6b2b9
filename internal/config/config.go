package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"featherquest"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	PublicBaseURL           string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	Security Security
	Game     Game
}

// Postgres captures connection info for the curated question bank.
type Postgres struct {
	Host     string `env:"PG_HOST" envDefault:"localhost"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER" envDefault:""`
	Password string `env:"PG_PASSWORD" envDefault:""`
	Database string `env:"PG_DATABASE" envDefault:""`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Enabled reports whether a Postgres bank is configured. The game runs
// entirely from the bundled bank when it is not.
func (p Postgres) Enabled() bool {
	return p.User != "" && p.Database != ""
}

// Redis holds settings for the key-value persistence adapter.
type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for signing rejoin tokens.
type Security struct {
	RejoinTokenSecret string        `env:"REJOIN_TOKEN_SECRET" envDefault:"dev-only-secret"`
	RejoinTokenTTL    time.Duration `env:"REJOIN_TOKEN_TTL" envDefault:"2h"`
}

// Game groups gameplay defaults the session layer applies.
type Game struct {
	SpeedBonusWindow time.Duration `env:"SPEED_BONUS_WINDOW" envDefault:"4s"`
	RoomIdleTimeout  time.Duration `env:"ROOM_IDLE_TIMEOUT" envDefault:"1h"`
	MaxRooms         int           `env:"MAX_ROOMS" envDefault:"256"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
