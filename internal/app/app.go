package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/featherquest/featherquest/internal/board"
	"github.com/featherquest/featherquest/internal/config"
	"github.com/featherquest/featherquest/internal/db/repository"
	"github.com/featherquest/featherquest/internal/game"
	"github.com/featherquest/featherquest/internal/logging"
	"github.com/featherquest/featherquest/internal/question"
	"github.com/featherquest/featherquest/internal/random"
	"github.com/featherquest/featherquest/internal/server"
	"github.com/featherquest/featherquest/internal/session"
	"github.com/featherquest/featherquest/internal/stats"
	"github.com/featherquest/featherquest/internal/storage"
	ws "github.com/featherquest/featherquest/pkg/http/ws"
)

// Application aggregates shared infrastructure (stores, rooms, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	rooms     *session.RoomManager
	bgCancels []context.CancelFunc
}

// New bootstraps config, logger, optional Postgres and Redis, the board,
// the question bank and the HTTP server. Both stores are optional: without
// Postgres the bundled bank is used, without Redis settings and stats live
// in process memory.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	var pool *pgxpool.Pool
	bank := question.SeedBank()
	if cfg.Postgres.Enabled() {
		connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
			cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

		var err error
		pool, err = pgxpool.New(ctx, connString)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		questionRepo := repository.NewQuestionRepository(pool)
		dbBank, err := questionRepo.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("load question bank: %w", err)
		}
		bank = bank.Merge(dbBank)
		counts, err := questionRepo.CountByCategory(ctx)
		if err != nil {
			return nil, fmt.Errorf("count question bank: %w", err)
		}
		logger.Info().Interface("per_category", counts).Msg("question bank loaded from postgres")
	} else {
		logger.Info().Msg("postgres not configured; using bundled question bank")
	}

	var redisClient *redis.Client
	var kv storage.KV
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		kv = storage.NewRedis(redisClient, cfg.Name, logger)
	} else {
		logger.Info().Msg("redis not configured; using in-memory persistence")
		kv = storage.NewMemory()
	}

	statsSvc := stats.NewService(ctx, kv, logger)
	gameBoard := board.Generate()

	baseDeps := game.Deps{
		Board:            gameBoard,
		Bank:             bank,
		RNG:              random.New(time.Now().UnixNano()),
		Now:              time.Now,
		SpeedBonusWindow: cfg.Game.SpeedBonusWindow,
	}

	roomMgr := session.NewRoomManager(baseDeps, kv, statsSvc, cfg.Game.MaxRooms, cfg.Game.RoomIdleTimeout, logger)
	tokenMgr := session.NewTokenManager([]byte(cfg.Security.RejoinTokenSecret), cfg.Security.RejoinTokenTTL, cfg.Name)
	wsHub := ws.NewHub(logger)

	wsHandler := session.NewHandler(roomMgr, wsHub, tokenMgr, logger)
	httpHandler := session.NewHTTPHandler(roomMgr, tokenMgr, statsSvc, wsHub, cfg.PublicBaseURL, logger)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, gameBoard, server.RoomHandlers{
		CreateRoom: httpHandler.CreateRoom,
		JoinRoom:   httpHandler.JoinRoom,
		QRCode:     httpHandler.QRCode,
		Stats:      httpHandler.Stats,
	}, wsHandler.HandleWebSocket)

	return &Application{
		cfg:       cfg,
		logger:    logger,
		pool:      pool,
		redis:     redisClient,
		http:      apiServer,
		rooms:     roomMgr,
		bgCancels: make([]context.CancelFunc, 0, 1),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}

	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	bgCtx, cancel := context.WithCancel(ctx)
	a.bgCancels = append(a.bgCancels, cancel)
	go func() {
		if err := a.rooms.Run(bgCtx); err != nil && err != context.Canceled {
			a.logger.Warn().Err(err).Msg("room eviction worker stopped")
		}
	}()
}
