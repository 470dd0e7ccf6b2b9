package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/featherquest/featherquest/internal/board"
	"github.com/featherquest/featherquest/internal/config"
	"github.com/featherquest/featherquest/internal/question"
)

// WSUpgrader handles WebSocket upgrades (configure CORS/security as needed).
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: implement proper origin checking for production
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// RoomHandlers groups the HTTP surface of the room service.
type RoomHandlers struct {
	CreateRoom http.HandlerFunc
	JoinRoom   http.HandlerFunc
	QRCode     http.HandlerFunc
	Stats      http.HandlerFunc
}

// NewHTTPServer wires routes for the API service. pool and rdb may be nil
// when the service runs from the bundled question bank without external
// stores; readiness reflects whichever dependencies are configured.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, rdb *redis.Client, gameBoard []board.Space, rooms RoomHandlers, gameWSHandler http.HandlerFunc) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), pool, rdb); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	// The board layout is deterministic, so clients can fetch it once.
	boardJSON, _ := json.Marshal(struct {
		Spaces     []board.Space       `json:"spaces"`
		Categories []question.Category `json:"categories"`
	}{gameBoard, question.Categories[:]})
	mux.HandleFunc("GET /v1/board", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(boardJSON)
	})

	mux.HandleFunc("POST /v1/rooms", rooms.CreateRoom)
	mux.HandleFunc("POST /v1/rooms/join", rooms.JoinRoom)
	mux.HandleFunc("GET /v1/rooms/{code}/qr", rooms.QRCode)
	mux.HandleFunc("GET /v1/stats", rooms.Stats)

	mux.HandleFunc("/ws/rooms", gameWSHandler)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, rdb *redis.Client) error {
	if pool != nil {
		if err := pool.Ping(ctx); err != nil {
			return err
		}
	}
	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
