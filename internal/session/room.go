package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/featherquest/featherquest/internal/game"
	"github.com/featherquest/featherquest/internal/metrics"
	"github.com/featherquest/featherquest/internal/random"
	"github.com/featherquest/featherquest/internal/stats"
	"github.com/featherquest/featherquest/internal/storage"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
	ErrBadPasscode  = errors.New("wrong passcode")
	ErrSeatNotFound = errors.New("seat not found")
)

// Seat is one connected participant in a room. Seats are transport-level;
// board players are configured separately via SET_PLAYERS.
type Seat struct {
	ID          uuid.UUID
	DisplayName string
	IsHost      bool
	JoinedAt    time.Time
}

// Room groups seats around one game session. Seats have their own lock
// because *Room escapes the manager: HTTP responses read the seat list
// while later joins append to it.
type Room struct {
	Code         string
	Name         string
	passcodeHash []byte
	MaxSeats     int
	Session      *Session
	CreatedAt    time.Time
	LastActive   time.Time

	mu    sync.Mutex
	seats []Seat
}

func (r *Room) addSeat(seat Seat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.seats) >= r.MaxSeats {
		return ErrRoomFull
	}
	r.seats = append(r.seats, seat)
	return nil
}

// SeatList returns a copy of the current seats, safe to read while joins
// are in flight.
func (r *Room) SeatList() []Seat {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Seat(nil), r.seats...)
}

func (r *Room) findSeat(id uuid.UUID) (Seat, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.seats {
		if s.ID == id {
			return s, true
		}
	}
	return Seat{}, false
}

// CreateRoomRequest carries room creation parameters.
type CreateRoomRequest struct {
	RoomName string
	HostName string
	Passcode string
	MaxSeats int
}

// RoomManager tracks open rooms and enforces join rules.
type RoomManager struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	logger   zerolog.Logger
	maxRooms int
	idle     time.Duration
	rng      random.Source

	baseDeps game.Deps
	kv       storage.KV
	stats    *stats.Service
}

// NewRoomManager creates a room manager. baseDeps carries the shared board
// and curated bank every new session starts from.
func NewRoomManager(baseDeps game.Deps, kv storage.KV, statsSvc *stats.Service, maxRooms int, idle time.Duration, logger zerolog.Logger) *RoomManager {
	if maxRooms <= 0 {
		maxRooms = 256
	}
	return &RoomManager{
		rooms:    make(map[string]*Room),
		logger:   logger,
		maxRooms: maxRooms,
		idle:     idle,
		rng:      random.New(time.Now().UnixNano()),
		baseDeps: baseDeps,
		kv:       kv,
		stats:    statsSvc,
	}
}

// CreateRoom opens a room with a fresh session and seats the host.
func (r *RoomManager) CreateRoom(ctx context.Context, req CreateRoomRequest) (*Room, Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.rooms) >= r.maxRooms {
		return nil, Seat{}, fmt.Errorf("room limit reached (%d)", r.maxRooms)
	}

	var passcodeHash []byte
	if req.Passcode != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Passcode), bcrypt.DefaultCost)
		if err != nil {
			return nil, Seat{}, fmt.Errorf("hash passcode: %w", err)
		}
		passcodeHash = hash
	}

	code := r.generateCodeLocked()
	maxSeats := req.MaxSeats
	if maxSeats < game.MinPlayers || maxSeats > game.MaxPlayers {
		maxSeats = game.MaxPlayers
	}

	host := Seat{
		ID:          uuid.New(),
		DisplayName: req.HostName,
		IsHost:      true,
		JoinedAt:    time.Now(),
	}
	// Each session rolls its own dice; the shared Source is not safe
	// across session locks.
	deps := r.baseDeps
	deps.RNG = random.New(time.Now().UnixNano())

	room := &Room{
		Code:         code,
		Name:         req.RoomName,
		passcodeHash: passcodeHash,
		MaxSeats:     maxSeats,
		Session:      NewSession(ctx, code, deps, r.kv, r.stats, r.logger),
		CreatedAt:    time.Now(),
		LastActive:   time.Now(),
		seats:        []Seat{host},
	}
	r.rooms[code] = room
	metrics.ActiveRooms.Set(float64(len(r.rooms)))

	r.logger.Info().Str("room", code).Str("host", req.HostName).Msg("room created")
	return room, host, nil
}

// JoinRoom seats a new participant.
func (r *RoomManager) JoinRoom(code, passcode, displayName string) (*Room, Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[code]
	if !ok {
		return nil, Seat{}, ErrRoomNotFound
	}
	if len(room.passcodeHash) > 0 {
		if err := bcrypt.CompareHashAndPassword(room.passcodeHash, []byte(passcode)); err != nil {
			return nil, Seat{}, ErrBadPasscode
		}
	}

	seat := Seat{
		ID:          uuid.New(),
		DisplayName: displayName,
		JoinedAt:    time.Now(),
	}
	if err := room.addSeat(seat); err != nil {
		return nil, Seat{}, err
	}
	room.LastActive = time.Now()

	r.logger.Info().Str("room", code).Str("player", displayName).Msg("player joined room")
	return room, seat, nil
}

// Room looks up a room by code.
func (r *RoomManager) Room(code string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[code]
	return room, ok
}

// FindSeat verifies a seat belongs to a room, for rejoin.
func (r *RoomManager) FindSeat(code string, seatID uuid.UUID) (*Room, Seat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[code]
	if !ok {
		return nil, Seat{}, ErrRoomNotFound
	}
	if seat, ok := room.findSeat(seatID); ok {
		return room, seat, nil
	}
	return nil, Seat{}, ErrSeatNotFound
}

// Touch marks a room active, deferring idle cleanup.
func (r *RoomManager) Touch(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[code]; ok {
		room.LastActive = time.Now()
	}
}

// Run evicts idle rooms until the context is canceled.
func (r *RoomManager) Run(ctx context.Context) error {
	if r.idle <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(r.idle / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.evictIdle()
		}
	}
}

func (r *RoomManager) evictIdle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-r.idle)
	for code, room := range r.rooms {
		if room.LastActive.Before(cutoff) {
			room.Session.Close()
			delete(r.rooms, code)
			r.logger.Info().Str("room", code).Msg("idle room evicted")
		}
	}
	metrics.ActiveRooms.Set(float64(len(r.rooms)))
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func (r *RoomManager) generateCodeLocked() string {
	for {
		buf := make([]byte, 6)
		for i := range buf {
			buf[i] = codeAlphabet[r.rng.Intn(len(codeAlphabet))]
		}
		code := string(buf)
		if _, exists := r.rooms[code]; !exists {
			return code
		}
	}
}
