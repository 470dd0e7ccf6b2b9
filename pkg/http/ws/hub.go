// Package ws manages WebSocket connections for game rooms: one connection
// per seat, broadcast per room.
package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var (
	ErrConnectionNotFound = &Error{Code: "connection_not_found", Message: "Seat connection not found"}
	ErrConnectionClosed   = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull      = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Hub routes messages between seat connections and their rooms.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection // seat_id -> connection
	rooms       map[string][]uuid.UUID    // room_code -> seat ids
	logger      zerolog.Logger
}

// NewHub creates a WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		rooms:       make(map[string][]uuid.UUID),
		logger:      logger,
	}
}

// RegisterConnection binds a connection to a seat, replacing any previous
// connection for that seat (reconnects).
func (h *Hub) RegisterConnection(seatID uuid.UUID, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, exists := h.connections[seatID]; exists {
		old.Close()
	}
	h.connections[seatID] = conn
	h.logger.Info().Str("seat_id", seatID.String()).Msg("connection registered")
}

// UnregisterConnection removes a seat's connection and room membership.
func (h *Hub) UnregisterConnection(seatID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[seatID]; exists {
		conn.Close()
		delete(h.connections, seatID)
		h.logger.Info().Str("seat_id", seatID.String()).Msg("connection unregistered")
	}
	for code, seats := range h.rooms {
		for i, id := range seats {
			if id == seatID {
				h.rooms[code] = append(seats[:i], seats[i+1:]...)
				break
			}
		}
	}
}

// JoinRoom associates a seat with a room for targeted broadcasts.
func (h *Hub) JoinRoom(roomCode string, seatID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	seats := h.rooms[roomCode]
	for _, id := range seats {
		if id == seatID {
			return
		}
	}
	h.rooms[roomCode] = append(seats, seatID)
}

// BroadcastToRoom sends a message to every seat in a room.
func (h *Hub) BroadcastToRoom(roomCode string, msg Message) error {
	h.mu.RLock()
	seats := append([]uuid.UUID(nil), h.rooms[roomCode]...)
	h.mu.RUnlock()

	var firstErr error
	for _, seatID := range seats {
		if err := h.SendToSeat(seatID, msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SendToSeat delivers a message to one seat.
func (h *Hub) SendToSeat(seatID uuid.UUID, msg Message) error {
	h.mu.RLock()
	conn, exists := h.connections[seatID]
	h.mu.RUnlock()

	if !exists {
		return ErrConnectionNotFound
	}
	return conn.Send(msg)
}

// Connection wraps a WebSocket connection with a buffered send queue.
type Connection struct {
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		sendCh: make(chan Message, 64),
		logger: logger,
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}
	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close shuts down the connection.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.sendCh)
	c.conn.Close()
}

// WritePump drains the send queue onto the wire.
func (c *Connection) WritePump() {
	defer c.conn.Close()

	for msg := range c.sendCh {
		if err := c.conn.WriteJSON(msg); err != nil {
			c.logger.Warn().Err(err).Msg("write error")
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ReadPump receives messages and hands them to the handler until the
// connection drops.
func (c *Connection) ReadPump(handler func(Message) error) {
	defer c.conn.Close()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			break
		}
		if msg.Type == TypePing {
			c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_ = c.Send(Message{Type: TypePong, RequestID: msg.RequestID})
			continue
		}
		if err := handler(msg); err != nil {
			c.logger.Warn().Err(err).Msg("message handler error")
		}
	}
}
