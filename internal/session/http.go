package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/featherquest/featherquest/internal/stats"
	httperrors "github.com/featherquest/featherquest/pkg/http/errors"
	ws "github.com/featherquest/featherquest/pkg/http/ws"
)

// HTTPHandler exposes room lifecycle over plain HTTP. Gameplay itself runs
// over the WebSocket.
type HTTPHandler struct {
	rooms   *RoomManager
	tokens  *TokenManager
	stats   *stats.Service
	hub     *ws.Hub
	baseURL string
	logger  zerolog.Logger
}

func NewHTTPHandler(rooms *RoomManager, tokens *TokenManager, statsSvc *stats.Service, hub *ws.Hub, baseURL string, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		rooms:   rooms,
		tokens:  tokens,
		stats:   statsSvc,
		hub:     hub,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

type createRoomRequest struct {
	RoomName string `json:"room_name"`
	HostName string `json:"host_name"`
	Passcode string `json:"passcode,omitempty"`
	MaxSeats int    `json:"max_seats,omitempty"`
}

type joinRoomRequest struct {
	RoomCode    string `json:"room_code"`
	Passcode    string `json:"passcode,omitempty"`
	DisplayName string `json:"display_name"`
}

type roomResponse struct {
	RoomCode    string    `json:"room_code"`
	RoomName    string    `json:"room_name"`
	SeatID      string    `json:"seat_id"`
	RejoinToken string    `json:"rejoin_token"`
	JoinURL     string    `json:"join_url"`
	Seats       []ws.Seat `json:"seats"`
}

// CreateRoom handles POST /v1/rooms.
func (h *HTTPHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.CodeInvalidRequest, "Invalid request body")
		return
	}
	if req.HostName == "" {
		httperrors.RespondBadRequest(w, httperrors.CodeInvalidRequest, "host_name is required")
		return
	}

	room, host, err := h.rooms.CreateRoom(r.Context(), CreateRoomRequest{
		RoomName: req.RoomName,
		HostName: req.HostName,
		Passcode: req.Passcode,
		MaxSeats: req.MaxSeats,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("create room failed")
		httperrors.RespondInternalError(w, "Could not create room")
		return
	}

	h.respondRoom(w, http.StatusCreated, room, host)
}

// JoinRoom handles POST /v1/rooms/join.
func (h *HTTPHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.CodeInvalidRequest, "Invalid request body")
		return
	}
	if req.RoomCode == "" || req.DisplayName == "" {
		httperrors.RespondBadRequest(w, httperrors.CodeInvalidRequest, "room_code and display_name are required")
		return
	}

	room, seat, err := h.rooms.JoinRoom(strings.ToUpper(req.RoomCode), req.Passcode, req.DisplayName)
	switch {
	case errors.Is(err, ErrRoomNotFound):
		httperrors.RespondNotFound(w, httperrors.CodeRoomNotFound, "Room not found")
		return
	case errors.Is(err, ErrBadPasscode):
		httperrors.RespondUnauthorized(w, httperrors.CodeBadPasscode, "Wrong passcode")
		return
	case errors.Is(err, ErrRoomFull):
		httperrors.Respond(w, http.StatusConflict, httperrors.CodeRoomFull, "Room is full")
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("join room failed")
		httperrors.RespondInternalError(w, "Could not join room")
		return
	}

	h.broadcastRoomUpdate(room)
	h.respondRoom(w, http.StatusOK, room, seat)
}

// broadcastRoomUpdate tells connected seats that the roster changed.
func (h *HTTPHandler) broadcastRoomUpdate(room *Room) {
	seats := seatViews(room.SeatList())
	payload, err := json.Marshal(ws.RoomUpdatePayload{
		RoomCode:       room.Code,
		Seats:          seats,
		SlotsRemaining: room.MaxSeats - len(seats),
	})
	if err != nil {
		return
	}
	if err := h.hub.BroadcastToRoom(room.Code, ws.Message{Type: ws.TypeRoomUpdate, Payload: payload}); err != nil {
		h.logger.Debug().Err(err).Str("room", room.Code).Msg("room update broadcast incomplete")
	}
}

// QRCode handles GET /v1/rooms/{code}/qr and renders the join link as PNG.
func (h *HTTPHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))
	if _, ok := h.rooms.Room(code); !ok {
		httperrors.RespondNotFound(w, httperrors.CodeRoomNotFound, "Room not found")
		return
	}

	png, err := qrcode.Encode(h.joinURL(code), qrcode.Medium, 256)
	if err != nil {
		h.logger.Error().Err(err).Msg("qr encode failed")
		httperrors.RespondInternalError(w, "Could not render QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// Stats handles GET /v1/stats.
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.stats.Snapshot())
}

func (h *HTTPHandler) respondRoom(w http.ResponseWriter, status int, room *Room, seat Seat) {
	token, err := h.tokens.Issue(room.Code, seat.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("issue rejoin token failed")
		httperrors.RespondInternalError(w, "Could not issue token")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(roomResponse{
		RoomCode:    room.Code,
		RoomName:    room.Name,
		SeatID:      seat.ID.String(),
		RejoinToken: token,
		JoinURL:     h.joinURL(room.Code),
		Seats:       seatViews(room.SeatList()),
	})
}

func seatViews(seats []Seat) []ws.Seat {
	out := make([]ws.Seat, 0, len(seats))
	for _, s := range seats {
		out = append(out, ws.Seat{
			SeatID:      s.ID.String(),
			DisplayName: s.DisplayName,
			IsHost:      s.IsHost,
		})
	}
	return out
}

func (h *HTTPHandler) joinURL(code string) string {
	return fmt.Sprintf("%s/join?room=%s", h.baseURL, code)
}
