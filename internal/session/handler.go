package session

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/featherquest/featherquest/internal/game"
	"github.com/featherquest/featherquest/internal/question"
	"github.com/featherquest/featherquest/internal/server"
	httperrors "github.com/featherquest/featherquest/pkg/http/errors"
	ws "github.com/featherquest/featherquest/pkg/http/ws"
)

// Handler bridges WebSocket connections to game sessions.
type Handler struct {
	rooms  *RoomManager
	hub    *ws.Hub
	tokens *TokenManager
	logger zerolog.Logger
}

func NewHandler(rooms *RoomManager, hub *ws.Hub, tokens *TokenManager, logger zerolog.Logger) *Handler {
	return &Handler{rooms: rooms, hub: hub, tokens: tokens, logger: logger}
}

// HandleWebSocket authenticates the rejoin token, upgrades the connection
// and pumps game messages until the client drops.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httperrors.RespondUnauthorized(w, httperrors.CodeInvalidToken, "Missing token")
		return
	}

	roomCode, seatID, err := h.tokens.Validate(token)
	if err != nil {
		h.logger.Warn().Err(err).Msg("rejoin token validation failed")
		httperrors.RespondUnauthorized(w, httperrors.CodeInvalidToken, "Invalid token")
		return
	}

	room, seat, err := h.rooms.FindSeat(roomCode, seatID)
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.CodeRoomNotFound, "Room or seat not found")
		return
	}

	conn, err := server.WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	wsConn := ws.NewConnection(conn, h.logger)
	h.hub.RegisterConnection(seat.ID, wsConn)
	h.hub.JoinRoom(roomCode, seat.ID)

	// Every transition fans out to the whole room.
	room.Session.OnStateChange(func(st game.State) {
		h.hub.BroadcastToRoom(roomCode, stateMessage(roomCode, st))
	})

	go wsConn.WritePump()

	// Late joiners need the current picture immediately.
	_ = h.hub.SendToSeat(seat.ID, stateMessage(roomCode, room.Session.State()))

	wsConn.ReadPump(func(msg ws.Message) error {
		h.rooms.Touch(roomCode)
		if err := h.handleMessage(r.Context(), room, msg); err != nil {
			h.sendError(wsConn, msg, err)
		}
		return nil
	})

	h.hub.UnregisterConnection(seat.ID)
}

func (h *Handler) handleMessage(ctx context.Context, room *Room, msg ws.Message) error {
	sess := room.Session

	switch msg.Type {
	case ws.TypeSetPlayers:
		var p ws.SetPlayersPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return err
		}
		sess.Dispatch(ctx, game.SetPlayers{Count: p.Count, Names: p.Names, Ages: p.Ages})
	case ws.TypeSetDifficulty:
		var p ws.SetDifficultyPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return err
		}
		sess.Dispatch(ctx, game.SetDifficulty{Difficulty: p.Difficulty})
	case ws.TypeStartGame:
		sess.Dispatch(ctx, game.StartGame{})
	case ws.TypeRollDice:
		sess.Roll(ctx)
	case ws.TypeChooseHubCategory:
		var p ws.ChooseHubCategoryPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return err
		}
		sess.Dispatch(ctx, game.ChooseHubCategory{CatIndex: p.CatIndex})
	case ws.TypeResolveEvent:
		var p ws.ResolveEventPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return err
		}
		target := game.NoTarget
		if p.TargetPlayer != nil {
			target = *p.TargetPlayer
		}
		sess.ResolveEvent(ctx, target)
	case ws.TypeSubmitAnswer:
		var p ws.SubmitAnswerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return err
		}
		sess.Dispatch(ctx, game.Answer{Answer: p.Answer})
	case ws.TypeUseHint:
		sess.Dispatch(ctx, game.UseHint{})
	case ws.TypePenaltyRoll:
		sess.PenaltyRoll(ctx)
	case ws.TypeNextTurn:
		sess.Dispatch(ctx, game.NextTurn{})
	case ws.TypeToggleEditor:
		sess.Dispatch(ctx, game.ToggleEditor{})
	case ws.TypeToggleStats:
		sess.Dispatch(ctx, game.ToggleStats{})
	case ws.TypeToggleSettings:
		sess.Dispatch(ctx, game.ToggleSettings{})
	case ws.TypeUpdateQuestions:
		var p ws.UpdateQuestionsPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return err
		}
		var bank question.Bank
		if err := json.Unmarshal(p.Questions, &bank); err != nil {
			return err
		}
		sess.Dispatch(ctx, game.UpdateQuestions{Custom: bank})
	case ws.TypeResetGame:
		sess.Dispatch(ctx, game.Reset{})
	default:
		h.logger.Debug().Str("type", msg.Type).Msg("ignoring unknown message type")
	}
	return nil
}

// sendError reports a rejected message back to the sender, echoing the
// request id so the client can correlate it.
func (h *Handler) sendError(conn *ws.Connection, msg ws.Message, cause error) {
	h.logger.Warn().Err(cause).Str("type", msg.Type).Msg("rejected message")
	payload, err := json.Marshal(ws.ErrorPayload{
		Code:    httperrors.CodeInvalidRequest,
		Message: cause.Error(),
	})
	if err != nil {
		return
	}
	_ = conn.Send(ws.Message{Type: ws.TypeError, Payload: payload, RequestID: msg.RequestID})
}

func stateMessage(roomCode string, st game.State) ws.Message {
	data, err := json.Marshal(st)
	if err != nil {
		data = []byte("{}")
	}
	payload, _ := json.Marshal(ws.StateUpdatePayload{RoomCode: roomCode, State: data})
	return ws.Message{Type: ws.TypeStateUpdate, Payload: payload}
}
