package session

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featherquest/featherquest/internal/random"
	"github.com/featherquest/featherquest/internal/stats"
	"github.com/featherquest/featherquest/internal/storage"
	ws "github.com/featherquest/featherquest/pkg/http/ws"
)

func testHTTPHandler(t *testing.T) (*HTTPHandler, *RoomManager) {
	t.Helper()
	kv := storage.NewMemory()
	statsSvc := stats.NewService(context.Background(), kv, zerolog.Nop())
	mgr := NewRoomManager(testDeps(random.New(1)), kv, statsSvc, 4, time.Hour, zerolog.Nop())
	tokens := NewTokenManager([]byte("secret"), time.Hour, "featherquest")
	hub := ws.NewHub(zerolog.Nop())
	return NewHTTPHandler(mgr, tokens, statsSvc, hub, "http://localhost:8080/", zerolog.Nop()), mgr
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestCreateAndJoinRoomOverHTTP(t *testing.T) {
	h, _ := testHTTPHandler(t)

	rec := postJSON(t, h.CreateRoom, createRoomRequest{
		RoomName: "Family Night",
		HostName: "Ada",
		Passcode: "feathers",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created roomResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Len(t, created.RoomCode, 6)
	assert.NotEmpty(t, created.RejoinToken)
	assert.Contains(t, created.JoinURL, created.RoomCode)
	require.Len(t, created.Seats, 1)
	assert.True(t, created.Seats[0].IsHost)

	rec = postJSON(t, h.JoinRoom, joinRoomRequest{
		RoomCode:    created.RoomCode,
		Passcode:    "wrong",
		DisplayName: "Ben",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(t, h.JoinRoom, joinRoomRequest{
		RoomCode:    created.RoomCode,
		Passcode:    "feathers",
		DisplayName: "Ben",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var joined roomResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &joined))
	assert.Len(t, joined.Seats, 2)
	assert.NotEqual(t, created.SeatID, joined.SeatID)
}

func TestCreateRoomRejectsBadRequests(t *testing.T) {
	h, _ := testHTTPHandler(t)

	rec := postJSON(t, h.CreateRoom, createRoomRequest{RoomName: "no host"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{broken")))
	rec = httptest.NewRecorder()
	h.CreateRoom(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQRCodeEndpoint(t *testing.T) {
	h, mgr := testHTTPHandler(t)

	room, _, err := mgr.CreateRoom(context.Background(), CreateRoomRequest{HostName: "Ada"})
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/rooms/{code}/qr", h.QRCode)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms/"+room.Code+"/qr", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms/ZZZZZZ/qr", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleMessageRejectsMalformedPayload(t *testing.T) {
	_, mgr := testHTTPHandler(t)
	room, _, err := mgr.CreateRoom(context.Background(), CreateRoomRequest{HostName: "Ada"})
	require.NoError(t, err)

	h := NewHandler(mgr, ws.NewHub(zerolog.Nop()), NewTokenManager([]byte("secret"), time.Hour, "featherquest"), zerolog.Nop())

	err = h.handleMessage(context.Background(), room, ws.Message{
		Type:    ws.TypeSubmitAnswer,
		Payload: json.RawMessage(`{not json`),
	})
	assert.Error(t, err)

	err = h.handleMessage(context.Background(), room, ws.Message{Type: ws.TypeStartGame})
	assert.NoError(t, err)
}
