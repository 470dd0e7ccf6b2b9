// Package errors provides standardized JSON error responses for the HTTP
// surface.
package errors

import (
	"encoding/json"
	"net/http"
)

// Error codes shared across handlers.
const (
	CodeInvalidRequest = "invalid_request"
	CodeRoomNotFound   = "room_not_found"
	CodeRoomFull       = "room_full"
	CodeBadPasscode    = "bad_passcode"
	CodeInvalidToken   = "invalid_token"
	CodeInternalError  = "internal_error"
)

// ErrorResponse is the standardized error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Respond writes a standardized error response.
func Respond(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: code, Message: message})
}

// RespondBadRequest writes a 400 response.
func RespondBadRequest(w http.ResponseWriter, code, message string) {
	Respond(w, http.StatusBadRequest, code, message)
}

// RespondNotFound writes a 404 response.
func RespondNotFound(w http.ResponseWriter, code, message string) {
	Respond(w, http.StatusNotFound, code, message)
}

// RespondUnauthorized writes a 401 response.
func RespondUnauthorized(w http.ResponseWriter, code, message string) {
	Respond(w, http.StatusUnauthorized, code, message)
}

// RespondInternalError writes a 500 response.
func RespondInternalError(w http.ResponseWriter, message string) {
	Respond(w, http.StatusInternalServerError, CodeInternalError, message)
}
