package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager signs rejoin tokens binding a seat to a room so a dropped
// connection can reclaim its seat.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// RejoinClaims are the token payload.
type RejoinClaims struct {
	RoomCode string `json:"room_code"`
	SeatID   string `json:"seat_id"`
	jwt.RegisteredClaims
}

func NewTokenManager(secret []byte, ttl time.Duration, issuer string) *TokenManager {
	return &TokenManager{secret: secret, ttl: ttl, issuer: issuer}
}

// Issue signs a rejoin token for a seat.
func (m *TokenManager) Issue(roomCode string, seatID uuid.UUID) (string, error) {
	now := time.Now()
	claims := RejoinClaims{
		RoomCode: roomCode,
		SeatID:   seatID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign rejoin token: %w", err)
	}
	return signed, nil
}

// Validate parses a rejoin token and returns the room code and seat id.
func (m *TokenManager) Validate(tokenString string) (string, uuid.UUID, error) {
	claims := &RejoinClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("parse rejoin token: %w", err)
	}
	if !token.Valid {
		return "", uuid.Nil, fmt.Errorf("invalid rejoin token")
	}
	seatID, err := uuid.Parse(claims.SeatID)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("parse seat id: %w", err)
	}
	return claims.RoomCode, seatID, nil
}
