package server

import (
	"encoding/json"
	"time"

	"github.com/lox/videopoker/internal/game"
	"github.com/lox/videopoker/poker"
)

// Message is the envelope for everything written to /ws. Type is the
// session event type, or "hello" for the snapshot sent on connect.
type Message struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// MessageTypeHello carries the current state to a new subscriber.
const MessageTypeHello = "hello"

// NewMessage creates a message with the given timestamp
func NewMessage(messageType string, data any, ts time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: ts,
	}, nil
}

// eventMessage wraps a session event.
func eventMessage(event game.GameEvent) (*Message, error) {
	return NewMessage(string(event.EventType()), event, event.Timestamp())
}

// DealRequest is the optional body of POST /api/deal. A zero bet deals at
// the session's current bet.
type DealRequest struct {
	Bet int `json:"bet"`
}

// GuessResponse is returned by POST /api/guess/{color}.
type GuessResponse struct {
	Card    poker.Card `json:"card"`
	Correct bool       `json:"correct"`
	State   game.State `json:"state"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
