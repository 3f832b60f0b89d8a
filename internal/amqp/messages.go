package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"paytrack/internal/core"
)

// ChangeMessage announces a committed write. It carries no document data;
// consumers reload the user's state from the store.
type ChangeMessage struct {
	core.Change
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeMessage stamps c with the current time.
func NewChangeMessage(c core.Change) *ChangeMessage {
	return &ChangeMessage{Change: c, Timestamp: time.Now()}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON parses a message and rejects ones without a user.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID == "" {
		return nil, errors.New("change message without user id")
	}
	return &msg, nil
}
