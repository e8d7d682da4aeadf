// Package domain contains core concepts of the chat system.
// This file defines Message entities and related rules.
// Messages are immutable once appended: no edit, no delete.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat entry.
type Message struct {
	ID        uuid.UUID // unique identifier
	SenderID  string
	Text      string
	CreatedAt time.Time
}

// NewMessage builds a message stamped with the current UTC instant.
func NewMessage(senderID, text string) Message {
	return Message{
		ID:        uuid.New(),
		SenderID:  senderID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}
