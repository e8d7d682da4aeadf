// Package domain contains core concepts of the chat system.
// This file defines Conversation identity and related invariants.
// No runtime, storage, or UI logic should be added here.
package domain

// ConversationID identifies a two-party message thread.
type ConversationID string

// NewConversationID derives the deterministic key for a pair of participants.
// The two identifiers are sorted lexicographically before joining, so both
// participants compute the same key regardless of who initiates the chat:
// NewConversationID(a, b) == NewConversationID(b, a).
func NewConversationID(a, b string) ConversationID {
	if a > b {
		a, b = b, a
	}
	return ConversationID(a + "_" + b)
}

func (c ConversationID) String() string {
	return string(c)
}
