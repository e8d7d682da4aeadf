package event

import (
	"pairchat/domain"
)

// DomainEvent is anything the broadcaster can fan out to watchers.
type DomainEvent interface {
	ConversationID() domain.ConversationID
}

// ChatSnapshot carries the full current message list of one conversation,
// not a delta. Version grows monotonically per conversation so that sinks
// can drop stale deliveries; intermediate versions may be coalesced away.
type ChatSnapshot struct {
	ID       domain.ConversationID
	Version  uint64
	Messages []domain.Message
}

func (s ChatSnapshot) ConversationID() domain.ConversationID {
	return s.ID
}
