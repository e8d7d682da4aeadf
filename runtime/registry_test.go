package runtime

import (
	"context"
	"testing"

	"pairchat/domain"
	"pairchat/domain/event"

	"github.com/stretchr/testify/require"
)

type countingSink struct {
	deliveries []event.ChatSnapshot
}

func (s *countingSink) Consume(_ context.Context, snapshot event.ChatSnapshot) error {
	s.deliveries = append(s.deliveries, snapshot)
	return nil
}

func Test_Registry_SubscribeAndResolve(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	id := domain.NewConversationID("u1", "u2")

	first := &countingSink{}
	second := &countingSink{}
	registry.Subscribe("w1", id, first)
	registry.Subscribe("w2", id, second)

	sinks := registry.GetSinksForConversation(id)
	req.Len(sinks, 2)

	req.Nil(registry.GetSinksForConversation(domain.NewConversationID("u1", "u3")))
}

func Test_Registry_UnsubscribeIdempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	id := domain.NewConversationID("u1", "u2")

	registry.Subscribe("w1", id, &countingSink{})
	registry.Unsubscribe("w1", id)
	req.Nil(registry.GetSinksForConversation(id))

	// Tearing down twice, or tearing down an unknown watcher, is harmless
	registry.Unsubscribe("w1", id)
	registry.Unsubscribe("ghost", id)
}

func Test_Registry_ConversationsIsolated(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	first := domain.NewConversationID("u1", "u2")
	second := domain.NewConversationID("u1", "u3")

	registry.Subscribe("w1", first, &countingSink{})
	registry.Subscribe("w2", second, &countingSink{})

	req.Len(registry.GetSinksForConversation(first), 1)
	req.Len(registry.GetSinksForConversation(second), 1)

	registry.Unsubscribe("w1", first)
	req.Nil(registry.GetSinksForConversation(first))
	req.Len(registry.GetSinksForConversation(second), 1)
}
