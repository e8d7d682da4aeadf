//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"
	"log/slog"

	"pairchat/contract"
	"pairchat/domain"
	"pairchat/domain/event"
	"pairchat/repositories"
	"pairchat/runtime"

	"github.com/google/uuid"
)

type IChatService interface {
	Messages(id domain.ConversationID) ([]domain.Message, error)
	Send(ctx context.Context, id domain.ConversationID, local, outgoing []domain.Message) ([]domain.Message, error)
	Subscribe(ctx context.Context, id domain.ConversationID, sink contract.SnapshotSink) (func(), error)
}

// ChatService owns the read/subscribe/write contract for conversations.
type ChatService struct {
	log         *slog.Logger
	repository  repositories.IChatRepository
	registry    contract.IRegistry
	broadcaster *runtime.Broadcaster
}

func NewChatService(log *slog.Logger, repository repositories.IChatRepository,
	registry contract.IRegistry, broadcaster *runtime.Broadcaster) *ChatService {
	return &ChatService{
		log:         log,
		repository:  repository,
		registry:    registry,
		broadcaster: broadcaster,
	}
}

// Messages is a one-shot read of the conversation's current message list.
func (s *ChatService) Messages(id domain.ConversationID) ([]domain.Message, error) {
	doc, err := s.repository.GetChat(id)
	if err != nil {
		return nil, err
	}
	return doc.Messages, nil
}

// Send appends the outgoing messages after the locally known ones and
// persists the result, then publishes the new state to every listener.
// A failed write is returned to the caller as-is: the caller decides what
// to do with the unsent message, and nothing here retries.
func (s *ChatService) Send(ctx context.Context, id domain.ConversationID, local, outgoing []domain.Message) ([]domain.Message, error) {
	doc, err := s.repository.AppendMessages(id, local, outgoing)
	if err != nil {
		return nil, err
	}

	s.broadcaster.Publish(event.ChatSnapshot{
		ID:       id,
		Version:  doc.Version,
		Messages: doc.Messages,
	})
	return doc.Messages, nil
}

// Subscribe opens a snapshot listener on one conversation. The current
// persisted state is delivered to the sink before Subscribe returns, so a
// listener that was torn down and reopened sees the latest state rather
// than a replay of intermediate ones. The returned cancel tears the
// listener down idempotently; no deliveries happen afterwards.
func (s *ChatService) Subscribe(ctx context.Context, id domain.ConversationID, sink contract.SnapshotSink) (func(), error) {
	guarded := runtime.NewGuardedSink(sink)
	watcherID := uuid.NewString()
	s.registry.Subscribe(watcherID, id, guarded)

	doc, err := s.repository.GetChat(id)
	if err != nil {
		s.registry.Unsubscribe(watcherID, id)
		return nil, err
	}

	if err := guarded.Consume(ctx, event.ChatSnapshot{
		ID:       id,
		Version:  doc.Version,
		Messages: doc.Messages,
	}); err != nil {
		s.log.Warn("Initial snapshot delivery failed", "conversation", id, "err", err)
	}

	cancel := func() {
		guarded.Close()
		s.registry.Unsubscribe(watcherID, id)
	}
	return cancel, nil
}
