package app

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"pairchat/contract"
	"pairchat/domain"
	"pairchat/domain/event"
	"pairchat/mocks"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newViewModelFixture(t *testing.T) (*ChatViewModel, *mocks.MockIChatService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	chat := mocks.NewMockIChatService(ctrl)
	return NewChatViewModel(slog.Default(), chat, "u2", "u1"), chat
}

func Test_ChatViewModel_ConversationID(t *testing.T) {
	req := require.New(t)
	vm, _ := newViewModelFixture(t)

	// The id is symmetric in the pair, whoever opened the screen
	req.Equal(domain.NewConversationID("u1", "u2"), vm.ConversationID())
}

func Test_ChatViewModel_Send(t *testing.T) {
	t.Run("should show the message optimistically and settle on the persisted list", func(t *testing.T) {
		req := require.New(t)
		vm, chat := newViewModelFixture(t)

		var sent []domain.Message
		chat.EXPECT().
			Send(gomock.Any(), domain.NewConversationID("u1", "u2"), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.ConversationID, local, outgoing []domain.Message) ([]domain.Message, error) {
				sent = append(local, outgoing...)
				return sent, nil
			})

		changes := 0
		vm.SetOnChange(func() { changes++ })

		req.NoError(vm.Send(context.Background(), "hello"))

		req.Equal(sent, vm.Messages())
		req.Empty(vm.Unsent())
		req.Equal(2, changes) // optimistic append, then settlement
	})

	t.Run("should keep a failed message visible and unsent", func(t *testing.T) {
		req := require.New(t)
		vm, chat := newViewModelFixture(t)

		chat.EXPECT().
			Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("store unavailable"))

		err := vm.Send(context.Background(), "hello")
		req.Error(err)

		visible := vm.Messages()
		req.Len(visible, 1)
		req.Equal("hello", visible[0].Text)
		req.Equal(vm.Unsent(), visible)
	})
}

func Test_ChatViewModel_Consume(t *testing.T) {
	t.Run("should replace the visible list with the delivered snapshot", func(t *testing.T) {
		req := require.New(t)
		vm, _ := newViewModelFixture(t)

		changes := 0
		vm.SetOnChange(func() { changes++ })

		m1 := domain.NewMessage("u1", "one")
		m2 := domain.NewMessage("u2", "two")
		req.NoError(vm.Consume(context.Background(), event.ChatSnapshot{
			ID:       vm.ConversationID(),
			Version:  2,
			Messages: []domain.Message{m1, m2},
		}))

		req.Equal([]domain.Message{m1, m2}, vm.Messages())
		req.Equal(1, changes)
	})

	t.Run("should drop unsent entries that made it into the snapshot", func(t *testing.T) {
		req := require.New(t)
		vm, chat := newViewModelFixture(t)

		var message domain.Message
		chat.EXPECT().
			Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.ConversationID, _, outgoing []domain.Message) ([]domain.Message, error) {
				message = outgoing[0]
				return nil, fmt.Errorf("store unavailable")
			})

		req.Error(vm.Send(context.Background(), "hello"))
		req.Len(vm.Unsent(), 1)

		// The write landed after all; the snapshot carries the message
		req.NoError(vm.Consume(context.Background(), event.ChatSnapshot{
			ID:       vm.ConversationID(),
			Version:  1,
			Messages: []domain.Message{message},
		}))

		req.Empty(vm.Unsent())
		req.Equal([]domain.Message{message}, vm.Messages())
	})
}

func Test_ChatViewModel_Close(t *testing.T) {
	t.Run("should cancel the listener once and ignore later snapshots", func(t *testing.T) {
		req := require.New(t)
		vm, chat := newViewModelFixture(t)

		cancels := 0
		chat.EXPECT().
			Subscribe(gomock.Any(), vm.ConversationID(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.ConversationID, _ contract.SnapshotSink) (func(), error) {
				return func() { cancels++ }, nil
			})

		req.NoError(vm.Open(context.Background()))

		vm.Close()
		vm.Close() // idempotent
		req.Equal(1, cancels)

		req.NoError(vm.Consume(context.Background(), event.ChatSnapshot{
			ID:       vm.ConversationID(),
			Version:  1,
			Messages: []domain.Message{domain.NewMessage("u1", "late")},
		}))
		req.Empty(vm.Messages())
	})
}
