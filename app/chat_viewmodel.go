package app

import (
	"context"
	"log/slog"
	"sync"

	"pairchat/domain"
	"pairchat/domain/event"
	"pairchat/services"
)

// ChatViewModel backs the two-party chat screen. It resolves the
// conversation id for the chosen peer, keeps the observable message list in
// sync with the snapshot listener, and sends with an optimistic local
// append. The latest delivered snapshot is trusted as ground truth and
// replaces whatever was shown before.
type ChatViewModel struct {
	mu             sync.Mutex
	log            *slog.Logger
	chat           services.IChatService
	selfID         string
	peerID         string
	conversationID domain.ConversationID

	messages []domain.Message // latest persisted state
	unsent   []domain.Message // optimistic entries whose write failed
	cancel   func()
	onChange func()
	closed   bool
}

func NewChatViewModel(log *slog.Logger, chat services.IChatService, selfID, peerID string) *ChatViewModel {
	return &ChatViewModel{
		log:            log,
		chat:           chat,
		selfID:         selfID,
		peerID:         peerID,
		conversationID: domain.NewConversationID(selfID, peerID),
	}
}

func (vm *ChatViewModel) ConversationID() domain.ConversationID {
	return vm.conversationID
}

// SetOnChange registers the view refresh callback, invoked after every
// applied snapshot and every local mutation.
func (vm *ChatViewModel) SetOnChange(fn func()) {
	vm.mu.Lock()
	vm.onChange = fn
	vm.mu.Unlock()
}

// Open starts the snapshot listener. The current persisted state arrives
// before Open returns.
func (vm *ChatViewModel) Open(ctx context.Context) error {
	cancel, err := vm.chat.Subscribe(ctx, vm.conversationID, vm)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.cancel = cancel
	vm.mu.Unlock()
	return nil
}

// Consume applies one delivered snapshot. Unsent entries that made it into
// the persisted list stop being tracked separately.
func (vm *ChatViewModel) Consume(_ context.Context, snapshot event.ChatSnapshot) error {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return nil
	}
	vm.messages = snapshot.Messages

	persisted := make(map[string]struct{}, len(snapshot.Messages))
	for _, m := range snapshot.Messages {
		persisted[m.ID.String()] = struct{}{}
	}
	remaining := vm.unsent[:0]
	for _, m := range vm.unsent {
		if _, ok := persisted[m.ID.String()]; !ok {
			remaining = append(remaining, m)
		}
	}
	vm.unsent = remaining
	onChange := vm.onChange
	vm.mu.Unlock()

	if onChange != nil {
		onChange()
	}
	return nil
}

// Messages returns the visible list: the persisted state followed by any
// locally retained unsent entries.
func (vm *ChatViewModel) Messages() []domain.Message {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	visible := make([]domain.Message, 0, len(vm.messages)+len(vm.unsent))
	visible = append(visible, vm.messages...)
	visible = append(visible, vm.unsent...)
	return visible
}

// Unsent reports the messages shown locally that are not persisted.
func (vm *ChatViewModel) Unsent() []domain.Message {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]domain.Message(nil), vm.unsent...)
}

// Send appends the composed text optimistically and persists it. On
// failure the message stays visible, marked unsent, and the error is
// returned; no retry is attempted here.
func (vm *ChatViewModel) Send(ctx context.Context, text string) error {
	message := domain.NewMessage(vm.selfID, text)

	vm.mu.Lock()
	local := append([]domain.Message(nil), vm.messages...)
	vm.unsent = append(vm.unsent, message)
	onChange := vm.onChange
	vm.mu.Unlock()
	if onChange != nil {
		onChange()
	}

	persisted, err := vm.chat.Send(ctx, vm.conversationID, local, []domain.Message{message})
	if err != nil {
		vm.log.Warn("Send failed, keeping message unsent",
			"conversation", vm.conversationID, "err", err)
		return err
	}

	vm.mu.Lock()
	vm.messages = persisted
	remaining := vm.unsent[:0]
	for _, m := range vm.unsent {
		if m.ID != message.ID {
			remaining = append(remaining, m)
		}
	}
	vm.unsent = remaining
	onChange = vm.onChange
	vm.mu.Unlock()
	if onChange != nil {
		onChange()
	}
	return nil
}

// Close tears the listener down. Idempotent; snapshots delivered afterwards
// are ignored.
func (vm *ChatViewModel) Close() {
	vm.mu.Lock()
	vm.closed = true
	cancel := vm.cancel
	vm.cancel = nil
	vm.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
