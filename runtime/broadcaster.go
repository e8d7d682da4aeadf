// Package runtime handles snapshot propagation and listener lifecycle.
// It moves state around without containing business logic or domain rules.
package runtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pairchat/contract"
	"pairchat/domain"
	"pairchat/domain/event"
)

// Broadcaster fans conversation snapshots out to the sinks watching them.
//
// It provides best-effort fan-out with no durability and no retries; it is
// not a message broker. Deliveries for one conversation carry non-decreasing
// versions, and intermediate states may be coalesced away: publishing twice
// before the loop wakes up delivers only the newer snapshot.
//
// Broadcaster is safe for concurrent use by multiple goroutines.
type Broadcaster struct {
	mu          sync.Mutex
	log         *slog.Logger
	registry    contract.IRegistry
	sinkTimeout time.Duration
	pending     map[domain.ConversationID]event.ChatSnapshot
	wake        chan struct{}
}

func NewBroadcaster(log *slog.Logger, registry contract.IRegistry, sinkTimeout time.Duration) *Broadcaster {
	return &Broadcaster{
		log:         log,
		registry:    registry,
		sinkTimeout: sinkTimeout,
		pending:     make(map[domain.ConversationID]event.ChatSnapshot),
		wake:        make(chan struct{}, 1),
	}
}

// Publish queues a snapshot for delivery. Never blocks the writer: the
// latest version per conversation is retained and older queued ones are
// replaced, which is where coalescing happens.
func (b *Broadcaster) Publish(snapshot event.ChatSnapshot) {
	b.mu.Lock()
	if queued, ok := b.pending[snapshot.ID]; !ok || snapshot.Version > queued.Version {
		b.pending[snapshot.ID] = snapshot
	}
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Run drains queued snapshots until the context is canceled.
func (b *Broadcaster) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			b.log.Debug("Context done, stopping snapshot broadcast")
			return nil
		case <-b.wake:
			for _, snapshot := range b.drain() {
				b.fanout(ctx, snapshot)
			}
		}
	}
}

func (b *Broadcaster) drain() []event.ChatSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshots := make([]event.ChatSnapshot, 0, len(b.pending))
	for _, snapshot := range b.pending {
		snapshots = append(snapshots, snapshot)
	}
	b.pending = make(map[domain.ConversationID]event.ChatSnapshot)
	return snapshots
}

// fanout delivers one snapshot to every sink currently watching the
// conversation. A slow sink only burns its own delivery budget.
func (b *Broadcaster) fanout(ctx context.Context, snapshot event.ChatSnapshot) {
	for _, sink := range b.registry.GetSinksForConversation(snapshot.ID) {
		deliveryCtx, cancel := context.WithTimeout(ctx, b.sinkTimeout)
		if err := sink.Consume(deliveryCtx, snapshot); err != nil {
			b.log.Warn("Snapshot delivery failed",
				"conversation", snapshot.ID, "version", snapshot.Version, "err", err)
		}
		cancel()
	}
}
