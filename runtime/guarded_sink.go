package runtime

import (
	"context"
	"sync"

	"pairchat/contract"
	"pairchat/domain/event"
)

// GuardedSink wraps a listener's sink with the two delivery invariants the
// subscription contract promises: versions never go backwards, and nothing
// is delivered after Close. Needed because the broadcaster may already hold
// a reference to the sink while the listener tears down.
type GuardedSink struct {
	mu            sync.Mutex
	inner         contract.SnapshotSink
	lastDelivered uint64
	seeded        bool
	closed        bool
}

func NewGuardedSink(inner contract.SnapshotSink) *GuardedSink {
	return &GuardedSink{inner: inner}
}

func (g *GuardedSink) Consume(ctx context.Context, snapshot event.ChatSnapshot) error {
	g.mu.Lock()
	if g.closed || (g.seeded && snapshot.Version <= g.lastDelivered) {
		g.mu.Unlock()
		return nil
	}
	g.lastDelivered = snapshot.Version
	g.seeded = true
	g.mu.Unlock()

	return g.inner.Consume(ctx, snapshot)
}

// Close stops all further deliveries. Idempotent.
func (g *GuardedSink) Close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}
