package runtime

import (
	"sync"

	"pairchat/contract"
	"pairchat/domain"
)

type Set map[string]struct{}

// Registry tracks which snapshot sinks are watching which conversation.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]contract.SnapshotSink // map watcher -> Sink
	watchers map[domain.ConversationID]Set    // map conversation -> watchers
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]contract.SnapshotSink),
		watchers: make(map[domain.ConversationID]Set),
	}
}

// GetSinksForConversation retrieves all live listeners of one conversation.
// It performs a two-step lookup:
// 1. Identifies watcher IDs associated with the conversation via watchers.
// 2. Resolves those IDs into actual SnapshotSinks using the sessions map.
//
// Keeping the sink in a single place means a watcher observing several
// conversations still has one managed connection.
// Returns nil if the conversation has no watchers.
func (r *Registry) GetSinksForConversation(id domain.ConversationID) []contract.SnapshotSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.watchers[id]
	if !ok {
		return nil
	}
	var activeSinks []contract.SnapshotSink
	for watcherID := range members {
		if sink, exists := r.sessions[watcherID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a watcher's sink and attaches it to a conversation.
// If the conversation is not yet tracked, it is initialized on the fly.
func (r *Registry) Subscribe(watcherID string, id domain.ConversationID, sink contract.SnapshotSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[watcherID] = sink

	if _, ok := r.watchers[id]; !ok {
		r.watchers[id] = make(Set)
	}
	r.watchers[id][watcherID] = struct{}{}
}

// Unsubscribe detaches a watcher. Safe to call for a watcher that was never
// subscribed or was already removed, so listener teardown stays idempotent.
// Empty watcher sets are removed to prevent the map growing forever.
func (r *Registry) Unsubscribe(watcherID string, id domain.ConversationID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, watcherID)

	if members, ok := r.watchers[id]; ok {
		delete(members, watcherID)

		if len(members) == 0 {
			delete(r.watchers, id)
		}
	}
}
