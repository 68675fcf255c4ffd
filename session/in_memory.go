// Package session provides conversation state persistence. The default
// implementation is a volatile process-local map; the redis subpackage offers
// a durable alternative behind the same core.ConversationStore interface.
package session

import (
	"context"
	"sync"

	"github.com/flightdeskhq/flightdesk/core"
)

// InMemoryStore is a volatile ConversationStore keeping state in a process
// local map. It is safe for concurrent access and best suited for tests or
// single-instance deployments. State is cloned on the way in and out to
// prevent external mutation of stored snapshots.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*core.ConversationState
}

// NewInMemoryStore constructs an empty in-memory conversation store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{conversations: make(map[string]*core.ConversationState)}
}

// Get returns a clone of the stored state or core.ErrConversationNotFound.
func (s *InMemoryStore) Get(_ context.Context, id string) (*core.ConversationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.conversations[id]
	if !ok {
		return nil, core.ErrConversationNotFound
	}
	return state.Clone(), nil
}

// Save stores a clone of the provided state snapshot.
func (s *InMemoryStore) Save(_ context.Context, id string, state *core.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[id] = state.Clone()
	return nil
}
