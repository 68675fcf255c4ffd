// Package redis implements core.ConversationStore on Redis, storing each
// conversation as a JSON blob under a prefixed key. It lets deployments keep
// conversation state across process restarts without touching orchestration
// logic.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/flightdeskhq/flightdesk/core"
)

// Store implements core.ConversationStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option customizes a Store.
type Option func(*Store)

// WithTTL sets the expiration for conversation keys. Zero means no expiry,
// matching the process-lifetime semantics of the in-memory store.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithPrefix sets the key prefix for conversations.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// New creates a Redis store with its own client.
func New(addr, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "flightdesk:conversation:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(id string) string { return s.prefix + id }

// Get retrieves conversation state, mapping a missing key to
// core.ErrConversationNotFound.
func (s *Store) Get(ctx context.Context, id string) (*core.ConversationState, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, core.ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to get conversation from redis: %w", err)
	}

	var state core.ConversationState
	if err := json.Unmarshal([]byte(val), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation state: %w", err)
	}
	return &state, nil
}

// Save persists the conversation state as JSON.
func (s *Store) Save(ctx context.Context, id string, state *core.ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation state: %w", err)
	}
	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save conversation to redis: %w", err)
	}
	return nil
}

// Close closes the underlying redis client.
func (s *Store) Close() error { return s.client.Close() }
