package core

import (
	"context"
	"errors"
)

// ErrConversationNotFound is returned by ConversationStore.Get when no state
// exists for the requested conversation id.
var ErrConversationNotFound = errors.New("conversation not found")

// ConversationStore persists conversation state keyed by conversation id.
// Implementations must be safe for concurrent use and must not let callers
// mutate stored state through returned pointers (clone on the way in and out,
// or serialize). The engine persists only at the end of a successful or
// intentionally short-circuited turn.
type ConversationStore interface {
	// Get returns the state for id or ErrConversationNotFound.
	Get(ctx context.Context, id string) (*ConversationState, error)

	// Save stores a snapshot of the state under id, overwriting any
	// previous snapshot.
	Save(ctx context.Context, id string, state *ConversationState) error
}
