package core

import (
	"time"

	"github.com/google/uuid"
)

// NewID generates a unique identifier for conversations, events and
// guardrail checks.
func NewID() string { return uuid.NewString() }

// NowMillis returns the current wall-clock time as milliseconds since the
// Unix epoch. Events and guardrail checks carry millisecond timestamps so
// browser clients can consume them directly.
func NowMillis() int64 { return time.Now().UnixMilli() }
