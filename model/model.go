package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/flightdeskhq/flightdesk/core"
)

// Generator is the minimal interface required to drive text generation: an
// ordered sequence of role-tagged messages in, one assistant text out.
//
// A turn performs at most two sequential Generate calls, never in parallel.
// Implementations define no timeout or retry contract of their own; callers
// own cancellation through ctx.
type Generator interface {
	Generate(ctx context.Context, messages []core.Message) (string, error)

	// Info returns metadata about the generator implementation.
	Info() Info
}

// Info contains metadata about a generator implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openrouter", "anthropic", "mock"
}

// MockGenerator is a lightweight in-memory Generator useful for tests. It
// serves queued responses first, then canned responses keyed by the content
// of the last message, then a generic fallback. All calls are recorded.
type MockGenerator struct {
	mu        sync.Mutex
	queue     []string
	responses map[string]string
	err       error
	calls     [][]core.Message
}

// NewMockGenerator constructs an empty MockGenerator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{responses: make(map[string]string)}
}

// Enqueue appends responses served in order before any keyed lookup.
func (m *MockGenerator) Enqueue(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, responses...)
}

// AddResponse registers a deterministic completion for a last-message input.
func (m *MockGenerator) AddResponse(input, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[input] = response
}

// SetError makes every subsequent Generate call fail with err.
func (m *MockGenerator) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the recorded message sequences of all Generate invocations.
func (m *MockGenerator) Calls() [][]core.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([][]core.Message, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Generate implements Generator.
func (m *MockGenerator) Generate(_ context.Context, messages []core.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recorded := make([]core.Message, len(messages))
	copy(recorded, messages)
	m.calls = append(m.calls, recorded)

	if m.err != nil {
		return "", m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	if len(messages) > 0 {
		last := messages[len(messages)-1].Content
		if resp, ok := m.responses[last]; ok {
			return resp, nil
		}
		return fmt.Sprintf("Mock response to: %s", last), nil
	}
	return "", fmt.Errorf("no messages provided")
}

// Info implements Generator.
func (m *MockGenerator) Info() Info { return Info{Name: "mock", Provider: "mock"} }
