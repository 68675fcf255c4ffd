package core

// EventType categorizes the client-visible audit trail entries produced while
// processing a turn.
type EventType string

const (
	// EventToolCall records an agent invoking a named tool.
	EventToolCall EventType = "tool_call"
	// EventToolOutput records the stringified result of a tool invocation.
	EventToolOutput EventType = "tool_output"
	// EventHandoff records a transfer of responsibility between agents.
	EventHandoff EventType = "handoff"
	// EventContextUpdate records fields of the flight context that changed
	// during a turn; the changes live in the event metadata.
	EventContextUpdate EventType = "context_update"
)

// AgentEvent is an ephemeral audit record produced fresh each turn. Events
// are returned to the client alongside the response and are never persisted
// in conversation state.
type AgentEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Agent     string         `json:"agent"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// NewAgentEvent creates an event with a fresh id and timestamp.
func NewAgentEvent(eventType EventType, agent, content string, metadata map[string]any) AgentEvent {
	return AgentEvent{
		ID:        NewID(),
		Type:      eventType,
		Agent:     agent,
		Content:   content,
		Metadata:  metadata,
		Timestamp: NowMillis(),
	}
}

// GuardrailCheck is the outcome of one pre-processing check applied to a raw
// user message. Checks are produced fresh per turn and reported to the client
// for observability; they are never persisted.
type GuardrailCheck struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Input     string `json:"input"`
	Reasoning string `json:"reasoning"`
	Passed    bool   `json:"passed"`
	Timestamp int64  `json:"timestamp"`
}

// AgentInfo is a static roster entry describing one agent: its identity, the
// agents it can hand off to, the tools it may call and the guardrails applied
// to its input. The full roster is enumerated verbatim in every turn response
// regardless of conversation state.
type AgentInfo struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Handoffs        []string `json:"handoffs"`
	Tools           []string `json:"tools"`
	InputGuardrails []string `json:"input_guardrails"`
}
