package core

// Message roles used in conversation history and model prompts.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged entry in a conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationState is the persisted per-conversation record: the identifier,
// the name of the agent currently responsible for the conversation, the shared
// flight context and the full message history.
//
// History is append-only within a turn and never truncated in storage; prompt
// construction reads a bounded suffix via RecentHistory. The state carries no
// locking of its own: the engine serializes turns per conversation id and
// stores hand out clones.
type ConversationState struct {
	ID          string        `json:"id"`
	ActiveAgent string        `json:"active_agent"`
	Context     FlightContext `json:"context"`
	History     []Message     `json:"history"`
}

// NewConversationState creates a fresh state owned by the named agent.
func NewConversationState(id, activeAgent string, ctx FlightContext) *ConversationState {
	return &ConversationState{
		ID:          id,
		ActiveAgent: activeAgent,
		Context:     ctx,
		History:     []Message{},
	}
}

// AppendMessage appends a role-tagged message to the history.
func (s *ConversationState) AppendMessage(role, content string) {
	s.History = append(s.History, Message{Role: role, Content: content})
}

// RecentHistory returns the last n history entries, oldest first. It returns
// the full history when it is shorter than n. The returned slice is a copy.
func (s *ConversationState) RecentHistory(n int) []Message {
	start := 0
	if len(s.History) > n {
		start = len(s.History) - n
	}
	recent := make([]Message, len(s.History)-start)
	copy(recent, s.History[start:])
	return recent
}

// Clone returns a deep copy of the state safe for independent mutation.
func (s *ConversationState) Clone() *ConversationState {
	clone := &ConversationState{
		ID:          s.ID,
		ActiveAgent: s.ActiveAgent,
		Context:     s.Context,
		History:     make([]Message, len(s.History)),
	}
	copy(clone.History, s.History)
	return clone
}
