package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/flightdeskhq/flightdesk/agent"
	"github.com/flightdeskhq/flightdesk/core"
	"github.com/flightdeskhq/flightdesk/guardrail"
	"github.com/flightdeskhq/flightdesk/internal/util"
	"github.com/flightdeskhq/flightdesk/logging"
	"github.com/flightdeskhq/flightdesk/session"
	"github.com/flightdeskhq/flightdesk/tool"
)

// RefusalMessage is the fixed reply stored and returned when a guardrail
// rejects the user message.
const RefusalMessage = "Sorry, I can only answer questions related to airline travel."

// TurnRequest is one inbound turn. An empty ConversationID (or one naming no
// stored conversation) starts a new conversation under a freshly generated id.
type TurnRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

// TurnMessage is one customer-facing reply attributed to the agent that
// produced it.
type TurnMessage struct {
	Content string `json:"content"`
	Agent   string `json:"agent"`
}

// TurnResponse is the full outcome of a turn: the replies, the audit trail,
// the current context snapshot, the static agent roster and the guardrail
// results (empty when guardrails never ran).
type TurnResponse struct {
	ConversationID string                `json:"conversation_id"`
	CurrentAgent   string                `json:"current_agent"`
	Messages       []TurnMessage         `json:"messages"`
	Events         []core.AgentEvent     `json:"events"`
	Context        core.FlightContext    `json:"context"`
	Agents         []core.AgentInfo      `json:"agents"`
	Guardrails     []core.GuardrailCheck `json:"guardrails"`
}

// Options configure an Engine.
type Options struct {
	// Store persists conversation state. Defaults to the in-memory store.
	Store core.ConversationStore

	// Logger receives structured engine logs. Defaults to NoOpLogger.
	Logger logging.Logger

	// Metrics holds the Prometheus collectors. Defaults to a fresh set on a
	// dedicated registry.
	Metrics *Metrics
}

// Engine coordinates the turn pipeline for a fixed agent roster.
type Engine struct {
	roster  *agent.Roster
	store   core.ConversationStore
	logger  logging.Logger
	metrics *Metrics

	// locks serializes turns per conversation id: map[string]*sync.Mutex.
	// Entries are never removed; conversation ids are client-session scoped
	// and bounded in practice.
	locks sync.Map
}

// New creates an Engine for the given roster.
func New(roster *agent.Roster, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Store:  session.NewInMemoryStore(),
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}

	return &Engine{
		roster:  roster,
		store:   opts.Store,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
}

// Metrics returns the engine's Prometheus collectors.
func (e *Engine) Metrics() *Metrics { return e.metrics }

// Roster returns the static agent roster.
func (e *Engine) Roster() *agent.Roster { return e.roster }

// HandleTurn processes one turn end-to-end. Errors are returned only for
// storage failures and for generation failures outside the tool phase; in
// both cases no conversation state is persisted.
func (e *Engine) HandleTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	mu := e.mutexFor(req.ConversationID)
	mu.Lock()
	defer mu.Unlock()

	state, isNew, err := e.resolveState(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}

	if isNew && strings.TrimSpace(req.Message) == "" {
		if err := e.store.Save(ctx, state.ID, state); err != nil {
			return nil, fmt.Errorf("failed to save conversation: %w", err)
		}
		return &TurnResponse{
			ConversationID: state.ID,
			CurrentAgent:   state.ActiveAgent,
			Messages:       []TurnMessage{},
			Events:         []core.AgentEvent{},
			Context:        state.Context,
			Agents:         e.roster.Infos(),
			Guardrails:     []core.GuardrailCheck{},
		}, nil
	}

	checks := guardrail.Evaluate(req.Message)
	if failure := guardrail.FirstFailure(checks); failure != nil {
		return e.refuseTurn(ctx, state, req.Message, checks, failure)
	}

	snapshot := state.Context
	state.AppendMessage(core.RoleUser, req.Message)

	active := e.roster.GetOrTriage(state.ActiveAgent)
	result, err := active.ProcessTurn(ctx, req.Message, &state.Context, state.History)
	if err != nil {
		e.logger.Error("engine.turn.failed", "conversation_id", state.ID, "agent", active.Name(), "error", err.Error())
		return nil, fmt.Errorf("turn processing failed: %w", err)
	}
	state.AppendMessage(core.RoleAssistant, result.Response)

	messages := []TurnMessage{{Content: result.Response, Agent: active.Name()}}
	events := make([]core.AgentEvent, 0, len(result.Events)+1)
	for _, ev := range result.Events {
		events = append(events, core.NewAgentEvent(ev.Type, ev.Agent, ev.Content, ev.Metadata))

		switch ev.Type {
		case core.EventToolCall:
			e.metrics.toolCalls.WithLabelValues(ev.Content).Inc()
		case core.EventToolOutput:
			// The seat-map sentinel becomes a second reply so the UI can
			// render a widget instead of plain text.
			if ev.Content == tool.SeatMapSentinel {
				messages = append(messages, TurnMessage{Content: tool.SeatMapSentinel, Agent: active.Name()})
			}
		}
	}

	currentAgent := active.Name()
	if result.Handoff != "" {
		e.logger.Info("engine.handoff", "conversation_id", state.ID, "source", active.Name(), "target", result.Handoff)
		e.metrics.handoffs.WithLabelValues(active.Name(), result.Handoff).Inc()
		state.ActiveAgent = result.Handoff
		currentAgent = result.Handoff
		setupHandoffContext(result.Handoff, &state.Context)
	}

	if changes := state.Context.Diff(snapshot); len(changes) > 0 {
		events = append(events, core.NewAgentEvent(core.EventContextUpdate, currentAgent, "", map[string]any{
			"changes": changes,
		}))
	}

	if err := e.store.Save(ctx, state.ID, state); err != nil {
		return nil, fmt.Errorf("failed to save conversation: %w", err)
	}
	e.metrics.turns.WithLabelValues(currentAgent).Inc()

	return &TurnResponse{
		ConversationID: state.ID,
		CurrentAgent:   currentAgent,
		Messages:       messages,
		Events:         events,
		Context:        state.Context,
		Agents:         e.roster.Infos(),
		Guardrails:     checks,
	}, nil
}

// resolveState loads the conversation named by id, or creates a fresh one
// under a new id when id is empty or unknown. New conversations start owned
// by triage with a randomized account number.
func (e *Engine) resolveState(ctx context.Context, id string) (*core.ConversationState, bool, error) {
	if id != "" {
		state, err := e.store.Get(ctx, id)
		if err == nil {
			return state, false, nil
		}
		if !errors.Is(err, core.ErrConversationNotFound) {
			return nil, false, fmt.Errorf("failed to load conversation: %w", err)
		}
	}

	state := core.NewConversationState(core.NewID(), agent.TriageName, core.FlightContext{
		AccountNumber: util.RandomAccountNumber(),
	})
	e.logger.Debug("engine.conversation.created", "conversation_id", state.ID)
	return state, true, nil
}

// refuseTurn records the guardrail rejection in history and returns the fixed
// refusal without invoking any agent.
func (e *Engine) refuseTurn(ctx context.Context, state *core.ConversationState, message string, checks []core.GuardrailCheck, failure *core.GuardrailCheck) (*TurnResponse, error) {
	e.logger.Info("engine.guardrail.rejected", "conversation_id", state.ID, "guardrail", failure.Name)
	e.metrics.guardrailRejections.WithLabelValues(failure.Name).Inc()

	state.AppendMessage(core.RoleUser, message)
	state.AppendMessage(core.RoleAssistant, RefusalMessage)
	if err := e.store.Save(ctx, state.ID, state); err != nil {
		return nil, fmt.Errorf("failed to save conversation: %w", err)
	}

	return &TurnResponse{
		ConversationID: state.ID,
		CurrentAgent:   state.ActiveAgent,
		Messages:       []TurnMessage{{Content: RefusalMessage, Agent: state.ActiveAgent}},
		Events:         []core.AgentEvent{},
		Context:        state.Context,
		Agents:         e.roster.Infos(),
		Guardrails:     checks,
	}, nil
}

// setupHandoffContext applies per-destination context setup. Entering seat
// booking always assigns fresh flight and confirmation numbers; entering
// cancellation fills them only when unset. Other destinations need no setup.
func setupHandoffContext(target string, fctx *core.FlightContext) {
	switch target {
	case agent.SeatBookingName:
		fctx.FlightNumber = util.RandomFlightNumber()
		fctx.ConfirmationNumber = util.RandomConfirmationNumber()
	case agent.CancellationName:
		if fctx.ConfirmationNumber == "" {
			fctx.ConfirmationNumber = util.RandomConfirmationNumber()
		}
		if fctx.FlightNumber == "" {
			fctx.FlightNumber = util.RandomFlightNumber()
		}
	}
}

// mutexFor returns the per-conversation mutex, creating it on first use. An
// empty id gets a throwaway mutex: the conversation does not exist yet, so
// there is nothing to contend with.
func (e *Engine) mutexFor(id string) *sync.Mutex {
	if id == "" {
		return &sync.Mutex{}
	}
	mu, _ := e.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
