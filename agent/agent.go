package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/flightdeskhq/flightdesk/core"
	"github.com/flightdeskhq/flightdesk/logging"
	"github.com/flightdeskhq/flightdesk/model"
	"github.com/flightdeskhq/flightdesk/tool"
)

const (
	// HistoryWindow is the number of trailing history entries fed to the
	// model. Older turns remain in persisted history but are silently
	// dropped from the prompt.
	HistoryWindow = 10

	// ToolMarker is the reserved response prefix signaling a tool
	// invocation: TOOL:<tool_name>(<arguments>).
	ToolMarker = "TOOL:"

	// ApologyMessage replaces the response when anything in the tool phase
	// fails. Tool failures are absorbed here, never propagated.
	ApologyMessage = "I apologize, but I encountered an error while processing your request."

	// unknownToolResult is returned when the model names a tool the agent
	// does not have. The turn continues as if the tool ran.
	unknownToolResult = "Tool executed successfully"
)

// Event is an audit record produced while processing a turn. The engine
// enriches events with ids and timestamps before returning them to clients.
type Event struct {
	Type     core.EventType
	Agent    string
	Content  string
	Metadata map[string]any
}

// TurnResult is the outcome of one ProcessTurn call.
type TurnResult struct {
	// Response is the customer-facing reply text.
	Response string
	// Events are the audit records emitted during the turn, in order.
	Events []Event
	// Handoff names the agent that should own subsequent turns, or "" when
	// responsibility stays put.
	Handoff string
}

// Options configure an Agent.
type Options struct {
	Logger logging.Logger
}

// Agent binds a role prompt, an allowed tool subset and a set of permitted
// hand-off targets. Agents are static: defined at process start and immutable
// after construction (tools and handoffs are set during roster wiring).
type Agent struct {
	name         string
	description  string
	instructions string
	tools        *tool.Registry
	handoffs     []string
	generator    model.Generator
	logger       logging.Logger
}

// New constructs an Agent bound to a generator.
func New(name, description, instructions string, generator model.Generator, optFns ...func(o *Options)) *Agent {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Agent{
		name:         name,
		description:  description,
		instructions: instructions,
		tools:        tool.NewRegistry(),
		generator:    generator,
		logger:       opts.Logger,
	}
}

// Name returns the agent's roster name.
func (a *Agent) Name() string { return a.name }

// Description returns the agent's roster description.
func (a *Agent) Description() string { return a.description }

// RegisterTools adds tools to the agent's capability set, in order.
func (a *Agent) RegisterTools(tools ...tool.Tool) {
	for _, t := range tools {
		a.tools.Register(t)
	}
}

// SetHandoffs sets the permitted hand-off targets. Order matters: hand-off
// detection selects the first listed target whose name appears in a response.
func (a *Agent) SetHandoffs(names ...string) {
	a.handoffs = append([]string{}, names...)
}

// ToolNames returns the agent's tool names in registration order.
func (a *Agent) ToolNames() []string { return a.tools.Names() }

// Handoffs returns the permitted hand-off target names in order.
func (a *Agent) Handoffs() []string {
	return append([]string{}, a.handoffs...)
}

// ProcessTurn runs one conversational turn: prompt the model, execute at most
// one tool invocation, and detect a hand-off request in the final response.
//
// Tools mutate fctx in place; the engine diffs the context after the turn.
// The returned error is reserved for generation failures outside the tool
// phase (a transport failure on the first model call aborts the turn); tool
// phase failures are absorbed into ApologyMessage.
func (a *Agent) ProcessTurn(ctx context.Context, message string, fctx *core.FlightContext, history []core.Message) (*TurnResult, error) {
	prompt := a.buildPrompt(message, history)

	response, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	final := response
	var events []Event

	if strings.HasPrefix(response, ToolMarker) {
		revised, toolEvents, toolErr := a.runToolPhase(ctx, prompt, response, message, fctx)
		events = append(events, toolEvents...)
		if toolErr != nil {
			a.logger.Warn("agent.tool_phase.absorbed", "agent", a.name, "error", toolErr.Error())
			final = ApologyMessage
		} else {
			final = revised
		}
	}

	if target := a.detectHandoff(final); target != "" {
		events = append(events, Event{
			Type:    core.EventHandoff,
			Agent:   a.name,
			Content: fmt.Sprintf("%s -> %s", a.name, target),
			Metadata: map[string]any{
				"source_agent": a.name,
				"target_agent": target,
			},
		})
		return &TurnResult{Response: final, Events: events, Handoff: target}, nil
	}

	return &TurnResult{Response: final, Events: events}, nil
}

// buildPrompt assembles system instruction, the trailing history window and
// the new user message. The history already contains the user message as its
// last entry; it is still appended separately, preserving the documented
// prompt shape.
func (a *Agent) buildPrompt(message string, history []core.Message) []core.Message {
	start := 0
	if len(history) > HistoryWindow {
		start = len(history) - HistoryWindow
	}

	prompt := make([]core.Message, 0, len(history)-start+2)
	prompt = append(prompt, core.Message{Role: core.RoleSystem, Content: a.systemInstruction()})
	prompt = append(prompt, history[start:]...)
	prompt = append(prompt, core.Message{Role: core.RoleUser, Content: message})
	return prompt
}

// systemInstruction concatenates the agent's static instructions with a
// description of its tools and the tool-invocation calling convention.
func (a *Agent) systemInstruction() string {
	if a.tools.Len() == 0 {
		return a.instructions
	}

	var sb strings.Builder
	sb.WriteString(a.instructions)
	sb.WriteString("\n\nAvailable tools:\n")
	for _, t := range a.tools.Tools() {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", t.Name(), t.Description()))
	}
	sb.WriteString("\nTo use a tool, respond with: TOOL:<tool_name>(<arguments>)")
	return sb.String()
}

// runToolPhase parses and executes the tool invocation then asks the model
// for a customer-facing reply wrapping the tool result. Events emitted before
// a failure are kept; the caller replaces the response on error.
func (a *Agent) runToolPhase(ctx context.Context, prompt []core.Message, response, message string, fctx *core.FlightContext) (string, []Event, error) {
	var events []Event

	call := strings.TrimSpace(strings.TrimPrefix(response, ToolMarker))
	name := call
	if i := strings.Index(call, "("); i >= 0 {
		name = call[:i]
	}

	events = append(events, Event{Type: core.EventToolCall, Agent: a.name, Content: name})
	a.logger.Debug("agent.tool.call", "agent", a.name, "tool", name)

	result := unknownToolResult
	if t, ok := a.tools.Get(name); ok {
		r, err := t.Call(fctx, message)
		if err != nil {
			return "", events, err
		}
		result = r
	}

	events = append(events, Event{Type: core.EventToolOutput, Agent: a.name, Content: result})

	followup := make([]core.Message, 0, len(prompt)+2)
	followup = append(followup, prompt...)
	followup = append(followup,
		core.Message{Role: core.RoleAssistant, Content: response},
		core.Message{
			Role:    core.RoleUser,
			Content: fmt.Sprintf("Tool result: %s. Please provide a response to the customer.", result),
		},
	)

	revised, err := a.generator.Generate(ctx, followup)
	if err != nil {
		return "", events, err
	}
	return revised, events, nil
}

// detectHandoff scans the final response for the hand-off trigger words and
// returns the first permitted target whose name appears in it. Trigger words
// without a matching target name mean no hand-off.
func (a *Agent) detectHandoff(response string) string {
	lower := strings.ToLower(response)
	if !strings.Contains(lower, "transfer") && !strings.Contains(lower, "handoff") {
		return ""
	}
	for _, target := range a.handoffs {
		if strings.Contains(lower, strings.ToLower(target)) {
			return target
		}
	}
	return ""
}
