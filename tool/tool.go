// Package tool implements the tool calling subsystem that lets agents invoke
// side-effecting capabilities against the shared flight context with
// consistent error handling.
//
// Tools receive the raw user message; each tool carries its own argument
// extraction function so the fragile "find a seat-looking token in free text"
// heuristics stay local to the tool they serve. Extraction or execution
// failures surface as *ToolError and are absorbed by the agent turn logic,
// never propagated to the caller.
package tool

import (
	"fmt"

	"github.com/flightdeskhq/flightdesk/core"
)

// Tool is a named, side-effecting function an agent may invoke mid-turn to
// fetch or mutate domain facts.
//
// Tool implementations should:
//   - Provide clear, descriptive names (snake_case) and descriptions
//   - Return short, customer-presentable result strings
//   - Mutate only the provided flight context
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a one-line description of what this tool does.
	// It is included in agent system prompts to guide tool selection.
	Description() string

	// Call executes the tool against the shared context, deriving any
	// arguments it needs from the raw user message.
	Call(fctx *core.FlightContext, message string) (string, error)
}

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`    // Name of the tool that failed
	Message string `json:"message"` // Error message
	Code    string `json:"code"`    // Error code for categorization
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// ExtractFunc derives tool arguments from the raw user message and the
// current flight context. Returning an error marks a local extraction failure
// that the agent downgrades to its generic apology.
type ExtractFunc func(message string, fctx *core.FlightContext) (map[string]string, error)

// Func is a tool implementation receiving already-extracted arguments.
type Func func(fctx *core.FlightContext, args map[string]string) (string, error)

// FunctionTool adapts a plain Go function plus an argument extractor into a
// Tool. It has no internal mutable state after construction and is safe for
// concurrent use.
type FunctionTool struct {
	name        string
	description string
	extract     ExtractFunc
	fn          Func
}

// NewFunctionTool constructs a FunctionTool from an explicit extractor and
// implementation. A nil extractor means the tool takes no arguments.
func NewFunctionTool(name, description string, extract ExtractFunc, fn Func) *FunctionTool {
	return &FunctionTool{name: name, description: description, extract: extract, fn: fn}
}

// Name returns the unique tool name used in dispatch and prompts.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the one-line description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Call extracts arguments from the message then invokes the underlying
// function. Failures are wrapped as *ToolError for uniform handling:
//
//	extraction failure -> *ToolError{Code: "EXTRACTION_ERROR"}
//	execution failure  -> *ToolError{Code: "EXECUTION_ERROR"}
//	*ToolError         -> forwarded unchanged
func (t *FunctionTool) Call(fctx *core.FlightContext, message string) (string, error) {
	args := map[string]string{}
	if t.extract != nil {
		extracted, err := t.extract(message, fctx)
		if err != nil {
			return "", &ToolError{Tool: t.name, Message: err.Error(), Code: "EXTRACTION_ERROR"}
		}
		args = extracted
	}

	result, err := t.fn(fctx, args)
	if err != nil {
		if toolErr, ok := err.(*ToolError); ok {
			return "", toolErr
		}
		return "", &ToolError{Tool: t.name, Message: err.Error(), Code: "EXECUTION_ERROR"}
	}
	return result, nil
}

// Registry holds tools in registration order. Order matters: prompts list
// tools as registered.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry constructs a registry containing the given tools in order.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register appends a tool; re-registering a name replaces the tool but keeps
// its original position.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Tools returns the tools in registration order.
func (r *Registry) Tools() []Tool {
	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }
