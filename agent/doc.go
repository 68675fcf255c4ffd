// Package agent implements the turn-processing algorithm of a single
// customer-service agent and the static five-agent airline roster.
//
// An agent turn is: build a prompt from instructions, tool descriptions and
// the trailing history window; generate; optionally execute one tool
// invocation signaled by the TOOL: marker and regenerate; scan the final
// response for a hand-off request. Conversation-level concerns (guardrails,
// persistence, context diffing) live in the engine package.
package agent
