// Package engine implements the orchestration core. Each inbound turn is
// processed synchronously: resolve or create conversation state, gate the
// message through the guardrails, dispatch to the active agent, apply the
// hand-off result and its context setup, diff the shared flight context and
// persist the updated state. Persistence happens only at the end of a
// successful (or intentionally short-circuited) path, so a failed turn never
// corrupts stored state.
//
// Turns against the same conversation id are serialized through a keyed
// mutex; turns against different ids proceed independently.
package engine
