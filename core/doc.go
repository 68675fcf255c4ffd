// Package core defines the shared data model of flightdesk: the
// per-conversation state and its flight context, the chat message and event
// types exchanged between the engine and clients, guardrail check records,
// the static agent roster entry, and the ConversationStore persistence
// boundary.
//
// Types in this package are plain data. Locking, dispatch and persistence
// live in the engine and session packages; core stays dependency-light so
// every other package can import it.
package core
