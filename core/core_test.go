package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlightContext_Diff(t *testing.T) {
	prev := FlightContext{AccountNumber: "12345678"}

	next := prev
	next.SeatNumber = "12A"
	next.ConfirmationNumber = "LL0EZ6"

	changes := next.Diff(prev)
	assert.Equal(t, map[string]any{
		"seat_number":         "12A",
		"confirmation_number": "LL0EZ6",
	}, changes)
}

func TestFlightContext_DiffEmptyWhenUnchanged(t *testing.T) {
	ctx := FlightContext{AccountNumber: "12345678", FlightNumber: "FLT-123"}
	assert.Empty(t, ctx.Diff(ctx))
}

func TestConversationState_RecentHistory(t *testing.T) {
	state := NewConversationState(NewID(), "Triage Agent", FlightContext{})
	for i := 0; i < 15; i++ {
		state.AppendMessage(RoleUser, "msg")
	}

	recent := state.RecentHistory(10)
	assert.Len(t, recent, 10)

	short := NewConversationState(NewID(), "Triage Agent", FlightContext{})
	short.AppendMessage(RoleUser, "hi")
	assert.Len(t, short.RecentHistory(10), 1)
}

func TestConversationState_CloneIsIndependent(t *testing.T) {
	state := NewConversationState("c1", "Triage Agent", FlightContext{AccountNumber: "1"})
	state.AppendMessage(RoleUser, "hello")

	clone := state.Clone()
	clone.AppendMessage(RoleAssistant, "hi there")
	clone.Context.SeatNumber = "1A"
	clone.ActiveAgent = "FAQ Agent"

	assert.Len(t, state.History, 1)
	assert.Empty(t, state.Context.SeatNumber)
	assert.Equal(t, "Triage Agent", state.ActiveAgent)
}
