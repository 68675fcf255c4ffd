package agent

import (
	"github.com/flightdeskhq/flightdesk/core"
	"github.com/flightdeskhq/flightdesk/guardrail"
	"github.com/flightdeskhq/flightdesk/model"
	"github.com/flightdeskhq/flightdesk/tool"
)

// Agent names of the static airline roster.
const (
	TriageName       = "Triage Agent"
	SeatBookingName  = "Seat Booking Agent"
	FlightStatusName = "Flight Status Agent"
	CancellationName = "Cancellation Agent"
	FAQName          = "FAQ Agent"
)

const triageInstructions = `You are a helpful triaging agent for an airline customer service system.
Analyze the customer's request and either help them directly or transfer them to the appropriate specialist agent.

Available agents to transfer to:
- Seat Booking Agent: For seat changes, seat selection, seat maps
- Flight Status Agent: For flight status inquiries, gate information, delays
- Cancellation Agent: For flight cancellations, refunds
- FAQ Agent: For general questions about airline policies, baggage, wifi, etc.

To transfer a customer, include "TRANSFER TO [AGENT NAME]" in your response.
Be friendly and helpful in your responses.`

const seatBookingInstructions = `You are a seat booking agent. Help customers change their seats.

Process:
1. Confirm their confirmation number
2. Ask what seat they want or offer to show seat map
3. Use the update_seat tool to make the change
4. Use display_seat_map tool if they want to see available seats

If the customer asks about something else, transfer them back to the Triage Agent.`

const flightStatusInstructions = `You are a flight status agent. Help customers check their flight status.

Process:
1. Confirm their flight number
2. Use flight_status_tool to get current status
3. Provide helpful information about gates, delays, etc.

If the customer asks about something else, transfer them back to the Triage Agent.`

const cancellationInstructions = `You are a cancellation agent. Help customers cancel their flights.

Process:
1. Confirm their confirmation number and flight number
2. Ask for confirmation before cancelling
3. Use cancel_flight tool to process the cancellation
4. Provide information about refunds if applicable

If the customer asks about something else, transfer them back to the Triage Agent.`

const faqInstructions = `You are an FAQ agent. Answer questions about airline policies and services.

Process:
1. Identify the customer's question
2. Use faq_lookup_tool to get the official answer
3. Provide helpful and friendly response

If the customer asks about something else, transfer them back to the Triage Agent.`

// Roster holds the five static airline agents and their hand-off graph:
// triage can reach every specialist; each specialist's only hand-off target
// is triage.
type Roster struct {
	order  []string
	agents map[string]*Agent
}

// NewRoster builds the airline roster wired to the given generator.
func NewRoster(generator model.Generator, optFns ...func(o *Options)) *Roster {
	triage := New(TriageName,
		"A triage agent that can delegate a customer's request to the appropriate agent.",
		triageInstructions, generator, optFns...)

	seatBooking := New(SeatBookingName,
		"A helpful agent that can update a seat on a flight.",
		seatBookingInstructions, generator, optFns...)
	seatBooking.RegisterTools(tool.NewUpdateSeatTool(), tool.NewDisplaySeatMapTool())

	flightStatus := New(FlightStatusName,
		"An agent to provide flight status information.",
		flightStatusInstructions, generator, optFns...)
	flightStatus.RegisterTools(tool.NewFlightStatusTool())

	cancellation := New(CancellationName,
		"An agent to cancel flights.",
		cancellationInstructions, generator, optFns...)
	cancellation.RegisterTools(tool.NewCancelFlightTool())

	faq := New(FAQName,
		"A helpful agent that can answer questions about the airline.",
		faqInstructions, generator, optFns...)
	faq.RegisterTools(tool.NewFAQLookupTool())

	triage.SetHandoffs(SeatBookingName, FlightStatusName, CancellationName, FAQName)
	seatBooking.SetHandoffs(TriageName)
	flightStatus.SetHandoffs(TriageName)
	cancellation.SetHandoffs(TriageName)
	faq.SetHandoffs(TriageName)

	return &Roster{
		order: []string{TriageName, SeatBookingName, FlightStatusName, CancellationName, FAQName},
		agents: map[string]*Agent{
			TriageName:       triage,
			SeatBookingName:  seatBooking,
			FlightStatusName: flightStatus,
			CancellationName: cancellation,
			FAQName:          faq,
		},
	}
}

// Get returns the named agent.
func (r *Roster) Get(name string) (*Agent, bool) {
	a, ok := r.agents[name]
	return a, ok
}

// GetOrTriage returns the named agent, falling back to triage for unknown
// names so a corrupted active-agent value can never strand a conversation.
func (r *Roster) GetOrTriage(name string) *Agent {
	if a, ok := r.agents[name]; ok {
		return a
	}
	return r.agents[TriageName]
}

// Triage returns the default agent owning new conversations.
func (r *Roster) Triage() *Agent { return r.agents[TriageName] }

// Infos returns the static roster metadata enumerated verbatim in every turn
// response.
func (r *Roster) Infos() []core.AgentInfo {
	guardrails := []string{guardrail.RelevanceName, guardrail.JailbreakName}
	infos := make([]core.AgentInfo, 0, len(r.order))
	for _, name := range r.order {
		a := r.agents[name]
		infos = append(infos, core.AgentInfo{
			Name:            a.Name(),
			Description:     a.Description(),
			Handoffs:        a.Handoffs(),
			Tools:           a.ToolNames(),
			InputGuardrails: guardrails,
		})
	}
	return infos
}
