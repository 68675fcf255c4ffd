package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's Prometheus collectors on a dedicated registry so
// multiple engines (tests included) never collide on the default registry.
type Metrics struct {
	registry *prometheus.Registry

	turns               *prometheus.CounterVec
	guardrailRejections *prometheus.CounterVec
	toolCalls           *prometheus.CounterVec
	handoffs            *prometheus.CounterVec
}

// NewMetrics creates the engine collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		turns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flightdesk_turns_total",
			Help: "Completed turns by the agent that produced the response.",
		}, []string{"agent"}),
		guardrailRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flightdesk_guardrail_rejections_total",
			Help: "Turns refused by a guardrail, by check name.",
		}, []string{"guardrail"}),
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flightdesk_tool_calls_total",
			Help: "Tool invocations requested by agents, by tool name.",
		}, []string{"tool"}),
		handoffs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flightdesk_handoffs_total",
			Help: "Hand-offs between agents, by source and target.",
		}, []string{"source", "target"}),
	}
}

// Registry returns the registry holding the engine collectors, for exposing
// via an HTTP metrics handler.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
