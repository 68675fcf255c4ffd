// Package server exposes the turn API over HTTP: POST /chat for turns, plus
// health and metrics endpoints. Error bodies use a {"detail": ...} shape so
// existing chat UIs keep working unchanged.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flightdeskhq/flightdesk/core"
	"github.com/flightdeskhq/flightdesk/engine"
	"github.com/flightdeskhq/flightdesk/logging"
)

// TurnHandler processes one conversational turn. Implemented by
// *engine.Engine.
type TurnHandler interface {
	HandleTurn(ctx context.Context, req engine.TurnRequest) (*engine.TurnResponse, error)
}

// Options configure the HTTP handler.
type Options struct {
	// Logger receives request-level error logs. Defaults to NoOpLogger.
	Logger logging.Logger

	// AllowedOrigins are the CORS origins permitted to call the API.
	AllowedOrigins []string

	// Metrics, when set, is exposed at GET /metrics.
	Metrics prometheus.Gatherer
}

type server struct {
	turns  TurnHandler
	logger logging.Logger
}

// NewHandler builds the HTTP routing for the turn API.
func NewHandler(turns TurnHandler, optFns ...func(o *Options)) http.Handler {
	opts := Options{
		Logger:         logging.NoOpLogger{},
		AllowedOrigins: []string{"http://localhost:3000"},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &server{turns: turns, logger: opts.Logger}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Post("/chat", s.handleChat)
	r.Get("/healthz", s.handleHealth)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Metrics, promhttp.HandlerOpts{}))
	}

	return r
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req engine.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := s.turns.HandleTurn(r.Context(), req)
	if err != nil {
		s.logger.Error("server.chat.failed", "error", err.Error())
		if errors.Is(err, core.ErrConversationNotFound) {
			writeError(w, http.StatusNotFound, "Conversation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
