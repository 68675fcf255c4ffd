// Package flightdesk provides a high-level façade over the orchestration
// engine and its services (agents, guardrails, tools, conversation stores and
// the text-generation provider). Most applications interact with this package
// by:
//  1. Creating a FlightDesk via New() from a config.Config (optionally
//     overriding the generator, store or logger)
//  2. Serving turns over HTTP via Handler(), or calling HandleTurn directly
//
// The façade delegates turn processing to engine.Engine while keeping setup
// ergonomics concise. Defaults are safe for local development; production
// deployments typically supply a redis store and a structured logger.
package flightdesk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/flightdeskhq/flightdesk/agent"
	"github.com/flightdeskhq/flightdesk/config"
	"github.com/flightdeskhq/flightdesk/core"
	"github.com/flightdeskhq/flightdesk/engine"
	"github.com/flightdeskhq/flightdesk/logging"
	"github.com/flightdeskhq/flightdesk/model"
	anthropicmodel "github.com/flightdeskhq/flightdesk/model/anthropic"
	"github.com/flightdeskhq/flightdesk/model/openrouter"
	"github.com/flightdeskhq/flightdesk/server"
	"github.com/flightdeskhq/flightdesk/session"
	redisstore "github.com/flightdeskhq/flightdesk/session/redis"
)

// Options configure a FlightDesk instance. Any unset dependency is built from
// the Config.
type Options struct {
	// Generator overrides the provider selected by Config.Model.
	Generator model.Generator

	// Store overrides the backend selected by Config.Store.
	Store core.ConversationStore

	// Logger overrides the logger built from Config.Log.
	Logger logging.Logger
}

// FlightDesk is the high-level façade aggregating the engine and its services.
type FlightDesk struct {
	cfg    *config.Config
	engine *engine.Engine
	logger logging.Logger
	store  core.ConversationStore
}

// New creates a FlightDesk instance from cfg with optional overrides.
func New(cfg *config.Config, optFns ...func(o *Options)) (*FlightDesk, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.New(logging.Config{
			Level:  logging.ParseLevel(cfg.Log.Level),
			Format: cfg.Log.Format,
		})
	}

	generator := opts.Generator
	if generator == nil {
		g, err := newGenerator(cfg.Model)
		if err != nil {
			return nil, err
		}
		generator = g
	}

	store := opts.Store
	if store == nil {
		store = newStore(cfg.Store)
	}

	roster := agent.NewRoster(generator, func(o *agent.Options) {
		o.Logger = logger
	})

	eng := engine.New(roster, func(o *engine.Options) {
		o.Store = store
		o.Logger = logger
	})

	return &FlightDesk{
		cfg:    cfg,
		engine: eng,
		logger: logger,
		store:  store,
	}, nil
}

// HandleTurn processes one conversational turn.
func (f *FlightDesk) HandleTurn(ctx context.Context, req engine.TurnRequest) (*engine.TurnResponse, error) {
	return f.engine.HandleTurn(ctx, req)
}

// Engine returns the underlying orchestration engine.
func (f *FlightDesk) Engine() *engine.Engine { return f.engine }

// Handler returns the HTTP handler serving the turn API, health and metrics.
func (f *FlightDesk) Handler() http.Handler {
	return server.NewHandler(f.engine, func(o *server.Options) {
		o.Logger = f.logger
		o.AllowedOrigins = f.cfg.Server.AllowedOrigins
		o.Metrics = f.engine.Metrics().Registry()
	})
}

// Close releases resources held by the conversation store.
func (f *FlightDesk) Close() error {
	if closer, ok := f.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func newGenerator(cfg config.ModelConfig) (model.Generator, error) {
	switch cfg.Provider {
	case "openrouter":
		return openrouter.New(cfg.APIKey, func(o *openrouter.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			if cfg.BaseURL != "" {
				o.BaseURL = cfg.BaseURL
			}
		})
	case "anthropic":
		return anthropicmodel.New(cfg.APIKey, func(o *anthropicmodel.Options) {
			if cfg.Name != "" {
				o.Model = anthropic.Model(cfg.Name)
			}
		})
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

func newStore(cfg config.StoreConfig) core.ConversationStore {
	if cfg.Backend == "redis" {
		return redisstore.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisstore.WithTTL(cfg.Redis.TTL))
	}
	return session.NewInMemoryStore()
}
