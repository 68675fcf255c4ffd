// Package config loads the service configuration from defaults, an optional
// YAML file and FLIGHTDESK_-prefixed environment variables, in that order of
// precedence (later sources win).
//
// Environment keys map onto config paths with a double underscore as the
// level separator, e.g. FLIGHTDESK_SERVER__ADDR sets server.addr and
// FLIGHTDESK_MODEL__API_KEY sets model.api_key. The plain OPENROUTER_API_KEY
// variable is honored as a fallback for model.api_key.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the environment variables read by Load.
const envPrefix = "FLIGHTDESK_"

// Config holds all configuration for the service.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Model  ModelConfig  `koanf:"model"`
	Store  StoreConfig  `koanf:"store"`
	Log    LogConfig    `koanf:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `koanf:"addr"`

	// AllowedOrigins are the CORS origins permitted to call the turn API.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// ModelConfig selects and configures the text-generation provider.
type ModelConfig struct {
	// Provider is "openrouter" or "anthropic".
	Provider string `koanf:"provider"`

	// Name is the model identifier; empty means the provider default.
	Name string `koanf:"name"`

	// BaseURL overrides the provider endpoint; empty means the default.
	BaseURL string `koanf:"base_url"`

	// APIKey is the provider credential. Required to serve turns.
	APIKey string `koanf:"api_key"`
}

// StoreConfig selects the conversation store backend.
type StoreConfig struct {
	// Backend is "memory" or "redis".
	Backend string `koanf:"backend"`

	Redis RedisConfig `koanf:"redis"`
}

// RedisConfig configures the redis conversation store.
type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `koanf:"level"`

	// Format is "text" or "json".
	Format string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8000",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Model: ModelConfig{
			Provider: "openrouter",
		},
		Store: StoreConfig{
			Backend: "memory",
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %q: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Model.APIKey == "" {
		cfg.Model.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values no component can act on.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}

	switch c.Model.Provider {
	case "openrouter", "anthropic":
	default:
		return fmt.Errorf("model.provider must be openrouter or anthropic, got %q", c.Model.Provider)
	}

	switch c.Store.Backend {
	case "memory":
	case "redis":
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr must not be empty when store.backend is redis")
		}
	default:
		return fmt.Errorf("store.backend must be memory or redis, got %q", c.Store.Backend)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// envKey maps FLIGHTDESK_SERVER__ADDR to server.addr: strip the prefix,
// lowercase, and treat a double underscore as the level separator so single
// underscores survive inside key names (api_key, allowed_origins).
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}
