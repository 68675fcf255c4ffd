// Package openrouter implements model.Generator against the OpenRouter chat
// completions API using the OpenAI SDK with a swapped base URL (OpenRouter is
// wire-compatible with the OpenAI Chat Completions endpoint).
package openrouter

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/flightdeskhq/flightdesk/core"
	"github.com/flightdeskhq/flightdesk/model"
)

const (
	// DefaultBaseURL is the OpenRouter OpenAI-compatible endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultModel is the generation model used when none is configured.
	DefaultModel = "deepseek/deepseek-chat-v3-0324:free"
)

// Options configure the OpenRouter generator. Fields mirror a minimal subset
// of chat completion parameters; extend via functional options.
type Options struct {
	Model       string
	BaseURL     string
	Temperature float64
}

// Generator wraps the chat completions API behind model.Generator.
type Generator struct {
	client openai.Client
	opts   Options
}

// New creates a Generator. The API key is required: a missing credential is a
// configuration failure surfaced at construction, before any call is made.
func New(apiKey string, optFns ...func(o *Options)) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter: api key is not set")
	}

	opts := Options{
		Model:       DefaultModel,
		BaseURL:     DefaultBaseURL,
		Temperature: 0.7,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	// A failed call is surfaced to the turn as-is; the SDK's default
	// retrying is disabled to keep that contract.
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(opts.BaseURL),
		option.WithMaxRetries(0),
	)

	return &Generator{client: client, opts: opts}, nil
}

// Generate implements model.Generator. Transport failures and malformed
// response bodies are surfaced as a single wrapped error; there is no retry.
func (g *Generator) Generate(ctx context.Context, messages []core.Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       g.opts.Model,
		Messages:    buildMessages(messages),
		Temperature: openai.Float(g.opts.Temperature),
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openrouter api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openrouter: no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// buildMessages converts role-tagged messages into SDK message params.
// Unknown roles degrade to user messages.
func buildMessages(messages []core.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case core.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case core.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// Info returns metadata describing this generator.
func (g *Generator) Info() model.Info {
	return model.Info{Name: g.opts.Model, Provider: "openrouter"}
}
