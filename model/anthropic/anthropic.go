// Package anthropic implements model.Generator against the Anthropic
// Messages API for deployments that point the orchestrator at Claude instead
// of an OpenAI-compatible endpoint.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/flightdeskhq/flightdesk/core"
	"github.com/flightdeskhq/flightdesk/model"
)

// Options configure the Anthropic generator.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
}

// Generator wraps the Anthropic Messages API behind model.Generator.
type Generator struct {
	client anthropic.Client
	opts   Options
}

// New creates a Generator. The API key is required and checked up front so a
// missing credential fails at construction rather than on the first turn.
func New(apiKey string, optFns ...func(o *Options)) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: api key is not set")
	}

	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Generator{client: client, opts: opts}, nil
}

// Generate implements model.Generator. System messages are lifted into the
// request system prompt; the rest become alternating user/assistant turns.
func (g *Generator) Generate(ctx context.Context, messages []core.Message) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       g.opts.Model,
		Messages:    buildMessages(messages),
		MaxTokens:   g.opts.MaxTokens,
		Temperature: anthropic.Float(g.opts.Temperature),
	}
	if system := extractSystem(messages); len(system) > 0 {
		params.System = system
	}

	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("anthropic: empty response content")
	}
	return text.String(), nil
}

func extractSystem(messages []core.Message) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	for _, m := range messages {
		if m.Role == core.RoleSystem {
			blocks = append(blocks, anthropic.TextBlockParam{Text: m.Content})
		}
	}
	return blocks
}

func buildMessages(messages []core.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case core.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		case core.RoleSystem:
			// handled by extractSystem
		default:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return out
}

// Info returns metadata describing this generator.
func (g *Generator) Info() model.Info {
	return model.Info{Name: string(g.opts.Model), Provider: "anthropic"}
}
