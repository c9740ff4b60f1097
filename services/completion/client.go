// Package completion provides the language-model backend used by the interview
// service. A Client takes a role-tagged message list and returns the assistant
// text; every failure is wrapped in ErrUpstream so callers can recover with a
// fallback string instead of failing the whole request.
package completion

import (
	"context"
	"errors"
	"fmt"

	"interviewer/config"
	"interviewer/models"
)

// ErrUpstream marks backend failures: transport or auth errors, non-2xx
// responses, or responses without a usable assistant message.
var ErrUpstream = errors.New("completion backend failure")

type Client interface {
	Complete(ctx context.Context, messages []models.Message, maxTokens int) (string, error)
}

// NewClient builds the backend selected by the configuration. MockAICalls
// overrides the provider so the rest of the app can run offline.
func NewClient(cfg *config.Config) (Client, error) {
	if cfg.MockAICalls {
		return NewMockClient(), nil
	}

	switch cfg.AIProvider {
	case "openrouter":
		return NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.OpenRouterModel)
	case "anthropic":
		return NewAnthropicClient(cfg.AnthropicAPIKey)
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %q", cfg.AIProvider)
	}
}
