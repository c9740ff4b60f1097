package completion

import (
	"context"
	"fmt"
	"log"
	"strings"

	"interviewer/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// OpenRouterClient talks to any OpenAI-compatible chat completions endpoint.
// The default configuration points it at OpenRouter.
type OpenRouterClient struct {
	llm *openai.LLM
}

func NewOpenRouterClient(apiKey, baseURL, model string) (*OpenRouterClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenRouter API key is required")
	}

	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenRouter client: %w", err)
	}

	return &OpenRouterClient{llm: llm}, nil
}

func (c *OpenRouterClient) Complete(ctx context.Context, messages []models.Message, maxTokens int) (string, error) {
	history := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		var msgType schema.ChatMessageType
		switch msg.Role {
		case models.RoleSystem:
			msgType = schema.ChatMessageTypeSystem
		case models.RoleUser:
			msgType = schema.ChatMessageTypeHuman
		default:
			msgType = schema.ChatMessageTypeAI
		}
		history = append(history, llms.TextParts(msgType, msg.Content))
	}

	resp, err := c.llm.GenerateContent(ctx, history,
		llms.WithMaxTokens(maxTokens),
		llms.WithTemperature(0.7))
	if err != nil {
		log.Printf("[ERROR] OpenRouter completion failed: %v", err)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(resp.Choices) == 0 {
		log.Printf("[ERROR] OpenRouter response contained no choices")
		return "", fmt.Errorf("%w: response contained no choices", ErrUpstream)
	}

	content := strings.TrimSpace(resp.Choices[0].Content)
	if content == "" {
		return "", fmt.Errorf("%w: response contained no assistant text", ErrUpstream)
	}

	return content, nil
}
