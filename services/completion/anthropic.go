package completion

import (
	"context"
	"fmt"
	"log"
	"strings"

	"interviewer/models"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient is the alternate completion backend, using the Messages API.
type AnthropicClient struct {
	client *anthropic.Client
}

func NewAnthropicClient(apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{client: &client}, nil
}

func (c *AnthropicClient) Complete(ctx context.Context, messages []models.Message, maxTokens int) (string, error) {
	var system []anthropic.TextBlockParam
	var anthropicMessages []anthropic.MessageParam

	// The Messages API takes system text as a separate parameter rather than
	// as a message in the conversation.
	for _, msg := range messages {
		switch msg.Role {
		case models.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case models.RoleAssistant:
			anthropicMessages = append(anthropicMessages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	response, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.ModelClaude4Sonnet20250514,
		MaxTokens: int64(maxTokens),
		System:    system,
		Messages:  anthropicMessages,
	})
	if err != nil {
		log.Printf("[ERROR] Anthropic completion failed: %v", err)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var content strings.Builder
	for _, block := range response.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			content.WriteString(textBlock.Text)
		}
	}

	text := strings.TrimSpace(content.String())
	if text == "" {
		log.Printf("[ERROR] Anthropic response contained no text blocks")
		return "", fmt.Errorf("%w: response contained no assistant text", ErrUpstream)
	}

	return text, nil
}
