package completion

import (
	"context"
	"log"
	"strings"

	"interviewer/models"
)

// MockClient returns canned replies keyed off the request shape, so the full
// interview flow can be exercised without a real backend.
type MockClient struct{}

func NewMockClient() *MockClient {
	log.Printf("[INFO] AI calls are mocked, using placeholder responses")
	return &MockClient{}
}

func (c *MockClient) Complete(ctx context.Context, messages []models.Message, maxTokens int) (string, error) {
	if len(messages) == 0 {
		return "(Mock AI) Tell me about yourself.", nil
	}

	first := messages[0].Content
	switch {
	case strings.Contains(first, "summarize the following text"):
		// Stand in for condensation with a truncated echo of the input.
		return "(Mock Summary) " + truncate(first, 400), nil
	case strings.Contains(first, "opening interview question"):
		return "(Mock AI) Tell me about your experience with a relevant skill from the JD?", nil
	case strings.Contains(first, "comprehensive feedback"):
		return "(Mock AI) Overall, a good interview. Consider elaborating more on your project experiences next time.", nil
	default:
		return "(Mock AI) That's interesting. Can you give an example?", nil
	}
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
