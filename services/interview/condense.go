package interview

import (
	"context"
	"fmt"
	"log"
	"strings"

	"interviewer/models"
)

const condensePromptTemplate = `Please summarize the following text. The summary will be used for %s. Condense it significantly while retaining all key information, names, skills, and dates relevant to that purpose. Aim for a summary that is around %d tokens or less if possible, but prioritize completeness of key information over strict token count if necessary.

Text to summarize:
---
%s
---
Summary:`

// condenseText reduces long input to a bounded-length summary suitable for
// prompt inclusion. Short input passes through untouched, and a failed
// summarization call degrades to plain truncation: condensation must never
// block the pipeline.
func (s *Service) condenseText(ctx context.Context, text, purpose string, targetTokens int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	if len(text) < targetTokens*charsPerToken*3/2 {
		return text
	}

	log.Printf("[INFO] Condensing text for: %s (length %d)", purpose, len(text))

	prompt := fmt.Sprintf(condensePromptTemplate, purpose, targetTokens, text)
	messages := []models.Message{{Role: models.RoleUser, Content: prompt}}

	summary, err := s.completer.Complete(ctx, messages, targetTokens+200)
	if err != nil || strings.TrimSpace(summary) == "" {
		log.Printf("[ERROR] Condensation failed for %s, falling back to truncation: %v", purpose, err)
		return truncateText(text, targetTokens*3)
	}

	log.Printf("[INFO] Condensed text for %s: %d -> %d characters", purpose, len(text), len(summary))
	return strings.TrimSpace(summary)
}

func truncateText(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
