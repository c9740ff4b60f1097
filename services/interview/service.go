// Package interview implements the interview conversation orchestrator: it
// owns the session lifecycle, builds prompts from the stored transcript,
// interprets model replies (including the termination marker), and triggers
// feedback synthesis exactly once per session.
package interview

import (
	"errors"
	"strings"

	"interviewer/db"
	"interviewer/services/completion"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrAlreadyCompleted = errors.New("interview already completed")
	ErrFeedbackNotReady = errors.New("feedback not yet available")
)

const (
	// Rough chars-per-token heuristic, standing in for real token counting.
	charsPerToken = 4

	condenseTargetTokens     = 700
	defaultCompletionTokens  = 100
	feedbackCompletionTokens = 500

	openingFallbackQuestion = "Tell me about yourself. (AI question generation failed)"
	followUpFallbackMessage = "Can you elaborate on that? (AI question generation failed)"
	defaultClosingMessage   = "Thank you for the interview. We will get back to you after evaluation."
	feedbackFallbackMessage = "Thank you for your time. (AI feedback generation failed)"

	// Recorded with sessions created without a caller identity. Real
	// authentication is a seam left to an outer layer.
	placeholderUserID = "service-generated-interview-id"
)

type Service struct {
	repo      db.InterviewRepository
	completer completion.Client
}

func NewService(repo db.InterviewRepository, completer completion.Client) *Service {
	return &Service{
		repo:      repo,
		completer: completer,
	}
}

// sanitizeText strips embedded NUL characters, which Postgres text columns
// reject and which show up in text extracted from binary documents.
func sanitizeText(text string) string {
	return strings.ReplaceAll(text, "\x00", "")
}
