package interview

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"interviewer/models"
)

type StartResult struct {
	InterviewID   string
	FirstQuestion string
}

// StartInterview creates a new session: condenses the resume and job
// description, asks the model for an opening question, and persists the
// session with the opening AI turn. A failed model call substitutes a fixed
// fallback question rather than failing the whole request.
func (s *Service) StartInterview(ctx context.Context, userID, resumeText, jobDescriptionText string) (*StartResult, error) {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescriptionText) == "" {
		return nil, fmt.Errorf("%w: resume text and job description text are required", ErrInvalidInput)
	}

	resumeText = sanitizeText(resumeText)
	jobDescriptionText = sanitizeText(jobDescriptionText)

	if userID == "" {
		userID = placeholderUserID
	}

	log.Printf("[INFO] Starting interview for user %s (resume %d chars, JD %d chars)",
		userID, len(resumeText), len(jobDescriptionText))

	resumeSummary := s.condenseText(ctx, resumeText, "candidate experience evaluation for an interview", condenseTargetTokens)
	jdSummary := s.condenseText(ctx, jobDescriptionText, "job requirements analysis for an interview", condenseTargetTokens)

	firstQuestion, err := s.completer.Complete(ctx,
		openingQuestionMessages(resumeSummary, jdSummary), defaultCompletionTokens)
	if err != nil || strings.TrimSpace(firstQuestion) == "" {
		log.Printf("[ERROR] Opening question generation failed, using fallback: %v", err)
		firstQuestion = openingFallbackQuestion
	}
	firstQuestion = sanitizeText(strings.TrimSpace(firstQuestion))

	interview := &models.Interview{
		UserID:             userID,
		ResumeText:         resumeText,
		JobDescriptionText: jobDescriptionText,
		Transcript: []models.Turn{
			{Sender: models.SenderAI, Text: firstQuestion, Timestamp: time.Now().UTC()},
		},
		Status: models.StatusStarted,
	}

	if err := s.repo.CreateInterview(interview); err != nil {
		log.Printf("[ERROR] Failed to create interview session: %v", err)
		return nil, fmt.Errorf("failed to create interview session: %w", err)
	}

	log.Printf("[INFO] Started interview %s", interview.ID)
	return &StartResult{
		InterviewID:   interview.ID,
		FirstQuestion: firstQuestion,
	}, nil
}
