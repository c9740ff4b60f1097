package interview

import (
	"context"
	"log"
	"strings"

	"interviewer/models"
)

// GetFeedback returns the stored feedback for a completed interview. The
// status check is deliberate: feedback present on a session that is not
// completed is treated as not ready rather than leaked early.
func (s *Service) GetFeedback(ctx context.Context, interviewID string) (string, error) {
	interview, err := s.repo.GetInterviewByID(interviewID)
	if err != nil {
		return "", err
	}

	if interview.Status != models.StatusCompleted || interview.Feedback == "" {
		log.Printf("[INFO] Feedback not yet available for interview %s (status %s)", interviewID, interview.Status)
		return "", ErrFeedbackNotReady
	}

	return interview.Feedback, nil
}

// synthesizeFeedback builds the final-assessment prompt from condensed
// resume/JD summaries and the full transcript. It always returns a string; a
// failed or empty completion degrades to a fixed fallback so completing a
// session never fails on feedback generation.
func (s *Service) synthesizeFeedback(ctx context.Context, resumeText, jobDescriptionText string, transcript []models.Turn) string {
	resumeSummary := s.condenseText(ctx, resumeText,
		"candidate experience evaluation for final interview feedback", condenseTargetTokens)
	jdSummary := s.condenseText(ctx, jobDescriptionText,
		"job requirements analysis for final interview feedback", condenseTargetTokens)

	raw, err := s.completer.Complete(ctx,
		feedbackMessages(resumeSummary, jdSummary, transcript), feedbackCompletionTokens)
	if err != nil || strings.TrimSpace(raw) == "" {
		log.Printf("[ERROR] Feedback generation failed, using fallback: %v", err)
		return feedbackFallbackMessage
	}

	return sanitizeText(strings.TrimSpace(raw))
}
