package interview

import (
	"context"
	"fmt"
	"log"

	"interviewer/models"
)

// EndInterview completes a session regardless of whether the model signalled
// termination. It is idempotent: a session that already holds feedback is left
// untouched and no model call is made, so feedback is synthesized at most once
// per session.
//
// callerID is accepted but not yet enforced; see SubmitAnswer.
func (s *Service) EndInterview(ctx context.Context, callerID, interviewID string) error {
	interview, err := s.repo.GetInterviewByID(interviewID)
	if err != nil {
		return err
	}

	if interview.Status == models.StatusCompleted && interview.Feedback != "" {
		log.Printf("[INFO] Interview %s already completed, keeping existing feedback", interviewID)
		return nil
	}

	log.Printf("[INFO] Ending interview %s for caller %q, generating feedback", interviewID, callerID)
	feedback := s.synthesizeFeedback(ctx, interview.ResumeText, interview.JobDescriptionText, interview.Transcript)

	update := &models.InterviewUpdate{
		Transcript: interview.Transcript,
		Status:     models.StatusCompleted,
		Feedback:   feedback,
	}

	if err := s.repo.UpdateInterview(interviewID, update); err != nil {
		log.Printf("[ERROR] Failed to persist completion of interview %s: %v", interviewID, err)
		return fmt.Errorf("failed to update interview session: %w", err)
	}

	log.Printf("[INFO] Interview %s completed", interviewID)
	return nil
}
