package interview

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"interviewer/models"
)

type AnswerResult struct {
	NextQuestion string
	ShouldEnd    bool
}

// SubmitAnswer advances the conversation one turn: it appends the candidate's
// answer, replays the full transcript to the model, and interprets the reply.
// A reply beginning with EndMarker completes the interview, synthesizing
// feedback before the final persisted write. Feedback text is never part of
// the result; it is read through GetFeedback only.
//
// callerID is accepted but not yet enforced: it is the seam where an
// authorization layer can check session ownership without changing this
// contract.
func (s *Service) SubmitAnswer(ctx context.Context, callerID, interviewID, userAnswer string) (*AnswerResult, error) {
	if strings.TrimSpace(userAnswer) == "" {
		return nil, fmt.Errorf("%w: user answer is required", ErrInvalidInput)
	}

	interview, err := s.repo.GetInterviewByID(interviewID)
	if err != nil {
		return nil, err
	}

	if interview.Status == models.StatusCompleted {
		return nil, ErrAlreadyCompleted
	}

	log.Printf("[INFO] Processing answer for interview %s from caller %q (%d turns so far)",
		interviewID, callerID, len(interview.Transcript))

	transcript := make([]models.Turn, len(interview.Transcript))
	copy(transcript, interview.Transcript)
	transcript = append(transcript, models.Turn{
		Sender:    models.SenderUser,
		Text:      sanitizeText(userAnswer),
		Timestamp: time.Now().UTC(),
	})

	visibleMessage := ""
	shouldEnd := false

	raw, err := s.completer.Complete(ctx, followUpMessages(transcript), defaultCompletionTokens)
	if err != nil {
		log.Printf("[ERROR] Follow-up generation failed for interview %s, using fallback: %v", interviewID, err)
		visibleMessage = followUpFallbackMessage
	} else {
		reply := parseReply(raw)
		switch reply.Kind {
		case replyTermination:
			log.Printf("[INFO] Termination marker found in reply for interview %s", interviewID)
			shouldEnd = true
			visibleMessage = reply.Text
			if visibleMessage == "" {
				visibleMessage = defaultClosingMessage
			}
		default:
			visibleMessage = reply.Text
			if visibleMessage == "" {
				visibleMessage = followUpFallbackMessage
			}
		}
	}
	visibleMessage = sanitizeText(visibleMessage)

	transcript = append(transcript, models.Turn{
		Sender:    models.SenderAI,
		Text:      visibleMessage,
		Timestamp: time.Now().UTC(),
	})

	update := &models.InterviewUpdate{
		Transcript: transcript,
		Status:     models.StatusInProgress,
	}

	if shouldEnd {
		update.Status = models.StatusCompleted
		update.Feedback = s.synthesizeFeedback(ctx, interview.ResumeText, interview.JobDescriptionText, transcript)
	}

	if err := s.repo.UpdateInterview(interviewID, update); err != nil {
		log.Printf("[ERROR] Failed to persist interview %s: %v", interviewID, err)
		return nil, fmt.Errorf("failed to update interview session: %w", err)
	}

	log.Printf("[INFO] Interview %s advanced to %d turns (shouldEnd=%v)", interviewID, len(transcript), shouldEnd)
	return &AnswerResult{
		NextQuestion: visibleMessage,
		ShouldEnd:    shouldEnd,
	}, nil
}
