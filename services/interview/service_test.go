package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"interviewer/db"
	"interviewer/models"
	"interviewer/services/completion"
)

type stubCall struct {
	messages  []models.Message
	maxTokens int
}

// stubCompleter replays scripted replies and records every request so tests
// can count and inspect model calls.
type stubCompleter struct {
	replies []string
	err     error
	calls   []stubCall
}

func (s *stubCompleter) Complete(_ context.Context, messages []models.Message, maxTokens int) (string, error) {
	s.calls = append(s.calls, stubCall{messages: messages, maxTokens: maxTokens})
	if s.err != nil {
		return "", s.err
	}
	if len(s.calls) <= len(s.replies) {
		return s.replies[len(s.calls)-1], nil
	}
	return "Next question?", nil
}

func (s *stubCompleter) feedbackCalls() int {
	count := 0
	for _, call := range s.calls {
		if len(call.messages) > 0 && strings.Contains(call.messages[0].Content, "comprehensive feedback") {
			count++
		}
	}
	return count
}

type fakeRepo struct {
	interviews  map[string]*models.Interview
	createCalls int
	nextID      int
	createErr   error
	updateErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{interviews: make(map[string]*models.Interview)}
}

func (f *fakeRepo) CreateInterview(interview *models.Interview) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	interview.ID = fmt.Sprintf("interview-%d", f.nextID)
	interview.CreatedAt = time.Now().UTC()
	interview.UpdatedAt = interview.CreatedAt
	f.interviews[interview.ID] = copyInterview(interview)
	return nil
}

func (f *fakeRepo) GetInterviewByID(id string) (*models.Interview, error) {
	interview, ok := f.interviews[id]
	if !ok {
		return nil, db.ErrInterviewNotFound
	}
	return copyInterview(interview), nil
}

func (f *fakeRepo) UpdateInterview(id string, update *models.InterviewUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	interview, ok := f.interviews[id]
	if !ok {
		return db.ErrInterviewNotFound
	}
	interview.Transcript = append([]models.Turn(nil), update.Transcript...)
	interview.Status = update.Status
	if update.Feedback != "" {
		interview.Feedback = update.Feedback
	}
	interview.UpdatedAt = time.Now().UTC()
	return nil
}

func copyInterview(interview *models.Interview) *models.Interview {
	cp := *interview
	cp.Transcript = append([]models.Turn(nil), interview.Transcript...)
	return &cp
}

// checkFeedbackInvariant asserts that feedback is present iff the session is
// completed.
func checkFeedbackInvariant(t *testing.T, repo *fakeRepo) {
	t.Helper()
	for id, interview := range repo.interviews {
		if (interview.Feedback != "") != (interview.Status == models.StatusCompleted) {
			t.Errorf("invariant violated for %s: status=%s feedback present=%v",
				id, interview.Status, interview.Feedback != "")
		}
	}
}

func startTestInterview(t *testing.T, repo *fakeRepo, completer *stubCompleter) string {
	t.Helper()
	service := NewService(repo, completer)
	result, err := service.StartInterview(context.Background(), "", "Go developer, 5 years experience", "Backend engineer role, Go required")
	if err != nil {
		t.Fatalf("unexpected error starting interview: %v", err)
	}
	return result.InterviewID
}

func TestStartInterviewValidation(t *testing.T) {
	tests := []struct {
		name       string
		resumeText string
		jdText     string
	}{
		{name: "empty resume", resumeText: "", jdText: "JD text"},
		{name: "empty job description", resumeText: "Resume text", jdText: ""},
		{name: "whitespace only resume", resumeText: "   ", jdText: "JD text"},
		{name: "both empty", resumeText: "", jdText: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			service := NewService(repo, &stubCompleter{})

			_, err := service.StartInterview(context.Background(), "", tt.resumeText, tt.jdText)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if repo.createCalls != 0 {
				t.Fatalf("expected no session created, create was called %d times", repo.createCalls)
			}
		})
	}
}

func TestStartInterview(t *testing.T) {
	repo := newFakeRepo()
	completer := &stubCompleter{replies: []string{"What drew you to backend work?"}}
	service := NewService(repo, completer)

	result, err := service.StartInterview(context.Background(), "user-42", "Resume \x00text", "JD \x00text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FirstQuestion != "What drew you to backend work?" {
		t.Fatalf("unexpected first question: %q", result.FirstQuestion)
	}

	stored := repo.interviews[result.InterviewID]
	if stored == nil {
		t.Fatal("expected interview to be persisted")
	}
	if stored.Status != models.StatusStarted {
		t.Fatalf("expected status %q, got %q", models.StatusStarted, stored.Status)
	}
	if stored.UserID != "user-42" {
		t.Fatalf("expected user ID to be carried, got %q", stored.UserID)
	}
	if strings.Contains(stored.ResumeText, "\x00") || strings.Contains(stored.JobDescriptionText, "\x00") {
		t.Fatal("expected NUL bytes to be stripped from stored texts")
	}
	if len(stored.Transcript) != 1 || stored.Transcript[0].Sender != models.SenderAI {
		t.Fatalf("expected transcript to hold one AI turn, got %+v", stored.Transcript)
	}
	checkFeedbackInvariant(t, repo)
}

func TestStartInterviewUpstreamFallback(t *testing.T) {
	repo := newFakeRepo()
	completer := &stubCompleter{err: completion.ErrUpstream}
	service := NewService(repo, completer)

	result, err := service.StartInterview(context.Background(), "", "Resume text", "JD text")
	if err != nil {
		t.Fatalf("expected fallback question, got error: %v", err)
	}
	if result.FirstQuestion != openingFallbackQuestion {
		t.Fatalf("expected fallback question, got %q", result.FirstQuestion)
	}
	if repo.interviews[result.InterviewID] == nil {
		t.Fatal("expected session to be created despite upstream failure")
	}
}

func TestStartInterviewStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("connection reset")
	service := NewService(repo, &stubCompleter{replies: []string{"Opening question?"}})

	if _, err := service.StartInterview(context.Background(), "", "Resume text", "JD text"); err == nil {
		t.Fatal("expected store failure to surface")
	}
	if len(repo.interviews) != 0 {
		t.Fatalf("expected nothing persisted, got %d sessions", len(repo.interviews))
	}
}

func TestSubmitAnswerContinues(t *testing.T) {
	repo := newFakeRepo()
	completer := &stubCompleter{replies: []string{"Opening question?", "Tell me more about that project."}}
	id := startTestInterview(t, repo, completer)
	service := NewService(repo, completer)

	result, err := service.SubmitAnswer(context.Background(), "", id, "I built a payments service in Go.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ShouldEnd {
		t.Fatal("expected interview to continue")
	}
	if result.NextQuestion != "Tell me more about that project." {
		t.Fatalf("unexpected next question: %q", result.NextQuestion)
	}

	stored := repo.interviews[id]
	if stored.Status != models.StatusInProgress {
		t.Fatalf("expected status %q, got %q", models.StatusInProgress, stored.Status)
	}
	if len(stored.Transcript) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(stored.Transcript))
	}
	if stored.Transcript[1].Sender != models.SenderUser || stored.Transcript[2].Sender != models.SenderAI {
		t.Fatalf("expected alternating user/ai turns, got %+v", stored.Transcript)
	}
	if completer.feedbackCalls() != 0 {
		t.Fatalf("expected no feedback synthesis, got %d calls", completer.feedbackCalls())
	}
	checkFeedbackInvariant(t, repo)
}

func TestSubmitAnswerFollowUpReplaysTranscript(t *testing.T) {
	repo := newFakeRepo()
	completer := &stubCompleter{replies: []string{"Opening question?"}}
	id := startTestInterview(t, repo, completer)
	service := NewService(repo, completer)

	if _, err := service.SubmitAnswer(context.Background(), "", id, "My answer."); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	followUp := completer.calls[len(completer.calls)-1]
	if followUp.messages[0].Role != models.RoleSystem {
		t.Fatalf("expected system instruction first, got role %q", followUp.messages[0].Role)
	}
	// System instruction + opening AI turn + user answer.
	if len(followUp.messages) != 3 {
		t.Fatalf("expected full transcript replay of 3 messages, got %d", len(followUp.messages))
	}
	if followUp.messages[1].Role != models.RoleAssistant || followUp.messages[2].Role != models.RoleUser {
		t.Fatalf("unexpected role mapping: %+v", followUp.messages)
	}
}

func TestSubmitAnswerTermination(t *testing.T) {
	repo := newFakeRepo()
	completer := &stubCompleter{replies: []string{
		"Opening question?",
		"[END_INTERVIEW] Thanks for your time.",
		"Strong candidate, good communication.",
	}}
	id := startTestInterview(t, repo, completer)
	service := NewService(repo, completer)

	result, err := service.SubmitAnswer(context.Background(), "", id, "That covers everything I have.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.ShouldEnd {
		t.Fatal("expected shouldEnd to be true")
	}
	if result.NextQuestion != "Thanks for your time." {
		t.Fatalf("expected marker to be stripped, got %q", result.NextQuestion)
	}

	stored := repo.interviews[id]
	if stored.Status != models.StatusCompleted {
		t.Fatalf("expected status %q, got %q", models.StatusCompleted, stored.Status)
	}
	if stored.Feedback != "Strong candidate, good communication." {
		t.Fatalf("unexpected feedback: %q", stored.Feedback)
	}
	if completer.feedbackCalls() != 1 {
		t.Fatalf("expected exactly one feedback synthesis call, got %d", completer.feedbackCalls())
	}

	// The synthesis prompt must include the just-added user and AI turns.
	var feedbackCall stubCall
	for _, call := range completer.calls {
		if strings.Contains(call.messages[0].Content, "comprehensive feedback") {
			feedbackCall = call
		}
	}
	last := feedbackCall.messages[len(feedbackCall.messages)-1]
	if last.Role != models.RoleAssistant || last.Content != "Thanks for your time." {
		t.Fatalf("expected closing AI turn in synthesis transcript, got %+v", last)
	}
	checkFeedbackInvariant(t, repo)
}

func TestSubmitAnswerBareMarker(t *testing.T) {
	repo := newFakeRepo()
	completer := &stubCompleter{replies: []string{
		"Opening question?",
		"[END_INTERVIEW]",
		"Feedback text.",
	}}
	id := startTestInterview(t, repo, completer)
	service := NewService(repo, completer)

	result, err := service.SubmitAnswer(context.Background(), "", id, "Done.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.ShouldEnd {
		t.Fatal("expected shouldEnd to be true")
	}
	if result.NextQuestion != defaultClosingMessage {
		t.Fatalf("expected default closing message, got %q", result.NextQuestion)
	}
}

func TestSubmitAnswerMidStringMarkerIsOrdinaryText(t *testing.T) {
	repo := newFakeRepo()
	reply := "I could end with [END_INTERVIEW] but let me ask one more thing."
	completer := &stubCompleter{replies: []string{"Opening question?", reply}}
	id := startTestInterview(t, repo, completer)
	service := NewService(repo, completer)

	result, err := service.SubmitAnswer(context.Background(), "", id, "Sure.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ShouldEnd {
		t.Fatal("mid-string marker must not end the interview")
	}
	if result.NextQuestion != reply {
		t.Fatalf("expected reply to pass through unchanged, got %q", result.NextQuestion)
	}
	if completer.feedbackCalls() != 0 {
		t.Fatalf("expected no feedback synthesis, got %d calls", completer.feedbackCalls())
	}
}

func TestSubmitAnswerUpstreamFallback(t *testing.T) {
	repo := newFakeRepo()
	completer := &stubCompleter{replies: []string{"Opening question?"}}
	id := startTestInterview(t, repo, completer)

	completer.err = fmt.Errorf("%w: connection refused", completion.ErrUpstream)
	service := NewService(repo, completer)

	result, err := service.SubmitAnswer(context.Background(), "", id, "My answer.")
	if err != nil {
		t.Fatalf("upstream failure must not fail the turn: %v", err)
	}
	if result.NextQuestion != followUpFallbackMessage {
		t.Fatalf("expected fallback message, got %q", result.NextQuestion)
	}

	stored := repo.interviews[id]
	if stored.Status != models.StatusInProgress {
		t.Fatalf("expected session to still advance, got status %q", stored.Status)
	}
	if len(stored.Transcript) != 3 {
		t.Fatalf("expected transcript to advance to 3 turns, got %d", len(stored.Transcript))
	}
}

func TestSubmitAnswerErrors(t *testing.T) {
	repo := newFakeRepo()
	completer := &stubCompleter{replies: []string{"Opening question?"}}
	id := startTestInterview(t, repo, completer)
	service := NewService(repo, completer)

	if _, err := service.SubmitAnswer(context.Background(), "", id, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty answer, got %v", err)
	}

	if _, err := service.SubmitAnswer(context.Background(), "", "missing", "answer"); !errors.Is(err, db.ErrInterviewNotFound) {
		t.Fatalf("expected ErrInterviewNotFound, got %v", err)
	}

	repo.interviews[id].Status = models.StatusCompleted
	repo.interviews[id].Feedback = "done"
	if _, err := service.SubmitAnswer(context.Background(), "", id, "answer"); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
}

func TestSubmitAnswerStoreFailureDiscardsTurn(t *testing.T) {
	repo := newFakeRepo()
	completer := &stubCompleter{replies: []string{"Opening question?"}}
	id := startTestInterview(t, repo, completer)

	repo.updateErr = errors.New("connection reset")
	service := NewService(repo, completer)

	if _, err := service.SubmitAnswer(context.Background(), "", id, "My answer."); err == nil {
		t.Fatal("expected store failure to surface")
	}

	stored := repo.interviews[id]
	if len(stored.Transcript) != 1 {
		t.Fatalf("expected stored transcript untouched, got %d turns", len(stored.Transcript))
	}
	if stored.Status != models.StatusStarted {
		t.Fatalf("expected stored status untouched, got %q", stored.Status)
	}
}

func TestEndInterviewIdempotent(t *testing.T) {
	repo := newFakeRepo()
	completer := &stubCompleter{replies: []string{"Opening question?", "Solid performance overall."}}
	id := startTestInterview(t, repo, completer)
	service := NewService(repo, completer)

	if err := service.EndInterview(context.Background(), "", id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completer.feedbackCalls() != 1 {
		t.Fatalf("expected one feedback synthesis call, got %d", completer.feedbackCalls())
	}

	firstFeedback := repo.interviews[id].Feedback

	if err := service.EndInterview(context.Background(), "", id); err != nil {
		t.Fatalf("unexpected error on repeat: %v", err)
	}
	if completer.feedbackCalls() != 1 {
		t.Fatalf("second end must not synthesize again, got %d calls", completer.feedbackCalls())
	}
	if repo.interviews[id].Feedback != firstFeedback {
		t.Fatal("expected feedback to be unchanged on repeated end")
	}
	checkFeedbackInvariant(t, repo)
}

func TestEndInterviewFeedbackFallback(t *testing.T) {
	repo := newFakeRepo()
	completer := &stubCompleter{replies: []string{"Opening question?"}}
	id := startTestInterview(t, repo, completer)

	completer.err = completion.ErrUpstream
	service := NewService(repo, completer)

	if err := service.EndInterview(context.Background(), "", id); err != nil {
		t.Fatalf("feedback failure must not fail the call: %v", err)
	}

	stored := repo.interviews[id]
	if stored.Status != models.StatusCompleted {
		t.Fatalf("expected completed status, got %q", stored.Status)
	}
	if stored.Feedback != feedbackFallbackMessage {
		t.Fatalf("expected fallback feedback, got %q", stored.Feedback)
	}
	checkFeedbackInvariant(t, repo)
}

func TestGetFeedback(t *testing.T) {
	repo := newFakeRepo()
	completer := &stubCompleter{replies: []string{"Opening question?", "Great interview."}}
	id := startTestInterview(t, repo, completer)
	service := NewService(repo, completer)

	if _, err := service.GetFeedback(context.Background(), "missing"); !errors.Is(err, db.ErrInterviewNotFound) {
		t.Fatalf("expected ErrInterviewNotFound, got %v", err)
	}

	if _, err := service.GetFeedback(context.Background(), id); !errors.Is(err, ErrFeedbackNotReady) {
		t.Fatalf("expected ErrFeedbackNotReady before completion, got %v", err)
	}

	// Defensive check: feedback set while status is not completed is still not
	// ready.
	repo.interviews[id].Status = models.StatusInProgress
	repo.interviews[id].Feedback = "leaked early"
	if _, err := service.GetFeedback(context.Background(), id); !errors.Is(err, ErrFeedbackNotReady) {
		t.Fatalf("expected ErrFeedbackNotReady for in-progress session, got %v", err)
	}

	repo.interviews[id].Feedback = ""
	if err := service.EndInterview(context.Background(), "", id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feedback, err := service.GetFeedback(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feedback != "Great interview." {
		t.Fatalf("unexpected feedback: %q", feedback)
	}
}
