package models

import "time"

const (
	StatusStarted    = "started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

const (
	SenderAI   = "ai"
	SenderUser = "user"
)

// Turn is a single message in the interview transcript, tagged by sender.
type Turn struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Interview is one interview session. ResumeText and JobDescriptionText are
// immutable after creation; the transcript is append-only.
type Interview struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	ResumeText         string    `json:"resume_text"`
	JobDescriptionText string    `json:"job_description_text"`
	Transcript         []Turn    `json:"transcript"`
	Status             string    `json:"status"`
	Feedback           string    `json:"feedback,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// InterviewUpdate carries the fields rewritten together on every orchestrator
// write. Transcript and Status are always replaced whole; Feedback is written
// only when set.
type InterviewUpdate struct {
	Transcript []Turn
	Status     string
	Feedback   string
}
