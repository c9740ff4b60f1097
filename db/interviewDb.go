package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"interviewer/models"

	_ "github.com/lib/pq"
)

// ErrInterviewNotFound is returned when no interview exists for the given id.
var ErrInterviewNotFound = errors.New("interview not found")

type InterviewRepository interface {
	CreateInterview(interview *models.Interview) error
	GetInterviewByID(id string) (*models.Interview, error)
	UpdateInterview(id string, update *models.InterviewUpdate) error
}

type PostgresInterviewRepository struct {
	db *sql.DB
}

func NewPostgresInterviewRepository(databaseURL string) (*PostgresInterviewRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresInterviewRepository{db: db}, nil
}

func (r *PostgresInterviewRepository) CreateInterview(interview *models.Interview) error {
	transcriptJSON, err := json.Marshal(interview.Transcript)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	query := `
		INSERT INTO interviews (user_id, resume_text, job_description_text, transcript, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	row := r.db.QueryRow(query, interview.UserID, interview.ResumeText,
		interview.JobDescriptionText, transcriptJSON, interview.Status)

	err = row.Scan(&interview.ID, &interview.CreatedAt, &interview.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}

	return nil
}

func (r *PostgresInterviewRepository) GetInterviewByID(id string) (*models.Interview, error) {
	query := `
		SELECT id, user_id, resume_text, job_description_text, transcript, status,
		       COALESCE(feedback, ''), created_at, updated_at
		FROM interviews
		WHERE id = $1`

	interview := &models.Interview{}
	var transcriptJSON []byte
	row := r.db.QueryRow(query, id)

	err := row.Scan(&interview.ID, &interview.UserID, &interview.ResumeText,
		&interview.JobDescriptionText, &transcriptJSON, &interview.Status,
		&interview.Feedback, &interview.CreatedAt, &interview.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInterviewNotFound
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}

	if err := json.Unmarshal(transcriptJSON, &interview.Transcript); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}

	return interview, nil
}

// UpdateInterview replaces transcript, status and (when set) feedback in a
// single statement, so the stored session is never half-written.
func (r *PostgresInterviewRepository) UpdateInterview(id string, update *models.InterviewUpdate) error {
	transcriptJSON, err := json.Marshal(update.Transcript)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	query := `
		UPDATE interviews
		SET transcript = $1,
		    status = $2,
		    feedback = CASE WHEN $3 <> '' THEN $3 ELSE feedback END,
		    updated_at = NOW()
		WHERE id = $4`

	result, err := r.db.Exec(query, transcriptJSON, update.Status, update.Feedback, id)
	if err != nil {
		return fmt.Errorf("failed to update interview: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrInterviewNotFound
	}

	return nil
}

func (r *PostgresInterviewRepository) Close() error {
	return r.db.Close()
}
