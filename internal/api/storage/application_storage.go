package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ykrishnateja01/job-portal/internal/api/domain"
	"github.com/ykrishnateja01/job-portal/internal/api/model"
	"github.com/ykrishnateja01/job-portal/shared/postgresql"
)

type ApplicationStorage struct {
	db *sqlx.DB
}

func NewApplicationStorage(pg *postgresql.Client) *ApplicationStorage {
	return &ApplicationStorage{
		db: pg.GetDB(),
	}
}

// CreateApplication inserts the application. The unique constraint on
// (job_id, applicant_id) rejects a second application for the same job even
// when two submissions race.
func (s *ApplicationStorage) CreateApplication(ctx context.Context, app *model.Application) error {
	query := `
		INSERT INTO applications (
			application_id, job_id, applicant_id, cover_letter,
			resume_url, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		app.ApplicationID,
		app.JobID,
		app.ApplicantID,
		app.CoverLetter,
		app.ResumeURL,
		app.Status,
		app.CreatedAt,
		app.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyApplied
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// ListByApplicant returns the caller's applications joined with the listing
// they target, newest first.
func (s *ApplicationStorage) ListByApplicant(ctx context.Context, applicantID string) ([]model.ApplicationWithJob, error) {
	query := `
		SELECT
			a.application_id, a.job_id, a.applicant_id, a.cover_letter,
			a.resume_url, a.status, a.created_at, a.updated_at,
			j.title AS job_title, j.company AS job_company, j.status AS job_status
		FROM applications a
		JOIN jobs j ON j.job_id = a.job_id
		WHERE a.applicant_id = $1
		ORDER BY a.created_at DESC
	`

	var apps []model.ApplicationWithJob
	if err := s.db.SelectContext(ctx, &apps, query, applicantID); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	return apps, nil
}

// ListByJob returns every application for one listing joined with the
// applicant's profile, newest first. Ownership is the handler's concern.
func (s *ApplicationStorage) ListByJob(ctx context.Context, jobID string) ([]model.ApplicationWithApplicant, error) {
	query := `
		SELECT
			a.application_id, a.job_id, a.applicant_id, a.cover_letter,
			a.resume_url, a.status, a.created_at, a.updated_at,
			u.name AS applicant_name, u.email AS applicant_email
		FROM applications a
		JOIN users u ON u.user_id = a.applicant_id
		WHERE a.job_id = $1
		ORDER BY a.created_at DESC
	`

	var apps []model.ApplicationWithApplicant
	if err := s.db.SelectContext(ctx, &apps, query, jobID); err != nil {
		return nil, fmt.Errorf("failed to list job applications: %w", err)
	}

	return apps, nil
}
