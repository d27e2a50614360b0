package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ykrishnateja01/job-portal/internal/api/domain"
	"github.com/ykrishnateja01/job-portal/internal/api/model"
	"github.com/ykrishnateja01/job-portal/shared/postgresql"
)

type JobStorage struct {
	db *sqlx.DB
}

func NewJobStorage(pg *postgresql.Client) *JobStorage {
	return &JobStorage{
		db: pg.GetDB(),
	}
}

func (s *JobStorage) CreateJob(ctx context.Context, job *model.Job) error {
	query := `
		INSERT INTO jobs (
			job_id, title, description, company, location,
			job_type, remote, salary_min, salary_max, salary_currency,
			employer_id, status, featured, views, is_paid,
			payment_hash, chain, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15,
			$16, $17, $18, $19
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		job.JobID,
		job.Title,
		job.Description,
		job.Company,
		job.Location,
		job.JobType,
		job.Remote,
		job.SalaryMin,
		job.SalaryMax,
		job.SalaryCurrency,
		job.EmployerID,
		job.Status,
		job.Featured,
		job.Views,
		job.IsPaid,
		job.PaymentHash,
		job.Chain,
		job.CreatedAt,
		job.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

func (s *JobStorage) GetJobByID(ctx context.Context, jobID string) (*model.Job, error) {
	var job model.Job
	query := `
		SELECT
			job_id, title, description, company, location,
			job_type, remote, salary_min, salary_max, salary_currency,
			employer_id, status, featured, views, is_paid,
			payment_hash, chain, created_at, updated_at
		FROM jobs
		WHERE job_id = $1
	`

	err := s.db.GetContext(ctx, &job, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// IncrementViews bumps the view counter without touching updated_at, so
// passive reads never reorder cursor pagination.
func (s *JobStorage) IncrementViews(ctx context.Context, jobID string) error {
	query := `UPDATE jobs SET views = views + 1 WHERE job_id = $1`

	if _, err := s.db.ExecContext(ctx, query, jobID); err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}

	return nil
}

func (s *JobStorage) CloseJob(ctx context.Context, jobID, employerID string) error {
	query := `
		UPDATE jobs
		SET status = $1, updated_at = NOW()
		WHERE job_id = $2 AND employer_id = $3
	`

	res, err := s.db.ExecContext(ctx, query, domain.JobStatusClosed, jobID, employerID)
	if err != nil {
		return fmt.Errorf("failed to close job: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish "no such job" from "not yours".
		if _, err := s.GetJobByID(ctx, jobID); err != nil {
			return err
		}
		return domain.ErrNotJobOwner
	}

	return nil
}

type JobFilter struct {
	Search   string
	Location string
	JobType  string
	Remote   *bool
	Status   string
	PageSize int
	Cursor   *JobCursor
}

type JobCursor struct {
	CreatedAt time.Time
	JobID     string
}

func (s *JobStorage) ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, error) {
	query, args := listJobsQuery(filter)

	var jobs []model.Job
	err := s.db.SelectContext(ctx, &jobs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

// listJobsQuery builds the filtered listing query. Separated from ListJobs so
// the clause assembly is testable without a database.
func listJobsQuery(filter JobFilter) (string, []interface{}) {
	query := `
        SELECT
            job_id, title, description, company, location,
            job_type, remote, salary_min, salary_max, salary_currency,
            employer_id, status, featured, views, is_paid,
            payment_hash, chain, created_at, updated_at
        FROM jobs
        WHERE 1=1
    `
	args := []interface{}{}
	argIdx := 1

	// Filters
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d OR company ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	if filter.Location != "" {
		query += fmt.Sprintf(" AND location = $%d", argIdx)
		args = append(args, filter.Location)
		argIdx++
	}

	if filter.JobType != "" {
		query += fmt.Sprintf(" AND job_type = $%d", argIdx)
		args = append(args, filter.JobType)
		argIdx++
	}

	if filter.Remote != nil {
		query += fmt.Sprintf(" AND remote = $%d", argIdx)
		args = append(args, *filter.Remote)
		argIdx++
	}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, job_id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.JobID)
		argIdx += 2
	}

	// Order by created_at DESC, job_id DESC for consistent pagination
	query += " ORDER BY created_at DESC, job_id DESC"

	// Fetch one extra to determine if there are more results
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	return query, args
}
