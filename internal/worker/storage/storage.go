package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/ykrishnateja01/job-portal/internal/worker/domain"
)

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// GetUserEmail returns the email and name for a user, or empty strings when
// the user no longer exists.
func (s *Storage) GetUserEmail(ctx context.Context, userID string) (email, name string, err error) {
	query := `SELECT email, name FROM users WHERE user_id = $1`

	err = s.db.QueryRowContext(ctx, query, userID).Scan(&email, &name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", nil
		}
		return "", "", fmt.Errorf("failed to get user email: %w", err)
	}

	return email, name, nil
}

// FindUnappliedActivations returns confirmed job-posting payments whose job
// never got flipped to paid. Normally empty; rows show up only when an
// activation update was lost, for example through a partial restore.
func (s *Storage) FindUnappliedActivations(ctx context.Context, limit int) ([]domain.PendingActivation, error) {
	query := `
		SELECT p.payment_id, p.job_id, p.chain, p.transaction_hash
		FROM payments p
		JOIN jobs j ON j.job_id = p.job_id
		WHERE p.status = 'confirmed'
		  AND p.job_id IS NOT NULL
		  AND j.is_paid = FALSE
		ORDER BY p.created_at
		LIMIT $1
	`

	var rows []domain.PendingActivation
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to find unapplied activations: %w", err)
	}

	return rows, nil
}

// ApplyActivation re-applies a lost job activation. The is_paid guard makes
// the sweep idempotent against concurrent runs.
func (s *Storage) ApplyActivation(ctx context.Context, act domain.PendingActivation) error {
	query := `
		UPDATE jobs
		SET status = 'active', is_paid = TRUE, payment_hash = $1, chain = $2, updated_at = NOW()
		WHERE job_id = $3 AND is_paid = FALSE
	`

	result, err := s.db.ExecContext(ctx, query, act.TransactionHash, act.Chain, act.JobID)
	if err != nil {
		return fmt.Errorf("failed to apply activation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		s.logger.Info("Re-applied job activation",
			slog.String("job_id", act.JobID),
			slog.String("payment_id", act.PaymentID),
			slog.String("transaction_hash", act.TransactionHash),
		)
	}

	return nil
}
