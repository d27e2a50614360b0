package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ykrishnateja01/job-portal/internal/api/domain"
	"github.com/ykrishnateja01/job-portal/internal/api/model"
	"github.com/ykrishnateja01/job-portal/shared/postgresql"
)

// uniqueViolation is the Postgres error code raised when an insert collides
// with a unique constraint.
const uniqueViolation = "23505"

type PaymentStorage struct {
	db *sqlx.DB
}

func NewPaymentStorage(pg *postgresql.Client) *PaymentStorage {
	return &PaymentStorage{
		db: pg.GetDB(),
	}
}

// Exists reports whether a ledger row already holds this transaction hash.
// It is a fast-path check only; RecordAndActivate remains correct without it.
func (s *PaymentStorage) Exists(ctx context.Context, transactionHash string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM payments WHERE transaction_hash = $1)`

	if err := s.db.GetContext(ctx, &exists, query, transactionHash); err != nil {
		return false, fmt.Errorf("failed to check payment existence: %w", err)
	}

	return exists, nil
}

// RecordAndActivate writes the ledger row and activates the paid-for job in a
// single database transaction. The insert hits the unique constraint on
// transaction_hash, so a replayed or racing hash fails here no matter what any
// earlier existence check said. When payment.JobID is set the job must exist,
// otherwise the whole transaction rolls back and the hash stays unused.
func (s *PaymentStorage) RecordAndActivate(ctx context.Context, payment *model.Payment) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertQuery := `
		INSERT INTO payments (
			payment_id, user_id, job_id, amount, currency,
			chain, transaction_hash, wallet_address, status, purpose,
			block_number, gas_used, gas_fee, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, $14
		)
	`

	_, err = tx.ExecContext(
		ctx,
		insertQuery,
		payment.PaymentID,
		payment.UserID,
		payment.JobID,
		payment.Amount,
		payment.Currency,
		payment.Chain,
		payment.TransactionHash,
		payment.WalletAddress,
		payment.Status,
		payment.Purpose,
		payment.BlockNumber,
		payment.GasUsed,
		payment.GasFee,
		payment.CreatedAt,
	)
	if err != nil {
		return insertPaymentError(err)
	}

	if payment.JobID != nil {
		activateQuery := `
			UPDATE jobs
			SET status = $1, is_paid = TRUE, payment_hash = $2, chain = $3, updated_at = NOW()
			WHERE job_id = $4
		`

		res, err := tx.ExecContext(
			ctx,
			activateQuery,
			domain.JobStatusActive,
			payment.TransactionHash,
			payment.Chain,
			*payment.JobID,
		)
		if err != nil {
			return fmt.Errorf("failed to activate job: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if rows == 0 {
			return domain.ErrJobNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment: %w", err)
	}

	return nil
}

// insertPaymentError maps a unique-constraint collision on the ledger insert
// to the replay error. The constraint on transaction_hash is the authoritative
// duplicate guard, so this mapping is what callers rely on to tell a replayed
// hash apart from a storage failure.
func insertPaymentError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrPaymentAlreadyProcessed
	}
	return fmt.Errorf("failed to insert payment: %w", err)
}

// GetByHashForUser returns the caller's ledger row for a transaction hash.
// Rows belonging to other users are reported as not found.
func (s *PaymentStorage) GetByHashForUser(ctx context.Context, transactionHash, userID string) (*model.Payment, error) {
	var payment model.Payment
	query := `
		SELECT
			payment_id, user_id, job_id, amount, currency,
			chain, transaction_hash, wallet_address, status, purpose,
			block_number, gas_used, gas_fee, created_at
		FROM payments
		WHERE transaction_hash = $1 AND user_id = $2
	`

	err := s.db.GetContext(ctx, &payment, query, transactionHash, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}

func (s *PaymentStorage) ListByUser(ctx context.Context, userID string) ([]model.Payment, error) {
	query := `
		SELECT
			payment_id, user_id, job_id, amount, currency,
			chain, transaction_hash, wallet_address, status, purpose,
			block_number, gas_used, gas_fee, created_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var payments []model.Payment
	if err := s.db.SelectContext(ctx, &payments, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return payments, nil
}
