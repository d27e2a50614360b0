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

type UserStorage struct {
	db *sqlx.DB
}

func NewUserStorage(pg *postgresql.Client) *UserStorage {
	return &UserStorage{
		db: pg.GetDB(),
	}
}

func (s *UserStorage) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			user_id, name, email, password_hash, role,
			wallet_address, is_verified, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		user.UserID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.WalletAddress,
		user.IsVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `
		SELECT
			user_id, name, email, password_hash, role,
			wallet_address, is_verified, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	err := s.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (s *UserStorage) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	query := `
		SELECT
			user_id, name, email, password_hash, role,
			wallet_address, is_verified, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`

	err := s.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

func (s *UserStorage) MarkVerified(ctx context.Context, userID string) error {
	query := `UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE user_id = $1`

	res, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}
