// Package repository provides data persistence implementations for temporary tokens.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/taskhub/internal/auth/domain"
	"github.com/allisson/taskhub/internal/database"
	apperrors "github.com/allisson/taskhub/internal/errors"
)

// PostgreSQLTemporaryTokenRepository implements TemporaryToken persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLTemporaryTokenRepository struct {
	db *sql.DB
}

// Create inserts a new TemporaryToken. Only the digest is stored.
func (p *PostgreSQLTemporaryTokenRepository) Create(ctx context.Context, token *authDomain.TemporaryToken) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO temporary_tokens (id, user_id, purpose, token_hash, expires_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.UserID,
		token.Purpose,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create temporary token")
	}
	return nil
}

// Consume deletes the token matching purpose and tokenHash and returns the deleted row.
// The single DELETE ... RETURNING statement is atomic: when several callers race for the
// same token exactly one gets the row and the others get ErrTemporaryTokenNotFound.
// Expired rows are returned too; the caller decides whether the token is still valid.
func (p *PostgreSQLTemporaryTokenRepository) Consume(
	ctx context.Context,
	purpose authDomain.TemporaryTokenPurpose,
	tokenHash string,
) (*authDomain.TemporaryToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM temporary_tokens
			  WHERE token_hash = $1 AND purpose = $2
			  RETURNING id, user_id, purpose, token_hash, expires_at, created_at`

	var token authDomain.TemporaryToken
	var tokenPurpose string

	err := querier.QueryRowContext(ctx, query, tokenHash, purpose).Scan(
		&token.ID,
		&token.UserID,
		&tokenPurpose,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrTemporaryTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to consume temporary token")
	}

	token.Purpose = authDomain.TemporaryTokenPurpose(tokenPurpose)
	return &token, nil
}

// DeleteByUser removes every token of the given purpose belonging to userID.
func (p *PostgreSQLTemporaryTokenRepository) DeleteByUser(
	ctx context.Context,
	userID uuid.UUID,
	purpose authDomain.TemporaryTokenPurpose,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM temporary_tokens WHERE user_id = $1 AND purpose = $2`

	if _, err := querier.ExecContext(ctx, query, userID, purpose); err != nil {
		return apperrors.Wrap(err, "failed to delete temporary tokens")
	}
	return nil
}

// DeleteExpired deletes tokens that expired before olderThan and returns how many were removed.
func (p *PostgreSQLTemporaryTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM temporary_tokens WHERE expires_at < $1`

	result, err := querier.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired temporary tokens")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rowsAffected, nil
}

// CountExpired counts tokens that expired before olderThan without deleting them.
func (p *PostgreSQLTemporaryTokenRepository) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM temporary_tokens WHERE expires_at < $1`

	var count int64
	if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired temporary tokens")
	}

	return count, nil
}

// NewPostgreSQLTemporaryTokenRepository creates a new PostgreSQL TemporaryToken repository.
func NewPostgreSQLTemporaryTokenRepository(db *sql.DB) *PostgreSQLTemporaryTokenRepository {
	return &PostgreSQLTemporaryTokenRepository{db: db}
}
