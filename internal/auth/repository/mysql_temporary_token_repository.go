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

// MySQLTemporaryTokenRepository implements TemporaryToken persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLTemporaryTokenRepository struct {
	db        *sql.DB
	txManager database.TxManager
}

// Create inserts a new TemporaryToken. Only the digest is stored.
func (m *MySQLTemporaryTokenRepository) Create(ctx context.Context, token *authDomain.TemporaryToken) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO temporary_tokens (id, user_id, purpose, token_hash, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal temporary token id")
	}

	userID, err := token.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		userID,
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
// MySQL has no DELETE ... RETURNING, so the row is locked with SELECT ... FOR UPDATE and
// deleted inside one transaction; a delete that affects no row means another caller won.
func (m *MySQLTemporaryTokenRepository) Consume(
	ctx context.Context,
	purpose authDomain.TemporaryTokenPurpose,
	tokenHash string,
) (*authDomain.TemporaryToken, error) {
	var token *authDomain.TemporaryToken

	err := m.txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := database.GetTx(ctx, m.db)

		query := `SELECT id, user_id, purpose, token_hash, expires_at, created_at
				  FROM temporary_tokens
				  WHERE token_hash = ? AND purpose = ?
				  FOR UPDATE`

		var idBytes, userIDBytes []byte
		var tokenPurpose string
		var found authDomain.TemporaryToken

		err := querier.QueryRowContext(ctx, query, tokenHash, purpose).Scan(
			&idBytes,
			&userIDBytes,
			&tokenPurpose,
			&found.TokenHash,
			&found.ExpiresAt,
			&found.CreatedAt,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return authDomain.ErrTemporaryTokenNotFound
			}
			return apperrors.Wrap(err, "failed to consume temporary token")
		}

		result, err := querier.ExecContext(ctx, `DELETE FROM temporary_tokens WHERE id = ?`, idBytes)
		if err != nil {
			return apperrors.Wrap(err, "failed to consume temporary token")
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return apperrors.Wrap(err, "failed to get rows affected")
		}
		if rows == 0 {
			return authDomain.ErrTemporaryTokenNotFound
		}

		if err := found.ID.UnmarshalBinary(idBytes); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal temporary token id")
		}
		if err := found.UserID.UnmarshalBinary(userIDBytes); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal user id")
		}
		found.Purpose = authDomain.TemporaryTokenPurpose(tokenPurpose)
		token = &found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return token, nil
}

// DeleteByUser removes every token of the given purpose belonging to userID.
func (m *MySQLTemporaryTokenRepository) DeleteByUser(
	ctx context.Context,
	userID uuid.UUID,
	purpose authDomain.TemporaryTokenPurpose,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := userID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `DELETE FROM temporary_tokens WHERE user_id = ? AND purpose = ?`

	if _, err := querier.ExecContext(ctx, query, id, purpose); err != nil {
		return apperrors.Wrap(err, "failed to delete temporary tokens")
	}
	return nil
}

// DeleteExpired deletes tokens that expired before olderThan and returns how many were removed.
func (m *MySQLTemporaryTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM temporary_tokens WHERE expires_at < ?`

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
func (m *MySQLTemporaryTokenRepository) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	if olderThan.IsZero() {
		return 0, apperrors.New("olderThan timestamp cannot be zero")
	}

	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM temporary_tokens WHERE expires_at < ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired temporary tokens")
	}

	return count, nil
}

// NewMySQLTemporaryTokenRepository creates a new MySQL TemporaryToken repository.
func NewMySQLTemporaryTokenRepository(db *sql.DB) *MySQLTemporaryTokenRepository {
	return &MySQLTemporaryTokenRepository{
		db:        db,
		txManager: database.NewTxManager(db),
	}
}
