package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/taskhub/internal/database"
	apperrors "github.com/allisson/taskhub/internal/errors"
	"github.com/allisson/taskhub/internal/user/domain"
)

const mySQLUserColumns = `id, username, email, full_name, password, role, is_email_verified,
			  refresh_token_hash, created_at, updated_at`

// MySQLUserRepository handles user persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{
		db: db,
	}
}

// Create inserts a new user. Returns ErrUserAlreadyExists when the email or username is taken.
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, username, email, full_name, password, role, is_email_verified,
			  refresh_token_hash, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	// Convert UUID to bytes for MySQL BINARY(16)
	uuidBytes, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		uuidBytes,
		user.Username,
		user.Email,
		user.FullName,
		user.Password,
		user.Role,
		user.IsEmailVerified,
		user.RefreshTokenHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// Update overwrites the mutable fields of an existing user.
func (r *MySQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users
			  SET username = ?,
			      email = ?,
			      full_name = ?,
			      password = ?,
			      role = ?,
			      is_email_verified = ?,
			      refresh_token_hash = ?,
			      updated_at = ?
			  WHERE id = ?`

	uuidBytes, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.FullName,
		user.Password,
		user.Role,
		user.IsEmailVerified,
		user.RefreshTokenHash,
		user.UpdatedAt,
		uuidBytes,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to update user")
	}
	// MySQL reports zero affected rows when values are unchanged, so existence is not checked here
	return nil
}

// RotateRefreshToken replaces the stored refresh token digest only while it still equals
// currentHash. It reports false when another request already rotated or cleared it.
// newHash always differs from currentHash, so MySQL's changed-rows count is reliable here.
func (r *MySQLUserRepository) RotateRefreshToken(
	ctx context.Context,
	id uuid.UUID,
	currentHash, newHash string,
	updatedAt time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	uuidBytes, err := id.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `UPDATE users
			  SET refresh_token_hash = ?, updated_at = ?
			  WHERE id = ? AND refresh_token_hash = ?`

	result, err := querier.ExecContext(ctx, query, newHash, updatedAt, uuidBytes, currentHash)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to rotate refresh token")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get affected rows")
	}
	return rows == 1, nil
}

// GetByID retrieves a user by ID
func (r *MySQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mySQLUserColumns + ` FROM users WHERE id = ?`

	// Convert UUID to bytes for MySQL BINARY(16)
	uuidBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	user, err := scanMySQLUser(querier.QueryRowContext(ctx, query, uuidBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user by id")
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mySQLUserColumns + ` FROM users WHERE email = ?`

	user, err := scanMySQLUser(querier.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user by email")
	}
	return user, nil
}

func scanMySQLUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var idBytes []byte
	var role string
	err := row.Scan(
		&idBytes,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.Password,
		&role,
		&user.IsEmailVerified,
		&user.RefreshTokenHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Convert bytes back to UUID
	if err := user.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	user.Role = domain.Role(role)
	return &user, nil
}
