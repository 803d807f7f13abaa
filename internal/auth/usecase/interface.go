// Package usecase defines business logic interfaces for authentication operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/taskhub/internal/auth/domain"
	userDomain "github.com/allisson/taskhub/internal/user/domain"
)

// UserRepository defines the account persistence the authentication flows need.
// Implementations must support transaction-aware operations via context propagation.
type UserRepository interface {
	// Create stores a new user. Returns ErrUserAlreadyExists on a duplicate email or username.
	Create(ctx context.Context, user *userDomain.User) error

	// Update persists every mutable field of user.
	Update(ctx context.Context, user *userDomain.User) error

	// RotateRefreshToken swaps the stored refresh token digest from currentHash to newHash in
	// one conditional update. It returns false when the stored digest is no longer currentHash.
	RotateRefreshToken(
		ctx context.Context,
		id uuid.UUID,
		currentHash, newHash string,
		updatedAt time.Time,
	) (bool, error)

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)

	// GetByEmail retrieves a user and its credential digest by email. Returns ErrUserNotFound
	// if not found.
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)
}

// TemporaryTokenRepository defines persistence operations for temporary tokens.
// Only digests are ever stored.
type TemporaryTokenRepository interface {
	// Create stores a new temporary token.
	Create(ctx context.Context, token *authDomain.TemporaryToken) error

	// Consume atomically deletes and returns the token matching purpose and digest. When
	// several callers race for the same token exactly one receives it; the others get
	// ErrTemporaryTokenNotFound.
	Consume(
		ctx context.Context,
		purpose authDomain.TemporaryTokenPurpose,
		tokenHash string,
	) (*authDomain.TemporaryToken, error)

	// DeleteByUser removes the user's tokens of the given purpose.
	DeleteByUser(ctx context.Context, userID uuid.UUID, purpose authDomain.TemporaryTokenPurpose) error

	// DeleteExpired removes tokens that expired before olderThan.
	DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error)

	// CountExpired counts tokens that expired before olderThan.
	CountExpired(ctx context.Context, olderThan time.Time) (int64, error)
}

// AuthUseCase defines the account lifecycle built on the credential and token core.
type AuthUseCase interface {
	// Register creates an account, starts a session for it and sends the email verification link.
	// Returns ErrUserAlreadyExists when the email or username is taken.
	Register(ctx context.Context, input *authDomain.RegisterInput) (*authDomain.AuthOutput, error)

	// Login checks the credentials and starts a session. Unknown emails and wrong passwords both
	// return ErrInvalidCredentials after the same amount of hashing work.
	Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.AuthOutput, error)

	// Logout revokes the user's refresh token.
	Logout(ctx context.Context, userID uuid.UUID) error

	// RefreshTokens exchanges the current refresh token for a new pair. The presented token is
	// revoked; presenting it again, or losing a concurrent refresh with it, returns ErrRefreshTokenRevoked.
	RefreshTokens(ctx context.Context, refreshToken string) (*authDomain.AuthOutput, error)

	// VerifyEmail consumes an email verification token and marks the address as verified.
	VerifyEmail(ctx context.Context, token string) error

	// ResendEmailVerification replaces the user's verification token and sends a new link.
	ResendEmailVerification(ctx context.Context, userID uuid.UUID) error

	// ForgotPassword sends a password reset link when the email belongs to an account.
	// It succeeds whether or not the account exists.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword consumes a password reset token and replaces the password.
	ResetPassword(ctx context.Context, input *authDomain.ResetPasswordInput) error

	// ChangePassword replaces the password after checking the current one.
	ChangePassword(ctx context.Context, userID uuid.UUID, input *authDomain.ChangePasswordInput) error

	// CurrentUser returns the authenticated user.
	CurrentUser(ctx context.Context, userID uuid.UUID) (*userDomain.User, error)

	// CleanupExpired deletes temporary tokens that expired more than days ago, or only counts
	// them when dryRun is true.
	CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error)
}
