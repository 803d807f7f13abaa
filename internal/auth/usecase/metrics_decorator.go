package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/taskhub/internal/auth/domain"
	"github.com/allisson/taskhub/internal/metrics"
	userDomain "github.com/allisson/taskhub/internal/user/domain"
)

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *authUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusFor(err)
	a.metrics.RecordOperation(ctx, "auth", operation, status)
	a.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

// Register records metrics for account registration.
func (a *authUseCaseWithMetrics) Register(
	ctx context.Context,
	input *authDomain.RegisterInput,
) (*authDomain.AuthOutput, error) {
	start := time.Now()
	output, err := a.next.Register(ctx, input)
	a.record(ctx, "register", start, err)
	return output, err
}

// Login records metrics for login attempts.
func (a *authUseCaseWithMetrics) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.AuthOutput, error) {
	start := time.Now()
	output, err := a.next.Login(ctx, input)
	a.record(ctx, "login", start, err)
	return output, err
}

// Logout records metrics for logout operations.
func (a *authUseCaseWithMetrics) Logout(ctx context.Context, userID uuid.UUID) error {
	start := time.Now()
	err := a.next.Logout(ctx, userID)
	a.record(ctx, "logout", start, err)
	return err
}

// RefreshTokens records metrics for token refresh operations.
func (a *authUseCaseWithMetrics) RefreshTokens(
	ctx context.Context,
	refreshToken string,
) (*authDomain.AuthOutput, error) {
	start := time.Now()
	output, err := a.next.RefreshTokens(ctx, refreshToken)
	a.record(ctx, "refresh_tokens", start, err)
	return output, err
}

// VerifyEmail records metrics for email verification.
func (a *authUseCaseWithMetrics) VerifyEmail(ctx context.Context, token string) error {
	start := time.Now()
	err := a.next.VerifyEmail(ctx, token)
	a.record(ctx, "verify_email", start, err)
	return err
}

// ResendEmailVerification records metrics for verification link reissues.
func (a *authUseCaseWithMetrics) ResendEmailVerification(ctx context.Context, userID uuid.UUID) error {
	start := time.Now()
	err := a.next.ResendEmailVerification(ctx, userID)
	a.record(ctx, "resend_email_verification", start, err)
	return err
}

// ForgotPassword records metrics for password reset requests.
func (a *authUseCaseWithMetrics) ForgotPassword(ctx context.Context, email string) error {
	start := time.Now()
	err := a.next.ForgotPassword(ctx, email)
	a.record(ctx, "forgot_password", start, err)
	return err
}

// ResetPassword records metrics for password resets.
func (a *authUseCaseWithMetrics) ResetPassword(ctx context.Context, input *authDomain.ResetPasswordInput) error {
	start := time.Now()
	err := a.next.ResetPassword(ctx, input)
	a.record(ctx, "reset_password", start, err)
	return err
}

// ChangePassword records metrics for password changes.
func (a *authUseCaseWithMetrics) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	input *authDomain.ChangePasswordInput,
) error {
	start := time.Now()
	err := a.next.ChangePassword(ctx, userID, input)
	a.record(ctx, "change_password", start, err)
	return err
}

// CurrentUser records metrics for current user lookups.
func (a *authUseCaseWithMetrics) CurrentUser(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	start := time.Now()
	user, err := a.next.CurrentUser(ctx, userID)
	a.record(ctx, "current_user", start, err)
	return user, err
}

// CleanupExpired records metrics for expired token cleanup.
func (a *authUseCaseWithMetrics) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := a.next.CleanupExpired(ctx, days, dryRun)
	a.record(ctx, "cleanup_expired_tokens", start, err)
	return count, err
}
