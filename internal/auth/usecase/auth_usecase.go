// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/taskhub/internal/auth/domain"
	authService "github.com/allisson/taskhub/internal/auth/service"
	"github.com/allisson/taskhub/internal/config"
	"github.com/allisson/taskhub/internal/database"
	apperrors "github.com/allisson/taskhub/internal/errors"
	"github.com/allisson/taskhub/internal/mailer"
	userDomain "github.com/allisson/taskhub/internal/user/domain"
)

// Paths appended to AppBaseURL in mailed links.
const (
	VerifyEmailPath       = "/v1/auth/verify-email/"
	ResetPasswordPagePath = "/reset-password/"
)

// authUseCase implements AuthUseCase.
type authUseCase struct {
	config            *config.Config
	txManager         database.TxManager
	userRepo          UserRepository
	tokenRepo         TemporaryTokenRepository
	credentialService authService.CredentialService
	tokenIssuer       authService.TokenIssuer
	mailer            mailer.Mailer
	logger            *slog.Logger
}

// Register creates the account and its first session in one transaction, then sends the
// verification link. A failed delivery is logged and does not undo the registration; the
// user can ask for a new link.
func (a *authUseCase) Register(
	ctx context.Context,
	input *authDomain.RegisterInput,
) (*authDomain.AuthOutput, error) {
	digest, err := a.credentialService.Hash(ctx, input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &userDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Username:  strings.TrimSpace(input.Username),
		Email:     normalizeEmail(input.Email),
		FullName:  strings.TrimSpace(input.FullName),
		Password:  digest,
		Role:      userDomain.RoleMember,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tokens, err := a.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	var plainToken string
	err = a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := a.userRepo.Create(ctx, user); err != nil {
			return err
		}
		plainToken, err = a.issueTemporaryToken(ctx, user.ID, authDomain.EmailVerificationPurpose)
		return err
	})
	if err != nil {
		return nil, err
	}

	a.sendVerificationEmail(ctx, user, plainToken)

	return &authDomain.AuthOutput{User: user, Tokens: tokens}, nil
}

// Login verifies the credentials and rotates the session.
func (a *authUseCase) Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.AuthOutput, error) {
	user, err := a.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			// Same hashing cost as a real account
			a.credentialService.Verify(ctx, input.Password, a.credentialService.DummyDigest())
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !a.credentialService.Verify(ctx, input.Password, user.Password) {
		return nil, authDomain.ErrInvalidCredentials
	}

	return a.startSession(ctx, user)
}

// Logout clears the stored refresh token digest.
func (a *authUseCase) Logout(ctx context.Context, userID uuid.UUID) error {
	user, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	user.RefreshTokenHash = ""
	user.UpdatedAt = time.Now().UTC()
	return a.userRepo.Update(ctx, user)
}

// RefreshTokens verifies the refresh token, checks it is the account's current one and rotates it.
// The rotation is a conditional update on the presented digest, so of two concurrent refreshes
// with the same token only one succeeds.
func (a *authUseCase) RefreshTokens(ctx context.Context, refreshToken string) (*authDomain.AuthOutput, error) {
	claims, err := a.tokenIssuer.VerifyToken(refreshToken, authDomain.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := a.userRepo.GetByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrRefreshTokenRevoked
		}
		return nil, err
	}

	presented := a.tokenIssuer.DigestToken(refreshToken)
	if user.RefreshTokenHash == "" ||
		subtle.ConstantTimeCompare([]byte(presented), []byte(user.RefreshTokenHash)) != 1 {
		return nil, authDomain.ErrRefreshTokenRevoked
	}

	tokens, err := a.issueTokenPair(user)
	if err != nil {
		return nil, err
	}
	user.UpdatedAt = time.Now().UTC()

	rotated, err := a.userRepo.RotateRefreshToken(ctx, user.ID, presented, user.RefreshTokenHash, user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if !rotated {
		return nil, authDomain.ErrRefreshTokenRevoked
	}

	return &authDomain.AuthOutput{User: user, Tokens: tokens}, nil
}

// VerifyEmail consumes the token and flags the email as verified. The consume is committed on
// its own, so an expired token is removed even though the request fails.
func (a *authUseCase) VerifyEmail(ctx context.Context, token string) error {
	stored, err := a.consumeTemporaryToken(ctx, authDomain.EmailVerificationPurpose, token)
	if err != nil {
		return err
	}

	user, err := a.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return authDomain.ErrInvalidTemporaryToken
		}
		return err
	}
	if user.IsEmailVerified {
		return nil
	}

	user.IsEmailVerified = true
	user.UpdatedAt = time.Now().UTC()
	return a.userRepo.Update(ctx, user)
}

// ResendEmailVerification issues a new verification token for an unverified account.
func (a *authUseCase) ResendEmailVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return authDomain.ErrEmailAlreadyVerified
	}

	var plainToken string
	err = a.txManager.WithTx(ctx, func(ctx context.Context) error {
		plainToken, err = a.issueTemporaryToken(ctx, user.ID, authDomain.EmailVerificationPurpose)
		return err
	})
	if err != nil {
		return err
	}

	a.sendVerificationEmail(ctx, user, plainToken)
	return nil
}

// ForgotPassword issues a password reset token and mails it. Unknown emails are ignored.
func (a *authUseCase) ForgotPassword(ctx context.Context, email string) error {
	user, err := a.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	var plainToken string
	err = a.txManager.WithTx(ctx, func(ctx context.Context) error {
		plainToken, err = a.issueTemporaryToken(ctx, user.ID, authDomain.PasswordResetPurpose)
		return err
	})
	if err != nil {
		return err
	}

	msg := mailer.Message{
		To:      user.Email,
		Subject: "Reset your password",
		Kind:    mailer.KindPasswordReset,
		Link:    a.resetPasswordLink(plainToken),
	}
	if err := a.mailer.Send(ctx, msg); err != nil {
		a.logger.Error("failed to send password reset email",
			slog.String("user_id", user.ID.String()),
			slog.Any("error", err),
		)
	}
	return nil
}

// ResetPassword consumes the token, replaces the password and ends every session. As in
// VerifyEmail the consume is committed on its own.
func (a *authUseCase) ResetPassword(ctx context.Context, input *authDomain.ResetPasswordInput) error {
	digest, err := a.credentialService.Hash(ctx, input.NewPassword)
	if err != nil {
		return err
	}

	stored, err := a.consumeTemporaryToken(ctx, authDomain.PasswordResetPurpose, input.Token)
	if err != nil {
		return err
	}

	user, err := a.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return authDomain.ErrInvalidTemporaryToken
		}
		return err
	}

	user.Password = digest
	user.RefreshTokenHash = ""
	user.UpdatedAt = time.Now().UTC()
	return a.userRepo.Update(ctx, user)
}

// ChangePassword replaces the password of an authenticated user and ends every session.
func (a *authUseCase) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	input *authDomain.ChangePasswordInput,
) error {
	user, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !a.credentialService.Verify(ctx, input.CurrentPassword, user.Password) {
		return authDomain.ErrInvalidCredentials
	}

	digest, err := a.credentialService.Hash(ctx, input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = digest
	user.RefreshTokenHash = ""
	user.UpdatedAt = time.Now().UTC()
	return a.userRepo.Update(ctx, user)
}

// CurrentUser loads the authenticated user.
func (a *authUseCase) CurrentUser(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	return a.userRepo.GetByID(ctx, userID)
}

// CleanupExpired removes temporary tokens that expired more than days ago.
func (a *authUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must be non-negative")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	if dryRun {
		return a.tokenRepo.CountExpired(ctx, cutoff)
	}
	return a.tokenRepo.DeleteExpired(ctx, cutoff)
}

// startSession issues a token pair and stores the refresh token digest on the user.
func (a *authUseCase) startSession(ctx context.Context, user *userDomain.User) (*authDomain.AuthOutput, error) {
	tokens, err := a.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	user.UpdatedAt = time.Now().UTC()
	if err := a.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &authDomain.AuthOutput{User: user, Tokens: tokens}, nil
}

// issueTokenPair signs both tokens and sets user.RefreshTokenHash. The caller persists the user.
func (a *authUseCase) issueTokenPair(user *userDomain.User) (*authDomain.TokenPair, error) {
	subject := authDomain.Subject{ID: user.ID, Email: user.Email, Username: user.Username}

	accessToken, err := a.tokenIssuer.IssueAccessToken(subject)
	if err != nil {
		return nil, err
	}
	refreshToken, err := a.tokenIssuer.IssueRefreshToken(subject)
	if err != nil {
		return nil, err
	}

	user.RefreshTokenHash = a.tokenIssuer.DigestToken(refreshToken.Token)

	return &authDomain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// issueTemporaryToken replaces the user's tokens of purpose with a new one and returns its
// plain value. Must run inside a transaction.
func (a *authUseCase) issueTemporaryToken(
	ctx context.Context,
	userID uuid.UUID,
	purpose authDomain.TemporaryTokenPurpose,
) (string, error) {
	output, err := a.tokenIssuer.IssueTemporaryToken()
	if err != nil {
		return "", err
	}

	if err := a.tokenRepo.DeleteByUser(ctx, userID, purpose); err != nil {
		return "", err
	}

	token := &authDomain.TemporaryToken{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		Purpose:   purpose,
		TokenHash: output.Digest,
		ExpiresAt: output.ExpiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.tokenRepo.Create(ctx, token); err != nil {
		return "", err
	}

	return output.PlainValue, nil
}

// consumeTemporaryToken deletes the stored token for presented and checks it has not expired.
// Unknown, already used and expired tokens all return ErrInvalidTemporaryToken.
func (a *authUseCase) consumeTemporaryToken(
	ctx context.Context,
	purpose authDomain.TemporaryTokenPurpose,
	presented string,
) (*authDomain.TemporaryToken, error) {
	if presented == "" {
		return nil, authDomain.ErrInvalidTemporaryToken
	}

	stored, err := a.tokenRepo.Consume(ctx, purpose, a.tokenIssuer.DigestToken(presented))
	if err != nil {
		if errors.Is(err, authDomain.ErrTemporaryTokenNotFound) {
			return nil, authDomain.ErrInvalidTemporaryToken
		}
		return nil, err
	}

	if !a.tokenIssuer.ConsumeTemporaryToken(presented, stored.TokenHash, stored.ExpiresAt) {
		return nil, authDomain.ErrInvalidTemporaryToken
	}

	return stored, nil
}

func (a *authUseCase) sendVerificationEmail(ctx context.Context, user *userDomain.User, plainToken string) {
	msg := mailer.Message{
		To:      user.Email,
		Subject: "Verify your email",
		Kind:    mailer.KindEmailVerification,
		Link:    a.verificationLink(plainToken),
	}
	if err := a.mailer.Send(ctx, msg); err != nil {
		a.logger.Error("failed to send verification email",
			slog.String("user_id", user.ID.String()),
			slog.Any("error", err),
		)
	}
}

// verificationLink points at the API endpoint itself: opening it verifies the email.
func (a *authUseCase) verificationLink(plainToken string) string {
	return fmt.Sprintf("%s%s%s", a.baseURL(), VerifyEmailPath, plainToken)
}

// resetPasswordLink points at the web client's reset form, which asks for the new password
// and then posts it to /v1/auth/reset-password/:token.
func (a *authUseCase) resetPasswordLink(plainToken string) string {
	return fmt.Sprintf("%s%s%s", a.baseURL(), ResetPasswordPagePath, plainToken)
}

func (a *authUseCase) baseURL() string {
	return strings.TrimRight(a.config.AppBaseURL, "/")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewAuthUseCase creates a new AuthUseCase with the provided dependencies.
func NewAuthUseCase(
	config *config.Config,
	txManager database.TxManager,
	userRepo UserRepository,
	tokenRepo TemporaryTokenRepository,
	credentialService authService.CredentialService,
	tokenIssuer authService.TokenIssuer,
	mailer mailer.Mailer,
	logger *slog.Logger,
) AuthUseCase {
	return &authUseCase{
		config:            config,
		txManager:         txManager,
		userRepo:          userRepo,
		tokenRepo:         tokenRepo,
		credentialService: credentialService,
		tokenIssuer:       tokenIssuer,
		mailer:            mailer,
		logger:            logger,
	}
}
