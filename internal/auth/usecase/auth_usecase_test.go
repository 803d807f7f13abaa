package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authDomain "github.com/allisson/taskhub/internal/auth/domain"
	authService "github.com/allisson/taskhub/internal/auth/service"
	usecaseMocks "github.com/allisson/taskhub/internal/auth/usecase/mocks"
	"github.com/allisson/taskhub/internal/config"
	apperrors "github.com/allisson/taskhub/internal/errors"
	"github.com/allisson/taskhub/internal/mailer"
	userDomain "github.com/allisson/taskhub/internal/user/domain"
)

type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *userDomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) Update(ctx context.Context, user *userDomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) RotateRefreshToken(
	ctx context.Context,
	id uuid.UUID,
	currentHash, newHash string,
	updatedAt time.Time,
) (bool, error) {
	args := m.Called(ctx, id, currentHash, newHash, updatedAt)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type authFixture struct {
	txManager   *mockTxManager
	userRepo    *mockUserRepository
	tokenRepo   *usecaseMocks.MockTemporaryTokenRepository
	mailer      *mockMailer
	credentials authService.CredentialService
	tokens      authService.TokenIssuer
	useCase     AuthUseCase
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	cfg := &config.Config{
		AppBaseURL:               "http://localhost:8080/",
		JWTAccessSecret:          "access-secret",
		JWTAccessExpiration:      15 * time.Minute,
		JWTRefreshSecret:         "refresh-secret",
		JWTRefreshExpiration:     24 * time.Hour,
		JWTIssuer:                "taskhub",
		TemporaryTokenExpiration: 20 * time.Minute,
	}

	credentials, err := authService.NewCredentialService(config.HashAlgorithmBcrypt, bcrypt.MinCost, 4)
	require.NoError(t, err)
	tokens, err := authService.NewTokenIssuerFromConfig(cfg)
	require.NoError(t, err)

	f := &authFixture{
		txManager:   &mockTxManager{},
		userRepo:    &mockUserRepository{},
		tokenRepo:   &usecaseMocks.MockTemporaryTokenRepository{},
		mailer:      &mockMailer{},
		credentials: credentials,
		tokens:      tokens,
	}
	f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil).Maybe()
	f.useCase = NewAuthUseCase(
		cfg,
		f.txManager,
		f.userRepo,
		f.tokenRepo,
		credentials,
		tokens,
		f.mailer,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return f
}

func (f *authFixture) newUser(t *testing.T, password string) *userDomain.User {
	t.Helper()
	digest, err := f.credentials.Hash(context.Background(), password)
	require.NoError(t, err)
	return &userDomain.User{
		ID:       uuid.Must(uuid.NewV7()),
		Username: "john",
		Email:    "john@example.com",
		Password: digest,
		Role:     userDomain.RoleMember,
	}
}

func TestAuthUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_CreatesAccountSessionAndVerificationToken", func(t *testing.T) {
		f := newAuthFixture(t)

		var created *userDomain.User
		var stored *authDomain.TemporaryToken
		var sent mailer.Message

		f.userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*userDomain.User) }).
			Return(nil).
			Once()
		f.tokenRepo.On("DeleteByUser", mock.Anything, mock.Anything, authDomain.EmailVerificationPurpose).
			Return(nil).
			Once()
		f.tokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.TemporaryToken")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*authDomain.TemporaryToken) }).
			Return(nil).
			Once()
		f.mailer.On("Send", mock.Anything, mock.AnythingOfType("mailer.Message")).
			Run(func(args mock.Arguments) { sent = args.Get(1).(mailer.Message) }).
			Return(nil).
			Once()

		output, err := f.useCase.Register(ctx, &authDomain.RegisterInput{
			Email:    "  John@Example.com ",
			Username: "john",
			Password: "longenough1",
			FullName: "John Doe",
		})
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.Equal(t, "john@example.com", created.Email)
		assert.Equal(t, userDomain.RoleMember, created.Role)
		assert.False(t, created.IsEmailVerified)
		assert.NotEqual(t, "longenough1", created.Password)
		assert.True(t, f.credentials.Verify(ctx, "longenough1", created.Password))
		assert.Equal(t, f.tokens.DigestToken(output.Tokens.RefreshToken.Token), created.RefreshTokenHash)

		claims, err := f.tokens.VerifyToken(output.Tokens.AccessToken.Token, authDomain.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, created.ID, claims.SubjectID)
		assert.Equal(t, "john@example.com", claims.Email)

		require.NotNil(t, stored)
		assert.Equal(t, created.ID, stored.UserID)
		assert.Equal(t, authDomain.EmailVerificationPurpose, stored.Purpose)

		assert.Equal(t, "john@example.com", sent.To)
		assert.Equal(t, mailer.KindEmailVerification, sent.Kind)
		prefix := "http://localhost:8080/v1/auth/verify-email/"
		require.True(t, strings.HasPrefix(sent.Link, prefix))
		plain := strings.TrimPrefix(sent.Link, prefix)
		assert.Equal(t, stored.TokenHash, f.tokens.DigestToken(plain))

		f.userRepo.AssertExpectations(t)
		f.tokenRepo.AssertExpectations(t)
		f.mailer.AssertExpectations(t)
	})

	t.Run("Success_MailFailureDoesNotFailRegistration", func(t *testing.T) {
		f := newAuthFixture(t)

		f.userRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		f.tokenRepo.On("DeleteByUser", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		f.tokenRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		f.mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

		output, err := f.useCase.Register(ctx, &authDomain.RegisterInput{
			Email:    "john@example.com",
			Username: "john",
			Password: "longenough1",
		})
		assert.NoError(t, err)
		assert.NotNil(t, output)
	})

	t.Run("Error_DuplicateAccount", func(t *testing.T) {
		f := newAuthFixture(t)

		f.userRepo.On("Create", mock.Anything, mock.Anything).Return(userDomain.ErrUserAlreadyExists).Once()

		output, err := f.useCase.Register(ctx, &authDomain.RegisterInput{
			Email:    "john@example.com",
			Username: "john",
			Password: "longenough1",
		})
		assert.Nil(t, output)
		assert.ErrorIs(t, err, userDomain.ErrUserAlreadyExists)
		f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Error_PasswordTooLong", func(t *testing.T) {
		f := newAuthFixture(t)

		output, err := f.useCase.Register(ctx, &authDomain.RegisterInput{
			Email:    "john@example.com",
			Username: "john",
			Password: strings.Repeat("a", 73),
		})
		assert.Nil(t, output)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		f.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthUseCase_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RotatesRefreshDigest", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.newUser(t, "longenough1")
		user.RefreshTokenHash = "previous"

		f.userRepo.On("GetByEmail", mock.Anything, "john@example.com").Return(user, nil).Once()
		f.userRepo.On("Update", mock.Anything, user).Return(nil).Once()

		output, err := f.useCase.Login(ctx, &authDomain.LoginInput{Email: "JOHN@example.com", Password: "longenough1"})
		require.NoError(t, err)

		assert.Equal(t, user, output.User)
		assert.Equal(t, f.tokens.DigestToken(output.Tokens.RefreshToken.Token), user.RefreshTokenHash)
		f.userRepo.AssertExpectations(t)
	})

	t.Run("Error_WrongPassword", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.newUser(t, "longenough1")

		f.userRepo.On("GetByEmail", mock.Anything, "john@example.com").Return(user, nil).Once()

		output, err := f.useCase.Login(ctx, &authDomain.LoginInput{Email: "john@example.com", Password: "wrongpass1"})
		assert.Nil(t, output)
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		f.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Error_UnknownEmailLooksLikeWrongPassword", func(t *testing.T) {
		f := newAuthFixture(t)

		f.userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").
			Return(nil, userDomain.ErrUserNotFound).
			Once()

		output, err := f.useCase.Login(ctx, &authDomain.LoginInput{Email: "ghost@example.com", Password: "longenough1"})
		assert.Nil(t, output)
		assert.Equal(t, authDomain.ErrInvalidCredentials, err)
	})

	t.Run("Error_StorageFailure", func(t *testing.T) {
		f := newAuthFixture(t)
		dbErr := errors.New("connection refused")

		f.userRepo.On("GetByEmail", mock.Anything, "john@example.com").Return(nil, dbErr).Once()

		_, err := f.useCase.Login(ctx, &authDomain.LoginInput{Email: "john@example.com", Password: "longenough1"})
		assert.Equal(t, dbErr, err)
	})
}

func TestAuthUseCase_RefreshTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RotatesAndRevokesPrevious", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.newUser(t, "longenough1")

		refresh, err := f.tokens.IssueRefreshToken(authDomain.Subject{ID: user.ID})
		require.NoError(t, err)
		oldDigest := f.tokens.DigestToken(refresh.Token)
		user.RefreshTokenHash = oldDigest

		f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
		f.userRepo.On("RotateRefreshToken", mock.Anything, user.ID, oldDigest, mock.Anything, mock.Anything).
			Return(true, nil).
			Once()

		output, err := f.useCase.RefreshTokens(ctx, refresh.Token)
		require.NoError(t, err)
		assert.NotEqual(t, refresh.Token, output.Tokens.RefreshToken.Token)
		newDigest := f.tokens.DigestToken(output.Tokens.RefreshToken.Token)
		assert.Equal(t, newDigest, user.RefreshTokenHash)
		f.userRepo.AssertCalled(t, "RotateRefreshToken", mock.Anything, user.ID, oldDigest, newDigest, mock.Anything)

		output, err = f.useCase.RefreshTokens(ctx, refresh.Token)
		assert.Nil(t, output)
		assert.ErrorIs(t, err, authDomain.ErrRefreshTokenRevoked)
		f.userRepo.AssertNumberOfCalls(t, "RotateRefreshToken", 1)
		f.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Error_ConcurrentRefreshLosesRotation", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.newUser(t, "longenough1")

		refresh, err := f.tokens.IssueRefreshToken(authDomain.Subject{ID: user.ID})
		require.NoError(t, err)
		user.RefreshTokenHash = f.tokens.DigestToken(refresh.Token)

		// The stored digest still matched when read, but another refresh rotated it first.
		f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
		f.userRepo.On("RotateRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything, mock.Anything).
			Return(false, nil).
			Once()

		output, err := f.useCase.RefreshTokens(ctx, refresh.Token)
		assert.Nil(t, output)
		assert.ErrorIs(t, err, authDomain.ErrRefreshTokenRevoked)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Error_RotationStorageFailure", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.newUser(t, "longenough1")
		dbErr := errors.New("connection reset")

		refresh, err := f.tokens.IssueRefreshToken(authDomain.Subject{ID: user.ID})
		require.NoError(t, err)
		user.RefreshTokenHash = f.tokens.DigestToken(refresh.Token)

		f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
		f.userRepo.On("RotateRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything, mock.Anything).
			Return(false, dbErr).
			Once()

		_, err = f.useCase.RefreshTokens(ctx, refresh.Token)
		assert.Equal(t, dbErr, err)
	})

	t.Run("Error_LoggedOut", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.newUser(t, "longenough1")

		refresh, err := f.tokens.IssueRefreshToken(authDomain.Subject{ID: user.ID})
		require.NoError(t, err)

		f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

		_, err = f.useCase.RefreshTokens(ctx, refresh.Token)
		assert.ErrorIs(t, err, authDomain.ErrRefreshTokenRevoked)
	})

	t.Run("Error_AccessTokenRejected", func(t *testing.T) {
		f := newAuthFixture(t)

		access, err := f.tokens.IssueAccessToken(authDomain.Subject{ID: uuid.Must(uuid.NewV7())})
		require.NoError(t, err)

		_, err = f.useCase.RefreshTokens(ctx, access.Token)

		var tokenErr *authDomain.TokenError
		require.ErrorAs(t, err, &tokenErr)
		assert.Equal(t, authDomain.TokenSignatureInvalid, tokenErr.Kind)
		f.userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Error_DeletedAccount", func(t *testing.T) {
		f := newAuthFixture(t)
		userID := uuid.Must(uuid.NewV7())

		refresh, err := f.tokens.IssueRefreshToken(authDomain.Subject{ID: userID})
		require.NoError(t, err)

		f.userRepo.On("GetByID", mock.Anything, userID).Return(nil, userDomain.ErrUserNotFound).Once()

		_, err = f.useCase.RefreshTokens(ctx, refresh.Token)
		assert.ErrorIs(t, err, authDomain.ErrRefreshTokenRevoked)
	})
}

func TestAuthUseCase_Logout(t *testing.T) {
	f := newAuthFixture(t)
	user := f.newUser(t, "longenough1")
	user.RefreshTokenHash = "digest"

	f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
	f.userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *userDomain.User) bool {
		return u.RefreshTokenHash == ""
	})).Return(nil).Once()

	err := f.useCase.Logout(context.Background(), user.ID)
	assert.NoError(t, err)
	f.userRepo.AssertExpectations(t)
}

func TestAuthUseCase_VerifyEmail(t *testing.T) {
	ctx := context.Background()
	plain := strings.Repeat("ab", authDomain.TemporaryTokenBytes)

	t.Run("Success_MarksEmailVerified", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.newUser(t, "longenough1")
		digest := f.tokens.DigestToken(plain)

		f.tokenRepo.On("Consume", mock.Anything, authDomain.EmailVerificationPurpose, digest).
			Return(&authDomain.TemporaryToken{
				UserID:    user.ID,
				Purpose:   authDomain.EmailVerificationPurpose,
				TokenHash: digest,
				ExpiresAt: time.Now().UTC().Add(time.Minute),
			}, nil).
			Once()
		f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
		f.userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *userDomain.User) bool {
			return u.IsEmailVerified
		})).Return(nil).Once()

		err := f.useCase.VerifyEmail(ctx, plain)
		assert.NoError(t, err)
		f.tokenRepo.AssertExpectations(t)
		f.userRepo.AssertExpectations(t)
	})

	t.Run("Error_Expired", func(t *testing.T) {
		f := newAuthFixture(t)
		digest := f.tokens.DigestToken(plain)

		f.tokenRepo.On("Consume", mock.Anything, authDomain.EmailVerificationPurpose, digest).
			Return(&authDomain.TemporaryToken{
				UserID:    uuid.Must(uuid.NewV7()),
				TokenHash: digest,
				ExpiresAt: time.Now().UTC().Add(-time.Minute),
			}, nil).
			Once()

		err := f.useCase.VerifyEmail(ctx, plain)
		assert.ErrorIs(t, err, authDomain.ErrInvalidTemporaryToken)
		f.userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		// The consume must not run inside a transaction that this failure would roll back.
		f.txManager.AssertNotCalled(t, "WithTx", mock.Anything, mock.Anything)
		f.tokenRepo.AssertExpectations(t)
	})

	t.Run("Error_AlreadyConsumed", func(t *testing.T) {
		f := newAuthFixture(t)

		f.tokenRepo.On("Consume", mock.Anything, authDomain.EmailVerificationPurpose, mock.Anything).
			Return(nil, authDomain.ErrTemporaryTokenNotFound).
			Once()

		err := f.useCase.VerifyEmail(ctx, plain)
		assert.ErrorIs(t, err, authDomain.ErrInvalidTemporaryToken)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Error_EmptyToken", func(t *testing.T) {
		f := newAuthFixture(t)

		err := f.useCase.VerifyEmail(ctx, "")
		assert.ErrorIs(t, err, authDomain.ErrInvalidTemporaryToken)
		f.tokenRepo.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthUseCase_ResendEmailVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ReplacesToken", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.newUser(t, "longenough1")

		f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
		f.tokenRepo.On("DeleteByUser", mock.Anything, user.ID, authDomain.EmailVerificationPurpose).
			Return(nil).
			Once()
		f.tokenRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		f.mailer.On("Send", mock.Anything, mock.MatchedBy(func(msg mailer.Message) bool {
			return msg.Kind == mailer.KindEmailVerification && msg.To == user.Email
		})).Return(nil).Once()

		err := f.useCase.ResendEmailVerification(ctx, user.ID)
		assert.NoError(t, err)
		f.tokenRepo.AssertExpectations(t)
		f.mailer.AssertExpectations(t)
	})

	t.Run("Error_AlreadyVerified", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.newUser(t, "longenough1")
		user.IsEmailVerified = true

		f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

		err := f.useCase.ResendEmailVerification(ctx, user.ID)
		assert.ErrorIs(t, err, authDomain.ErrEmailAlreadyVerified)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestAuthUseCase_ForgotPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_SendsResetLink", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.newUser(t, "longenough1")

		f.userRepo.On("GetByEmail", mock.Anything, "john@example.com").Return(user, nil).Once()
		f.tokenRepo.On("DeleteByUser", mock.Anything, user.ID, authDomain.PasswordResetPurpose).Return(nil).Once()
		f.tokenRepo.On("Create", mock.Anything, mock.MatchedBy(func(token *authDomain.TemporaryToken) bool {
			return token.Purpose == authDomain.PasswordResetPurpose && token.UserID == user.ID
		})).Return(nil).Once()
		f.mailer.On("Send", mock.Anything, mock.MatchedBy(func(msg mailer.Message) bool {
			return msg.Kind == mailer.KindPasswordReset &&
				strings.HasPrefix(msg.Link, "http://localhost:8080/reset-password/")
		})).Return(nil).Once()

		err := f.useCase.ForgotPassword(ctx, "john@example.com")
		assert.NoError(t, err)
		f.tokenRepo.AssertExpectations(t)
		f.mailer.AssertExpectations(t)
	})

	t.Run("Success_UnknownEmailIsSilent", func(t *testing.T) {
		f := newAuthFixture(t)

		f.userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").
			Return(nil, userDomain.ErrUserNotFound).
			Once()

		err := f.useCase.ForgotPassword(ctx, "ghost@example.com")
		assert.NoError(t, err)
		f.tokenRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestAuthUseCase_ResetPassword(t *testing.T) {
	ctx := context.Background()
	plain := strings.Repeat("cd", authDomain.TemporaryTokenBytes)

	t.Run("Success_ReplacesPasswordAndEndsSessions", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.newUser(t, "longenough1")
		user.RefreshTokenHash = "digest"
		digest := f.tokens.DigestToken(plain)

		f.tokenRepo.On("Consume", mock.Anything, authDomain.PasswordResetPurpose, digest).
			Return(&authDomain.TemporaryToken{
				UserID:    user.ID,
				TokenHash: digest,
				ExpiresAt: time.Now().UTC().Add(time.Minute),
			}, nil).
			Once()
		f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
		f.userRepo.On("Update", mock.Anything, user).Return(nil).Once()

		err := f.useCase.ResetPassword(ctx, &authDomain.ResetPasswordInput{Token: plain, NewPassword: "brandnew12"})
		require.NoError(t, err)

		assert.Empty(t, user.RefreshTokenHash)
		assert.True(t, f.credentials.Verify(ctx, "brandnew12", user.Password))
		assert.False(t, f.credentials.Verify(ctx, "longenough1", user.Password))
	})

	t.Run("Error_UnknownToken", func(t *testing.T) {
		f := newAuthFixture(t)

		f.tokenRepo.On("Consume", mock.Anything, authDomain.PasswordResetPurpose, mock.Anything).
			Return(nil, authDomain.ErrTemporaryTokenNotFound).
			Once()

		err := f.useCase.ResetPassword(ctx, &authDomain.ResetPasswordInput{Token: plain, NewPassword: "brandnew12"})
		assert.ErrorIs(t, err, authDomain.ErrInvalidTemporaryToken)
		f.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestAuthUseCase_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ChangesPassword", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.newUser(t, "longenough1")
		user.RefreshTokenHash = "digest"

		f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()
		f.userRepo.On("Update", mock.Anything, user).Return(nil).Once()

		err := f.useCase.ChangePassword(ctx, user.ID, &authDomain.ChangePasswordInput{
			CurrentPassword: "longenough1",
			NewPassword:     "brandnew12",
		})
		require.NoError(t, err)
		assert.Empty(t, user.RefreshTokenHash)
		assert.True(t, f.credentials.Verify(ctx, "brandnew12", user.Password))
	})

	t.Run("Error_WrongCurrentPassword", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.newUser(t, "longenough1")

		f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

		err := f.useCase.ChangePassword(ctx, user.ID, &authDomain.ChangePasswordInput{
			CurrentPassword: "notmypass1",
			NewPassword:     "brandnew12",
		})
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		f.userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestAuthUseCase_CurrentUser(t *testing.T) {
	f := newAuthFixture(t)
	user := f.newUser(t, "longenough1")

	f.userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil).Once()

	got, err := f.useCase.CurrentUser(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestAuthUseCase_CleanupExpired(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_DeletesOlderThanCutoff", func(t *testing.T) {
		f := newAuthFixture(t)
		before := time.Now().UTC().AddDate(0, 0, -7)

		f.tokenRepo.On("DeleteExpired", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
			return !cutoff.Before(before) && cutoff.Before(before.Add(time.Minute))
		})).Return(int64(5), nil).Once()

		count, err := f.useCase.CleanupExpired(ctx, 7, false)
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)
		f.tokenRepo.AssertExpectations(t)
	})

	t.Run("Success_DryRunOnlyCounts", func(t *testing.T) {
		f := newAuthFixture(t)

		f.tokenRepo.On("CountExpired", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(2), nil).Once()

		count, err := f.useCase.CleanupExpired(ctx, 0, true)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		f.tokenRepo.AssertNotCalled(t, "DeleteExpired", mock.Anything, mock.Anything)
	})

	t.Run("Error_NegativeDays", func(t *testing.T) {
		f := newAuthFixture(t)

		count, err := f.useCase.CleanupExpired(ctx, -1, false)
		assert.Zero(t, count)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestAuthUseCase_MailedLinks(t *testing.T) {
	f := newAuthFixture(t)
	uc := f.useCase.(*authUseCase)
	plain := strings.Repeat("cd", authDomain.TemporaryTokenBytes)

	// The verification link is served by the API; the reset link opens the web client's form.
	assert.Equal(t, "http://localhost:8080/v1/auth/verify-email/"+plain, uc.verificationLink(plain))
	assert.Equal(t, "http://localhost:8080/reset-password/"+plain, uc.resetPasswordLink(plain))
}
