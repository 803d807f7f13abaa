// Package mocks provides testify mock implementations of the auth use case interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/taskhub/internal/auth/domain"
	userDomain "github.com/allisson/taskhub/internal/user/domain"
)

// MockAuthUseCase is a mock implementation of usecase.AuthUseCase.
type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(
	ctx context.Context,
	input *authDomain.RegisterInput,
) (*authDomain.AuthOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.AuthOutput), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.AuthOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.AuthOutput), args.Error(1)
}

func (m *MockAuthUseCase) Logout(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthUseCase) RefreshTokens(ctx context.Context, refreshToken string) (*authDomain.AuthOutput, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.AuthOutput), args.Error(1)
}

func (m *MockAuthUseCase) VerifyEmail(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthUseCase) ResendEmailVerification(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthUseCase) ForgotPassword(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthUseCase) ResetPassword(ctx context.Context, input *authDomain.ResetPasswordInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockAuthUseCase) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	input *authDomain.ChangePasswordInput,
) error {
	args := m.Called(ctx, userID, input)
	return args.Error(0)
}

func (m *MockAuthUseCase) CurrentUser(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

func (m *MockAuthUseCase) CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockTemporaryTokenRepository is a mock implementation of usecase.TemporaryTokenRepository.
type MockTemporaryTokenRepository struct {
	mock.Mock
}

func (m *MockTemporaryTokenRepository) Create(ctx context.Context, token *authDomain.TemporaryToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTemporaryTokenRepository) Consume(
	ctx context.Context,
	purpose authDomain.TemporaryTokenPurpose,
	tokenHash string,
) (*authDomain.TemporaryToken, error) {
	args := m.Called(ctx, purpose, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.TemporaryToken), args.Error(1)
}

func (m *MockTemporaryTokenRepository) DeleteByUser(
	ctx context.Context,
	userID uuid.UUID,
	purpose authDomain.TemporaryTokenPurpose,
) error {
	args := m.Called(ctx, userID, purpose)
	return args.Error(0)
}

func (m *MockTemporaryTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTemporaryTokenRepository) CountExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}
