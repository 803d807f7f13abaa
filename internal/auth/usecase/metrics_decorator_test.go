package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/taskhub/internal/auth/domain"
	"github.com/allisson/taskhub/internal/auth/usecase"
	usecaseMocks "github.com/allisson/taskhub/internal/auth/usecase/mocks"
	userDomain "github.com/allisson/taskhub/internal/user/domain"
)

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func expectRecord(m *mockBusinessMetrics, ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "auth", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "auth", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestAuthUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())

	t.Run("Login success", func(t *testing.T) {
		mockNext := &usecaseMocks.MockAuthUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewAuthUseCaseWithMetrics(mockNext, mockMetrics)

		input := &authDomain.LoginInput{Email: "john@example.com", Password: "longenough1"}
		output := &authDomain.AuthOutput{User: &userDomain.User{ID: userID}}

		mockNext.On("Login", ctx, input).Return(output, nil).Once()
		expectRecord(mockMetrics, ctx, "login", "success")

		res, err := uc.Login(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, output, res)
		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Login error", func(t *testing.T) {
		mockNext := &usecaseMocks.MockAuthUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewAuthUseCaseWithMetrics(mockNext, mockMetrics)

		input := &authDomain.LoginInput{Email: "john@example.com", Password: "wrongpass1"}

		mockNext.On("Login", ctx, input).Return(nil, authDomain.ErrInvalidCredentials).Once()
		expectRecord(mockMetrics, ctx, "login", "rejected")

		res, err := uc.Login(ctx, input)
		assert.Nil(t, res)
		assert.Equal(t, authDomain.ErrInvalidCredentials, err)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Every operation is recorded", func(t *testing.T) {
		mockNext := &usecaseMocks.MockAuthUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		uc := usecase.NewAuthUseCaseWithMetrics(mockNext, mockMetrics)
		failure := errors.New("boom")

		registerInput := &authDomain.RegisterInput{Email: "john@example.com"}
		resetInput := &authDomain.ResetPasswordInput{Token: "token"}
		changeInput := &authDomain.ChangePasswordInput{CurrentPassword: "a"}

		mockNext.On("Register", ctx, registerInput).Return(nil, failure).Once()
		mockNext.On("Logout", ctx, userID).Return(nil).Once()
		mockNext.On("RefreshTokens", ctx, "refresh").Return(nil, failure).Once()
		mockNext.On("VerifyEmail", ctx, "token").Return(nil).Once()
		mockNext.On("ResendEmailVerification", ctx, userID).Return(nil).Once()
		mockNext.On("ForgotPassword", ctx, "john@example.com").Return(nil).Once()
		mockNext.On("ResetPassword", ctx, resetInput).Return(failure).Once()
		mockNext.On("ChangePassword", ctx, userID, changeInput).Return(nil).Once()
		mockNext.On("CurrentUser", ctx, userID).Return(&userDomain.User{ID: userID}, nil).Once()
		mockNext.On("CleanupExpired", ctx, 7, true).Return(int64(3), nil).Once()

		expectRecord(mockMetrics, ctx, "register", "error")
		expectRecord(mockMetrics, ctx, "logout", "success")
		expectRecord(mockMetrics, ctx, "refresh_tokens", "error")
		expectRecord(mockMetrics, ctx, "verify_email", "success")
		expectRecord(mockMetrics, ctx, "resend_email_verification", "success")
		expectRecord(mockMetrics, ctx, "forgot_password", "success")
		expectRecord(mockMetrics, ctx, "reset_password", "error")
		expectRecord(mockMetrics, ctx, "change_password", "success")
		expectRecord(mockMetrics, ctx, "current_user", "success")
		expectRecord(mockMetrics, ctx, "cleanup_expired_tokens", "success")

		_, _ = uc.Register(ctx, registerInput)
		_ = uc.Logout(ctx, userID)
		_, _ = uc.RefreshTokens(ctx, "refresh")
		_ = uc.VerifyEmail(ctx, "token")
		_ = uc.ResendEmailVerification(ctx, userID)
		_ = uc.ForgotPassword(ctx, "john@example.com")
		_ = uc.ResetPassword(ctx, resetInput)
		_ = uc.ChangePassword(ctx, userID, changeInput)
		user, err := uc.CurrentUser(ctx, userID)
		assert.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		count, err := uc.CleanupExpired(ctx, 7, true)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)

		mockNext.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})
}
