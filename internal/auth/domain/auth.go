package domain

import (
	userDomain "github.com/allisson/taskhub/internal/user/domain"
)

// RegisterInput contains the data for creating an account through the public endpoint.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName string
}

// LoginInput contains the credentials presented at login.
type LoginInput struct {
	Email    string
	Password string
}

// ResetPasswordInput contains a password reset token and the new password.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// ChangePasswordInput contains the current and new password of an authenticated user.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// AuthOutput is returned by flows that start a session.
type AuthOutput struct {
	User   *userDomain.User
	Tokens *TokenPair
}
