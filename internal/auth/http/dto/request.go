// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"

	customValidation "github.com/allisson/taskhub/internal/validation"
)

const (
	passwordMinLength = 8
	// bcrypt ignores everything past 72 bytes
	passwordMaxLength = 72
)

// RegisterRequest is the body of POST /v1/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"` //nolint:gosec // request field
	FullName string `json:"full_name"`
}

// RegisterRules validates RegisterRequest.
var RegisterRules = customValidation.RuleSet[RegisterRequest]{
	{Field: "email", Value: func(r *RegisterRequest) any { return r.Email }, Check: validation.Required, Message: "email is required"},
	{Field: "email", Value: func(r *RegisterRequest) any { return r.Email }, Check: customValidation.Email},
	{Field: "email", Value: func(r *RegisterRequest) any { return r.Email }, Check: validation.Length(0, 255)},
	{Field: "username", Value: func(r *RegisterRequest) any { return r.Username }, Check: validation.Required, Message: "username is required"},
	{Field: "username", Value: func(r *RegisterRequest) any { return r.Username }, Check: is.LowerCase, Message: "username must be lowercase"},
	{Field: "username", Value: func(r *RegisterRequest) any { return r.Username }, Check: customValidation.NoWhitespace},
	{Field: "username", Value: func(r *RegisterRequest) any { return r.Username }, Check: validation.Length(3, 50), Message: "username must be at least 3 characters"},
	{Field: "password", Value: func(r *RegisterRequest) any { return r.Password }, Check: validation.Required, Message: "password is required"},
	{Field: "password", Value: func(r *RegisterRequest) any { return r.Password }, Check: validation.Length(passwordMinLength, passwordMaxLength), Message: "password must be between 8 and 72 characters"},
	{Field: "full_name", Value: func(r *RegisterRequest) any { return r.FullName }, Check: validation.Length(0, 255)},
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request field
}

// LoginRules validates LoginRequest.
var LoginRules = customValidation.RuleSet[LoginRequest]{
	{Field: "email", Value: func(r *LoginRequest) any { return r.Email }, Check: validation.Required, Message: "email is required"},
	{Field: "email", Value: func(r *LoginRequest) any { return r.Email }, Check: customValidation.Email},
	{Field: "password", Value: func(r *LoginRequest) any { return r.Password }, Check: validation.Required, Message: "password is required"},
}

// RefreshTokenRequest is the body of POST /v1/auth/refresh-token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"` //nolint:gosec // request field
}

// RefreshTokenRules validates RefreshTokenRequest.
var RefreshTokenRules = customValidation.RuleSet[RefreshTokenRequest]{
	{Field: "refresh_token", Value: func(r *RefreshTokenRequest) any { return r.RefreshToken }, Check: validation.Required, Message: "refresh_token is required"},
}

// ForgotPasswordRequest is the body of POST /v1/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPasswordRules validates ForgotPasswordRequest.
var ForgotPasswordRules = customValidation.RuleSet[ForgotPasswordRequest]{
	{Field: "email", Value: func(r *ForgotPasswordRequest) any { return r.Email }, Check: validation.Required, Message: "email is required"},
	{Field: "email", Value: func(r *ForgotPasswordRequest) any { return r.Email }, Check: customValidation.Email},
}

// ResetPasswordRequest is the body of POST /v1/auth/reset-password/:token.
type ResetPasswordRequest struct {
	Password string `json:"password"` //nolint:gosec // request field
}

// ResetPasswordRules validates ResetPasswordRequest.
var ResetPasswordRules = customValidation.RuleSet[ResetPasswordRequest]{
	{Field: "password", Value: func(r *ResetPasswordRequest) any { return r.Password }, Check: validation.Required, Message: "password is required"},
	{Field: "password", Value: func(r *ResetPasswordRequest) any { return r.Password }, Check: validation.Length(passwordMinLength, passwordMaxLength), Message: "password must be between 8 and 72 characters"},
}

// ChangePasswordRequest is the body of POST /v1/auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"` //nolint:gosec // request field
	NewPassword     string `json:"new_password"`     //nolint:gosec // request field
}

// ChangePasswordRules validates ChangePasswordRequest.
var ChangePasswordRules = customValidation.RuleSet[ChangePasswordRequest]{
	{Field: "current_password", Value: func(r *ChangePasswordRequest) any { return r.CurrentPassword }, Check: validation.Required, Message: "current_password is required"},
	{Field: "new_password", Value: func(r *ChangePasswordRequest) any { return r.NewPassword }, Check: validation.Required, Message: "new_password is required"},
	{Field: "new_password", Value: func(r *ChangePasswordRequest) any { return r.NewPassword }, Check: validation.Length(passwordMinLength, passwordMaxLength), Message: "new_password must be between 8 and 72 characters"},
}
