// Package domain defines the credential and token models of the authentication core:
// signed access/refresh tokens, single-use temporary tokens and the account flows built on them.
package domain

// TokenClass distinguishes the two signed token variants. Each class has its own secret.
type TokenClass string

const (
	// AccessToken is the short-lived token carrying the subject's id, email and username.
	AccessToken TokenClass = "access"

	// RefreshToken is the long-lived token carrying only the subject's id.
	RefreshToken TokenClass = "refresh"
)

// TemporaryTokenPurpose is the out-of-band flow a temporary token was issued for.
type TemporaryTokenPurpose string

const (
	// EmailVerificationPurpose marks tokens delivered to confirm an email address.
	EmailVerificationPurpose TemporaryTokenPurpose = "email_verification"

	// PasswordResetPurpose marks tokens delivered to reset a forgotten password.
	PasswordResetPurpose TemporaryTokenPurpose = "password_reset"
)

// TemporaryTokenBytes is the number of random bytes in a temporary token.
// The plain value is its hex encoding.
const TemporaryTokenBytes = 20
