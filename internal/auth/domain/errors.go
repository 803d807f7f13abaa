package domain

import (
	"fmt"

	"github.com/allisson/taskhub/internal/errors"
)

// Authentication errors.
var (
	// ErrInvalidCredentials indicates the email/password pair did not match an account.
	// It is returned for unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrRefreshTokenRevoked indicates a validly signed refresh token that is no longer the
	// account's current one.
	ErrRefreshTokenRevoked = errors.Wrap(errors.ErrUnauthorized, "refresh token revoked")

	// ErrInvalidTemporaryToken indicates a temporary token that is unknown, already consumed
	// or expired.
	ErrInvalidTemporaryToken = errors.Wrap(errors.ErrUnauthorized, "invalid temporary token")

	// ErrTemporaryTokenNotFound indicates no stored temporary token matches the digest.
	ErrTemporaryTokenNotFound = errors.Wrap(errors.ErrNotFound, "temporary token not found")

	// ErrEmailAlreadyVerified indicates a verification was requested for a verified account.
	ErrEmailAlreadyVerified = errors.Wrap(errors.ErrConflict, "email already verified")

	// ErrEmptySecret indicates an attempt to hash an empty credential.
	ErrEmptySecret = errors.Wrap(errors.ErrInvalidInput, "secret must not be empty")

	// ErrSecretTooLong indicates a credential longer than the hashing algorithm accepts.
	ErrSecretTooLong = errors.Wrap(errors.ErrInvalidInput, "secret exceeds 72 bytes")
)

// TokenErrorKind is the internal reason a signed token was rejected.
type TokenErrorKind int

const (
	// TokenMalformed means the token could not be decoded or has unusable claims.
	TokenMalformed TokenErrorKind = iota + 1

	// TokenSignatureInvalid means the signature does not match the secret of the class.
	TokenSignatureInvalid

	// TokenExpired means the token's expiry instant has been reached.
	TokenExpired
)

func (k TokenErrorKind) String() string {
	switch k {
	case TokenMalformed:
		return "malformed"
	case TokenSignatureInvalid:
		return "signature_invalid"
	case TokenExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// TokenError is returned when a signed token fails verification. It matches
// errors.ErrUnauthorized so every kind is answered with the same response; Kind is
// meant for logs only.
type TokenError struct {
	Kind  TokenErrorKind
	Class TokenClass
	Err   error
}

func (e *TokenError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid %s token: %s", e.Class, e.Kind)
	}
	return fmt.Sprintf("invalid %s token: %s: %v", e.Class, e.Kind, e.Err)
}

func (e *TokenError) Unwrap() []error {
	if e.Err == nil {
		return []error{errors.ErrUnauthorized}
	}
	return []error{errors.ErrUnauthorized, e.Err}
}
