// Package service provides technical services for authentication operations.
//
// This package implements credential hashing and verification, signed access/refresh
// token issuance and verification, and single-use temporary token generation.
package service

import (
	"context"
	"time"

	authDomain "github.com/allisson/taskhub/internal/auth/domain"
)

// CredentialService defines operations for one-way credential hashing.
// Implementations must use a salted, deliberately expensive algorithm (bcrypt, argon2id).
type CredentialService interface {
	// Hash returns the salted digest of secret. It fails only for an empty secret, a secret
	// the algorithm cannot accept, or when ctx ends while waiting for a hashing slot.
	Hash(ctx context.Context, secret string) (string, error)

	// Verify reports whether secret matches digest. A malformed or unsupported digest
	// never matches. The comparison is constant-time.
	Verify(ctx context.Context, secret string, digest string) bool

	// DummyDigest returns a valid digest of a random secret. Verifying against it costs as
	// much as a real verification and never matches, which keeps lookups for unknown
	// accounts as slow as lookups for known ones.
	DummyDigest() string
}

// TokenIssuer defines operations for signed and temporary tokens.
type TokenIssuer interface {
	// IssueAccessToken signs {subject id, email, username, issued at, expires at} with the
	// access secret.
	IssueAccessToken(subject authDomain.Subject) (*authDomain.IssuedToken, error)

	// IssueRefreshToken signs {subject id, issued at, expires at} with the refresh secret.
	IssueRefreshToken(subject authDomain.Subject) (*authDomain.IssuedToken, error)

	// VerifyToken checks the signature against the secret of class and the expiry against
	// the current time. Failures are *authDomain.TokenError.
	VerifyToken(token string, class authDomain.TokenClass) (*authDomain.Claims, error)

	// IssueTemporaryToken generates a random single-use value, its SHA-256 digest and its
	// absolute expiry.
	IssueTemporaryToken() (*authDomain.TemporaryTokenOutput, error)

	// ConsumeTemporaryToken reports whether presented hashes to storedDigest and
	// storedExpiry has not passed. Callers must delete the stored token atomically before
	// acting on a true result.
	ConsumeTemporaryToken(presented string, storedDigest string, storedExpiry time.Time) bool

	// DigestToken returns the hex SHA-256 digest of a token.
	DigestToken(token string) string
}
