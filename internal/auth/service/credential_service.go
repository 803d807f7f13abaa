package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/allisson/go-pwdhash"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	authDomain "github.com/allisson/taskhub/internal/auth/domain"
	"github.com/allisson/taskhub/internal/config"
	apperrors "github.com/allisson/taskhub/internal/errors"
)

// bcryptMaxSecretLength is the longest secret bcrypt hashes without truncation.
const bcryptMaxSecretLength = 72

// credentialService implements CredentialService with bcrypt or Argon2id.
// A weighted semaphore bounds how many hashes run at once so CPU-heavy work on one
// request cannot starve the rest of the process.
type credentialService struct {
	algorithm   string
	cost        int
	hasher      *pwdhash.PasswordHasher
	slots       *semaphore.Weighted
	dummyDigest string
}

// Hash hashes secret with the configured algorithm.
func (s *credentialService) Hash(ctx context.Context, secret string) (string, error) {
	if secret == "" {
		return "", authDomain.ErrEmptySecret
	}

	if err := s.slots.Acquire(ctx, 1); err != nil {
		return "", apperrors.Wrap(err, "failed to acquire hashing slot")
	}
	defer s.slots.Release(1)

	if s.algorithm == config.HashAlgorithmArgon2id {
		digest, err := s.hasher.Hash([]byte(secret))
		if err != nil {
			return "", apperrors.Wrap(err, "failed to hash secret")
		}
		return digest, nil
	}

	if len(secret) > bcryptMaxSecretLength {
		return "", authDomain.ErrSecretTooLong
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash secret")
	}
	return string(digest), nil
}

// Verify compares secret against digest. The algorithm is picked from the digest itself,
// so digests produced before an algorithm switch keep verifying.
func (s *credentialService) Verify(ctx context.Context, secret string, digest string) bool {
	if digest == "" {
		return false
	}

	if err := s.slots.Acquire(ctx, 1); err != nil {
		return false
	}
	defer s.slots.Release(1)

	if isBcryptDigest(digest) {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
	}

	ok, err := s.hasher.Verify([]byte(secret), digest)
	if err != nil {
		return false
	}
	return ok
}

// DummyDigest returns the digest computed at construction.
func (s *credentialService) DummyDigest() string {
	return s.dummyDigest
}

func isBcryptDigest(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}

// NewCredentialService creates a CredentialService for the given algorithm.
// cost is the bcrypt work factor and concurrency the number of hashes allowed to run at once.
func NewCredentialService(algorithm string, cost int, concurrency int) (CredentialService, error) {
	switch algorithm {
	case config.HashAlgorithmBcrypt:
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return nil, apperrors.Wrap(apperrors.ErrConfiguration, "invalid bcrypt cost")
		}
	case config.HashAlgorithmArgon2id:
	default:
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, "unsupported hash algorithm")
	}
	if concurrency <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, "hashing concurrency must be positive")
	}

	// Argon2id is always available for verification of existing digests
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	s := &credentialService{
		algorithm: algorithm,
		cost:      cost,
		hasher:    hasher,
		slots:     semaphore.NewWeighted(int64(concurrency)),
	}

	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to generate dummy secret")
	}
	s.dummyDigest, err = s.Hash(context.Background(), hex.EncodeToString(randomBytes))
	if err != nil {
		return nil, err
	}

	return s, nil
}

// NewCredentialServiceFromConfig creates a CredentialService from the application configuration.
func NewCredentialServiceFromConfig(cfg *config.Config) (CredentialService, error) {
	return NewCredentialService(cfg.PasswordHashAlgorithm, cfg.PasswordHashCost, cfg.PasswordHashConcurrency)
}
