package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/taskhub/internal/auth/domain"
	"github.com/allisson/taskhub/internal/config"
	apperrors "github.com/allisson/taskhub/internal/errors"
)

// TokenIssuerConfig holds the secrets and lifetimes used by the TokenIssuer.
type TokenIssuerConfig struct {
	AccessSecret             string
	AccessExpiration         time.Duration
	RefreshSecret            string
	RefreshExpiration        time.Duration
	TemporaryTokenExpiration time.Duration
	Issuer                   string
}

// TokenIssuerOption customizes a TokenIssuer.
type TokenIssuerOption func(*tokenIssuer)

// WithClock replaces the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenIssuerOption {
	return func(t *tokenIssuer) {
		t.now = now
	}
}

// tokenClaims is the JWT payload. Email and Username are omitted from refresh tokens.
type tokenClaims struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// tokenIssuer implements TokenIssuer with HS256 JWTs and SHA-256 temporary tokens.
type tokenIssuer struct {
	accessSecret             []byte
	accessExpiration         time.Duration
	refreshSecret            []byte
	refreshExpiration        time.Duration
	temporaryTokenExpiration time.Duration
	issuer                   string
	now                      func() time.Time
}

// IssueAccessToken signs an access token for subject.
func (t *tokenIssuer) IssueAccessToken(subject authDomain.Subject) (*authDomain.IssuedToken, error) {
	return t.sign(subject, t.accessSecret, t.accessExpiration, true)
}

// IssueRefreshToken signs a refresh token for subject.
func (t *tokenIssuer) IssueRefreshToken(subject authDomain.Subject) (*authDomain.IssuedToken, error) {
	return t.sign(subject, t.refreshSecret, t.refreshExpiration, false)
}

func (t *tokenIssuer) sign(
	subject authDomain.Subject,
	secret []byte,
	expiration time.Duration,
	withProfile bool,
) (*authDomain.IssuedToken, error) {
	if subject.ID == uuid.Nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "token subject is required")
	}

	now := t.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Subject:   subject.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	}
	if withProfile {
		claims.Email = subject.Email
		claims.Username = subject.Username
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to sign token")
	}

	return &authDomain.IssuedToken{
		Token:     signed,
		ID:        claims.ID,
		ExpiresAt: claims.ExpiresAt.UTC(),
	}, nil
}

// VerifyToken parses token with the secret of class and returns its claims.
func (t *tokenIssuer) VerifyToken(token string, class authDomain.TokenClass) (*authDomain.Claims, error) {
	var secret []byte
	switch class {
	case authDomain.AccessToken:
		secret = t.accessSecret
	case authDomain.RefreshToken:
		secret = t.refreshSecret
	default:
		return nil, &authDomain.TokenError{Kind: authDomain.TokenMalformed, Class: class}
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	}
	if t.issuer != "" {
		options = append(options, jwt.WithIssuer(t.issuer))
	}

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, options...)
	if err != nil {
		return nil, &authDomain.TokenError{Kind: classifyTokenError(err), Class: class, Err: err}
	}

	subjectID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, &authDomain.TokenError{Kind: authDomain.TokenMalformed, Class: class, Err: err}
	}

	result := &authDomain.Claims{
		ID:        claims.ID,
		Class:     class,
		SubjectID: subjectID,
		Email:     claims.Email,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.UTC(),
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.UTC()
	}
	return result, nil
}

func classifyTokenError(err error) authDomain.TokenErrorKind {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return authDomain.TokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return authDomain.TokenSignatureInvalid
	default:
		return authDomain.TokenMalformed
	}
}

// IssueTemporaryToken generates 20 random bytes, hex-encoded, with their SHA-256 digest.
func (t *tokenIssuer) IssueTemporaryToken() (*authDomain.TemporaryTokenOutput, error) {
	randomBytes := make([]byte, authDomain.TemporaryTokenBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to generate random token")
	}

	plainValue := hex.EncodeToString(randomBytes)

	return &authDomain.TemporaryTokenOutput{
		PlainValue: plainValue,
		Digest:     t.DigestToken(plainValue),
		ExpiresAt:  t.now().UTC().Add(t.temporaryTokenExpiration),
	}, nil
}

// ConsumeTemporaryToken compares digests in constant time, then checks the expiry.
func (t *tokenIssuer) ConsumeTemporaryToken(presented string, storedDigest string, storedExpiry time.Time) bool {
	if presented == "" || storedDigest == "" {
		return false
	}

	digest := t.DigestToken(presented)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(storedDigest)) != 1 {
		return false
	}

	return !t.now().After(storedExpiry)
}

// DigestToken hashes a token using SHA-256.
// Returns the hash as a hexadecimal string.
func (t *tokenIssuer) DigestToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// NewTokenIssuer creates a TokenIssuer. It refuses to build without both secrets and all
// lifetimes, or when the access and refresh secrets are the same.
func NewTokenIssuer(cfg TokenIssuerConfig, opts ...TokenIssuerOption) (TokenIssuer, error) {
	switch {
	case cfg.AccessSecret == "" || cfg.RefreshSecret == "":
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, "token signing secrets are required")
	case cfg.AccessSecret == cfg.RefreshSecret:
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, "access and refresh secrets must differ")
	case cfg.AccessExpiration <= 0 || cfg.RefreshExpiration <= 0:
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, "token expirations are required")
	case cfg.TemporaryTokenExpiration <= 0:
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, "temporary token expiration is required")
	}

	t := &tokenIssuer{
		accessSecret:             []byte(cfg.AccessSecret),
		accessExpiration:         cfg.AccessExpiration,
		refreshSecret:            []byte(cfg.RefreshSecret),
		refreshExpiration:        cfg.RefreshExpiration,
		temporaryTokenExpiration: cfg.TemporaryTokenExpiration,
		issuer:                   cfg.Issuer,
		now:                      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

// NewTokenIssuerFromConfig creates a TokenIssuer from the application configuration.
func NewTokenIssuerFromConfig(cfg *config.Config, opts ...TokenIssuerOption) (TokenIssuer, error) {
	return NewTokenIssuer(TokenIssuerConfig{
		AccessSecret:             cfg.JWTAccessSecret,
		AccessExpiration:         cfg.JWTAccessExpiration,
		RefreshSecret:            cfg.JWTRefreshSecret,
		RefreshExpiration:        cfg.JWTRefreshExpiration,
		TemporaryTokenExpiration: cfg.TemporaryTokenExpiration,
		Issuer:                   cfg.JWTIssuer,
	}, opts...)
}
