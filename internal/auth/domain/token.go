package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subject is the account a signed token is issued for.
type Subject struct {
	ID       uuid.UUID
	Email    string
	Username string
}

// Claims is the decoded content of a verified signed token.
// Email and Username are empty for refresh tokens.
type Claims struct {
	ID        string
	Class     TokenClass
	SubjectID uuid.UUID
	Email     string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IssuedToken is a freshly signed token with its claims.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken  *IssuedToken
	RefreshToken *IssuedToken
}

// TemporaryTokenOutput is a freshly generated temporary token. Only Digest and ExpiresAt
// may be persisted; PlainValue is delivered to the user and then forgotten.
type TemporaryTokenOutput struct {
	PlainValue string
	Digest     string
	ExpiresAt  time.Time
}

// TemporaryToken is the persisted form of a temporary token.
type TemporaryToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Purpose   TemporaryTokenPurpose
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
