// Package domain defines the core user domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/taskhub/internal/errors"
)

// Role is the account role stored on a user.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleProjectAdmin Role = "project_admin"
	RoleMember       Role = "member"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProjectAdmin, RoleMember:
		return true
	}
	return false
}

// User represents an account.
//
// Password holds the credential digest, never the plain value. RefreshTokenHash is the
// SHA-256 digest of the only refresh token currently accepted for the account; empty
// means no active session.
type User struct {
	ID               uuid.UUID
	Username         string
	Email            string
	FullName         string
	Password         string
	Role             Role
	IsEmailVerified  bool
	RefreshTokenHash string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email or username already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidRole indicates the role is not one of the known roles.
	ErrInvalidRole = errors.Wrap(errors.ErrInvalidInput, "invalid role")
)
