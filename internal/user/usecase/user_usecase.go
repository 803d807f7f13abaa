// Package usecase implements account administration used outside the HTTP flows.
package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"

	"github.com/google/uuid"

	"github.com/allisson/taskhub/internal/database"
	apperrors "github.com/allisson/taskhub/internal/errors"
	"github.com/allisson/taskhub/internal/user/domain"
	appValidation "github.com/allisson/taskhub/internal/validation"
)

// CreateUserInput contains the data for an account created by an operator.
type CreateUserInput struct {
	Email         string
	Username      string
	Password      string
	FullName      string
	Role          domain.Role
	EmailVerified bool
}

// UseCase defines the interface for user administration operations
type UseCase interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// UserRepository interface defines user repository operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// PasswordHasher produces the stored digest of a password.
type PasswordHasher interface {
	Hash(ctx context.Context, secret string) (string, error)
}

var validRole = validation.By(func(value any) error {
	role, _ := value.(domain.Role)
	if role == "" || role.Valid() {
		return nil
	}
	return validation.NewError("validation_role", "must be admin, project_admin or member")
})

var createUserRules = appValidation.RuleSet[CreateUserInput]{
	{Field: "email", Value: func(in *CreateUserInput) any { return in.Email }, Check: validation.Required, Message: "email is required"},
	{Field: "email", Value: func(in *CreateUserInput) any { return in.Email }, Check: appValidation.Email},
	{Field: "username", Value: func(in *CreateUserInput) any { return in.Username }, Check: validation.Required, Message: "username is required"},
	{Field: "username", Value: func(in *CreateUserInput) any { return in.Username }, Check: is.LowerCase, Message: "username must be lowercase"},
	{Field: "username", Value: func(in *CreateUserInput) any { return in.Username }, Check: appValidation.NoWhitespace},
	{Field: "username", Value: func(in *CreateUserInput) any { return in.Username }, Check: validation.Length(3, 50)},
	{Field: "password", Value: func(in *CreateUserInput) any { return in.Password }, Check: validation.Required, Message: "password is required"},
	{Field: "password", Value: func(in *CreateUserInput) any { return in.Password }, Check: validation.Length(8, 72), Message: "password must be between 8 and 72 characters"},
	{Field: "role", Value: func(in *CreateUserInput) any { return in.Role }, Check: validRole},
}

// UserUseCase handles user administration
type UserUseCase struct {
	txManager database.TxManager
	userRepo  UserRepository
	hasher    PasswordHasher
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	hasher PasswordHasher,
) UseCase {
	return &UserUseCase{
		txManager: txManager,
		userRepo:  userRepo,
		hasher:    hasher,
	}
}

// CreateUser validates the input, hashes the password and stores the account. An empty
// role defaults to member.
func (uc *UserUseCase) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)

	if err := appValidation.Run(createUserRules, &input).Err(); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleMember
	}

	digest, err := uc.hasher.Hash(ctx, input.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	user := &domain.User{
		ID:              uuid.Must(uuid.NewV7()),
		Username:        input.Username,
		Email:           input.Email,
		FullName:        input.FullName,
		Password:        digest,
		Role:            role,
		IsEmailVerified: input.EmailVerified,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email
func (uc *UserUseCase) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// GetUserByID retrieves a user by ID
func (uc *UserUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}
