package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/allisson/taskhub/internal/user/domain"
	userUseCase "github.com/allisson/taskhub/internal/user/usecase"
)

// CreateUserOptions holds the create-user flags.
type CreateUserOptions struct {
	Email    string
	Username string
	FullName string
	Role     string
	Verified bool
	Format   string
}

type createUserResult struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Verified bool   `json:"is_email_verified"`
}

// RunCreateUser creates an account. The password is read from the first line of io.Reader
// so it never appears in the process arguments.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	useCase userUseCase.UseCase,
	logger *slog.Logger,
	opts CreateUserOptions,
	io IOTuple,
) error {
	if opts.Format != "text" && opts.Format != "json" {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", opts.Format)
	}

	role := domain.Role(opts.Role)
	if !role.Valid() {
		return fmt.Errorf("invalid role: %s (valid options: admin, project_admin, member)", opts.Role)
	}

	password, err := promptForPassword(io)
	if err != nil {
		return err
	}

	logger.Info("creating user", slog.String("username", opts.Username), slog.String("role", opts.Role))

	user, err := useCase.CreateUser(ctx, userUseCase.CreateUserInput{
		Email:         opts.Email,
		Username:      opts.Username,
		Password:      password,
		FullName:      opts.FullName,
		Role:          role,
		EmailVerified: opts.Verified,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	result := createUserResult{
		ID:       user.ID.String(),
		Email:    user.Email,
		Username: user.Username,
		Role:     string(user.Role),
		Verified: user.IsEmailVerified,
	}
	text := fmt.Sprintf("User created successfully\nID: %s\nEmail: %s\nRole: %s", result.ID, result.Email, result.Role)
	if err := writeResult(io.Writer, opts.Format, result, text); err != nil {
		return err
	}

	logger.Info("user created", slog.String("user_id", result.ID))
	return nil
}

func promptForPassword(io IOTuple) (string, error) {
	if _, err := fmt.Fprint(io.Writer, "Password: "); err != nil {
		return "", err
	}

	scanner := bufio.NewScanner(io.Reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return "", errors.New("password is required")
	}

	password := strings.TrimRight(scanner.Text(), "\r")
	if password == "" {
		return "", errors.New("password is required")
	}
	// keep following output on its own line
	if _, err := fmt.Fprintln(io.Writer); err != nil {
		return "", err
	}
	return password, nil
}
