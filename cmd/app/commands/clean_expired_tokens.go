package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/taskhub/internal/auth/usecase"
)

type cleanExpiredTokensResult struct {
	Count  int64 `json:"count"`
	Days   int   `json:"days"`
	DryRun bool  `json:"dry_run"`
}

// RunCleanExpiredTokens deletes temporary tokens that expired more than days ago, or only
// counts them in dry-run mode.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredTokens(
	ctx context.Context,
	useCase authUseCase.AuthUseCase,
	logger *slog.Logger,
	out io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}

	logger.Info("cleaning expired tokens",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	count, err := useCase.CleanupExpired(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to cleanup expired tokens: %w", err)
	}

	text := fmt.Sprintf("Successfully deleted %d expired token(s) older than %d day(s)", count, days)
	if dryRun {
		text = fmt.Sprintf("Dry-run mode: Would delete %d expired token(s) older than %d day(s)", count, days)
	}
	result := cleanExpiredTokensResult{Count: count, Days: days, DryRun: dryRun}
	if err := writeResult(out, format, result, text); err != nil {
		return err
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}
