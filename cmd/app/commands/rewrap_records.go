package commands

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	recordsUseCase "github.com/allisson/datavault/internal/records/usecase"
)

// RunRewrapRecords finds all records whose envelope is wrapped with an older
// master key version and re-encrypts them under the active version in
// batches. Batches are paced with a token bucket limiter so the command does
// not monopolize the database.
func RunRewrapRecords(
	ctx context.Context,
	recordUseCase recordsUseCase.RecordUseCase,
	logger *slog.Logger,
	batchSize int,
	batchesPerSec float64,
) error {
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if batchesPerSec <= 0 {
		return fmt.Errorf("batches-per-sec must be greater than 0")
	}

	logger.Info("starting record rewrap process",
		slog.Int("batch_size", batchSize),
		slog.Float64("batches_per_sec", batchesPerSec),
	)

	limiter := rate.NewLimiter(rate.Limit(batchesPerSec), 1)
	totalRewrapped := 0

	for {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rewrap interrupted: %w", err)
		}

		rewrappedCount, err := recordUseCase.RewrapOutdated(ctx, batchSize)
		if err != nil {
			return fmt.Errorf("failed to rewrap records in batch: %w", err)
		}

		if rewrappedCount == 0 {
			break
		}

		totalRewrapped += rewrappedCount
		logger.Info("rewrapped batch of records",
			slog.Int("rewrapped_in_batch", rewrappedCount),
			slog.Int("total_rewrapped", totalRewrapped),
		)
	}

	logger.Info("record rewrap process completed",
		slog.Int("total_rewrapped", totalRewrapped),
	)

	return nil
}
