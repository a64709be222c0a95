package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
	"github.com/allisson/datavault/internal/metrics"
)

// recordUseCaseWithMetrics decorates RecordUseCase with metrics instrumentation.
type recordUseCaseWithMetrics struct {
	next    RecordUseCase
	metrics metrics.BusinessMetrics
}

// NewRecordUseCaseWithMetrics wraps a RecordUseCase with metrics recording.
func NewRecordUseCaseWithMetrics(useCase RecordUseCase, m metrics.BusinessMetrics) RecordUseCase {
	return &recordUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Encrypt records metrics for record encryption operations.
func (r *recordUseCaseWithMetrics) Encrypt(
	ctx context.Context,
	partyID string,
	payload any,
) (*cryptoDomain.EncryptedRecord, error) {
	start := time.Now()
	record, err := r.next.Encrypt(ctx, partyID, payload)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "records", "record_encrypt", status)
	r.metrics.RecordDuration(ctx, "records", "record_encrypt", time.Since(start), status)

	return record, err
}

// Get records metrics for record retrieval operations.
func (r *recordUseCaseWithMetrics) Get(
	ctx context.Context,
	id uuid.UUID,
) (*cryptoDomain.EncryptedRecord, error) {
	start := time.Now()
	record, err := r.next.Get(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "records", "record_get", status)
	r.metrics.RecordDuration(ctx, "records", "record_get", time.Since(start), status)

	return record, err
}

// List records metrics for record listing operations.
func (r *recordUseCaseWithMetrics) List(
	ctx context.Context,
	partyID string,
	offset, limit int,
) ([]*cryptoDomain.EncryptedRecord, error) {
	start := time.Now()
	records, err := r.next.List(ctx, partyID, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "records", "record_list", status)
	r.metrics.RecordDuration(ctx, "records", "record_list", time.Since(start), status)

	return records, err
}

// Count records metrics for record counting operations.
func (r *recordUseCaseWithMetrics) Count(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := r.next.Count(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "records", "record_count", status)
	r.metrics.RecordDuration(ctx, "records", "record_count", time.Since(start), status)

	return count, err
}

// Decrypt records metrics for record decryption operations.
func (r *recordUseCaseWithMetrics) Decrypt(ctx context.Context, id uuid.UUID) (any, error) {
	start := time.Now()
	payload, err := r.next.Decrypt(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "records", "record_decrypt", status)
	r.metrics.RecordDuration(ctx, "records", "record_decrypt", time.Since(start), status)

	return payload, err
}

// DecryptInline records metrics for inline record decryption operations.
func (r *recordUseCaseWithMetrics) DecryptInline(
	ctx context.Context,
	encoded cryptoDomain.EncodedRecord,
) (any, error) {
	start := time.Now()
	payload, err := r.next.DecryptInline(ctx, encoded)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "records", "record_decrypt_inline", status)
	r.metrics.RecordDuration(ctx, "records", "record_decrypt_inline", time.Since(start), status)

	return payload, err
}

// Rewrap records metrics for single-record rewrap operations.
func (r *recordUseCaseWithMetrics) Rewrap(
	ctx context.Context,
	id uuid.UUID,
) (*cryptoDomain.EncryptedRecord, error) {
	start := time.Now()
	record, err := r.next.Rewrap(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "records", "record_rewrap", status)
	r.metrics.RecordDuration(ctx, "records", "record_rewrap", time.Since(start), status)

	return record, err
}

// RewrapOutdated records metrics for batch rewrap operations.
func (r *recordUseCaseWithMetrics) RewrapOutdated(ctx context.Context, batchSize int) (int, error) {
	start := time.Now()
	count, err := r.next.RewrapOutdated(ctx, batchSize)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "records", "record_rewrap_outdated", status)
	r.metrics.RecordDuration(ctx, "records", "record_rewrap_outdated", time.Since(start), status)

	return count, err
}
