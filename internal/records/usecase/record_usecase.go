// Package usecase implements business logic orchestration for encrypted record
// management. This package coordinates the envelope encryption engine, the
// master key ring, and repositories to store and recover protected payloads.
package usecase

import (
	"context"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
	cryptoService "github.com/allisson/datavault/internal/crypto/service"
	"github.com/allisson/datavault/internal/database"
)

// recordUseCase implements the RecordUseCase interface for managing encrypted records.
type recordUseCase struct {
	txManager  database.TxManager
	recordRepo RecordRepository
	keyRing    *cryptoDomain.MasterKeyRing
	envelope   cryptoService.Envelope
	validator  cryptoService.RecordValidator
}

// Encrypt envelope-encrypts a payload for a party and persists the resulting record.
func (r *recordUseCase) Encrypt(
	ctx context.Context,
	partyID string,
	payload any,
) (*cryptoDomain.EncryptedRecord, error) {
	masterKey, found := r.keyRing.Active()
	if !found {
		return nil, cryptoDomain.ErrActiveMasterKeyNotFound
	}

	record, err := r.envelope.Encrypt(masterKey, partyID, payload)
	if err != nil {
		return nil, err
	}

	if err := r.recordRepo.Save(ctx, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

// Get retrieves a stored record by its ID without decrypting it.
func (r *recordUseCase) Get(ctx context.Context, id uuid.UUID) (*cryptoDomain.EncryptedRecord, error) {
	return r.recordRepo.GetByID(ctx, id)
}

// List retrieves records ordered by creation with pagination, optionally
// filtered by party. Records are returned in their encrypted form.
func (r *recordUseCase) List(
	ctx context.Context,
	partyID string,
	offset, limit int,
) ([]*cryptoDomain.EncryptedRecord, error) {
	return r.recordRepo.List(ctx, partyID, offset, limit)
}

// Count returns the total number of stored records.
func (r *recordUseCase) Count(ctx context.Context) (int64, error) {
	return r.recordRepo.Count(ctx)
}

// Decrypt retrieves a stored record and recovers its payload.
func (r *recordUseCase) Decrypt(ctx context.Context, id uuid.UUID) (any, error) {
	record, err := r.recordRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return r.decryptRecord(*record)
}

// DecryptInline validates and decrypts a caller-supplied wire-form record
// without touching storage.
func (r *recordUseCase) DecryptInline(
	ctx context.Context,
	encoded cryptoDomain.EncodedRecord,
) (any, error) {
	record, err := cryptoDomain.ParseEncodedRecord(encoded)
	if err != nil {
		return nil, err
	}

	return r.decryptRecord(record)
}

// decryptRecord is a helper that validates record structure, resolves the
// master key generation named by the record, and runs envelope decryption.
func (r *recordUseCase) decryptRecord(record cryptoDomain.EncryptedRecord) (any, error) {
	if err := r.validator.Validate(record); err != nil {
		return nil, err
	}

	masterKey, found := r.keyRing.Get(record.KeyVersion)
	if !found {
		return nil, cryptoDomain.ErrMasterKeyVersionNotFound
	}

	return r.envelope.Decrypt(masterKey, record)
}

// Rewrap re-encrypts a stored record under the active master key.
func (r *recordUseCase) Rewrap(ctx context.Context, id uuid.UUID) (*cryptoDomain.EncryptedRecord, error) {
	record, err := r.recordRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return r.rewrapRecord(ctx, record)
}

// rewrapRecord decrypts a record with the key generation it names, re-encrypts
// the payload under the active generation, and atomically swaps the stored
// rows. Rewrapping never mutates a record in place: the replacement has a new
// ID, fresh nonces, and a fresh DEK.
func (r *recordUseCase) rewrapRecord(
	ctx context.Context,
	record *cryptoDomain.EncryptedRecord,
) (*cryptoDomain.EncryptedRecord, error) {
	payload, err := r.decryptRecord(*record)
	if err != nil {
		return nil, err
	}

	activeKey, found := r.keyRing.Active()
	if !found {
		return nil, cryptoDomain.ErrActiveMasterKeyNotFound
	}

	newRecord, err := r.envelope.Encrypt(activeKey, record.PartyID, payload)
	if err != nil {
		return nil, err
	}

	err = r.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := r.recordRepo.Save(txCtx, &newRecord); err != nil {
			return err
		}
		return r.recordRepo.DeleteByID(txCtx, record.ID)
	})
	if err != nil {
		return nil, err
	}

	return &newRecord, nil
}

// RewrapOutdated rewraps one batch of records whose DEK is wrapped by a
// non-active master key generation. It returns the number of records
// processed; zero means the store has fully converged on the active key.
func (r *recordUseCase) RewrapOutdated(ctx context.Context, batchSize int) (int, error) {
	records, err := r.recordRepo.ListByKeyVersionNot(ctx, r.keyRing.ActiveVersion(), batchSize)
	if err != nil {
		return 0, err
	}

	rewrapped := 0
	for _, record := range records {
		if _, err := r.rewrapRecord(ctx, record); err != nil {
			return rewrapped, err
		}
		rewrapped++
	}

	return rewrapped, nil
}

// NewRecordUseCase creates a new record use case instance with the provided dependencies.
func NewRecordUseCase(
	txManager database.TxManager,
	recordRepo RecordRepository,
	keyRing *cryptoDomain.MasterKeyRing,
	envelope cryptoService.Envelope,
	validator cryptoService.RecordValidator,
) RecordUseCase {
	return &recordUseCase{
		txManager:  txManager,
		recordRepo: recordRepo,
		keyRing:    keyRing,
		envelope:   envelope,
		validator:  validator,
	}
}
