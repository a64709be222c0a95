// Package usecase defines the interfaces and implementations for encrypted
// record management. Use cases orchestrate the envelope encryption core,
// the master key ring, and record persistence.
package usecase

import (
	"context"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
)

// RecordRepository defines the interface for encrypted record persistence.
//
// Records cross this boundary in raw-bytes form; each backend encodes the
// binary fields to hex text on write and parses them back on read.
type RecordRepository interface {
	Save(ctx context.Context, record *cryptoDomain.EncryptedRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*cryptoDomain.EncryptedRecord, error)
	// List returns records ordered by creation, optionally filtered by party.
	// An empty partyID matches every party.
	List(ctx context.Context, partyID string, offset, limit int) ([]*cryptoDomain.EncryptedRecord, error)
	Count(ctx context.Context) (int64, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	// ListByKeyVersionNot returns up to limit records whose DEK is wrapped by
	// a master key generation other than keyVersion, oldest first. The rewrap
	// command drains this set to migrate records onto the active generation.
	ListByKeyVersionNot(ctx context.Context, keyVersion uint64, limit int) ([]*cryptoDomain.EncryptedRecord, error)
}

// RecordUseCase defines the interface for encrypted record business logic.
type RecordUseCase interface {
	// Encrypt envelope-encrypts payload for a party under the ring's active
	// master key and persists the resulting record.
	Encrypt(ctx context.Context, partyID string, payload any) (*cryptoDomain.EncryptedRecord, error)
	Get(ctx context.Context, id uuid.UUID) (*cryptoDomain.EncryptedRecord, error)
	List(ctx context.Context, partyID string, offset, limit int) ([]*cryptoDomain.EncryptedRecord, error)
	Count(ctx context.Context) (int64, error)
	// Decrypt fetches a stored record, validates its structure, and recovers
	// the payload using the master key generation named by the record.
	Decrypt(ctx context.Context, id uuid.UUID) (any, error)
	// DecryptInline validates and decrypts a caller-supplied wire-form record
	// without touching storage.
	DecryptInline(ctx context.Context, encoded cryptoDomain.EncodedRecord) (any, error)
	// Rewrap re-encrypts a record under the active master key. The result is
	// a new record with a new ID; the old record is deleted in the same
	// transaction.
	Rewrap(ctx context.Context, id uuid.UUID) (*cryptoDomain.EncryptedRecord, error)
	// RewrapOutdated rewraps up to batchSize records not on the active master
	// key generation and reports how many it processed. A zero count means
	// every record is current.
	RewrapOutdated(ctx context.Context, batchSize int) (int, error)
}
