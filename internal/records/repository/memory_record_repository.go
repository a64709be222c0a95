package repository

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
	apperrors "github.com/allisson/datavault/internal/errors"
)

// MemoryRecordRepository implements EncryptedRecord persistence in process
// memory. It backs the "memory" database driver for local development and
// tests; contents are lost on shutdown.
type MemoryRecordRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]cryptoDomain.EncryptedRecord
}

// Save inserts a new encrypted record, rejecting duplicate identifiers.
func (m *MemoryRecordRepository) Save(
	ctx context.Context,
	record *cryptoDomain.EncryptedRecord,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[record.ID]; exists {
		return apperrors.ErrConflict
	}

	m.records[record.ID] = *record
	return nil
}

// GetByID retrieves an encrypted record by its identifier.
func (m *MemoryRecordRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*cryptoDomain.EncryptedRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, exists := m.records[id]
	if !exists {
		return nil, apperrors.ErrNotFound
	}

	return &record, nil
}

// List retrieves encrypted records ordered by creation, optionally filtered
// by party. An empty partyID matches every party.
func (m *MemoryRecordRepository) List(
	ctx context.Context,
	partyID string,
	offset, limit int,
) ([]*cryptoDomain.EncryptedRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := m.sortedRecords(func(record cryptoDomain.EncryptedRecord) bool {
		return partyID == "" || record.PartyID == partyID
	})

	return pageRecords(matched, offset, limit), nil
}

// Count returns the total number of encrypted records.
func (m *MemoryRecordRepository) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.records)), nil
}

// DeleteByID removes an encrypted record by its identifier.
func (m *MemoryRecordRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, id)
	return nil
}

// ListByKeyVersionNot retrieves up to limit records whose DEK is wrapped by a
// master key generation other than keyVersion, oldest first.
func (m *MemoryRecordRepository) ListByKeyVersionNot(
	ctx context.Context,
	keyVersion uint64,
	limit int,
) ([]*cryptoDomain.EncryptedRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := m.sortedRecords(func(record cryptoDomain.EncryptedRecord) bool {
		return record.KeyVersion != keyVersion
	})

	return pageRecords(matched, 0, limit), nil
}

// sortedRecords collects records matching the filter in creation order.
// UUIDv7 identifiers sort by timestamp, so byte order is creation order.
// Callers must hold at least a read lock.
func (m *MemoryRecordRepository) sortedRecords(
	match func(cryptoDomain.EncryptedRecord) bool,
) []*cryptoDomain.EncryptedRecord {
	var records []*cryptoDomain.EncryptedRecord
	for _, record := range m.records {
		if match(record) {
			clone := record
			records = append(records, &clone)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return bytes.Compare(records[i].ID[:], records[j].ID[:]) < 0
	})

	return records
}

// pageRecords applies offset and limit bounds to an ordered result set.
func pageRecords(
	records []*cryptoDomain.EncryptedRecord,
	offset, limit int,
) []*cryptoDomain.EncryptedRecord {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	if offset >= len(records) {
		return nil
	}

	end := offset + limit
	if end > len(records) {
		end = len(records)
	}

	return records[offset:end]
}

// NewMemoryRecordRepository creates a new in-memory EncryptedRecord repository instance.
func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{records: make(map[uuid.UUID]cryptoDomain.EncryptedRecord)}
}
