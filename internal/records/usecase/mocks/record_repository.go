// Package mocks provides mock implementations for testing record use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
)

// MockRecordRepository is a mock implementation of RecordRepository for testing.
type MockRecordRepository struct {
	mock.Mock
}

// Save mocks the Save method of RecordRepository.
func (m *MockRecordRepository) Save(ctx context.Context, record *cryptoDomain.EncryptedRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// GetByID mocks the GetByID method of RecordRepository.
func (m *MockRecordRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*cryptoDomain.EncryptedRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.EncryptedRecord), args.Error(1)
}

// List mocks the List method of RecordRepository.
func (m *MockRecordRepository) List(
	ctx context.Context,
	partyID string,
	offset, limit int,
) ([]*cryptoDomain.EncryptedRecord, error) {
	args := m.Called(ctx, partyID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cryptoDomain.EncryptedRecord), args.Error(1)
}

// Count mocks the Count method of RecordRepository.
func (m *MockRecordRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteByID mocks the DeleteByID method of RecordRepository.
func (m *MockRecordRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ListByKeyVersionNot mocks the ListByKeyVersionNot method of RecordRepository.
func (m *MockRecordRepository) ListByKeyVersionNot(
	ctx context.Context,
	keyVersion uint64,
	limit int,
) ([]*cryptoDomain.EncryptedRecord, error) {
	args := m.Called(ctx, keyVersion, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cryptoDomain.EncryptedRecord), args.Error(1)
}
