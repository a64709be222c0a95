package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
)

// MockRecordUseCase is a mock implementation of RecordUseCase for testing.
type MockRecordUseCase struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of RecordUseCase.
func (m *MockRecordUseCase) Encrypt(
	ctx context.Context,
	partyID string,
	payload any,
) (*cryptoDomain.EncryptedRecord, error) {
	args := m.Called(ctx, partyID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.EncryptedRecord), args.Error(1)
}

// Get mocks the Get method of RecordUseCase.
func (m *MockRecordUseCase) Get(
	ctx context.Context,
	id uuid.UUID,
) (*cryptoDomain.EncryptedRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.EncryptedRecord), args.Error(1)
}

// List mocks the List method of RecordUseCase.
func (m *MockRecordUseCase) List(
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

// Count mocks the Count method of RecordUseCase.
func (m *MockRecordUseCase) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Decrypt mocks the Decrypt method of RecordUseCase.
func (m *MockRecordUseCase) Decrypt(ctx context.Context, id uuid.UUID) (any, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0), args.Error(1)
}

// DecryptInline mocks the DecryptInline method of RecordUseCase.
func (m *MockRecordUseCase) DecryptInline(
	ctx context.Context,
	encoded cryptoDomain.EncodedRecord,
) (any, error) {
	args := m.Called(ctx, encoded)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0), args.Error(1)
}

// Rewrap mocks the Rewrap method of RecordUseCase.
func (m *MockRecordUseCase) Rewrap(
	ctx context.Context,
	id uuid.UUID,
) (*cryptoDomain.EncryptedRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.EncryptedRecord), args.Error(1)
}

// RewrapOutdated mocks the RewrapOutdated method of RecordUseCase.
func (m *MockRecordUseCase) RewrapOutdated(ctx context.Context, batchSize int) (int, error) {
	args := m.Called(ctx, batchSize)
	return args.Int(0), args.Error(1)
}
