package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTxManager is a mock implementation of database.TxManager for testing.
//
//	txManager := &MockTxManager{}
//	txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
type MockTxManager struct {
	mock.Mock
}

// WithTx mocks the WithTx method of TxManager. When the expectation returns a
// nil error, the transactional function runs against the original context so
// repository expectations inside the closure are still exercised.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}
