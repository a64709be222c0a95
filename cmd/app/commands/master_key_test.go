package commands

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
)

// Manual mocks for the KMS service and keeper.
type MockKMSService struct {
	mock.Mock
}

func (m *MockKMSService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	args := m.Called(ctx, keyURI)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.KMSKeeper), args.Error(1)
}

type MockKMSKeeper struct {
	mock.Mock
}

func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Close() error {
	return m.Called().Error(0)
}

func TestRunCreateMasterKey(t *testing.T) {
	ctx := context.Background()

	t.Run("plaintext-mode", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateMasterKey(ctx, nil, &out, 1, "")
		require.NoError(t, err)

		output := out.String()
		require.Contains(t, output, "ACTIVE_MASTER_KEY_VERSION=\"1\"")
		require.NotContains(t, output, "KMS_KEEPER_URL")

		matches := regexp.MustCompile(`MASTER_KEYS="1:([0-9a-f]{64})"`).FindStringSubmatch(output)
		require.Len(t, matches, 2)

		key, err := hex.DecodeString(matches[1])
		require.NoError(t, err)
		require.Len(t, key, cryptoDomain.KeySize)
	})

	t.Run("kms-mode", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, "base64key://...").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.AnythingOfType("[]uint8")).Return([]byte("encrypted"), nil)
		mockKeeper.On("Close").Return(nil)

		var out bytes.Buffer
		err := RunCreateMasterKey(ctx, mockService, &out, 2, "base64key://...")
		require.NoError(t, err)

		output := out.String()
		require.Contains(t, output, "KMS_KEEPER_URL=\"base64key://...\"")
		require.Contains(t, output, "MASTER_KEYS=\"2:ZW5jcnlwdGVk\"")
		require.Contains(t, output, "ACTIVE_MASTER_KEY_VERSION=\"2\"")

		mockService.AssertExpectations(t)
		mockKeeper.AssertExpectations(t)
	})

	t.Run("invalid-key-version", func(t *testing.T) {
		err := RunCreateMasterKey(ctx, nil, &bytes.Buffer{}, 0, "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "key-version")
	})

	t.Run("kms-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockService.On("OpenKeeper", ctx, "invalid").Return(nil, errors.New("kms error"))

		err := RunCreateMasterKey(ctx, mockService, &bytes.Buffer{}, 1, "invalid")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to open KMS keeper")

		mockService.AssertExpectations(t)
	})

	t.Run("encrypt-error", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, "base64key://...").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.AnythingOfType("[]uint8")).
			Return([]byte(nil), errors.New("encrypt error"))
		mockKeeper.On("Close").Return(nil)

		err := RunCreateMasterKey(ctx, mockService, &bytes.Buffer{}, 1, "base64key://...")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to encrypt master key with KMS")

		mockService.AssertExpectations(t)
		mockKeeper.AssertExpectations(t)
	})
}
