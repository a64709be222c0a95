package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(t *testing.T) EncryptedRecord {
	t.Helper()
	return EncryptedRecord{
		ID:                uuid.Must(uuid.NewV7()),
		PartyID:           "party-1",
		Algorithm:         AESGCM,
		KeyVersion:        1,
		PayloadCiphertext: []byte{0xAB, 0xCD, 0xEF, 0x01},
		PayloadNonce:      []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
		PayloadTag:        []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
		WrappedDek:        []byte{0x10, 0x20, 0x30},
		DekWrapNonce:      []byte{11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
		DekWrapTag:        []byte{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
		CreatedAt:         time.Date(2026, 2, 14, 10, 30, 0, 0, time.UTC),
	}
}

func TestEncryptedRecordEncode(t *testing.T) {
	record := sampleRecord(t)
	encoded := record.Encode()

	t.Run("binary fields become lowercase hex", func(t *testing.T) {
		assert.Equal(t, "abcdef01", encoded.PayloadCiphertext)
		assert.Equal(t, "000102030405060708090a0b", encoded.PayloadNonce)
		assert.Equal(t, "102030", encoded.WrappedDek)
	})

	t.Run("scalar fields pass through", func(t *testing.T) {
		assert.Equal(t, record.ID.String(), encoded.ID)
		assert.Equal(t, "party-1", encoded.PartyID)
		assert.Equal(t, string(AESGCM), encoded.Algorithm)
		assert.Equal(t, uint64(1), encoded.KeyVersion)
		assert.Equal(t, record.CreatedAt, encoded.CreatedAt)
	})
}

func TestParseEncodedRecord(t *testing.T) {
	t.Run("round-trips losslessly", func(t *testing.T) {
		record := sampleRecord(t)

		parsed, err := ParseEncodedRecord(record.Encode())
		require.NoError(t, err)
		assert.Equal(t, record, parsed)
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		encoded := sampleRecord(t).Encode()
		encoded.ID = "not-a-uuid"

		_, err := ParseEncodedRecord(encoded)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "UUID")
	})

	t.Run("rejects non-positive key version", func(t *testing.T) {
		encoded := sampleRecord(t).Encode()
		encoded.KeyVersion = 0

		_, err := ParseEncodedRecord(encoded)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "positive")
	})

	t.Run("rejects odd-length hex", func(t *testing.T) {
		encoded := sampleRecord(t).Encode()
		encoded.PayloadCiphertext = "abc"

		_, err := ParseEncodedRecord(encoded)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "payload_ciphertext")
	})

	t.Run("rejects non-hex characters", func(t *testing.T) {
		encoded := sampleRecord(t).Encode()
		encoded.DekWrapNonce = "zz0102030405060708090a0b"

		_, err := ParseEncodedRecord(encoded)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "dek_wrap_nonce")
	})

	t.Run("rejects uppercase hex", func(t *testing.T) {
		encoded := sampleRecord(t).Encode()
		encoded.PayloadTag = "000102030405060708090A0B0C0D0E0F"

		_, err := ParseEncodedRecord(encoded)
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "payload_tag")
	})

	t.Run("accepts empty hex for empty fields", func(t *testing.T) {
		// Parsing only checks the encoding. Emptiness, field lengths,
		// and the algorithm are the record validator's concern.
		encoded := sampleRecord(t).Encode()
		encoded.PayloadCiphertext = ""

		parsed, err := ParseEncodedRecord(encoded)
		require.NoError(t, err)
		assert.Empty(t, parsed.PayloadCiphertext)
	})
}
