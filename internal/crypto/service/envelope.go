package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
	apperrors "github.com/allisson/datavault/internal/errors"
)

// EnvelopeService implements the Envelope interface.
//
// Encryption generates a fresh record-scoped DEK, authenticate-encrypts the
// serialized payload under it, then wraps the DEK under the master key with
// an independent nonce. The master key never encrypts anything except the
// 32-byte DEK. Decryption runs the two stages in reverse order; the payload
// stage cannot start before the unwrap stage succeeds because it needs the
// recovered key.
//
// Every failure surfaces as exactly one of the four crypto failure kinds and
// never carries key material or plaintext in its message. DEKs and plaintext
// buffers are zeroed on every exit path through deferred cleanup.
type EnvelopeService struct {
	aeadManager AEADManager
}

// NewEnvelope creates a new EnvelopeService with the provided AEADManager.
func NewEnvelope(aeadManager AEADManager) *EnvelopeService {
	return &EnvelopeService{aeadManager: aeadManager}
}

// Encrypt produces a new encrypted record from a plaintext payload and a master key.
//
// The payload must round-trip through JSON; anything unserializable fails
// with ErrEncryption, as does a master key that is not exactly 32 bytes. The
// record's KeyVersion comes from masterKey.Version, defaulting to 1 when the
// caller leaves it unset. Two calls with identical inputs never produce the
// same nonces or ciphertext.
func (e *EnvelopeService) Encrypt(
	masterKey cryptoDomain.MasterKey,
	partyID string,
	payload any,
) (cryptoDomain.EncryptedRecord, error) {
	if len(masterKey.Key) != cryptoDomain.KeySize {
		return cryptoDomain.EncryptedRecord{}, apperrors.Wrapf(
			cryptoDomain.ErrEncryption,
			"master key must be exactly %d bytes, got %d",
			cryptoDomain.KeySize,
			len(masterKey.Key),
		)
	}

	keyVersion := masterKey.Version
	if keyVersion == 0 {
		keyVersion = 1
	}

	// The DEK exists only inside this call and is zeroed on every exit path.
	dek := cryptoDomain.GenerateDek()
	defer cryptoDomain.Zero(dek)

	plaintext, err := json.Marshal(payload)
	if err != nil {
		return cryptoDomain.EncryptedRecord{}, apperrors.Wrap(
			cryptoDomain.ErrEncryption,
			"payload cannot be serialized to JSON",
		)
	}
	defer cryptoDomain.Zero(plaintext)

	// Encrypt the payload under the DEK.
	payloadCipher, err := e.aeadManager.CreateCipher(dek, cryptoDomain.AESGCM)
	if err != nil {
		return cryptoDomain.EncryptedRecord{}, apperrors.Wrapf(
			cryptoDomain.ErrEncryption, "create payload cipher: %v", err,
		)
	}
	sealedPayload, payloadNonce, err := payloadCipher.Encrypt(plaintext, nil)
	if err != nil {
		return cryptoDomain.EncryptedRecord{}, apperrors.Wrapf(
			cryptoDomain.ErrEncryption, "encrypt payload: %v", err,
		)
	}
	payloadCiphertext, payloadTag := splitSealed(sealedPayload)

	// Wrap the DEK under the master key with an independent fresh nonce.
	wrapCipher, err := e.aeadManager.CreateCipher(masterKey.Key, cryptoDomain.AESGCM)
	if err != nil {
		return cryptoDomain.EncryptedRecord{}, apperrors.Wrapf(
			cryptoDomain.ErrEncryption, "create key wrap cipher: %v", err,
		)
	}
	sealedDek, dekWrapNonce, err := wrapCipher.Encrypt(dek, nil)
	if err != nil {
		return cryptoDomain.EncryptedRecord{}, apperrors.Wrapf(
			cryptoDomain.ErrEncryption, "wrap data encryption key: %v", err,
		)
	}
	wrappedDek, dekWrapTag := splitSealed(sealedDek)

	record := cryptoDomain.EncryptedRecord{
		ID:                uuid.Must(uuid.NewV7()),
		PartyID:           partyID,
		Algorithm:         cryptoDomain.AESGCM,
		KeyVersion:        keyVersion,
		PayloadCiphertext: payloadCiphertext,
		PayloadNonce:      payloadNonce,
		PayloadTag:        payloadTag,
		WrappedDek:        wrappedDek,
		DekWrapNonce:      dekWrapNonce,
		DekWrapTag:        dekWrapTag,
		CreatedAt:         time.Now().UTC(),
	}

	return record, nil
}

// Decrypt recovers the plaintext payload from a record and a master key.
//
// Authentication-tag failures at either stage surface as ErrTamperedData.
// Wrong-key usage is computationally indistinguishable from tampering, so
// both report uniformly. Any other failure, including a payload that fails
// to parse after successful authentication, surfaces as ErrDecryption.
// Decryption either returns the exact payload supplied to the corresponding
// Encrypt call or fails; it never returns partial data.
func (e *EnvelopeService) Decrypt(
	masterKey cryptoDomain.MasterKey,
	record cryptoDomain.EncryptedRecord,
) (any, error) {
	if len(masterKey.Key) != cryptoDomain.KeySize {
		return nil, apperrors.Wrapf(
			cryptoDomain.ErrDecryption,
			"master key must be exactly %d bytes, got %d",
			cryptoDomain.KeySize,
			len(masterKey.Key),
		)
	}
	if err := checkRecordShape(record); err != nil {
		return nil, err
	}

	// Stage 1: unwrap the DEK under the master key.
	wrapCipher, err := e.aeadManager.CreateCipher(masterKey.Key, record.Algorithm)
	if err != nil {
		return nil, apperrors.Wrapf(cryptoDomain.ErrDecryption, "create key wrap cipher: %v", err)
	}
	dek, err := wrapCipher.Decrypt(
		joinSealed(record.WrappedDek, record.DekWrapTag),
		record.DekWrapNonce,
		nil,
	)
	if err != nil {
		return nil, apperrors.Wrap(cryptoDomain.ErrTamperedData, "wrapped key authentication failed")
	}
	defer cryptoDomain.Zero(dek)

	// Stage 2: decrypt the payload under the recovered DEK.
	payloadCipher, err := e.aeadManager.CreateCipher(dek, record.Algorithm)
	if err != nil {
		return nil, apperrors.Wrapf(cryptoDomain.ErrDecryption, "create payload cipher: %v", err)
	}
	plaintext, err := payloadCipher.Decrypt(
		joinSealed(record.PayloadCiphertext, record.PayloadTag),
		record.PayloadNonce,
		nil,
	)
	if err != nil {
		return nil, apperrors.Wrap(cryptoDomain.ErrTamperedData, "payload authentication failed")
	}
	defer cryptoDomain.Zero(plaintext)

	var payload any
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, apperrors.Wrap(
			cryptoDomain.ErrDecryption,
			"authenticated payload is not valid JSON",
		)
	}

	return payload, nil
}

// checkRecordShape defensively rejects field lengths that mismatch the
// scheme before any cryptographic work, mirroring the structural validator.
// In the decrypt path these are ErrDecryption, not ErrValidation.
func checkRecordShape(record cryptoDomain.EncryptedRecord) error {
	switch {
	case len(record.DekWrapNonce) != cryptoDomain.NonceSize:
		return apperrors.Wrapf(
			cryptoDomain.ErrDecryption,
			"dek wrap nonce must be exactly %d bytes, got %d",
			cryptoDomain.NonceSize,
			len(record.DekWrapNonce),
		)
	case len(record.DekWrapTag) != cryptoDomain.TagSize:
		return apperrors.Wrapf(
			cryptoDomain.ErrDecryption,
			"dek wrap tag must be exactly %d bytes, got %d",
			cryptoDomain.TagSize,
			len(record.DekWrapTag),
		)
	case len(record.WrappedDek) == 0:
		return apperrors.Wrap(cryptoDomain.ErrDecryption, "wrapped dek must not be empty")
	case len(record.PayloadNonce) != cryptoDomain.NonceSize:
		return apperrors.Wrapf(
			cryptoDomain.ErrDecryption,
			"payload nonce must be exactly %d bytes, got %d",
			cryptoDomain.NonceSize,
			len(record.PayloadNonce),
		)
	case len(record.PayloadTag) != cryptoDomain.TagSize:
		return apperrors.Wrapf(
			cryptoDomain.ErrDecryption,
			"payload tag must be exactly %d bytes, got %d",
			cryptoDomain.TagSize,
			len(record.PayloadTag),
		)
	case len(record.PayloadCiphertext) == 0:
		return apperrors.Wrap(cryptoDomain.ErrDecryption, "payload ciphertext must not be empty")
	}

	return nil
}

// splitSealed separates AEAD seal output into ciphertext and its trailing
// 16-byte authentication tag.
func splitSealed(sealed []byte) (ciphertext, tag []byte) {
	cut := len(sealed) - cryptoDomain.TagSize
	return sealed[:cut], sealed[cut:]
}

// joinSealed reassembles AEAD seal output from stored ciphertext and tag fields.
func joinSealed(ciphertext, tag []byte) []byte {
	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	return append(sealed, tag...)
}
