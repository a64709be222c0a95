// Package service implements the envelope encryption engine: AEAD ciphers,
// record encryption and decryption, and structural record validation.
package service

import (
	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	// The authentication tag is appended to the ciphertext.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD, verifying
	// the appended authentication tag.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// Envelope defines the interface for the envelope encryption core.
//
// Both operations are stateless per call and safe for unlimited concurrent
// use. The master key is an explicit parameter and is never retained beyond
// the duration of a single call.
type Envelope interface {
	// Encrypt authenticate-encrypts payload under a fresh record-scoped DEK,
	// wraps the DEK under the master key, and assembles a new immutable
	// record carrying masterKey.Version (1 when the version is unset).
	Encrypt(masterKey cryptoDomain.MasterKey, partyID string, payload any) (cryptoDomain.EncryptedRecord, error)

	// Decrypt unwraps the record's DEK with the master key, then recovers
	// and deserializes the payload. Authentication failures surface as
	// ErrTamperedData, every other failure as ErrDecryption.
	Decrypt(masterKey cryptoDomain.MasterKey, record cryptoDomain.EncryptedRecord) (any, error)
}

// RecordValidator defines the interface for structural record verification.
type RecordValidator interface {
	// Validate checks record structure and returns an ErrValidation on the
	// first violation found. It must run before decryption is attempted so
	// malformed input surfaces as a descriptive typed error instead of an
	// opaque cryptographic failure.
	Validate(record cryptoDomain.EncryptedRecord) error
}
