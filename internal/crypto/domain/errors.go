package domain

import (
	"github.com/allisson/datavault/internal/errors"
)

// Cryptographic failure taxonomy.
//
// Every failure produced by the envelope engine is exactly one of the four
// kinds below. All four wrap ErrCryptoFailure, so callers can match the whole
// family with errors.Is(err, ErrCryptoFailure) or a single kind narrowly.
// The error handling layer maps each kind to an HTTP status code.
var (
	// ErrCryptoFailure is the base kind for every cryptographic failure.
	ErrCryptoFailure = errors.Wrap(errors.ErrInvalidInput, "crypto failure")

	// ErrEncryption indicates Encrypt was called with a malformed master key
	// or a payload that cannot be serialized to its canonical JSON form.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrEncryption = errors.Wrap(ErrCryptoFailure, "encryption failed")

	// ErrValidation indicates a structural record-format violation: wrong
	// nonce or tag length, empty ciphertext, an algorithm identifier other
	// than the supported one, an invalid hex encoding, or a non-positive
	// key version.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrValidation = errors.Wrap(ErrCryptoFailure, "invalid record")

	// ErrDecryption indicates a decryption failure not attributable to
	// authentication: malformed master key, malformed record fields, or a
	// payload that no longer parses as JSON after successful authentication.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrDecryption = errors.Wrap(ErrCryptoFailure, "decryption failed")

	// ErrTamperedData indicates an authentication-tag verification failure
	// during DEK unwrap or payload decryption. Ciphertext modification and
	// wrong-key usage are computationally indistinguishable, so both are
	// reported uniformly as potential tampering.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrTamperedData = errors.Wrap(ErrCryptoFailure, "data tampering detected")
)

// Cipher construction error definitions.
var (
	// ErrInvalidKeySize indicates a cryptographic key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrUnsupportedAlgorithm indicates the requested algorithm is not the
	// single supported identifier.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")
)

// Master key ring error definitions.
var (
	// ErrMasterKeysNotSet indicates no master keys were configured.
	ErrMasterKeysNotSet = errors.New("no master keys configured")

	// ErrActiveMasterKeyVersionNotSet indicates the active master key version was not configured.
	ErrActiveMasterKeyVersionNotSet = errors.New("active master key version not configured")

	// ErrInvalidMasterKeysFormat indicates a master key entry is not in "version:key" form.
	ErrInvalidMasterKeysFormat = errors.Wrap(errors.ErrInvalidInput, "invalid master keys format")

	// ErrInvalidMasterKeyVersion indicates a master key version is not a positive integer.
	ErrInvalidMasterKeyVersion = errors.Wrap(errors.ErrInvalidInput, "invalid master key version")

	// ErrInvalidMasterKeyEncoding indicates master key material could not be decoded.
	ErrInvalidMasterKeyEncoding = errors.Wrap(errors.ErrInvalidInput, "invalid master key encoding")

	// ErrActiveMasterKeyNotFound indicates the configured active version has no key in the ring.
	ErrActiveMasterKeyNotFound = errors.New("active master key not found in ring")

	// ErrMasterKeyVersionNotFound indicates a record references a key version the ring
	// does not hold. This is a deployment misconfiguration, not caller input, so it
	// deliberately does not wrap ErrNotFound or ErrInvalidInput.
	ErrMasterKeyVersionNotFound = errors.New("master key version not found in ring")
)
