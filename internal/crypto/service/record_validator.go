package service

import (
	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
	apperrors "github.com/allisson/datavault/internal/errors"
)

// RecordValidatorService implements the RecordValidator interface.
//
// Checks run in a fixed order and the first violation wins, so equal inputs
// always produce the same error. Hex well-formedness is enforced earlier by
// the wire codec; by the time a raw record exists the encoding is known good.
type RecordValidatorService struct{}

// NewRecordValidator creates a new RecordValidatorService.
func NewRecordValidator() *RecordValidatorService {
	return &RecordValidatorService{}
}

// Validate checks record structure and fails with ErrValidation on the first
// violation found: nonce and tag lengths, non-empty ciphertext fields, the
// algorithm identifier (closed-world), and a positive key version.
func (v *RecordValidatorService) Validate(record cryptoDomain.EncryptedRecord) error {
	if n := len(record.PayloadNonce); n != cryptoDomain.NonceSize {
		return apperrors.Wrapf(
			cryptoDomain.ErrValidation,
			"payload nonce must be exactly %d bytes, got %d",
			cryptoDomain.NonceSize,
			n,
		)
	}
	if n := len(record.PayloadTag); n != cryptoDomain.TagSize {
		return apperrors.Wrapf(
			cryptoDomain.ErrValidation,
			"payload tag must be exactly %d bytes, got %d",
			cryptoDomain.TagSize,
			n,
		)
	}
	if len(record.PayloadCiphertext) == 0 {
		return apperrors.Wrap(cryptoDomain.ErrValidation, "payload ciphertext must not be empty")
	}
	if n := len(record.DekWrapNonce); n != cryptoDomain.NonceSize {
		return apperrors.Wrapf(
			cryptoDomain.ErrValidation,
			"dek wrap nonce must be exactly %d bytes, got %d",
			cryptoDomain.NonceSize,
			n,
		)
	}
	if n := len(record.DekWrapTag); n != cryptoDomain.TagSize {
		return apperrors.Wrapf(
			cryptoDomain.ErrValidation,
			"dek wrap tag must be exactly %d bytes, got %d",
			cryptoDomain.TagSize,
			n,
		)
	}
	if len(record.WrappedDek) == 0 {
		return apperrors.Wrap(cryptoDomain.ErrValidation, "wrapped dek must not be empty")
	}
	if record.Algorithm != cryptoDomain.AESGCM {
		return apperrors.Wrapf(
			cryptoDomain.ErrValidation,
			"unsupported algorithm %q, only %q is accepted",
			record.Algorithm,
			cryptoDomain.AESGCM,
		)
	}
	if record.KeyVersion < 1 {
		return apperrors.Wrap(cryptoDomain.ErrValidation, "key version must be a positive integer")
	}

	return nil
}
