// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
	customValidation "github.com/allisson/datavault/internal/validation"
)

// EncryptRecordRequest contains the parameters for envelope encrypting a payload.
// The payload may be any JSON value, including objects, arrays, and scalars.
type EncryptRecordRequest struct {
	PartyID string `json:"party_id"`
	Payload any    `json:"payload"`
}

// Validate checks if the encrypt record request is valid.
func (r *EncryptRecordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PartyID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Payload, validation.NotNil),
	)
}

// DecryptRecordRequest carries a complete wire-form record for decryption
// without a storage lookup. Callers replay a record exactly as a previous
// encrypt response returned it; every binary field stays hex encoded.
type DecryptRecordRequest struct {
	ID                string    `json:"id"`
	PartyID           string    `json:"party_id"`
	Algorithm         string    `json:"algorithm"`
	KeyVersion        uint64    `json:"key_version"`
	PayloadCiphertext string    `json:"payload_ciphertext"`
	PayloadNonce      string    `json:"payload_nonce"`
	PayloadTag        string    `json:"payload_tag"`
	WrappedDek        string    `json:"wrapped_dek"`
	DekWrapNonce      string    `json:"dek_wrap_nonce"`
	DekWrapTag        string    `json:"dek_wrap_tag"`
	CreatedAt         time.Time `json:"created_at"`
}

// Validate checks if the decrypt record request is valid. Field lengths and
// the algorithm identifier are checked by the domain layer, which reports
// violations with the same invalid input status.
func (r *DecryptRecordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Algorithm, validation.Required),
		validation.Field(&r.KeyVersion, validation.Required),
		validation.Field(&r.PayloadCiphertext, validation.Required, customValidation.Hex),
		validation.Field(&r.PayloadNonce, validation.Required, customValidation.Hex),
		validation.Field(&r.PayloadTag, validation.Required, customValidation.Hex),
		validation.Field(&r.WrappedDek, validation.Required, customValidation.Hex),
		validation.Field(&r.DekWrapNonce, validation.Required, customValidation.Hex),
		validation.Field(&r.DekWrapTag, validation.Required, customValidation.Hex),
	)
}

// ToEncodedRecord converts the request to the domain wire form.
func (r *DecryptRecordRequest) ToEncodedRecord() cryptoDomain.EncodedRecord {
	return cryptoDomain.EncodedRecord{
		ID:                r.ID,
		PartyID:           r.PartyID,
		Algorithm:         r.Algorithm,
		KeyVersion:        r.KeyVersion,
		PayloadCiphertext: r.PayloadCiphertext,
		PayloadNonce:      r.PayloadNonce,
		PayloadTag:        r.PayloadTag,
		WrappedDek:        r.WrappedDek,
		DekWrapNonce:      r.DekWrapNonce,
		DekWrapTag:        r.DekWrapTag,
		CreatedAt:         r.CreatedAt,
	}
}
