package dto

import (
	"time"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
)

// RecordResponse represents an encrypted record in API responses.
// Every binary field is lowercase hex in wire form; responses never carry
// plaintext payloads or unwrapped key material.
type RecordResponse struct {
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

// MapRecordToResponse converts a domain record to its API response form.
func MapRecordToResponse(record *cryptoDomain.EncryptedRecord) RecordResponse {
	encoded := record.Encode()

	return RecordResponse{
		ID:                encoded.ID,
		PartyID:           encoded.PartyID,
		Algorithm:         encoded.Algorithm,
		KeyVersion:        encoded.KeyVersion,
		PayloadCiphertext: encoded.PayloadCiphertext,
		PayloadNonce:      encoded.PayloadNonce,
		PayloadTag:        encoded.PayloadTag,
		WrappedDek:        encoded.WrappedDek,
		DekWrapNonce:      encoded.DekWrapNonce,
		DekWrapTag:        encoded.DekWrapTag,
		CreatedAt:         encoded.CreatedAt,
	}
}

// DecryptResponse carries a recovered plaintext payload.
// SECURITY: The Payload field contains decrypted data. Must be transmitted
// over HTTPS in production.
type DecryptResponse struct {
	Payload any `json:"payload"`
}

// StatsResponse reports aggregate record counts.
type StatsResponse struct {
	TotalRecords int64 `json:"total_records"`
}
