package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/datavault/internal/errors"
)

// EncryptedRecord is the unit of data interchange and persistence produced by
// envelope encryption.
//
// The payload triple holds the AEAD output of encrypting the serialized
// payload under a record-scoped DEK; the wrap triple holds the AEAD output of
// encrypting that DEK under the versioned master key. Nonces are 12 bytes,
// tags are 16 bytes, and the ciphertext fields are never empty.
//
// A record is immutable once constructed: fields are never mutated in place,
// and re-encrypting a payload produces a new record with a new ID.
//
// Fields:
//   - ID: Unique identifier assigned at creation (UUIDv7)
//   - PartyID: Opaque caller-supplied owner identifier, never interpreted
//   - Algorithm: The authenticated encryption scheme (one supported value)
//   - KeyVersion: Master key generation that wrapped the DEK (positive)
//   - PayloadCiphertext, PayloadNonce, PayloadTag: payload AEAD output
//   - WrappedDek, DekWrapNonce, DekWrapTag: DEK wrap AEAD output
//   - CreatedAt: UTC timestamp assigned at creation
type EncryptedRecord struct {
	ID                uuid.UUID
	PartyID           string
	Algorithm         Algorithm
	KeyVersion        uint64
	PayloadCiphertext []byte
	PayloadNonce      []byte
	PayloadTag        []byte
	WrappedDek        []byte
	DekWrapNonce      []byte
	DekWrapTag        []byte
	CreatedAt         time.Time
}

// EncodedRecord is the transport and persistence form of EncryptedRecord.
//
// Every binary field is lowercase hexadecimal text with no separators, no
// prefix, and even length. This is the only representation that crosses an
// HTTP or database boundary.
type EncodedRecord struct {
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

// Encode serializes the record to its wire form, hex encoding every binary field.
func (r EncryptedRecord) Encode() EncodedRecord {
	return EncodedRecord{
		ID:                r.ID.String(),
		PartyID:           r.PartyID,
		Algorithm:         string(r.Algorithm),
		KeyVersion:        r.KeyVersion,
		PayloadCiphertext: hex.EncodeToString(r.PayloadCiphertext),
		PayloadNonce:      hex.EncodeToString(r.PayloadNonce),
		PayloadTag:        hex.EncodeToString(r.PayloadTag),
		WrappedDek:        hex.EncodeToString(r.WrappedDek),
		DekWrapNonce:      hex.EncodeToString(r.DekWrapNonce),
		DekWrapTag:        hex.EncodeToString(r.DekWrapTag),
		CreatedAt:         r.CreatedAt,
	}
}

// ParseEncodedRecord deserializes a wire-form record back into raw bytes.
//
// Parsing rejects malformed identifiers, non-positive key versions, and any
// binary field whose text is not valid even-length hex, each with an
// ErrValidation so the failure surfaces as a typed record-format violation
// rather than an opaque low-level error. Field lengths and the algorithm
// identifier are checked separately by the record validator.
func ParseEncodedRecord(encoded EncodedRecord) (EncryptedRecord, error) {
	id, err := uuid.Parse(encoded.ID)
	if err != nil {
		return EncryptedRecord{}, errors.Wrap(ErrValidation, "id must be a valid UUID")
	}

	if encoded.KeyVersion < 1 {
		return EncryptedRecord{}, errors.Wrap(ErrValidation, "key version must be a positive integer")
	}

	record := EncryptedRecord{
		ID:         id,
		PartyID:    encoded.PartyID,
		Algorithm:  Algorithm(encoded.Algorithm),
		KeyVersion: encoded.KeyVersion,
		CreatedAt:  encoded.CreatedAt,
	}

	fields := []struct {
		name string
		text string
		dst  *[]byte
	}{
		{"payload_ciphertext", encoded.PayloadCiphertext, &record.PayloadCiphertext},
		{"payload_nonce", encoded.PayloadNonce, &record.PayloadNonce},
		{"payload_tag", encoded.PayloadTag, &record.PayloadTag},
		{"wrapped_dek", encoded.WrappedDek, &record.WrappedDek},
		{"dek_wrap_nonce", encoded.DekWrapNonce, &record.DekWrapNonce},
		{"dek_wrap_tag", encoded.DekWrapTag, &record.DekWrapTag},
	}
	for _, field := range fields {
		raw, err := decodeHex(field.text)
		if err != nil {
			return EncryptedRecord{}, errors.Wrap(
				ErrValidation,
				fmt.Sprintf("%s must be even-length lowercase hex", field.name),
			)
		}
		*field.dst = raw
	}

	return record, nil
}

// decodeHex decodes wire-form binary text, holding the encoding contract
// strictly: even length, hex digits only, lowercase only.
func decodeHex(text string) ([]byte, error) {
	if text != strings.ToLower(text) {
		return nil, errors.New("uppercase hex digits")
	}
	return hex.DecodeString(text)
}
