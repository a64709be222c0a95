package dto

import (
	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
)

// ListRecordsResponse represents a page of encrypted records in API responses.
type ListRecordsResponse struct {
	Data []RecordResponse `json:"data"`
}

// MapRecordsToListResponse converts domain records to a list response.
func MapRecordsToListResponse(records []*cryptoDomain.EncryptedRecord) ListRecordsResponse {
	data := make([]RecordResponse, 0, len(records))
	for _, record := range records {
		data = append(data, MapRecordToResponse(record))
	}

	return ListRecordsResponse{Data: data}
}
