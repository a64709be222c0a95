// Package http provides HTTP handlers for encrypted record operations.
// Payloads are envelope encrypted with a per-record data key wrapped by a
// versioned master key, and cross the wire only in hex-encoded form.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/datavault/internal/httputil"
	"github.com/allisson/datavault/internal/records/http/dto"
	recordsUseCase "github.com/allisson/datavault/internal/records/usecase"
	customValidation "github.com/allisson/datavault/internal/validation"
)

// RecordHandler handles HTTP requests for encrypted record operations.
type RecordHandler struct {
	recordUseCase recordsUseCase.RecordUseCase
	logger        *slog.Logger
}

// NewRecordHandler creates a new record handler with required dependencies.
func NewRecordHandler(recordUseCase recordsUseCase.RecordUseCase, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{
		recordUseCase: recordUseCase,
		logger:        logger,
	}
}

// EncryptHandler encrypts a payload for a party and persists the result.
// POST /v1/records
// Returns 201 Created with the encoded record (never echoes the plaintext payload).
func (h *RecordHandler) EncryptHandler(c *gin.Context) {
	var req dto.EncryptRecordRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Call use case
	record, err := h.recordUseCase.Encrypt(c.Request.Context(), req.PartyID, req.Payload)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Return the wire form only (no plaintext echo)
	response := dto.MapRecordToResponse(record)
	c.JSON(http.StatusCreated, response)
}

// GetHandler retrieves an encoded record by ID without decrypting it.
// GET /v1/records/:id
// Returns 200 OK with the encoded record.
func (h *RecordHandler) GetHandler(c *gin.Context) {
	// Parse and validate UUID
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid record ID format: must be a valid UUID"),
			h.logger)
		return
	}

	// Call use case
	record, err := h.recordUseCase.Get(c.Request.Context(), recordID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Map to response
	response := dto.MapRecordToResponse(record)
	c.JSON(http.StatusOK, response)
}

// ListHandler retrieves encoded records with pagination support.
// GET /v1/records?party_id=X&offset=0&limit=50
// Returns 200 OK with records in creation order, optionally filtered by party.
func (h *RecordHandler) ListHandler(c *gin.Context) {
	// Parse offset and limit query parameters
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// An empty party_id means no filter
	partyID := c.Query("party_id")

	// Call use case
	records, err := h.recordUseCase.List(c.Request.Context(), partyID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Map to response
	response := dto.MapRecordsToListResponse(records)
	c.JSON(http.StatusOK, response)
}

// DecryptHandler retrieves a stored record and recovers its payload.
// POST /v1/records/:id/decrypt
// Returns 200 OK with the plaintext payload. SECURITY: Response carries
// plaintext and must be transmitted over HTTPS in production.
func (h *RecordHandler) DecryptHandler(c *gin.Context) {
	// Parse and validate UUID
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid record ID format: must be a valid UUID"),
			h.logger)
		return
	}

	// Call use case
	payload, err := h.recordUseCase.Decrypt(c.Request.Context(), recordID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DecryptResponse{Payload: payload})
}

// DecryptInlineHandler decrypts a caller-supplied wire-form record without a
// storage lookup.
// POST /v1/records/decrypt
// Returns 200 OK with the plaintext payload.
func (h *RecordHandler) DecryptInlineHandler(c *gin.Context) {
	var req dto.DecryptRecordRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Call use case
	payload, err := h.recordUseCase.DecryptInline(c.Request.Context(), req.ToEncodedRecord())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DecryptResponse{Payload: payload})
}

// RewrapHandler re-encrypts a stored record under the active master key.
// POST /v1/records/:id/rewrap
// Returns 201 Created with the replacement record. The replacement has a new
// ID and fresh nonces; the old record is deleted in the same transaction.
func (h *RecordHandler) RewrapHandler(c *gin.Context) {
	// Parse and validate UUID
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid record ID format: must be a valid UUID"),
			h.logger)
		return
	}

	// Call use case
	record, err := h.recordUseCase.Rewrap(c.Request.Context(), recordID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Map to response
	response := dto.MapRecordToResponse(record)
	c.JSON(http.StatusCreated, response)
}

// StatsHandler reports aggregate record counts.
// GET /v1/records/stats
// Returns 200 OK with totals.
func (h *RecordHandler) StatsHandler(c *gin.Context) {
	total, err := h.recordUseCase.Count(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{TotalRecords: total})
}
