package api

import (
	"encoding/json"
	"time"
)

// Entity is the backend's wire representation of one stored entity.
// Data is the opaque domain payload; the backend never inspects it beyond
// the identity field.
type Entity struct {
	UpdatedAt  time.Time       `json:"updated_at"`
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Data       json.RawMessage `json:"data"`
}

// ListResponse is the backend's response to a collection listing.
type ListResponse struct {
	Entities []Entity `json:"entities"`
	Total    int      `json:"total"`
}

// ErrorResponse is the backend's error envelope.
// Error holds a machine-readable code (not_found, already_exists,
// validation_error, permission_denied), Message an optional human detail.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Backend error codes carried in ErrorResponse.Error.
const (
	CodeNotFound         = "not_found"
	CodeAlreadyExists    = "already_exists"
	CodeValidationError  = "validation_error"
	CodePermissionDenied = "permission_denied"
)
