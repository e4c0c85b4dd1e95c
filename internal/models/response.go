package models

import "fmt"

// ErrorKind classifies a failed service response.
type ErrorKind string

const (
	ErrKindNotFound         ErrorKind = "NOT_FOUND"
	ErrKindAlreadyExists    ErrorKind = "ALREADY_EXISTS"
	ErrKindValidation       ErrorKind = "VALIDATION_ERROR"
	ErrKindPermissionDenied ErrorKind = "PERMISSION_DENIED"
	ErrKindNetwork          ErrorKind = "NETWORK_ERROR"
	ErrKindStorage          ErrorKind = "STORAGE_ERROR"
	ErrKindOffline          ErrorKind = "OFFLINE_ERROR"
	ErrKindUnknown          ErrorKind = "UNKNOWN_ERROR"
)

// ServiceError is the typed error carried by a failed Response.
type ServiceError struct {
	Details map[string]any `json:"details,omitempty"`
	Kind    ErrorKind      `json:"kind"`
	Message string         `json:"message"`
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Response is the discriminated result every public service method returns.
// Exactly one of Err (failure) or Data (success) is meaningful.
// PendingSync marks a success produced by the offline path: the mutation is
// applied locally and queued for replay, not yet confirmed by the backend.
type Response[T any] struct {
	Err         *ServiceError `json:"error,omitempty"`
	Data        T             `json:"data,omitempty"`
	Success     bool          `json:"success"`
	PendingSync bool          `json:"pending_sync,omitempty"`
}

// Ok builds a successful response confirmed by the backend.
func Ok[T any](data T) *Response[T] {
	return &Response[T]{Success: true, Data: data}
}

// OkPending builds a successful response produced by the offline path.
func OkPending[T any](data T) *Response[T] {
	return &Response[T]{Success: true, Data: data, PendingSync: true}
}

// Fail builds a failed response with the given kind and message.
func Fail[T any](kind ErrorKind, message string) *Response[T] {
	return &Response[T]{Err: &ServiceError{Kind: kind, Message: message}}
}

// FailErr builds a failed response from an existing ServiceError.
func FailErr[T any](err *ServiceError) *Response[T] {
	return &Response[T]{Err: err}
}
