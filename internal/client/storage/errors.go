package storage

import "errors"

// Common client storage errors
var (
	// ErrEntityNotFound indicates that no snapshot exists for the key
	ErrEntityNotFound = errors.New("cached entity not found")

	// ErrOperationNotFound indicates that a pending operation was not found
	ErrOperationNotFound = errors.New("pending operation not found")

	// ErrUnknownCollection indicates a collection without a bucket; new
	// collections are added only through a schema upgrade step
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
