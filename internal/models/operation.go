package models

import (
	"encoding/json"
	"time"
)

// OperationType discriminates queued mutations.
type OperationType string

const (
	OperationCreate OperationType = "create"
	OperationUpdate OperationType = "update"
	OperationDelete OperationType = "delete"
	OperationBatch  OperationType = "batch"
)

// PendingOperation is one durably recorded mutation awaiting a successful
// replay against the backend. Records are replayed oldest first; CreatedAt
// orders them and Seq (assigned by the store's monotonic sequence) breaks
// ties between records created within the same clock tick.
type PendingOperation struct {
	CreatedAt  time.Time       `json:"created_at"`
	ID         string          `json:"id"`
	Type       OperationType   `json:"type"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Seq        uint64          `json:"seq"`
	RetryCount int             `json:"retry_count"`
}

// BatchItem is one step of a batch operation's payload.
type BatchItem struct {
	Type       OperationType   `json:"type"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// BatchPayload is the payload carried by an OperationBatch record.
// Items are replayed in order with the same fail-fast rule as the queue
// itself: a failing item aborts the rest of the batch.
type BatchPayload struct {
	Items []BatchItem `json:"items"`
}
