package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Tracked entity collections. The local store creates one bucket per
// collection; adding a new collection requires a schema upgrade step.
const (
	CollectionSlots    = "slots"
	CollectionProducts = "products"
)

// SlotStatus is the lifecycle state of a listing slot.
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusReserved  SlotStatus = "reserved"
	SlotStatusSold      SlotStatus = "sold"
)

// Slot represents one purchasable slot of a marketplace listing.
type Slot struct {
	UpdatedAt  time.Time  `json:"updated_at"`
	ID         string     `json:"id"`
	ListingID  string     `json:"listing_id"`
	Status     SlotStatus `json:"status"`
	Currency   string     `json:"currency"`
	PriceCents int64      `json:"price_cents"`
}

// Product represents a marketplace product listing.
type Product struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	SellerID    string    `json:"seller_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Currency    string    `json:"currency"`
	Images      []string  `json:"images,omitempty"`
	PriceCents  int64     `json:"price_cents"`
}

// ErrMissingEntityID indicates a payload without a usable identity field.
var ErrMissingEntityID = errors.New("entity payload has no id field")

// EntityID extracts the identity field from an opaque entity payload.
// Numeric ids are normalized to their decimal string form so cache keys
// stay stable regardless of how the backend serialized them.
func EntityID(payload json.RawMessage) (string, error) {
	var probe struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return "", fmt.Errorf("failed to parse entity payload: %w", err)
	}

	switch id := probe.ID.(type) {
	case string:
		if id == "" {
			return "", ErrMissingEntityID
		}
		return id, nil
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	default:
		return "", ErrMissingEntityID
	}
}
