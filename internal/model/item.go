package model

import (
	"errors"
	"strings"
	"time"
)

// ItemStatus represents the lifecycle state of a found item.
type ItemStatus string

const (
	ItemStatusFound    ItemStatus = "found"
	ItemStatusReturned ItemStatus = "returned"
)

// IsValid checks if the status is a known value.
func (s ItemStatus) IsValid() bool {
	return s == ItemStatusFound || s == ItemStatusReturned
}

// Item validation errors.
var (
	ErrInconsistentReturn = errors.New("returned status requires both claimant and returned time")
	ErrItemIncomplete     = errors.New("item requires description, keywords, location and reporting agent")
	ErrInvalidItemStatus  = errors.New("invalid item status")
)

// Item is a found object reported by an agent.
type Item struct {
	ID                   string     `json:"id"`
	Description          string     `json:"description"`
	Keywords             []string   `json:"keywords"`
	FoundTime            time.Time  `json:"foundTime"`
	FoundLocation        string     `json:"foundLocation"`
	Status               ItemStatus `json:"status"`
	FoundByAgentID       string     `json:"foundByAgentId"`
	ClaimedByPassengerID *string    `json:"claimedByPassengerId"`
	ReturnedTime         *time.Time `json:"returnedTime"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// IsFound returns true while the item waits for its owner.
func (i *Item) IsFound() bool {
	return i.Status == ItemStatusFound
}

// IsReturned returns true once the item was handed back.
func (i *Item) IsReturned() bool {
	return i.Status == ItemStatusReturned
}

// CheckReturnInvariant enforces status == returned <=> returnedTime set <=> claimant set.
func (i *Item) CheckReturnInvariant() error {
	returned := i.Status == ItemStatusReturned
	if returned != (i.ReturnedTime != nil) || returned != (i.ClaimedByPassengerID != nil) {
		return ErrInconsistentReturn
	}
	return nil
}

// Validate checks required fields, the status enum and the return invariant.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Description) == "" ||
		strings.TrimSpace(i.FoundLocation) == "" ||
		i.FoundByAgentID == "" ||
		len(i.Keywords) == 0 {
		return ErrItemIncomplete
	}
	for _, kw := range i.Keywords {
		if strings.TrimSpace(kw) == "" {
			return ErrItemIncomplete
		}
	}
	if !i.Status.IsValid() {
		return ErrInvalidItemStatus
	}
	return i.CheckReturnInvariant()
}

// MarkReturned transitions the item to returned.
func (i *Item) MarkReturned(passengerID string, at time.Time) {
	i.Status = ItemStatusReturned
	i.ClaimedByPassengerID = &passengerID
	i.ReturnedTime = &at
	i.UpdatedAt = at
}
