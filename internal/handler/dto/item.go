package dto

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/foundly/foundly/internal/model"
)

// CreateItemRequest is the body of POST /products.
type CreateItemRequest struct {
	Description   string   `json:"description"`
	Keywords      []string `json:"keywords"`
	FoundTime     string   `json:"foundTime"`
	FoundLocation string   `json:"foundLocation"`
	Status        string   `json:"status,omitempty"`
}

// Validate checks required fields. New items may only carry status "found".
func (r *CreateItemRequest) Validate() []FieldError {
	var v validator
	if strings.TrimSpace(r.Description) == "" {
		v.add("description", "Description must contain at least 1 character")
	}
	if len(r.Keywords) == 0 {
		v.add("keywords", "At least one keyword is required")
	}
	for i, kw := range r.Keywords {
		if strings.TrimSpace(kw) == "" {
			v.add("keywords."+strconv.Itoa(i), "Keyword must not be empty")
		}
	}
	if r.FoundTime == "" {
		v.add("foundTime", "Required")
	} else {
		v.timestamp("foundTime", r.FoundTime, "Invalid datetime. Must be ISO 8601 format")
	}
	if strings.TrimSpace(r.FoundLocation) == "" {
		v.add("foundLocation", "Found location must contain at least 1 character")
	}
	if r.Status != "" && model.ItemStatus(r.Status) != model.ItemStatusFound {
		v.add("status", "New items must have status found")
	}
	return v.result()
}

// FoundAt returns the parsed found time. Only meaningful after Validate.
func (r *CreateItemRequest) FoundAt() time.Time {
	t, _ := time.Parse(time.RFC3339, r.FoundTime)
	return t
}

// MarkReturnedRequest is the body of PATCH /products/{id}/return.
type MarkReturnedRequest struct {
	ClaimedByPassengerID string `json:"claimedByPassengerId"`
	ReturnedTime         string `json:"returnedTime,omitempty"`
}

// Validate checks the claimant id and the optional return time.
func (r *MarkReturnedRequest) Validate() []FieldError {
	var v validator
	if r.ClaimedByPassengerID == "" {
		v.add("claimedByPassengerId", "Required")
	} else {
		v.errs = append(v.errs, ValidateID("claimedByPassengerId", r.ClaimedByPassengerID)...)
	}
	v.timestamp("returnedTime", r.ReturnedTime, "Invalid datetime. Must be ISO 8601 format")
	return v.result()
}

// ReturnedAt returns the parsed return time, or nil when omitted.
func (r *MarkReturnedRequest) ReturnedAt() *time.Time {
	var v validator
	return v.timestamp("returnedTime", r.ReturnedTime, "")
}

// ParseListQuery reads page and limit from a query string. Unparsable or
// non-positive values fall back to the defaults; limit is clamped.
func ParseListQuery(q url.Values) (page, limit int) {
	page = positiveOr(q.Get("page"), model.DefaultPage)
	limit = positiveOr(q.Get("limit"), model.DefaultLimit)
	if limit > model.MaxLimit {
		limit = model.MaxLimit
	}
	return page, limit
}

func positiveOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// ItemListResponse is one page of items.
type ItemListResponse struct {
	Data       []*model.Item `json:"data"`
	Pagination model.Page    `json:"pagination"`
}

// ToItemListResponse never emits a null data array.
func ToItemListResponse(items []*model.Item, page model.Page) *ItemListResponse {
	if items == nil {
		items = []*model.Item{}
	}
	return &ItemListResponse{Data: items, Pagination: page}
}
