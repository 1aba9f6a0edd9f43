package dto

import (
	"strings"
	"time"

	"github.com/foundly/foundly/internal/model"
)

// SearchRequest is the body of POST /products/search.
// A present keywords array, even an empty one, selects the keyword path.
type SearchRequest struct {
	Keywords  []string `json:"keywords"`
	Message   string   `json:"message,omitempty"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Page      *int     `json:"page,omitempty"`
	Limit     *int     `json:"limit,omitempty"`
}

// Validate enforces that a query is present and the range and paging are sane.
func (r *SearchRequest) Validate() []FieldError {
	var v validator
	if r.Keywords == nil && strings.TrimSpace(r.Message) == "" {
		v.add("body", "Either keywords or message must be provided")
	}

	start := v.timestamp("startDate", r.StartDate, "Invalid start date format. Must be ISO 8601 format")
	end := v.timestamp("endDate", r.EndDate, "Invalid end date format. Must be ISO 8601 format")
	if start != nil && end != nil && start.After(*end) {
		v.add("startDate", "Start date must not be after end date")
	}

	if r.Page != nil && *r.Page < 1 {
		v.add("page", "Page must be a positive integer")
	}
	if r.Limit != nil {
		switch {
		case *r.Limit < 1:
			v.add("limit", "Limit must be a positive integer")
		case *r.Limit > model.MaxLimit:
			v.add("limit", "Limit must be at most 100")
		}
	}
	return v.result()
}

// Range returns the parsed date bounds. Only meaningful after Validate.
func (r *SearchRequest) Range() (from, to *time.Time) {
	var v validator
	return v.timestamp("startDate", r.StartDate, ""), v.timestamp("endDate", r.EndDate, "")
}

// Paging returns page and limit with defaults applied.
func (r *SearchRequest) Paging() (page, limit int) {
	page, limit = model.DefaultPage, model.DefaultLimit
	if r.Page != nil {
		page = *r.Page
	}
	if r.Limit != nil {
		limit = *r.Limit
	}
	return page, limit
}
