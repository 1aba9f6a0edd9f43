// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse is the 400 body for rejected input.
type ValidationErrorResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// NewValidationErrorResponse wraps field errors in the standard envelope.
func NewValidationErrorResponse(errs []FieldError) *ValidationErrorResponse {
	return &ValidationErrorResponse{
		Status:  "error",
		Message: "Validation failed",
		Errors:  errs,
	}
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse carries a human readable acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// DataResponse wraps a payload under "data".
type DataResponse struct {
	Data any `json:"data"`
}

// ValidateID checks that a path parameter is a well-formed ULID.
func ValidateID(field, id string) []FieldError {
	if _, err := ulid.ParseStrict(id); err != nil {
		return []FieldError{{Field: field, Message: "Invalid id format"}}
	}
	return nil
}

// validator accumulates field errors in declaration order.
type validator struct {
	errs []FieldError
}

func (v *validator) add(field, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "Required")
	}
}

// timestamp parses an RFC 3339 value, recording an error on failure.
// Empty input yields nil without an error.
func (v *validator) timestamp(field, value, message string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		v.add(field, message)
		return nil
	}
	return &t
}

func (v *validator) result() []FieldError {
	return v.errs
}
