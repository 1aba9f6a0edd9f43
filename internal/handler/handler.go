// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/foundly/foundly/internal/handler/dto"
	"github.com/foundly/foundly/internal/service"
)

// Handler serves the router fallbacks.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{Status: "error", Code: code, Message: message})
}

func writeValidationError(w http.ResponseWriter, errs []dto.FieldError) {
	writeJSON(w, http.StatusBadRequest, dto.NewValidationErrorResponse(errs))
}

// decodeBody reads a JSON body into v. An empty body decodes to the zero
// value so that field validation reports what is missing.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
		return false
	}
	writeValidationError(w, []dto.FieldError{{Field: "body", Message: "Invalid JSON body"}})
	return false
}

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
	case errors.Is(err, service.ErrMissingToken):
		writeError(w, http.StatusUnauthorized, "MISSING_TOKEN", "Refresh token not found")
	case errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid refresh token")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "User not found")
	case errors.Is(err, service.ErrEmailExists):
		writeError(w, http.StatusConflict, "EMAIL_EXISTS", "Email already exists")
	case errors.Is(err, service.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, service.ErrItemAlreadyReturned):
		writeError(w, http.StatusConflict, "ALREADY_RETURNED", "Product already returned")
	case errors.Is(err, service.ErrInvalidClaimant):
		writeValidationError(w, []dto.FieldError{{Field: "claimedByPassengerId", Message: "Claimant must be an existing passenger"}})
	case errors.Is(err, service.ErrInvalidItem):
		writeValidationError(w, []dto.FieldError{{Field: "body", Message: "Invalid product"}})
	case errors.Is(err, service.ErrSearchInput):
		writeValidationError(w, []dto.FieldError{{Field: "body", Message: "Either keywords or message must be provided"}})
	case errors.Is(err, service.ErrCreation):
		logger.Error("create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "CREATION_ERROR", "Error creating product")
	case errors.Is(err, service.ErrSearchProcessing):
		logger.Error("search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "SEARCH_PROCESSING_ERROR", "Error searching products")
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
