package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foundly/foundly/internal/auth"
	"github.com/foundly/foundly/internal/handler/dto"
	"github.com/foundly/foundly/internal/service"
)

// ItemHandler handles HTTP requests for found items.
type ItemHandler struct {
	svc    *service.ItemService
	logger *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(svc *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /products/list.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := dto.ParseListQuery(r.URL.Query())

	result, err := h.svc.List(r.Context(), page, limit)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToItemListResponse(result.Items, result.Pagination))
}

// Create handles POST /products. The reporting agent is always the caller.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	item, err := h.svc.Create(r.Context(), auth.UserIDFromContext(r.Context()), service.CreateItemInput{
		Description:   req.Description,
		Keywords:      req.Keywords,
		FoundTime:     req.FoundAt(),
		FoundLocation: req.FoundLocation,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// Get handles GET /products/{id}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	item, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /products/{id}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Product deleted successfully"})
}

// MarkReturned handles PATCH /products/{id}/return.
func (h *ItemHandler) MarkReturned(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var req dto.MarkReturnedRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	item, err := h.svc.MarkReturned(r.Context(), id, service.MarkReturnedInput{
		PassengerID:  req.ClaimedByPassengerID,
		ReturnedTime: req.ReturnedAt(),
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func itemID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if errs := dto.ValidateID("id", id); errs != nil {
		writeValidationError(w, errs)
		return "", false
	}
	return id, true
}
