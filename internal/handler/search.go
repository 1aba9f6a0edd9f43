package handler

import (
	"log/slog"
	"net/http"

	"github.com/foundly/foundly/internal/handler/dto"
	"github.com/foundly/foundly/internal/service"
)

// SearchHandler handles item search for any authenticated user.
type SearchHandler struct {
	svc    *service.SearchService
	logger *slog.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		svc:    svc,
		logger: logger,
	}
}

// Search handles POST /products/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req dto.SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	from, to := req.Range()
	page, limit := req.Paging()

	result, err := h.svc.Search(r.Context(), service.SearchInput{
		Keywords: req.Keywords,
		Message:  req.Message,
		From:     from,
		To:       to,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DataResponse{Data: result})
}
