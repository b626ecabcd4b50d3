package handlers

import (
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"starmap-server/internal/search"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/shared/response"
)

type SearchHandler struct {
	service *search.Service
}

func NewSearchHandler(service *search.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search handles POST /api/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "search")

	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	var req search.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	q, err := req.Query()
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	body, err := h.service.Run(r.Context(), q)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Raw(w, http.StatusOK, body)
}
