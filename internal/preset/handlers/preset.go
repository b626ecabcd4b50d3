package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"starmap-server/internal/middleware"
	"starmap-server/internal/preset"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/shared/response"
)

type PresetHandler struct {
	service *preset.Service
}

func NewPresetHandler(service *preset.Service) *PresetHandler {
	return &PresetHandler{service: service}
}

// ListPresets handles GET /api/presets
func (h *PresetHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_presets")

	presets, err := h.service.List(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, presets)
}

// GetPreset handles GET /api/presets/{id}
func (h *PresetHandler) GetPreset(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_preset")

	id, err := presetID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, p)
}

// RunPreset handles GET /api/presets/{id}/results
func (h *PresetHandler) RunPreset(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "run_preset")

	id, err := presetID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	body, err := h.service.Run(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Raw(w, http.StatusOK, body)
}

// CreatePreset handles POST /api/presets - Admin only
func (h *PresetHandler) CreatePreset(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_preset")

	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	var req preset.CreatePresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid JSON in request body", err))
		return
	}

	createdBy := ""
	if claims := middleware.GetUserFromContext(r); claims != nil {
		createdBy = claims.Subject
	}

	created, err := h.service.Create(r.Context(), req, createdBy)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, created)
}

// DeletePreset handles DELETE /api/presets/{id} - Admin only
func (h *PresetHandler) DeletePreset(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "delete_preset")

	id, err := presetID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func presetID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, errors.Validation("invalid preset ID")
	}
	return id, nil
}
