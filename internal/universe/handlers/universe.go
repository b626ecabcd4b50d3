package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"starmap-server/internal/shared/errors"
	"starmap-server/internal/shared/response"
	"starmap-server/internal/universe"
)

type UniverseHandler struct {
	service *universe.Service
}

func NewUniverseHandler(service *universe.Service) *UniverseHandler {
	return &UniverseHandler{service: service}
}

type StatsResponse struct {
	universe.Stats
	Version  string    `json:"version"`
	LoadedAt time.Time `json:"loaded_at"`
}

// GetStats handles GET /api/universe/stats
func (h *UniverseHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_universe_stats")

	snap, err := h.service.Get(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, statsResponse(snap))
}

// GetBody handles GET /api/universe/bodies/{coord}
func (h *UniverseHandler) GetBody(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_body")

	coord, err := universe.ParseCoordinate(r.PathValue("coord"))
	if err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid coordinate", err))
		return
	}

	snap, err := h.service.Get(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	body, ok := snap.Universe.Lookup(coord)
	if !ok {
		response.Error(w, r, logger, errors.NotFoundf("no body at %s", coord))
		return
	}

	response.Success(w, http.StatusOK, body)
}

// GetSystem handles GET /api/universe/systems/{x}/{y}
func (h *UniverseHandler) GetSystem(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_system")

	x, errX := strconv.Atoi(r.PathValue("x"))
	y, errY := strconv.Atoi(r.PathValue("y"))
	if errX != nil || errY != nil {
		response.Error(w, r, logger, errors.Validation("system coordinates must be integers"))
		return
	}

	snap, err := h.service.Get(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	sys, ok := snap.Universe.System(universe.SystemCoordinate{X: x, Y: y})
	if !ok {
		response.Error(w, r, logger, errors.NotFoundf("no system at %d, %d", x, y))
		return
	}

	response.Success(w, http.StatusOK, sys)
}

// GetRegion handles GET /api/universe/region?x_min=&x_max=&y_min=&y_max=
func (h *UniverseHandler) GetRegion(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_region")

	region, err := parseRegion(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	snap, err := h.service.Get(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, snap.Universe.SystemsIn(region))
}

// LookupRandomMaterial handles GET /api/universe/lookup?ranmat=prefix
func (h *UniverseHandler) LookupRandomMaterial(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "lookup_random_material")

	prefix := r.URL.Query().Get("ranmat")
	if prefix == "" {
		response.Error(w, r, logger, errors.Validation("ranmat query parameter is required"))
		return
	}

	snap, err := h.service.Get(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	planet, ok := snap.Universe.FindByRandomMaterialPrefix(prefix)
	if !ok {
		response.Error(w, r, logger, errors.NotFoundf("no planet with random material %q", prefix))
		return
	}

	response.Success(w, http.StatusOK, planet)
}

// Reload handles POST /api/universe/reload - Admin only
func (h *UniverseHandler) Reload(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "reload_universe")
	logger.Info("Reloading universe")

	snap, err := h.service.Reload(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, statsResponse(snap))
}

// maxRegionSpan bounds a region request; coordinates are signed bytes on the wire.
const maxRegionSpan = 256

func parseRegion(r *http.Request) (universe.Region, error) {
	q := r.URL.Query()
	var bounds [4]int
	for i, name := range []string{"x_min", "y_min", "x_max", "y_max"} {
		v, err := strconv.Atoi(q.Get(name))
		if err != nil {
			return universe.Region{}, errors.Validationf("%s must be an integer", name)
		}
		bounds[i] = v
	}

	region := universe.Region{MinX: bounds[0], MinY: bounds[1], MaxX: bounds[2], MaxY: bounds[3]}
	if region.MinX > region.MaxX || region.MinY > region.MaxY {
		return universe.Region{}, errors.Validation("region minimum exceeds maximum")
	}
	if region.MaxX-region.MinX > maxRegionSpan || region.MaxY-region.MinY > maxRegionSpan {
		return universe.Region{}, errors.Validationf("region span exceeds %d", maxRegionSpan)
	}
	return region, nil
}

func statsResponse(snap *universe.Snapshot) StatsResponse {
	return StatsResponse{
		Stats:    snap.Universe.Stats(),
		Version:  snap.Version,
		LoadedAt: snap.LoadedAt,
	}
}
