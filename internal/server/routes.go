package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"starmap-server/internal/middleware"
	"starmap-server/internal/preset"
	presetHandlers "starmap-server/internal/preset/handlers"
	"starmap-server/internal/search"
	searchHandlers "starmap-server/internal/search/handlers"
	serverHandlers "starmap-server/internal/server/handlers"
	"starmap-server/internal/universe"
	universeHandlers "starmap-server/internal/universe/handlers"
)

type Routes struct {
	universeService *universe.Service
	searchService   *search.Service
	presetService   *preset.Service
	health          *serverHandlers.HealthHandler
	jwtSecret       string
}

// NewRoutes wires the HTTP surface. presetService may be nil when no database
// is configured; the preset endpoints are then not registered.
func NewRoutes(
	universeService *universe.Service,
	searchService *search.Service,
	presetService *preset.Service,
	health *serverHandlers.HealthHandler,
	jwtSecret string,
) *Routes {
	return &Routes{
		universeService: universeService,
		searchService:   searchService,
		presetService:   presetService,
		health:          health,
		jwtSecret:       jwtSecret,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()
	requireAdmin := middleware.RequireAdmin(r.jwtSecret)

	universeHandler := universeHandlers.NewUniverseHandler(r.universeService)
	searchHandler := searchHandlers.NewSearchHandler(r.searchService)

	// Public endpoints
	mux.Handle("GET /api/server/health", r.health)
	mux.HandleFunc("GET /api/universe/stats", universeHandler.GetStats)
	mux.HandleFunc("GET /api/universe/bodies/{coord}", universeHandler.GetBody)
	mux.HandleFunc("GET /api/universe/systems/{x}/{y}", universeHandler.GetSystem)
	mux.HandleFunc("GET /api/universe/region", universeHandler.GetRegion)
	mux.HandleFunc("GET /api/universe/lookup", universeHandler.LookupRandomMaterial)
	mux.HandleFunc("POST /api/search", searchHandler.Search)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Admin-only endpoints (bearer token + admin role)
	mux.Handle("POST /api/universe/reload", requireAdmin(http.HandlerFunc(universeHandler.Reload)))

	if r.presetService != nil {
		presetHandler := presetHandlers.NewPresetHandler(r.presetService)

		mux.HandleFunc("GET /api/presets", presetHandler.ListPresets)
		mux.HandleFunc("GET /api/presets/{id}", presetHandler.GetPreset)
		mux.HandleFunc("GET /api/presets/{id}/results", presetHandler.RunPreset)
		mux.Handle("POST /api/presets", requireAdmin(http.HandlerFunc(presetHandler.CreatePreset)))
		mux.Handle("DELETE /api/presets/{id}", requireAdmin(http.HandlerFunc(presetHandler.DeletePreset)))
	} else {
		logger.Warn("Database disabled, preset endpoints not registered")
	}

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/universe/*", "/api/search", "/api/presets", "/metrics"},
		"admin_endpoints", []string{"/api/universe/reload", "/api/presets (write)"},
		"presets_enabled", r.presetService != nil,
	)

	return mux
}
