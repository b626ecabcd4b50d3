package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"starmap-server/internal/shared/response"
	"starmap-server/internal/universe"
)

// Pinger is satisfied by *database.DB and *redis.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// UniverseState is satisfied by *universe.Service.
type UniverseState interface {
	Current() *universe.Snapshot
}

type HealthResponse struct {
	Status          string `json:"status"`
	Timestamp       string `json:"timestamp"`
	Database        string `json:"database"`
	Redis           string `json:"redis"`
	Universe        string `json:"universe"`
	UniverseVersion string `json:"universe_version,omitempty"`
}

type HealthHandler struct {
	db       Pinger
	redis    Pinger
	universe UniverseState
}

// NewHealthHandler builds the health endpoint. A nil db or redis reports as disabled.
func NewHealthHandler(db, redis Pinger, universe UniverseState) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, universe: universe}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  pingStatus(ctx, logger, "database", h.db),
		Redis:     pingStatus(ctx, logger, "redis", h.redis),
		Universe:  "loading",
	}

	if snap := h.universe.Current(); snap != nil {
		resp.Universe = "loaded"
		resp.UniverseVersion = snap.Version
	} else {
		resp.Status = "starting"
	}

	if resp.Database == "disconnected" || resp.Redis == "disconnected" {
		resp.Status = "degraded"
	}

	response.Success(w, http.StatusOK, resp)
}

func pingStatus(ctx context.Context, logger *slog.Logger, name string, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		logger.Warn("Dependency ping failed", "dependency", name, "error", err)
		return "disconnected"
	}
	return "connected"
}
