package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"

	"starmap-server/internal/metrics"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/universe"
)

// UniverseProvider is satisfied by *universe.Service.
type UniverseProvider interface {
	Get(ctx context.Context) (*universe.Snapshot, error)
}

// Response is the JSON document returned for a search. Filtered is false, and
// Result absent, when the query selects nothing to filter.
type Response struct {
	Filtered   bool    `json:"filtered"`
	Version    string  `json:"version,omitempty"`
	MatchCount int     `json:"match_count"`
	Result     *Result `json:"result,omitempty"`
}

type Service struct {
	universes UniverseProvider
	cache     ResultCache
	logger    *slog.Logger
}

// NewService creates a search service. cache may be nil.
func NewService(universes UniverseProvider, cache ResultCache, logger *slog.Logger) *Service {
	return &Service{
		universes: universes,
		cache:     cache,
		logger:    logger,
	}
}

// Run executes q against the current universe and returns the encoded Response.
func (s *Service) Run(ctx context.Context, q Query) ([]byte, error) {
	logger := s.logger.With("component", "search_service", "operation", "run")

	if q.IsZero() {
		metrics.SearchNoOps.Inc()
		return json.Marshal(Response{Filtered: false})
	}

	snap, err := s.universes.Get(ctx)
	if err != nil {
		return nil, err
	}

	key, err := cacheKey(snap.Version, q)
	if err != nil {
		return nil, errors.WrapInternal("failed to hash search query", err)
	}

	if s.cache != nil {
		if body, ok := s.cache.Get(ctx, key); ok {
			metrics.CacheHits.WithLabelValues("search").Inc()
			logger.Debug("Search served from cache", "key", key)
			return body, nil
		}
		metrics.CacheMisses.WithLabelValues("search").Inc()
	}

	start := time.Now()
	result := Search(snap.Universe, q)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchMatches.Observe(float64(len(result.Matches)))

	logger.Debug("Search completed",
		"version", snap.Version,
		"systems", len(result.Systems),
		"matches", len(result.Matches),
		"duration", time.Since(start))

	body, err := json.Marshal(Response{
		Filtered:   true,
		Version:    snap.Version,
		MatchCount: len(result.Matches),
		Result:     result,
	})
	if err != nil {
		return nil, errors.WrapInternal("failed to encode search result", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, body)
	}
	return body, nil
}

// cacheKey ties a query to the universe version it ran against, so a reload
// never serves stale results.
func cacheKey(version string, q Query) (string, error) {
	canonical, err := json.Marshal(q)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("search:%s:%016x", version, xxhash.Sum64(canonical)), nil
}
