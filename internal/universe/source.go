package universe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Source provides the raw (possibly compressed) universe asset.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	// Name identifies the asset; a ".zst" suffix marks zstd compression.
	Name() string
}

type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return filepath.Base(s.path) }

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read universe asset: %w", err)
	}
	return data, nil
}

// HTTPSource downloads the asset. Repeated failures open the circuit so a dead
// asset host is not hammered on every request.
type HTTPSource struct {
	url    string
	client *http.Client
	cb     *gobreaker.CircuitBreaker[[]byte]
	logger *slog.Logger
}

func NewHTTPSource(url string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	logger = logger.With("component", "universe_source", "url", url)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "universe-asset",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
		cb:     cb,
		logger: logger,
	}
}

func (s *HTTPSource) Name() string { return path.Base(s.url) }

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := s.cb.Execute(func() ([]byte, error) {
		return s.fetch(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("universe asset host unavailable: %w", err)
	}
	return data, err
}

func (s *HTTPSource) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build asset request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download universe asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download universe asset: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read universe asset body: %w", err)
	}

	s.logger.Debug("Universe asset downloaded", "bytes", len(data))
	return data, nil
}
