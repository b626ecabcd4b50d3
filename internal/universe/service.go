package universe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/singleflight"

	"starmap-server/internal/metrics"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/universe/gab"
)

// Snapshot is one loaded universe. Version fingerprints the asset bytes, so two
// snapshots of the same asset share a version.
type Snapshot struct {
	Universe *Universe
	Version  string
	LoadedAt time.Time
}

// Service loads the universe once and serves it to every caller. Concurrent
// first calls share a single load; a failed load is not remembered.
type Service struct {
	source          Source
	maxDecodedBytes int64
	current         atomic.Pointer[Snapshot]
	group           singleflight.Group
	logger          *slog.Logger
}

func NewService(source Source, maxDecodedBytes int64, logger *slog.Logger) *Service {
	return &Service{
		source:          source,
		maxDecodedBytes: maxDecodedBytes,
		logger:          logger,
	}
}

// Current returns the loaded snapshot without triggering a load.
func (s *Service) Current() *Snapshot {
	return s.current.Load()
}

// Get returns the cached snapshot, loading it on first use.
func (s *Service) Get(ctx context.Context) (*Snapshot, error) {
	if snap := s.current.Load(); snap != nil {
		return snap, nil
	}

	return s.shared(ctx, "load", func(ctx context.Context) (*Snapshot, error) {
		if snap := s.current.Load(); snap != nil {
			return snap, nil
		}
		return s.load(ctx)
	})
}

// Reload fetches and rebuilds the universe, then swaps it in. The previous
// snapshot keeps serving if the reload fails.
func (s *Service) Reload(ctx context.Context) (*Snapshot, error) {
	return s.shared(ctx, "reload", s.load)
}

func (s *Service) shared(ctx context.Context, key string, fn func(context.Context) (*Snapshot, error)) (*Snapshot, error) {
	// The load outlives any single caller; each caller only stops waiting.
	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return fn(loadCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

func (s *Service) load(ctx context.Context) (*Snapshot, error) {
	logger := s.logger.With("component", "universe_service", "operation", "load", "asset", s.source.Name())
	logger.Info("Loading universe")
	start := time.Now()

	snap, err := s.build(ctx, logger)
	if err != nil {
		metrics.UniverseLoads.WithLabelValues("error").Inc()
		logger.Error("Failed to load universe", "error", err)
		return nil, errors.WrapUnavailable("universe unavailable", err)
	}

	s.current.Store(snap)
	metrics.UniverseLoads.WithLabelValues("success").Inc()
	metrics.UniverseBodies.WithLabelValues("planet").Set(float64(len(snap.Universe.Planets)))
	metrics.UniverseBodies.WithLabelValues("star").Set(float64(len(snap.Universe.Stars)))
	metrics.UniverseBodies.WithLabelValues("system").Set(float64(len(snap.Universe.Systems)))

	logger.Info("Universe loaded",
		"version", snap.Version,
		"planets", len(snap.Universe.Planets),
		"stars", len(snap.Universe.Stars),
		"systems", len(snap.Universe.Systems),
		"duration", time.Since(start))

	return snap, nil
}

func (s *Service) build(ctx context.Context, logger *slog.Logger) (*Snapshot, error) {
	stage := time.Now()
	raw, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	observeStage("fetch", stage)

	stage = time.Now()
	payload, err := s.decompress(raw)
	if err != nil {
		return nil, err
	}
	observeStage("decompress", stage)
	logger.Debug("Universe asset decompressed", "compressed_bytes", len(raw), "bytes", len(payload))

	stage = time.Now()
	entries, err := gab.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode universe: %w", err)
	}
	observeStage("decode", stage)

	stage = time.Now()
	u := Build(entries, s.logger)
	observeStage("build", stage)

	return &Snapshot{
		Universe: u,
		Version:  fmt.Sprintf("%016x", xxhash.Sum64(raw)),
		LoadedAt: time.Now(),
	}, nil
}

// decompress inflates zstd assets and enforces the decoded size limit on every asset.
func (s *Service) decompress(raw []byte) ([]byte, error) {
	if !strings.HasSuffix(s.source.Name(), ".zst") {
		if int64(len(raw)) > s.maxDecodedBytes {
			return nil, fmt.Errorf("universe asset exceeds %d bytes", s.maxDecodedBytes)
		}
		return raw, nil
	}

	dec, err := zstd.NewReader(bytes.NewReader(raw),
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(uint64(s.maxDecodedBytes)))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()

	payload, err := io.ReadAll(io.LimitReader(dec, s.maxDecodedBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress universe asset: %w", err)
	}
	if int64(len(payload)) > s.maxDecodedBytes {
		return nil, fmt.Errorf("decompressed universe exceeds %d bytes", s.maxDecodedBytes)
	}
	return payload, nil
}

func observeStage(stage string, start time.Time) {
	metrics.UniverseLoadDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
