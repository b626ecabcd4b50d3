package universe

import (
	"bytes"
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"starmap-server/internal/shared/errors"
	"starmap-server/internal/universe/gab"
	"starmap-server/internal/universe/gab/gabtest"
)

type fakeSource struct {
	name  string
	data  []byte
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Fetch(ctx context.Context) ([]byte, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.data, s.err
}

func samplePayload() []byte {
	return gabtest.Encode(
		gab.Entry{Coordinate: gab.Coordinate{1, 1, 0, 0}, Record: &gab.StarRecord{Kind: gab.KindStar, SubType: "Yellow", Size: 1000, HasSize: true}},
		gab.Entry{Coordinate: gab.Coordinate{1, 1, 1, 0}, Record: &gab.PlanetRecord{SubType: "Terra", Name: "One", Material: "Grass"}},
		gab.Entry{Coordinate: gab.Coordinate{2, 2, 0, 0}, Record: &gab.PlanetRecord{SubType: "Gas", Name: "Two", Material: "Rock1"}},
	)
}

func compress(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("zstd.NewWriter() error = %v", err)
	}
	if _, err := enc.Write(payload); err != nil {
		t.Fatalf("zstd write error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("zstd close error = %v", err)
	}
	return buf.Bytes()
}

func TestServiceLoadsCompressedAsset(t *testing.T) {
	src := &fakeSource{name: "Universe.gab.zst", data: compress(t, samplePayload())}
	svc := NewService(src, 1<<20, discardLogger())

	if svc.Current() != nil {
		t.Fatal("Current() is set before the first load")
	}

	snap, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(snap.Universe.Planets) != 2 || len(snap.Universe.Stars) != 2 {
		t.Errorf("universe has %d planets and %d stars, want 2 and 2", len(snap.Universe.Planets), len(snap.Universe.Stars))
	}
	if len(snap.Version) != 16 {
		t.Errorf("version %q is not a 64-bit hex fingerprint", snap.Version)
	}

	again, err := svc.Get(context.Background())
	if err != nil || again != snap {
		t.Errorf("second Get() = %p, %v; want cached %p", again, err, snap)
	}
	if n := src.calls.Load(); n != 1 {
		t.Errorf("source fetched %d times, want 1", n)
	}
}

func TestServiceLoadsRawAsset(t *testing.T) {
	svc := NewService(&fakeSource{name: "Universe.gab", data: samplePayload()}, 1<<20, discardLogger())

	snap, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(snap.Universe.Systems) != 2 {
		t.Errorf("got %d systems, want 2", len(snap.Universe.Systems))
	}
}

func TestServiceConcurrentGetLoadsOnce(t *testing.T) {
	src := &fakeSource{name: "Universe.gab", data: samplePayload(), delay: 50 * time.Millisecond}
	svc := NewService(src, 1<<20, discardLogger())

	const callers = 16
	var wg sync.WaitGroup
	snaps := make([]*Snapshot, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snaps[i], errs[i] = svc.Get(context.Background())
		}(i)
	}
	wg.Wait()

	for i := range snaps {
		if errs[i] != nil {
			t.Fatalf("caller %d error = %v", i, errs[i])
		}
		if snaps[i] != snaps[0] {
			t.Errorf("caller %d got a different snapshot", i)
		}
	}
	if n := src.calls.Load(); n != 1 {
		t.Errorf("source fetched %d times, want 1", n)
	}
}

func TestServiceFailuresAreUnavailable(t *testing.T) {
	tests := []struct {
		name string
		src  *fakeSource
		max  int64
	}{
		{"fetch error", &fakeSource{name: "Universe.gab", err: stderrors.New("connection refused")}, 1 << 20},
		{"truncated payload", &fakeSource{name: "Universe.gab", data: samplePayload()[:7]}, 1 << 20},
		{"corrupt zstd", &fakeSource{name: "Universe.gab.zst", data: []byte("not zstd at all")}, 1 << 20},
		{"raw over limit", &fakeSource{name: "Universe.gab", data: samplePayload()}, 8},
		{"decompressed over limit", &fakeSource{name: "Universe.gab.zst", data: compress(t, bytes.Repeat(samplePayload(), 100))}, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.src, tt.max, discardLogger())

			snap, err := svc.Get(context.Background())
			if err == nil {
				t.Fatalf("Get() = %+v, want an error", snap)
			}
			if errors.GetType(err) != errors.ErrorTypeUnavailable {
				t.Errorf("error type = %v, want unavailable", errors.GetType(err))
			}
			if svc.Current() != nil {
				t.Error("a failed load left a snapshot behind")
			}

			// Failures are not cached.
			_, _ = svc.Get(context.Background())
			if n := tt.src.calls.Load(); n != 2 {
				t.Errorf("source fetched %d times, want 2", n)
			}
		})
	}
}

func TestServiceReload(t *testing.T) {
	src := &fakeSource{name: "Universe.gab", data: samplePayload()}
	svc := NewService(src, 1<<20, discardLogger())

	first, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	src.data = gabtest.Encode(gab.Entry{Coordinate: gab.Coordinate{9, 9, 0, 0}, Record: &gab.StarRecord{Kind: gab.KindStar, SubType: "Blue", Size: 1, HasSize: true}})
	second, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if second == first || second.Version == first.Version {
		t.Error("Reload() did not produce a new snapshot")
	}
	if svc.Current() != second {
		t.Error("Current() does not return the reloaded snapshot")
	}

	src.err = stderrors.New("gone")
	if _, err := svc.Reload(context.Background()); err == nil {
		t.Fatal("Reload() succeeded with a failing source")
	}
	if svc.Current() != second {
		t.Error("a failed reload replaced the current snapshot")
	}
}

func TestServiceGetHonorsCallerCancellation(t *testing.T) {
	src := &fakeSource{name: "Universe.gab", data: samplePayload(), delay: 200 * time.Millisecond}
	svc := NewService(src, 1<<20, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := svc.Get(ctx); !stderrors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Get() error = %v, want deadline exceeded", err)
	}

	// The shared load keeps running and a patient caller still gets it.
	snap, err := svc.Get(context.Background())
	if err != nil || snap == nil {
		t.Fatalf("Get() = %v, %v", snap, err)
	}
	if n := src.calls.Load(); n != 1 {
		t.Errorf("source fetched %d times, want 1", n)
	}
}
