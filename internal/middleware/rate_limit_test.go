package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/time/rate"

	"starmap-server/internal/metrics"
	"starmap-server/internal/shared/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/search", nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, BurstSize: 2})
	handler := rl.Middleware(okHandler())

	before := testutil.ToFloat64(metrics.APIRateLimitHits)

	codes := make([]int, 3)
	for i := range codes {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestFrom("10.0.0.1:4000"))
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
	if got := testutil.ToFloat64(metrics.APIRateLimitHits) - before; got != 1 {
		t.Errorf("rate limit hits delta = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestFrom("10.0.0.2:4000"))
	if rec.Code != http.StatusOK {
		t.Errorf("second client status = %d, want 200", rec.Code)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(context.Background(), config.RateLimitConfig{Enabled: false, RequestsPerSecond: 0.001, BurstSize: 1})
	handler := rl.Middleware(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestFrom("10.0.0.1:4000"))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
}

func TestRateLimiterSweep(t *testing.T) {
	rl := &RateLimiter{
		config:  config.RateLimitConfig{Enabled: true, RequestsPerSecond: 1, BurstSize: 2},
		clients: make(map[string]*rate.Limiter),
	}
	rl.getLimiter("idle")
	rl.getLimiter("busy").AllowN(time.Now(), 2)

	rl.sweep(time.Now())

	if _, ok := rl.clients["idle"]; ok {
		t.Error("idle client not swept")
	}
	if _, ok := rl.clients["busy"]; !ok {
		t.Error("client with a drained bucket was swept")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"remote addr", "192.0.2.1:1234", nil, false, "192.0.2.1"},
		{"untrusted forwarded", "192.0.2.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.9"}, false, "192.0.2.1"},
		{"forwarded chain", "192.0.2.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, true, "203.0.113.9"},
		{"real ip", "192.0.2.1:1234", map[string]string{"X-Real-IP": "203.0.113.7"}, true, "203.0.113.7"},
		{"no port", "192.0.2.1", nil, false, "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestFrom(tt.remote)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req, tt.trustProxy); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
