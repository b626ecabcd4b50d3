package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"starmap-server/internal/auth"
	"starmap-server/internal/middleware"
	"starmap-server/internal/preset"
	"starmap-server/internal/search"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type memStore struct {
	presets []*preset.Preset
}

func (s *memStore) Create(ctx context.Context, p *preset.Preset) (*preset.Preset, error) {
	for _, existing := range s.presets {
		if existing.Name == p.Name {
			return nil, preset.ErrDuplicateName
		}
	}
	created := *p
	created.ID = len(s.presets) + 1
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.presets = append(s.presets, &created)
	return &created, nil
}

func (s *memStore) Get(ctx context.Context, id int) (*preset.Preset, error) {
	for _, p := range s.presets {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (s *memStore) List(ctx context.Context) ([]preset.Preset, error) {
	presets := []preset.Preset{}
	for _, p := range s.presets {
		presets = append(presets, *p)
	}
	return presets, nil
}

func (s *memStore) Delete(ctx context.Context, id int) (bool, error) {
	for i, p := range s.presets {
		if p.ID == id {
			s.presets = append(s.presets[:i], s.presets[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type echoSearcher struct{}

func (echoSearcher) Run(ctx context.Context, q search.Query) ([]byte, error) {
	return json.Marshal(map[string]any{"filtered": !q.IsZero()})
}

func testMux(t *testing.T) (*http.ServeMux, *memStore) {
	t.Helper()
	store := &memStore{}
	svc := preset.NewService(store, echoSearcher{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := NewPresetHandler(svc)
	requireAdmin := middleware.RequireAdmin(testSecret)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/presets", h.ListPresets)
	mux.HandleFunc("GET /api/presets/{id}", h.GetPreset)
	mux.HandleFunc("GET /api/presets/{id}/results", h.RunPreset)
	mux.Handle("POST /api/presets", requireAdmin(http.HandlerFunc(h.CreatePreset)))
	mux.Handle("DELETE /api/presets/{id}", requireAdmin(http.HandlerFunc(h.DeletePreset)))
	return mux, store
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateJWT(testSecret, "curator", auth.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	return token
}

func do(mux *http.ServeMux, method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestPresetLifecycle(t *testing.T) {
	mux, store := testMux(t)
	token := adminToken(t)

	body := `{"name":"Gas giants","description":"Every gas planet","query":{"planet_types":{"Gas":"yes"}}}`
	rec := do(mux, http.MethodPost, "/api/presets", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var created preset.Preset
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.CreatedBy != "curator" || created.Query.PlanetTypes["Gas"] != "yes" {
		t.Errorf("created = %+v", created)
	}

	if rec := do(mux, http.MethodPost, "/api/presets", body, token); rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rec.Code)
	}

	rec = do(mux, http.MethodGet, "/api/presets", "", "")
	var list []preset.Preset
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Errorf("list = %s (%v)", rec.Body, err)
	}

	if rec := do(mux, http.MethodGet, "/api/presets/1", "", ""); rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}

	rec = do(mux, http.MethodGet, "/api/presets/1/results", "", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"filtered":true}` {
		t.Errorf("run = %d %s", rec.Code, rec.Body)
	}

	if rec := do(mux, http.MethodDelete, "/api/presets/1", "", token); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	if len(store.presets) != 0 {
		t.Errorf("store still holds %d presets", len(store.presets))
	}
	if rec := do(mux, http.MethodDelete, "/api/presets/1", "", token); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestPresetErrors(t *testing.T) {
	mux, _ := testMux(t)
	token := adminToken(t)

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		token    string
		wantCode int
	}{
		{"create without token", http.MethodPost, "/api/presets", `{"name":"x"}`, "", http.StatusUnauthorized},
		{"delete without token", http.MethodDelete, "/api/presets/1", "", "", http.StatusUnauthorized},
		{"create malformed", http.MethodPost, "/api/presets", `{"name":`, token, http.StatusBadRequest},
		{"create without name", http.MethodPost, "/api/presets", `{"query":{}}`, token, http.StatusBadRequest},
		{"create bad query", http.MethodPost, "/api/presets", `{"name":"x","query":{"atmosphere":"maybe"}}`, token, http.StatusBadRequest},
		{"get bad id", http.MethodGet, "/api/presets/abc", "", "", http.StatusBadRequest},
		{"get zero id", http.MethodGet, "/api/presets/0", "", "", http.StatusBadRequest},
		{"get missing", http.MethodGet, "/api/presets/42", "", "", http.StatusNotFound},
		{"run missing", http.MethodGet, "/api/presets/42/results", "", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(mux, tt.method, tt.target, tt.body, tt.token); rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d, body %s", rec.Code, tt.wantCode, rec.Body)
			}
		})
	}
}
