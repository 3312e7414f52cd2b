package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newRouter(t *testing.T, tokens []string, store Pinger) http.Handler {
	t.Helper()
	h := New(Config{
		WorkerPool: &MockIngestQueue{},
		Store:      store,
		Winrate:    unknownTeamService(t),
		APITokens:  tokens,
		Logger:     zap.NewNop(),
	})
	return h.Routes([]string{"http://localhost:3000"})
}

func TestRoutes_TokenAuth(t *testing.T) {
	router := newRouter(t, []string{"secret-1", "secret-2"}, &MockPinger{})

	tests := []struct {
		name       string
		auth       string
		wantStatus int
	}{
		{"Missing token", "", http.StatusUnauthorized},
		{"Wrong token", "Bearer nope", http.StatusUnauthorized},
		{"First token", "Bearer secret-1", http.StatusOK},
		{"Second token", "Bearer secret-2", http.StatusOK},
		{"Lowercase scheme", "bearer secret-1", http.StatusOK},
		{"Bare token", "secret-1", http.StatusUnauthorized},
		{"Basic scheme", "Basic secret-1", http.StatusUnauthorized},
		{"Scheme only", "Bearer ", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/teams", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRoutes_OpenWithoutTokens(t *testing.T) {
	router := newRouter(t, nil, &MockPinger{})

	for _, path := range []string{"/api/v1/teams", "/api/v1/winrate/side", "/api/v1/winrate/side/timeline", "/health"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/ingest/matches", strings.NewReader(validMatch)))
	if w.Code != http.StatusAccepted {
		t.Errorf("POST ingest = %d, want 202", w.Code)
	}
}

func TestRoutes_HealthSkipsAuth(t *testing.T) {
	router := newRouter(t, []string{"secret"}, &MockPinger{})
	for _, path := range []string{"/health", "/metrics"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		store      Pinger
		wantStatus int
	}{
		{"Store up", &MockPinger{}, http.StatusOK},
		{"Store down", &MockPinger{Err: errors.New("no reachable servers")}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, nil, tt.store)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/ready", nil))
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
