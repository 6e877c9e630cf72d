package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/novaray/panel/internal/adminlink"
	"github.com/novaray/panel/internal/config"
	"github.com/novaray/panel/internal/db"
)

func newTestServer(t *testing.T, cfg config.ServerConfig) *Server {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "panel-test.db")
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	gate, errGate := adminlink.NewGate(conn)
	if errGate != nil {
		t.Fatalf("new gate: %v", errGate)
	}
	return New(conn, gate, cfg)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	return rec
}

func TestServer_WelcomeAndHealth(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{ServerIP: "127.0.0.1"})

	req := httptest.NewRequest(http.MethodGet, "http://127.0.0.1/", nil)
	if rec := serve(s, req); rec.Code != http.StatusOK {
		t.Fatalf("root: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "http://127.0.0.1/healthz", nil)
	if rec := serve(s, req); rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestServer_RejectsForeignHost(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{ServerIP: "203.0.113.7"})

	req := httptest.NewRequest(http.MethodGet, "http://evil.example.com/", nil)
	rec := serve(s, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for foreign host, got %d (%s)", rec.Code, rec.Body.String())
	}

	// The configured server IP itself passes the host check.
	req = httptest.NewRequest(http.MethodGet, "http://203.0.113.7/", nil)
	if rec = serve(s, req); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for the server IP, got %d", rec.Code)
	}
}

func TestServer_RateLimitKicksIn(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{
		ServerIP:  "127.0.0.1",
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 2},
	})

	limited := false
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodGet, "http://127.0.0.1/", nil)
		rec := serve(s, req)
		if rec.Code == http.StatusTooManyRequests {
			if rec.Header().Get("Retry-After") == "" {
				t.Fatalf("429 without Retry-After header")
			}
			limited = true
		}
	}
	if !limited {
		t.Fatalf("expected at least one 429 across 6 rapid requests with a 2/s limit")
	}
}

func TestServer_PreflightShortCircuits(t *testing.T) {
	s := newTestServer(t, config.ServerConfig{ServerIP: "127.0.0.1"})

	req := httptest.NewRequest(http.MethodOptions, "http://127.0.0.1/users", nil)
	req.Header.Set("Origin", "https://panel.example.com")
	rec := serve(s, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight: expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected wildcard origin, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
