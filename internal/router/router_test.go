// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"markpress/internal/config"
	"markpress/internal/engine"
	"markpress/internal/handlers"
)

func testRouter(t *testing.T, rateLimit int) http.Handler {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "page.md"), []byte("# Page\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	eng, err := engine.New(engine.Options{ContentDir: dir})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	cfg := &config.Config{RateLimit: rateLimit, RateLimitWindow: 60}
	return New(cfg, handlers.NewPublic(eng, nil))
}

func TestHealthEndpoint(t *testing.T) {
	r := testRouter(t, 0)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf(`status field = %q, want "ok"`, body["status"])
	}
}

func TestRoutesServePages(t *testing.T) {
	r := testRouter(t, 0)

	for _, path := range []string{"/", "/page"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestRequestIDHeaderSet(t *testing.T) {
	r := testRouter(t, 0)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing from response")
	}
}

func TestRateLimitApplied(t *testing.T) {
	r := testRouter(t, 2)

	var last int
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/page", nil)
		req.RemoteAddr = "10.1.1.1:1"
		r.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("3rd request = %d, want 429", last)
	}
}
