// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"markpress/internal/engine"
)

func testServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	for name, content := range pages {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}

	eng, err := engine.New(engine.Options{ContentDir: dir})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	public := NewPublic(eng, nil) // nil cache: handlers must work without Valkey

	r := chi.NewRouter()
	r.Get("/", public.Homepage)
	r.Get("/{slug}", public.Page)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestPageServed(t *testing.T) {
	srv := testServer(t, map[string]string{
		"guide.md": "# The Guide\n\nDon't panic.\n",
	})

	status, body := get(t, srv, "/guide")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !strings.Contains(body, "<title>The Guide</title>") {
		t.Errorf("missing title:\n%s", body)
	}
	if !strings.Contains(body, "panic") {
		t.Errorf("missing body text:\n%s", body)
	}
}

func TestPageNotFound(t *testing.T) {
	srv := testServer(t, nil)

	status, _ := get(t, srv, "/nope")
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}

func TestPageRejectsBadSlug(t *testing.T) {
	srv := testServer(t, map[string]string{
		"real.md": "# Real\n",
	})

	status, _ := get(t, srv, "/..%2Freal")
	if status == http.StatusOK {
		t.Error("traversal-shaped slug should not serve a page")
	}
}

func TestHomepageListsPages(t *testing.T) {
	srv := testServer(t, map[string]string{
		"alpha.md": "# Alpha\n",
		"beta.md":  "# Beta\n",
	})

	status, body := get(t, srv, "/")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !strings.Contains(body, `href="/alpha"`) || !strings.Contains(body, `href="/beta"`) {
		t.Errorf("index missing links:\n%s", body)
	}
}

func TestTableMergingEndToEnd(t *testing.T) {
	srv := testServer(t, map[string]string{
		"report.md": strings.Join([]string{
			"# Report",
			"",
			"| Item | Count |",
			"|------|-------|",
			"| A    | 1     |",
			"| Sum  | <<    |",
			"| ===  |       |",
			"| Sum  | 1     |",
			"",
			"[Quarterly totals]",
		}, "\n"),
	})

	status, body := get(t, srv, "/report")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !strings.Contains(body, `colspan="2"`) {
		t.Errorf("colspan not rendered:\n%s", body)
	}
	if !strings.Contains(body, "<tfoot>") {
		t.Errorf("footer section not rendered:\n%s", body)
	}
	if !strings.Contains(body, "<caption>Quarterly totals</caption>") {
		t.Errorf("caption not rendered:\n%s", body)
	}
}
