// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testEngine(t *testing.T, pretty bool) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	e, err := New(Options{ContentDir: dir, PrettyHTML: pretty})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, dir
}

func writePage(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRenderBasicPage(t *testing.T) {
	e, dir := testEngine(t, false)
	writePage(t, dir, "hello.md", "# Hello\n\nSome *text*.\n")

	page, err := e.Render("hello")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	got := string(page)

	if !strings.Contains(got, "<title>Hello</title>") {
		t.Errorf("title not taken from first heading:\n%s", got)
	}
	if !strings.Contains(got, "<em>text</em>") {
		t.Errorf("markdown body missing:\n%s", got)
	}
	if !strings.Contains(got, "<!DOCTYPE html>") {
		t.Errorf("layout not applied:\n%s", got)
	}
}

func TestRenderTitleFallsBackToSlug(t *testing.T) {
	e, dir := testEngine(t, false)
	writePage(t, dir, "no-heading.md", "just a paragraph\n")

	page, err := e.Render("no-heading")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(page), "<title>no-heading</title>") {
		t.Errorf("expected slug as title:\n%s", page)
	}
}

func TestRenderMergedTable(t *testing.T) {
	e, dir := testEngine(t, false)
	writePage(t, dir, "report.md", strings.Join([]string{
		"# Report",
		"",
		"| Region | Q1 | Q2 |",
		"|--------|----|----|",
		"| North  | 10 | 20 |",
		"| ^^     | 11 | 21 |",
	}, "\n"))

	page, err := e.Render("report")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(page), `rowspan="2"`) {
		t.Errorf("table merging not applied:\n%s", page)
	}
}

func TestRenderNotFound(t *testing.T) {
	e, _ := testEngine(t, false)

	if _, err := e.Render("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Render(missing) = %v, want ErrNotFound", err)
	}
}

func TestRenderRejectsTraversal(t *testing.T) {
	e, _ := testEngine(t, false)

	for _, bad := range []string{"../etc/passwd", "a/b", "UPPER", "dot.dot", ""} {
		if _, err := e.Render(bad); !errors.Is(err, ErrNotFound) {
			t.Errorf("Render(%q) = %v, want ErrNotFound", bad, err)
		}
	}
}

func TestRenderPrettyPrints(t *testing.T) {
	e, dir := testEngine(t, true)
	writePage(t, dir, "pretty.md", "| A | B |\n|---|---|\n| 1 | 2 |\n")

	page, err := e.Render("pretty")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(page), "<tr>\n") {
		t.Errorf("expected rows split onto their own lines:\n%s", page)
	}
	if !strings.Contains(string(page), "  <td>1</td>") {
		t.Errorf("expected indented cells:\n%s", page)
	}
}

func TestRenderCachesUntilFileChanges(t *testing.T) {
	e, dir := testEngine(t, false)
	path := writePage(t, dir, "cached.md", "# One\n")

	first, err := e.Render("cached")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(first), "One") {
		t.Fatalf("unexpected first render:\n%s", first)
	}

	// Rewrite with a bumped mtime; the cache key must change.
	if err := os.WriteFile(path, []byte("# Two\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	later := time.Now().Add(time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	second, err := e.Render("cached")
	if err != nil {
		t.Fatalf("Render after edit: %v", err)
	}
	if !strings.Contains(string(second), "Two") {
		t.Errorf("stale page served after edit:\n%s", second)
	}
}

func TestInvalidateDropsCachedPage(t *testing.T) {
	e, dir := testEngine(t, false)
	writePage(t, dir, "inv.md", "# Inv\n")

	if _, err := e.Render("inv"); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, ok := e.cache.get("inv", mtimeOf(t, filepath.Join(dir, "inv.md"))); !ok {
		t.Fatal("page not cached after render")
	}

	e.Invalidate("inv")
	if _, ok := e.cache.get("inv", mtimeOf(t, filepath.Join(dir, "inv.md"))); ok {
		t.Error("page still cached after Invalidate")
	}
}

func mtimeOf(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	return info.ModTime().UnixNano()
}

func TestListAndRenderIndex(t *testing.T) {
	e, dir := testEngine(t, false)
	writePage(t, dir, "beta.md", "# Beta Page\n")
	writePage(t, dir, "alpha.md", "# Alpha Page\n")
	writePage(t, dir, "notes.txt", "ignored\n")

	pages, err := e.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("List returned %d pages, want 2", len(pages))
	}
	if pages[0].Title != "Alpha Page" || pages[1].Title != "Beta Page" {
		t.Errorf("pages not sorted by title: %+v", pages)
	}

	index, err := e.RenderIndex()
	if err != nil {
		t.Fatalf("RenderIndex: %v", err)
	}
	got := string(index)
	if !strings.Contains(got, `<a href="/alpha">Alpha Page</a>`) {
		t.Errorf("index missing alpha link:\n%s", got)
	}
	if !strings.Contains(got, `<a href="/beta">Beta Page</a>`) {
		t.Errorf("index missing beta link:\n%s", got)
	}
}
