// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine turns markdown content files into complete HTML pages.
// A page request flows file read -> markdown conversion -> optional
// pretty-printing -> layout template, with an in-process cache keyed on
// the source file's modification time.
package engine

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"markpress/internal/htmlfmt"
	"markpress/internal/markdown"
	"markpress/internal/slug"
)

//go:embed layout.gohtml index.gohtml
var templateFS embed.FS

// ErrNotFound is returned when no content file exists for a slug.
var ErrNotFound = errors.New("page not found")

// Engine renders markdown files from a content directory into full HTML
// pages. It is safe for concurrent use.
type Engine struct {
	contentDir string
	conv       *markdown.Converter
	pretty     bool
	layout     *template.Template
	index      *template.Template
	cache      *renderCache
}

// Options configures a new Engine.
type Options struct {
	ContentDir     string
	HighlightStyle string
	PrettyHTML     bool
}

// New creates an Engine for the given content directory.
func New(opts Options) (*Engine, error) {
	layout, err := template.ParseFS(templateFS, "layout.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse layout template: %w", err)
	}
	index, err := template.ParseFS(templateFS, "index.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}
	return &Engine{
		contentDir: opts.ContentDir,
		conv:       markdown.New(opts.HighlightStyle),
		pretty:     opts.PrettyHTML,
		layout:     layout,
		index:      index,
		cache:      newRenderCache(),
	}, nil
}

// PageInfo describes one content file for index listings.
type PageInfo struct {
	Slug  string
	Title string
}

// pageData is what the layout template receives.
type pageData struct {
	Title string
	Body  template.HTML
}

// indexData is what the index template receives.
type indexData struct {
	Title string
	Pages []PageInfo
}

// Render converts the content file for slug into a complete HTML page.
// Returns ErrNotFound if the slug does not map to a readable file.
func (e *Engine) Render(pageSlug string) ([]byte, error) {
	path, err := e.resolve(pageSlug)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, ErrNotFound
	}
	modTime := info.ModTime().UnixNano()

	if page, ok := e.cache.get(pageSlug, modTime); ok {
		return page, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrNotFound
	}

	body, err := e.conv.ToHTML(string(source))
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", pageSlug, err)
	}
	if e.pretty {
		if formatted, err := htmlfmt.Pretty(body); err == nil {
			body = formatted
		}
	}

	data := pageData{
		Title: titleOf(string(source), pageSlug),
		Body:  template.HTML(body),
	}
	var buf bytes.Buffer
	if err := e.layout.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute layout: %w", err)
	}

	page := buf.Bytes()
	e.cache.put(pageSlug, modTime, page)
	return page, nil
}

// RenderIndex builds an HTML listing of every content page, sorted by
// title.
func (e *Engine) RenderIndex() ([]byte, error) {
	pages, err := e.List()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := e.index.Execute(&buf, indexData{Title: "Index", Pages: pages}); err != nil {
		return nil, fmt.Errorf("execute index: %w", err)
	}
	return buf.Bytes(), nil
}

// List enumerates the .md files in the content directory.
func (e *Engine) List() ([]PageInfo, error) {
	entries, err := os.ReadDir(e.contentDir)
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	var pages []PageInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		pageSlug := slug.FromFilename(entry.Name())
		title := pageSlug
		if source, err := os.ReadFile(filepath.Join(e.contentDir, entry.Name())); err == nil {
			title = titleOf(string(source), pageSlug)
		}
		pages = append(pages, PageInfo{Slug: pageSlug, Title: title})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Title < pages[j].Title })
	return pages, nil
}

// Invalidate drops any cached rendering of the given slug.
func (e *Engine) Invalidate(pageSlug string) {
	e.cache.invalidate(pageSlug)
}

// InvalidateAll drops every cached page.
func (e *Engine) InvalidateAll() {
	e.cache.invalidateAll()
}

// resolve maps a slug to a content file path. Slugs are restricted to
// lowercase letters, digits, and hyphens, which also rules out path
// traversal.
func (e *Engine) resolve(pageSlug string) (string, error) {
	if pageSlug == "" || slug.Generate(pageSlug) != pageSlug {
		return "", ErrNotFound
	}
	return filepath.Join(e.contentDir, pageSlug+".md"), nil
}

// titleOf extracts the first level-1 heading from markdown source,
// falling back to the slug.
func titleOf(source, fallback string) string {
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "# "); ok {
			if title := strings.TrimSpace(after); title != "" {
				return title
			}
		}
	}
	return fallback
}
