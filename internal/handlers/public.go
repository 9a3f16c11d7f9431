// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the public site.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"markpress/internal/cache"
	"markpress/internal/engine"
)

// Public serves rendered markdown pages. The page cache is optional; a
// nil cache simply means every request renders through the engine.
type Public struct {
	engine *engine.Engine
	cache  *cache.PageCache
}

// NewPublic creates the public site handlers.
func NewPublic(eng *engine.Engine, pageCache *cache.PageCache) *Public {
	return &Public{engine: eng, cache: pageCache}
}

// Homepage serves the generated index of all content pages.
func (h *Public) Homepage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if page, ok := h.cache.Get(ctx, cache.IndexKey); ok {
		writeHTML(w, page)
		return
	}

	page, err := h.engine.RenderIndex()
	if err != nil {
		slog.Error("render index", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.cache.Set(ctx, cache.IndexKey, page)
	writeHTML(w, page)
}

// Page serves a single content page by slug.
func (h *Public) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	if page, ok := h.cache.Get(ctx, slug); ok {
		writeHTML(w, page)
		return
	}

	page, err := h.engine.Render(slug)
	if errors.Is(err, engine.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("render page", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.cache.Set(ctx, slug, page)
	writeHTML(w, page)
}

func writeHTML(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
