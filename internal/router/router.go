// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router wires up the HTTP routes and middleware chain.
package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"markpress/internal/config"
	"markpress/internal/handlers"
	"markpress/internal/middleware"
)

// New builds the chi router with the standard middleware chain and the
// public site routes.
func New(cfg *config.Config, public *handlers.Public) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, time.Duration(cfg.RateLimitWindow)*time.Second)
		r.Use(limiter.Middleware)
	}

	r.Get("/health", healthHandler)
	r.Get("/", public.Homepage)
	r.Get("/{slug}", public.Page)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
