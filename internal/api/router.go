// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cinescope/cinescope/internal/config"
	"github.com/cinescope/cinescope/internal/middleware"
)

// adminRateLimit bounds forced refreshes and cache clears, which are far
// more expensive than reads.
const (
	adminRateLimitReqs   = 10
	adminRateLimitWindow = time.Minute
)

// NewRouter assembles the HTTP surface.
func NewRouter(h *Handler, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
		r.Use(middleware.Prometheus)
		r.Use(middleware.Compression)

		// Health is registered inside the group so it shares the metrics
		// middleware, making probe traffic visible.
		r.Get("/health", h.Health)

		r.Route("/recommend", func(r chi.Router) {
			r.Post("/mood", h.MoodRecommend)
			r.Post("/group", h.GroupRecommend)
			r.Get("/{id}", h.Recommend)
		})

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", h.Movies)
			r.Get("/search", h.SearchMovies)
			r.Get("/{id}", h.MovieDetail)
			r.Get("/{id}/success", h.PredictSuccess)
		})

		r.Post("/analyze/sentiment", h.AnalyzeSentiment)
		r.Post("/predict/price", h.PredictPrice)

		r.Get("/users/{id}/profile", h.UserProfile)

		r.Route("/admin", func(r chi.Router) {
			r.Use(httprate.LimitByIP(adminRateLimitReqs, adminRateLimitWindow))
			r.Post("/cache/clear", h.ClearCache)
			r.Post("/catalog/refresh", h.RefreshCatalog)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
