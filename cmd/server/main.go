// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

// Package main is the entry point for the Cinescope server.
//
// Cinescope serves content-based movie recommendations with dynamic ticket
// pricing. It ingests popular movies from TMDB, computes a TF-IDF cosine
// similarity matrix over the corpus, and exposes recommendation, mood
// filtering, group consensus, sentiment analysis and pricing endpoints.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered settings from defaults, YAML file and
//     environment variables (Koanf v2)
//  2. Movie source: TMDB client with retries, rate limiting and a circuit
//     breaker
//  3. Catalog: versioned corpus/similarity-matrix snapshots with lazy
//     TTL-based refresh
//  4. Recommendation engine: similarity ranking, enrichment, heuristic
//     scoring and user profiles
//  5. HTTP server: Chi-routed REST API with Prometheus metrics
//
// # Configuration
//
// The only required setting is TMDB_API_KEY. Everything else has defaults;
// see config.yaml.example for the full surface.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM, waiting up to 10
// seconds for in-flight requests to complete.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cinescope/cinescope/internal/api"
	"github.com/cinescope/cinescope/internal/cache"
	"github.com/cinescope/cinescope/internal/catalog"
	"github.com/cinescope/cinescope/internal/config"
	"github.com/cinescope/cinescope/internal/enrich"
	"github.com/cinescope/cinescope/internal/logging"
	"github.com/cinescope/cinescope/internal/profile"
	"github.com/cinescope/cinescope/internal/recommender"
	"github.com/cinescope/cinescope/internal/tmdb"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal.
const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("tmdb_base_url", cfg.TMDB.BaseURL).
		Int("catalog_pages", cfg.Catalog.Pages).
		Dur("refresh_ttl", cfg.Catalog.RefreshTTL).
		Msg("Starting Cinescope")

	source := tmdb.NewBreakerSource(&cfg.TMDB)
	memo := cache.New(cfg.Catalog.CacheTTL)
	store := catalog.NewStore(
		catalog.NewBuilder(source, cfg.Catalog.Pages),
		cfg.Catalog.RefreshTTL,
		cfg.Recommend.MaxVocabulary,
	)
	enricher := enrich.New(source, memo, cfg.TMDB.ImageBaseURL, cfg.Catalog.DetailTTL)
	profiles := profile.NewStore(cfg.Recommend.MaxProfileTags)
	engine := recommender.New(store, enricher, memo, profiles, cfg.Recommend, cfg.Catalog.CacheTTL)

	// Warm the catalog before accepting traffic so the first request does
	// not absorb the full build latency. A failed warm-up is not fatal:
	// the first request retries the build.
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	if snap, err := store.Snapshot(warmCtx); err != nil {
		logging.Warn().Err(err).Msg("Catalog warm-up failed, will retry on first request")
	} else {
		logging.Info().Int("movies", snap.Size()).Msg("Catalog warmed up")
	}
	cancelWarm()

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(api.NewHandler(engine), cfg.Server),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	} else {
		logging.Info().Msg("Server stopped")
	}
}
