// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

/*
Package cache provides thread-safe in-memory memoization with TTL support.

This package caches the results of repeatable computations (recommendation
runs, score calculations, movie detail lookups) so identical requests within
the TTL window are served without recomputation or upstream calls.

# Overview

The cache provides:
  - Thread-safe concurrent access (sync.RWMutex)
  - Time-to-live (TTL) expiration, checked lazily on Get plus a periodic sweep
  - Operation-namespaced keys ("operation:hash") for targeted invalidation
  - Deterministic key derivation from arbitrary JSON-serializable arguments
  - Hit/miss/eviction statistics for monitoring

# Key Generation

GenerateKey serializes the arguments with goccy/go-json and hashes the bytes
with SHA-256, so any two deeply equal argument values map to the same cache
slot regardless of how they were constructed:

	key := cache.GenerateKey("recommend", req)
	if cached, ok := c.Get(key); ok {
	    return cached.(*models.RecommendationResponse), nil
	}

# Memoization Pattern

GetOrCompute wraps the check-compute-store cycle:

	result, err := c.GetOrCompute("detail", movieID, time.Hour, func() (interface{}, error) {
	    return client.FetchDetail(ctx, movieID)
	})

Compute errors propagate to the caller and are never cached, so a transient
upstream failure does not poison the cache.

# Invalidation

Three strategies are supported:

 1. TTL expiration (automatic, lazy on read plus background sweep)
 2. Invalidate(operation): removes every entry of one operation namespace,
    e.g. after a catalog refresh changes the data "recommend" depends on
 3. Clear(): full invalidation, exposed on the admin API

# Limitations

Intentional limitations for the application's scale:

  - No maximum size limit or LRU eviction (TTL only)
  - No single-flight de-duplication: concurrent misses for one key each
    compute; results are deterministic so the duplicate work is harmless
  - In-memory only, single instance

# See Also

  - internal/recommender: memoizes recommendation runs through this package
  - internal/enrich: memoizes per-movie detail lookups
*/
package cache
