// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/cinescope/cinescope/internal/metrics"
)

// Entry represents a cached item with expiration
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Cache provides a thread-safe in-memory memoization cache with TTL support.
// Keys are namespaced by operation ("operation:hash") so that all results of
// a single operation can be invalidated together.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	stats   Stats
}

// Stats tracks cache performance metrics
type Stats struct {
	mu          sync.RWMutex
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// New creates a new thread-safe in-memory cache with automatic expiration.
//
// Entries expire lazily on read and are additionally swept by a background
// cleanup goroutine every 5 minutes. An expired entry is never returned to a
// caller even if the sweep has not run yet.
//
// Parameters:
//   - ttl: Default expiration duration for cache entries (e.g., 10 * time.Minute)
//
// Thread Safety:
//   - Safe for concurrent access from multiple goroutines
//   - Uses sync.RWMutex for read/write locking
//
// Example:
//
//	c := cache.New(10 * time.Minute)
//	key := cache.GenerateKey("recommend", req)
//	if data, ok := c.Get(key); ok {
//	    return data.(*models.RecommendationResponse), nil
//	}
func New(ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		stats: Stats{
			LastCleanup: time.Now(),
		},
	}

	// Start background cleanup goroutine
	go c.cleanupLoop()

	return c
}

// Get retrieves a value from the cache by key with lazy expiration checking.
//
// Returns (nil, false) if the key does not exist or the entry has expired; an
// expired entry is deleted on access and counted as both a miss and an
// eviction.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	op := operationOf(key)

	if !exists {
		c.recordMiss(op)
		return nil, false
	}

	// An entry is live strictly before ExpiresAt; at the boundary it is
	// already expired.
	if !time.Now().Before(entry.ExpiresAt) {
		// Entry expired, remove it
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		c.recordMiss(op)
		c.recordEviction()
		return nil, false
	}

	c.recordHit(op)
	return entry.Data, true
}

// Set stores a value in the cache with the default TTL configured at cache creation.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value in the cache with a custom TTL
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{
		Data:      value,
		ExpiresAt: time.Now().Add(ttl),
	}

	c.stats.mu.Lock()
	c.stats.TotalKeys = int64(len(c.entries))
	c.stats.mu.Unlock()

	metrics.CacheEntries.Set(float64(len(c.entries)))
}

// GetOrCompute returns the cached value for (operation, args), computing and
// storing it on a miss.
//
// The key is derived from the operation name and a SHA-256 digest of the
// JSON-serialized arguments, so any two calls with deeply equal arguments
// share one cache slot. Compute errors are returned to the caller and never
// cached.
//
// Note: concurrent misses for the same key each invoke fn; the last writer
// wins. Computations here are cheap and deterministic, so duplicate work is
// acceptable and results are interchangeable.
func (c *Cache) GetOrCompute(operation string, args interface{}, ttl time.Duration, fn func() (interface{}, error)) (interface{}, error) {
	key := GenerateKey(operation, args)

	if data, ok := c.Get(key); ok {
		return data, nil
	}

	data, err := fn()
	if err != nil {
		return nil, err
	}

	c.SetWithTTL(key, data, ttl)
	return data, nil
}

// Delete removes a specific cache entry by key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	c.recordEviction()
}

// Invalidate removes all entries belonging to a single operation namespace.
//
// Returns the number of entries removed. Used when upstream data for one
// operation changes (e.g., a catalog refresh invalidates "recommend" results)
// without disturbing unrelated cached computations.
func (c *Cache) Invalidate(operation string) int {
	prefix := operation + ":"

	c.mu.Lock()
	evictions := int64(0)
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			evictions++
		}
	}
	remaining := len(c.entries)
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.Evictions += evictions
	c.stats.TotalKeys = int64(remaining)
	c.stats.mu.Unlock()

	metrics.CacheEvictions.Add(float64(evictions))
	metrics.CacheEntries.Set(float64(remaining))

	return int(evictions)
}

// Clear removes all entries from the cache in a single atomic operation.
//
// Performance: O(1) operation (map replacement, not per-entry deletion).
func (c *Cache) Clear() {
	c.mu.Lock()
	evictions := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.Evictions += evictions
	c.stats.TotalKeys = 0
	c.stats.mu.Unlock()

	metrics.CacheEvictions.Add(float64(evictions))
	metrics.CacheEntries.Set(0)
}

// GetStats returns a snapshot of current cache performance statistics.
//
// The returned Stats struct is a copy, safe to read without holding locks.
func (c *Cache) GetStats() Stats {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()

	return Stats{
		Hits:        c.stats.Hits,
		Misses:      c.stats.Misses,
		Evictions:   c.stats.Evictions,
		TotalKeys:   c.stats.TotalKeys,
		LastCleanup: c.stats.LastCleanup,
	}
}

// HitRate returns the cache hit rate as a percentage
func (c *Cache) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// cleanupLoop periodically removes expired entries
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

// cleanup removes all expired entries
func (c *Cache) cleanup() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	evictions := int64(0)
	for key, entry := range c.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(c.entries, key)
			evictions++
		}
	}

	c.stats.mu.Lock()
	c.stats.Evictions += evictions
	c.stats.TotalKeys = int64(len(c.entries))
	c.stats.LastCleanup = now
	c.stats.mu.Unlock()

	metrics.CacheEvictions.Add(float64(evictions))
	metrics.CacheEntries.Set(float64(len(c.entries)))
}

// recordHit increments the hit counter
func (c *Cache) recordHit(operation string) {
	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()

	metrics.CacheHits.WithLabelValues(operation).Inc()
}

// recordMiss increments the miss counter
func (c *Cache) recordMiss(operation string) {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()

	metrics.CacheMisses.WithLabelValues(operation).Inc()
}

// recordEviction increments the eviction counter
func (c *Cache) recordEviction() {
	c.stats.mu.Lock()
	c.stats.Evictions++
	c.stats.mu.Unlock()

	metrics.CacheEvictions.Inc()
}

// operationOf extracts the operation namespace from a cache key.
func operationOf(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}

// GenerateKey creates a cache key from the operation name and parameters.
// Deeply equal parameters always produce the same key.
func GenerateKey(operation string, params interface{}) string {
	// Serialize parameters to JSON
	data, err := json.Marshal(params)
	if err != nil {
		// Fallback to simple string key
		return fmt.Sprintf("%s:%v", operation, params)
	}

	// Hash the JSON data for a compact, collision-resistant key
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", operation, hash)
}
