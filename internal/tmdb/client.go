// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

/*
client.go - TMDB API Client

This file provides the core Client struct and HTTP communication layer for
the TMDB REST API, the system's only external data source.

Client Features:
  - HTTP client with configurable timeout
  - API key authentication via query parameter
  - Inter-page pacing through a token-bucket rate limiter
  - Automatic retry with exponential backoff on transient statuses
    (429, 500, 502, 503, 504), honoring Retry-After
  - Context support for cancellation during requests and backoff waits

Related Files:
  - types.go: wire-format response structs
  - breaker.go: circuit breaker wrapper around this client
*/

package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/cinescope/cinescope/internal/config"
	"github.com/cinescope/cinescope/internal/metrics"
	"github.com/cinescope/cinescope/internal/models"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics, preventing unbounded allocation on large error pages.
const maxErrorBodySize = 64 * 1024 // 64KB

// transientStatuses are the HTTP statuses eligible for automatic retry.
var transientStatuses = map[int]struct{}{
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

// Source defines the movie source operations the rest of the system depends
// on. It is implemented by Client for production use, by BreakerSource for
// circuit-protected use, and by fakes in tests.
//
// All methods accept a context for cancellation and are safe for concurrent
// use.
type Source interface {
	// FetchPage returns one page of popular movies. Pages are 1-based.
	FetchPage(ctx context.Context, page int) ([]models.Movie, error)

	// FetchDetail returns the extended record for one movie, including
	// keywords and cast credits.
	FetchDetail(ctx context.Context, id int) (*DetailResponse, error)
}

// Client handles communication with the TMDB HTTP API.
//
// Thread Safety: safe for concurrent use; each request creates its own HTTP
// request and the page limiter is internally synchronized.
type Client struct {
	baseURL        string
	apiKey         string
	language       string
	client         *http.Client
	maxRetries     int
	retryBaseDelay time.Duration

	// pageLimiter spaces out page fetches so catalog rebuilds stay inside
	// the upstream rate limit.
	pageLimiter *rate.Limiter
}

// NewClient creates a TMDB API client from configuration.
func NewClient(cfg *config.TMDBConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
		pageLimiter:    rate.NewLimiter(rate.Every(cfg.PageInterval), 1),
	}
}

// FetchPage returns one page of the popular-movies listing.
func (c *Client) FetchPage(ctx context.Context, page int) ([]models.Movie, error) {
	if err := c.pageLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	start := time.Now()
	var resp pageResponse
	err := c.makeRequest(ctx, "/movie/popular", params, &resp)
	if err != nil {
		metrics.RecordSourceRequest("popular", "failure", time.Since(start))
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	metrics.RecordSourceRequest("popular", "success", time.Since(start))

	return resp.Results, nil
}

// FetchDetail returns the extended record for a movie, with keywords and
// credits appended in a single round trip.
func (c *Client) FetchDetail(ctx context.Context, id int) (*DetailResponse, error) {
	params := url.Values{}
	params.Set("append_to_response", "keywords,credits")

	start := time.Now()
	var resp DetailResponse
	err := c.makeRequest(ctx, fmt.Sprintf("/movie/%d", id), params, &resp)
	if err != nil {
		metrics.RecordSourceRequest("detail", "failure", time.Since(start))
		return nil, fmt.Errorf("fetch detail %d: %w", id, err)
	}
	metrics.RecordSourceRequest("detail", "success", time.Since(start))

	return &resp, nil
}

// Ping verifies connectivity and credentials against the configuration
// endpoint. Used at startup so a bad API key fails fast.
func (c *Client) Ping(ctx context.Context) error {
	var resp struct {
		Images map[string]interface{} `json:"images"`
	}
	if err := c.makeRequest(ctx, "/configuration", nil, &resp); err != nil {
		return fmt.Errorf("tmdb ping: %w", err)
	}
	return nil
}

// makeRequest handles the common TMDB request boilerplate: URL assembly with
// API key and language, the retrying GET, status checking, and JSON decoding.
func (c *Client) makeRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	resp, err := c.doRequestWithRetry(ctx, reqURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// doRequestWithRetry performs a GET with automatic retry on transient
// statuses. Backoff doubles per attempt starting from the configured base
// delay; a Retry-After header overrides the computed delay. Waits are
// cancellable through the context.
func (c *Client) doRequestWithRetry(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastStatus int

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if _, transient := transientStatuses[resp.StatusCode]; !transient {
			return resp, nil
		}

		// Transient status - close body and retry with backoff
		lastStatus = resp.StatusCode
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil {
				delay = time.Duration(seconds) * time.Second
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("transient status %d persisted after %d retries", lastStatus, c.maxRetries)
}

// readBodyForError reads at most maxErrorBodySize bytes of a response body
// for error reporting.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
