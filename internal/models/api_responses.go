// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package models

import "time"

// APIResponse is the standardized response wrapper used by all HTTP endpoints.
//
// Status is "success" or "error". Data carries the payload on success; Error
// carries details when Status is "error". Metadata is always present.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	// Timestamp is the server time when the response was generated.
	Timestamp time.Time `json:"timestamp"`

	// QueryTimeMS is the core processing time in milliseconds.
	QueryTimeMS int64 `json:"query_time_ms,omitempty"`

	// RequestID is the request identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// APIError carries machine-readable error details.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// HealthSnapshot is the admin health read: a point-in-time view of the
// in-memory state the service has accumulated since startup.
type HealthSnapshot struct {
	Status        string    `json:"status"`
	CorpusSize    int       `json:"corpus_size"`
	CorpusVersion uint64    `json:"corpus_version"`
	CacheEntries  int       `json:"cache_entries"`
	ProfileCount  int       `json:"profile_count"`
	Timestamp     time.Time `json:"timestamp"`
}
