// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package models

import "errors"

// Core error taxonomy. The API layer maps these to transport-level responses;
// the core packages only ever surface error kinds, never HTTP concerns.
var (
	// ErrSourceUnavailable indicates that every page fetch against the movie
	// source failed. Fatal to a catalog build or refresh.
	ErrSourceUnavailable = errors.New("movie source unavailable")

	// ErrEmptyCorpus indicates the catalog was built but contains no movies.
	ErrEmptyCorpus = errors.New("catalog is empty")

	// ErrNotFound indicates a requested movie id is absent from the current
	// corpus, or a title query matched nothing.
	ErrNotFound = errors.New("movie not found")

	// ErrInvalidInput indicates a malformed or missing required argument.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDetailLookupFailed indicates a detail fetch failed. Non-fatal: the
	// enricher converts it to an absent record and callers drop the candidate.
	ErrDetailLookupFailed = errors.New("detail lookup failed")
)
