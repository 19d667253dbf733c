// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

/*
Package models defines the shared data structures of Cinescope.

It holds the catalog item and detail record types, the standard API response
wrapper, and the core error taxonomy. Components communicate through these
types only; no package in the core depends on HTTP concerns.

Key types:

  - Movie: an immutable catalog item with its derived Features string
  - MovieDetail: the enriched, on-demand view of a movie
  - APIResponse / APIError / Metadata: the HTTP response envelope
  - Error sentinels: ErrSourceUnavailable, ErrEmptyCorpus, ErrNotFound,
    ErrInvalidInput, ErrDetailLookupFailed
*/
package models
