// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package api

import (
	"errors"

	"github.com/cinescope/cinescope/internal/models"
)

// writeEngineError maps the engine's error taxonomy onto HTTP responses.
//
//   - unknown movie or empty search: 404
//   - malformed input: 400
//   - source down with no corpus to serve: 503
//   - detail lookup failure on a direct detail read: 502
//
// Anything outside the taxonomy is a 500 with a generic message; internals
// never leak to clients.
func writeEngineError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		rw.NotFound(err.Error())
	case errors.Is(err, models.ErrInvalidInput):
		rw.BadRequest(err.Error())
	case errors.Is(err, models.ErrSourceUnavailable), errors.Is(err, models.ErrEmptyCorpus):
		rw.ServiceUnavailable("Movie catalog unavailable, try again later")
	case errors.Is(err, models.ErrDetailLookupFailed):
		rw.UpstreamError(err)
	default:
		rw.InternalError("An unexpected error occurred")
	}
}
