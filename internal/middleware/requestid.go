// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package middleware

import (
	"context"
	"net/http"

	"github.com/cinescope/cinescope/internal/logging"
)

// RequestIDHeader is the header carrying the request identifier.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns each request a UUID, honoring an identifier already
// supplied by the client or an upstream proxy. The id is echoed in the
// response header and stored in the logging context so downstream log
// events and response metadata can carry it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = logging.GenerateRequestID()
		}

		w.Header().Set(RequestIDHeader, id)
		ctx := logging.ContextWithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request id stored by RequestID, "" when
// the middleware did not run.
func RequestIDFromContext(ctx context.Context) string {
	return logging.RequestIDFromContext(ctx)
}
