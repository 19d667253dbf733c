// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cinescope/cinescope/internal/logging"
	"github.com/cinescope/cinescope/internal/middleware"
	"github.com/cinescope/cinescope/internal/recommender"
	"github.com/cinescope/cinescope/internal/scoring"
)

// Handler holds the recommendation engine behind the HTTP surface.
type Handler struct {
	engine *recommender.Engine
}

// NewHandler creates the API handler set.
func NewHandler(engine *recommender.Engine) *Handler {
	return &Handler{engine: engine}
}

// Recommend handles GET /api/v1/recommend/{id}.
// The optional user_id query parameter attributes the request to a profile.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, err := pathID(r)
	if err != nil {
		rw.BadRequest("Movie id must be a positive integer")
		return
	}

	rec, err := h.engine.Recommend(r.Context(), movieID, r.URL.Query().Get("user_id"))
	if err != nil {
		writeEngineError(rw, err)
		return
	}
	rw.Success(rec)
}

// MoodRecommend handles POST /api/v1/recommend/mood.
func (h *Handler) MoodRecommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req MoodRequest
	if err := decodeAndValidate(r, &req); err != nil {
		rw.ValidationError("Invalid mood request", validationDetails(err))
		return
	}

	movies, err := h.engine.MoodRecommend(r.Context(), req.Mood, req.TimeOfDay, req.Weather)
	if err != nil {
		writeEngineError(rw, err)
		return
	}
	rw.Success(map[string]interface{}{
		"mood":   req.Mood,
		"movies": movies,
	})
}

// GroupRecommend handles POST /api/v1/recommend/group.
func (h *Handler) GroupRecommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req GroupRequest
	if err := decodeAndValidate(r, &req); err != nil {
		rw.ValidationError("Invalid group request", validationDetails(err))
		return
	}

	matches, err := h.engine.GroupRecommend(r.Context(), req.UserIDs)
	if err != nil {
		writeEngineError(rw, err)
		return
	}
	if matches == nil {
		matches = []scoring.ConsensusMatch{}
	}
	rw.Success(map[string]interface{}{
		"group_size": len(req.UserIDs),
		"matches":    matches,
	})
}

// AnalyzeSentiment handles POST /api/v1/analyze/sentiment.
func (h *Handler) AnalyzeSentiment(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req SentimentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		rw.ValidationError("Invalid sentiment request", validationDetails(err))
		return
	}

	result, err := h.engine.AnalyzeSentiment(req.Text)
	if err != nil {
		writeEngineError(rw, err)
		return
	}
	rw.Success(result)
}

// PredictPrice handles POST /api/v1/predict/price. A pure computation over
// the request body; no catalog access.
func (h *Handler) PredictPrice(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req PriceRequest
	if err := decodeAndValidate(r, &req); err != nil {
		rw.ValidationError("Invalid price request", validationDetails(err))
		return
	}

	rw.Success(map[string]interface{}{
		"base_price":       req.BasePrice,
		"price":            scoring.DynamicPrice(req.BasePrice, req.Popularity, req.HoursUntilShow),
		"hours_until_show": req.HoursUntilShow,
	})
}

// Movies handles GET /api/v1/movies.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movies, version, err := h.engine.Movies(r.Context())
	if err != nil {
		writeEngineError(rw, err)
		return
	}
	rw.Success(map[string]interface{}{
		"movies":         movies,
		"count":          len(movies),
		"corpus_version": version,
	})
}

// MovieDetail handles GET /api/v1/movies/{id}.
func (h *Handler) MovieDetail(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, err := pathID(r)
	if err != nil {
		rw.BadRequest("Movie id must be a positive integer")
		return
	}

	detail, err := h.engine.MovieDetail(r.Context(), movieID)
	if err != nil {
		writeEngineError(rw, err)
		return
	}
	rw.Success(detail)
}

// PredictSuccess handles GET /api/v1/movies/{id}/success.
func (h *Handler) PredictSuccess(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movieID, err := pathID(r)
	if err != nil {
		rw.BadRequest("Movie id must be a positive integer")
		return
	}

	detail, err := h.engine.MovieDetail(r.Context(), movieID)
	if err != nil {
		writeEngineError(rw, err)
		return
	}
	rw.Success(map[string]interface{}{
		"movie_id": movieID,
		"title":    detail.Title,
		"success":  scoring.PredictSuccess(detail),
	})
}

// SearchMovies handles GET /api/v1/movies/search?q=.
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	query := r.URL.Query().Get("q")
	matches, err := h.engine.SearchByTitle(r.Context(), query)
	if err != nil {
		writeEngineError(rw, err)
		return
	}
	rw.Success(map[string]interface{}{
		"query":  query,
		"movies": matches,
		"count":  len(matches),
	})
}

// UserProfile handles GET /api/v1/users/{id}/profile.
func (h *Handler) UserProfile(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "id")
	snap, ok := h.engine.Profile(userID)
	if !ok {
		rw.NotFound("No profile for user " + userID)
		return
	}
	rw.Success(snap)
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.engine.Health())
}

// ClearCache handles POST /api/v1/admin/cache/clear.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.engine.ClearCaches()
	logging.Info().Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("Cache cleared via admin endpoint")
	NewResponseWriter(w, r).Success(map[string]string{"message": "All caches cleared"})
}

// RefreshCatalog handles POST /api/v1/admin/catalog/refresh.
func (h *Handler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	version, size, err := h.engine.RefreshCatalog(r.Context())
	if err != nil {
		writeEngineError(rw, err)
		return
	}
	rw.Success(map[string]interface{}{
		"corpus_version": version,
		"corpus_size":    size,
	})
}

// pathID parses the {id} path parameter as a positive integer.
func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, err
	}
	if id < 1 {
		return 0, strconv.ErrRange
	}
	return id, nil
}
