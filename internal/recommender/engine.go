// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

// Package recommender orchestrates the recommendation pipeline: similarity
// ranking over the catalog snapshot, candidate enrichment, heuristic
// annotation (success score, dynamic price), and the optional profile
// side effect. It owns no algorithm of its own; it sequences the catalog,
// enrich, scoring and profile packages and enforces the error taxonomy.
package recommender

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/cinescope/cinescope/internal/cache"
	"github.com/cinescope/cinescope/internal/catalog"
	"github.com/cinescope/cinescope/internal/config"
	"github.com/cinescope/cinescope/internal/enrich"
	"github.com/cinescope/cinescope/internal/logging"
	"github.com/cinescope/cinescope/internal/metrics"
	"github.com/cinescope/cinescope/internal/models"
	"github.com/cinescope/cinescope/internal/profile"
	"github.com/cinescope/cinescope/internal/scoring"
)

// Showtime offset bounds for the pricing simulation, in hours ahead of now.
const (
	minShowtimeOffsetHours = 2.0
	maxShowtimeOffsetHours = 48.0
)

// moodPoolSize bounds how many genre-matching corpus movies are enriched
// for a mood query.
const moodPoolSize = 25

// Candidate is one ranked, enriched and annotated recommendation.
type Candidate struct {
	Detail     *models.MovieDetail  `json:"movie"`
	Similarity float64              `json:"similarity"`
	Success    scoring.SuccessScore `json:"success"`

	// Price and HoursUntilShow come from the per-request pricing
	// simulation and vary between otherwise identical requests.
	Price          float64 `json:"price"`
	HoursUntilShow float64 `json:"hours_until_show"`
}

// Recommendation is the full result of one recommend call.
type Recommendation struct {
	Input         models.Movie `json:"input_movie"`
	Candidates    []Candidate  `json:"candidates"`
	CorpusVersion uint64       `json:"corpus_version"`
}

// rankedCandidate is the deterministic, memoizable part of a candidate:
// everything except the pricing simulation.
type rankedCandidate struct {
	Detail     *models.MovieDetail
	Similarity float64
	Success    scoring.SuccessScore
}

// Engine wires the catalog, enricher, memoization cache and profile store
// into the recommendation operations the API exposes.
type Engine struct {
	store    *catalog.Store
	enricher *enrich.Enricher
	cache    *cache.Cache
	profiles *profile.Store
	cfg      config.RecommendConfig
	cacheTTL time.Duration

	// newRand builds the per-request randomness source for the showtime
	// simulation. Injectable so ranking tests stay deterministic.
	newRand func() *rand.Rand
}

// New creates a recommendation engine.
func New(store *catalog.Store, enricher *enrich.Enricher, c *cache.Cache, profiles *profile.Store, cfg config.RecommendConfig, cacheTTL time.Duration) *Engine {
	return &Engine{
		store:    store,
		enricher: enricher,
		cache:    c,
		profiles: profiles,
		cfg:      cfg,
		cacheTTL: cacheTTL,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// SetRandFactory overrides the per-request randomness source. Test hook.
func (e *Engine) SetRandFactory(f func() *rand.Rand) {
	e.newRand = f
}

// Recommend returns up to MaxResults movies similar to the given one.
//
// The movie must be present in the current corpus (ErrNotFound otherwise).
// All other corpus positions are ranked by descending similarity with ties
// broken by ascending corpus position, the top NeighborPool are enriched in
// rank order, candidates whose enrichment fails are dropped, and collection
// stops once MaxResults survive. There is no backfill past the neighbor
// pool: a request during upstream trouble may return fewer results, which
// is valid.
//
// When userID is non-empty the input movie's genres are merged into that
// user's profile and an interaction is recorded, synchronously, before the
// call returns.
func (e *Engine) Recommend(ctx context.Context, movieID int, userID string) (*Recommendation, error) {
	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	pos, ok := snap.Position(movieID)
	if !ok {
		metrics.RecommendationsTotal.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("movie %d: %w", movieID, models.ErrNotFound)
	}
	input := snap.Movies[pos]

	ranked, err := e.rankedCandidates(ctx, snap, movieID, pos)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	// Pricing simulation: isolated per-request randomness, applied after
	// the deterministic ranking so it never influences order.
	rng := e.newRand()
	candidates := make([]Candidate, len(ranked))
	for i, rc := range ranked {
		hours := minShowtimeOffsetHours + rng.Float64()*(maxShowtimeOffsetHours-minShowtimeOffsetHours)
		candidates[i] = Candidate{
			Detail:         rc.Detail,
			Similarity:     rc.Similarity,
			Success:        rc.Success,
			Price:          scoring.DynamicPrice(e.cfg.BasePrice, rc.Detail.Popularity, hours),
			HoursUntilShow: hours,
		}
	}

	if userID != "" {
		e.profiles.RecordInteraction(userID, input.GenreTagNames(), profile.Interaction{
			MovieID:   movieID,
			Type:      "recommendation",
			Timestamp: time.Now(),
		})
	}

	metrics.RecommendationsTotal.WithLabelValues("success").Inc()
	return &Recommendation{
		Input:         input,
		Candidates:    candidates,
		CorpusVersion: snap.Version,
	}, nil
}

// rankedCandidates returns the deterministic ranked-and-enriched candidate
// list, memoized per (movie, corpus generation).
func (e *Engine) rankedCandidates(ctx context.Context, snap *catalog.Snapshot, movieID, pos int) ([]rankedCandidate, error) {
	args := struct {
		MovieID int    `json:"movie_id"`
		Version uint64 `json:"version"`
	}{movieID, snap.Version}

	v, err := e.cache.GetOrCompute("recommend", args, e.cacheTTL, func() (interface{}, error) {
		return e.computeRanked(ctx, snap, pos)
	})
	if err != nil {
		return nil, err
	}
	return v.([]rankedCandidate), nil
}

func (e *Engine) computeRanked(ctx context.Context, snap *catalog.Snapshot, pos int) ([]rankedCandidate, error) {
	row := snap.Matrix.Row(pos)

	// Every other corpus position, ranked by descending similarity with
	// ascending-position tie-break for determinism.
	order := make([]int, 0, len(row)-1)
	for i := range row {
		if i != pos {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		if row[order[a]] != row[order[b]] {
			return row[order[a]] > row[order[b]]
		}
		return order[a] < order[b]
	})

	pool := order
	if len(pool) > e.cfg.NeighborPool {
		pool = pool[:e.cfg.NeighborPool]
	}

	ranked := make([]rankedCandidate, 0, e.cfg.MaxResults)
	for _, i := range pool {
		if len(ranked) >= e.cfg.MaxResults {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		detail, err := e.enricher.Enrich(ctx, snap.Movies[i].ID)
		if err != nil {
			return nil, err
		}
		if detail == nil {
			metrics.EnrichmentDrops.Inc()
			continue
		}

		ranked = append(ranked, rankedCandidate{
			Detail:     detail,
			Similarity: row[i],
			Success:    scoring.PredictSuccess(detail),
		})
	}

	return ranked, nil
}

// MoodRecommend returns up to MoodTopN enriched movies fitting a mood and
// viewing context.
//
// Corpus movies whose genres fit the mood are collected first (bounded at
// moodPoolSize), enriched, and passed through the mood filter, which also
// applies the context modifiers. The genre pre-filter uses the corpus
// movie's own genre ids so non-matching movies are never enriched.
func (e *Engine) MoodRecommend(ctx context.Context, mood, timeOfDay, weather string) ([]models.MovieDetail, error) {
	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{})
	for _, g := range scoring.MoodGenres(mood) {
		allowed[strings.ToLower(g)] = struct{}{}
	}

	var pool []models.MovieDetail
	for _, m := range snap.Movies {
		if len(pool) >= moodPoolSize {
			break
		}
		if !anyTagAllowed(m.GenreTagNames(), allowed) {
			continue
		}
		detail, err := e.enricher.Enrich(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		if detail == nil {
			continue
		}
		pool = append(pool, *detail)
	}

	result := scoring.FilterByMood(pool, mood, scoring.MoodContext{
		TimeOfDay: timeOfDay,
		Weather:   weather,
	}, e.cfg.MoodTopN)
	return result, nil
}

func anyTagAllowed(tags []string, allowed map[string]struct{}) bool {
	for _, t := range tags {
		if _, ok := allowed[strings.ToLower(t)]; ok {
			return true
		}
	}
	return false
}

// GroupRecommend ranks catalog movies against the pooled preferences of a
// small group of users. Users without a profile contribute nothing; when
// no member has any preferred tag the result is empty rather than an error.
func (e *Engine) GroupRecommend(ctx context.Context, userIDs []string) ([]scoring.ConsensusMatch, error) {
	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	memberTags := make([][]string, 0, len(userIDs))
	for _, id := range userIDs {
		memberTags = append(memberTags, e.profiles.PreferredTags(id))
	}

	candidates := make([]scoring.ConsensusCandidate, 0, snap.Size())
	for _, m := range snap.Movies {
		candidates = append(candidates, scoring.ConsensusCandidate{
			ID:    m.ID,
			Title: m.Title,
			Tags:  m.GenreTagNames(),
		})
	}

	return scoring.GroupConsensus(memberTags, candidates, e.cfg.ConsensusTopN), nil
}

// AnalyzeSentiment classifies review text, memoizing results since the
// analysis is deterministic for a fixed input.
func (e *Engine) AnalyzeSentiment(text string) (scoring.Sentiment, error) {
	v, err := e.cache.GetOrCompute("sentiment", text, e.cacheTTL, func() (interface{}, error) {
		return scoring.AnalyzeSentiment(text), nil
	})
	if err != nil {
		return scoring.Sentiment{}, err
	}
	return v.(scoring.Sentiment), nil
}

// MovieDetail returns the enriched view of a corpus movie. Unknown ids
// yield ErrNotFound; an upstream detail failure yields
// ErrDetailLookupFailed rather than an empty response.
func (e *Engine) MovieDetail(ctx context.Context, movieID int) (*models.MovieDetail, error) {
	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.Position(movieID); !ok {
		return nil, fmt.Errorf("movie %d: %w", movieID, models.ErrNotFound)
	}

	detail, err := e.enricher.Enrich(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, fmt.Errorf("movie %d: %w", movieID, models.ErrDetailLookupFailed)
	}
	return detail, nil
}

// Movies returns the current corpus listing.
func (e *Engine) Movies(ctx context.Context) ([]models.Movie, uint64, error) {
	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, 0, err
	}
	return snap.Movies, snap.Version, nil
}

// SearchByTitle returns corpus movies whose title contains the query,
// case-insensitively, in corpus order. No matches yield ErrNotFound per the
// error taxonomy.
func (e *Engine) SearchByTitle(ctx context.Context, query string) ([]models.Movie, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, fmt.Errorf("empty query: %w", models.ErrInvalidInput)
	}

	snap, err := e.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var matches []models.Movie
	for _, m := range snap.Movies {
		if strings.Contains(strings.ToLower(m.Title), q) {
			matches = append(matches, m)
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no title matches %q: %w", query, models.ErrNotFound)
	}
	return matches, nil
}

// RefreshCatalog forces a catalog rebuild. Admin operation.
func (e *Engine) RefreshCatalog(ctx context.Context) (uint64, int, error) {
	snap, err := e.store.Refresh(ctx)
	if err != nil {
		return 0, 0, err
	}
	// A new corpus generation invalidates memoized recommendations; the
	// version-scoped keys would expire anyway, this reclaims them early.
	e.cache.Invalidate("recommend")
	return snap.Version, snap.Size(), nil
}

// ClearCaches drops the memoization cache and the corpus/matrix snapshot.
// Admin operation.
func (e *Engine) ClearCaches() {
	e.cache.Clear()
	e.store.Invalidate()
	logging.Info().Msg("All caches cleared")
}

// Profile returns a copy of a user's accumulated profile.
func (e *Engine) Profile(userID string) (profile.Snapshot, bool) {
	return e.profiles.Get(userID)
}

// Health reports the current state of the engine's stores.
func (e *Engine) Health() models.HealthSnapshot {
	snap := e.store.Current()
	h := models.HealthSnapshot{
		Status:       "ok",
		CacheEntries: int(e.cache.GetStats().TotalKeys),
		ProfileCount: e.profiles.Count(),
		Timestamp:    time.Now().UTC(),
	}
	if snap != nil {
		h.CorpusSize = snap.Size()
		h.CorpusVersion = snap.Version
	} else {
		h.Status = "initializing"
	}
	return h
}
