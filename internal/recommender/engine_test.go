// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package recommender

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cinescope/cinescope/internal/cache"
	"github.com/cinescope/cinescope/internal/catalog"
	"github.com/cinescope/cinescope/internal/config"
	"github.com/cinescope/cinescope/internal/enrich"
	"github.com/cinescope/cinescope/internal/models"
	"github.com/cinescope/cinescope/internal/profile"
	"github.com/cinescope/cinescope/internal/tmdb"
)

// fakeSource serves a fixed corpus page and per-id detail records.
type fakeSource struct {
	movies      []models.Movie
	details     map[int]*tmdb.DetailResponse
	detailErr   map[int]error
	detailCalls atomic.Int32
}

func (f *fakeSource) FetchPage(_ context.Context, page int) ([]models.Movie, error) {
	if page != 1 {
		return nil, nil
	}
	return f.movies, nil
}

func (f *fakeSource) FetchDetail(_ context.Context, id int) (*tmdb.DetailResponse, error) {
	f.detailCalls.Add(1)
	if err, ok := f.detailErr[id]; ok {
		return nil, err
	}
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return nil, errors.New("no such movie")
}

func movie(id int, title, overview string, genres ...int) models.Movie {
	return models.Movie{
		ID:               id,
		Title:            title,
		Overview:         overview,
		GenreIDs:         genres,
		OriginalLanguage: "en",
	}
}

func detail(id int, title string, rating, popularity float64, genres ...models.Genre) *tmdb.DetailResponse {
	return &tmdb.DetailResponse{
		ID:          id,
		Title:       title,
		Genres:      genres,
		Runtime:     110,
		Budget:      60_000_000,
		VoteAverage: rating,
		Popularity:  popularity,
	}
}

// testCorpus: movies 1 and 2 share most of their feature text, movie 3
// shares some, movie 4 is disjoint vocabulary.
func testCorpus() *fakeSource {
	src := &fakeSource{
		movies: []models.Movie{
			movie(1, "Star Voyage", "space adventure through distant galaxies", 878),
			movie(2, "Star Voyage II", "space adventure through distant galaxies again", 878),
			movie(3, "Deep Orbit", "space station drama", 18),
			movie(4, "Pasta Nights", "cooking romance in a small kitchen", 10749),
		},
		details: map[int]*tmdb.DetailResponse{},
	}
	for _, m := range src.movies {
		var genres []models.Genre
		for _, g := range m.GenreIDs {
			name, _ := models.GenreName(g)
			genres = append(genres, models.Genre{ID: g, Name: name})
		}
		src.details[m.ID] = detail(m.ID, m.Title, 7.5, 80, genres...)
	}
	return src
}

type testEngine struct {
	engine   *Engine
	source   *fakeSource
	cache    *cache.Cache
	profiles *profile.Store
	store    *catalog.Store
}

func newTestEngine(t *testing.T, src *fakeSource, cfg config.RecommendConfig) *testEngine {
	t.Helper()
	c := cache.New(time.Minute)
	store := catalog.NewStore(catalog.NewBuilder(src, 1), time.Hour, 0)
	profiles := profile.NewStore(profile.DefaultMaxTags)
	eng := New(store, enrich.New(src, c, "https://image.example/t/p/w500", time.Hour), c, profiles, cfg, time.Minute)
	eng.SetRandFactory(func() *rand.Rand { return rand.New(rand.NewSource(7)) })
	return &testEngine{engine: eng, source: src, cache: c, profiles: profiles, store: store}
}

func defaultCfg() config.RecommendConfig {
	return config.RecommendConfig{
		NeighborPool:  15,
		MaxResults:    8,
		BasePrice:     12.99,
		MoodTopN:      5,
		ConsensusTopN: 5,
	}
}

func TestRecommendUnknownMovie(t *testing.T) {
	te := newTestEngine(t, testCorpus(), defaultCfg())

	_, err := te.engine.Recommend(context.Background(), 999, "")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRecommendRanksBySimilarity(t *testing.T) {
	te := newTestEngine(t, testCorpus(), defaultCfg())

	rec, err := te.engine.Recommend(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if rec.Input.ID != 1 {
		t.Errorf("Expected input movie 1, got %d", rec.Input.ID)
	}
	if len(rec.Candidates) != 3 {
		t.Fatalf("Expected 3 candidates, got %d", len(rec.Candidates))
	}
	if rec.Candidates[0].Detail.ID != 2 {
		t.Errorf("Expected most similar candidate to be movie 2, got %d", rec.Candidates[0].Detail.ID)
	}
	for _, c := range rec.Candidates {
		if c.Detail.ID == 1 {
			t.Error("Input movie must not appear among candidates")
		}
	}
	for i := 1; i < len(rec.Candidates); i++ {
		if rec.Candidates[i].Similarity > rec.Candidates[i-1].Similarity {
			t.Errorf("Candidates not sorted by similarity at %d: %f > %f",
				i, rec.Candidates[i].Similarity, rec.Candidates[i-1].Similarity)
		}
	}
}

func TestRecommendTieBreaksByCorpusPosition(t *testing.T) {
	// Movies 2 and 3 share genre, language and overview, so their feature
	// vectors are identical and their similarity to movie 1 ties exactly.
	src := &fakeSource{
		movies: []models.Movie{
			movie(1, "Star Voyage", "space adventure through distant galaxies", 878),
			movie(2, "Star Voyage II", "space adventure sequel", 878),
			movie(3, "Star Voyage III", "space adventure sequel", 878),
		},
		details: map[int]*tmdb.DetailResponse{},
	}
	for _, m := range src.movies {
		src.details[m.ID] = detail(m.ID, m.Title, 7.5, 80, models.Genre{ID: 878, Name: "Science Fiction"})
	}
	te := newTestEngine(t, src, defaultCfg())

	rec, err := te.engine.Recommend(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(rec.Candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(rec.Candidates))
	}
	if rec.Candidates[0].Similarity != rec.Candidates[1].Similarity {
		t.Fatalf("Fixture must tie: %f vs %f",
			rec.Candidates[0].Similarity, rec.Candidates[1].Similarity)
	}
	if rec.Candidates[0].Detail.ID != 2 || rec.Candidates[1].Detail.ID != 3 {
		t.Errorf("Equal-similarity candidates must keep corpus order, got %d then %d",
			rec.Candidates[0].Detail.ID, rec.Candidates[1].Detail.ID)
	}
}

func TestRecommendAnnotatesCandidates(t *testing.T) {
	te := newTestEngine(t, testCorpus(), defaultCfg())

	rec, err := te.engine.Recommend(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, c := range rec.Candidates {
		if c.Success.Score <= 0 {
			t.Errorf("Movie %d: expected positive success score, got %f", c.Detail.ID, c.Success.Score)
		}
		if c.Success.Label == "" {
			t.Errorf("Movie %d: missing success label", c.Detail.ID)
		}
		if c.Price <= 0 {
			t.Errorf("Movie %d: expected positive price, got %f", c.Detail.ID, c.Price)
		}
		if c.HoursUntilShow < minShowtimeOffsetHours || c.HoursUntilShow > maxShowtimeOffsetHours {
			t.Errorf("Movie %d: showtime offset %f outside [%g, %g]",
				c.Detail.ID, c.HoursUntilShow, minShowtimeOffsetHours, maxShowtimeOffsetHours)
		}
		if c.Detail.PosterURL != nil {
			t.Errorf("Movie %d: expected nil poster URL for pathless movie", c.Detail.ID)
		}
	}
}

func TestRecommendRespectsMaxResults(t *testing.T) {
	cfg := defaultCfg()
	cfg.MaxResults = 2
	te := newTestEngine(t, testCorpus(), cfg)

	rec, err := te.engine.Recommend(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(rec.Candidates) != 2 {
		t.Errorf("Expected 2 candidates, got %d", len(rec.Candidates))
	}
}

func TestRecommendDropsFailedEnrichmentWithoutBackfill(t *testing.T) {
	src := testCorpus()
	src.detailErr = map[int]error{3: errors.New("upstream 500")}
	cfg := defaultCfg()
	cfg.NeighborPool = 3
	cfg.MaxResults = 3
	te := newTestEngine(t, src, cfg)

	rec, err := te.engine.Recommend(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("Expected drop, not failure: %v", err)
	}
	if len(rec.Candidates) != 2 {
		t.Errorf("Expected 2 surviving candidates, got %d", len(rec.Candidates))
	}
	for _, c := range rec.Candidates {
		if c.Detail.ID == 3 {
			t.Error("Failed candidate must be dropped")
		}
	}
}

func TestRecommendMemoizesRanking(t *testing.T) {
	te := newTestEngine(t, testCorpus(), defaultCfg())
	ctx := context.Background()

	first, err := te.engine.Recommend(ctx, 1, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	calls := te.source.detailCalls.Load()

	second, err := te.engine.Recommend(ctx, 1, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := te.source.detailCalls.Load(); got != calls {
		t.Errorf("Expected no further upstream calls, got %d extra", got-calls)
	}
	if len(first.Candidates) != len(second.Candidates) {
		t.Fatalf("Candidate counts differ: %d vs %d", len(first.Candidates), len(second.Candidates))
	}
	for i := range first.Candidates {
		if first.Candidates[i].Detail.ID != second.Candidates[i].Detail.ID {
			t.Errorf("Ranking changed between identical requests at %d", i)
		}
		if first.Candidates[i].Similarity != second.Candidates[i].Similarity {
			t.Errorf("Similarity changed between identical requests at %d", i)
		}
	}
}

func TestRecommendUpdatesProfile(t *testing.T) {
	te := newTestEngine(t, testCorpus(), defaultCfg())

	if _, err := te.engine.Recommend(context.Background(), 1, "alice"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tags := te.profiles.PreferredTags("alice")
	if len(tags) != 1 || tags[0] != "Science Fiction" {
		t.Errorf("Expected [Science Fiction] preferred tags, got %v", tags)
	}
	snap, ok := te.profiles.Get("alice")
	if !ok {
		t.Fatal("Expected profile to exist")
	}
	if len(snap.Interactions) != 1 || snap.Interactions[0].MovieID != 1 {
		t.Errorf("Expected one interaction for movie 1, got %+v", snap.Interactions)
	}
	if snap.Interactions[0].Type != "recommendation" {
		t.Errorf("Unexpected interaction type %q", snap.Interactions[0].Type)
	}
}

func TestRecommendAnonymousSkipsProfile(t *testing.T) {
	te := newTestEngine(t, testCorpus(), defaultCfg())

	if _, err := te.engine.Recommend(context.Background(), 1, ""); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n := te.profiles.Count(); n != 0 {
		t.Errorf("Expected no profiles, got %d", n)
	}
}

func TestMoodRecommend(t *testing.T) {
	src := testCorpus()
	te := newTestEngine(t, src, defaultCfg())

	got, err := te.engine.MoodRecommend(context.Background(), "romantic", "evening", "clear")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// Only movie 4 (Romance) and movie 3 (Drama) fit the romantic mood.
	if len(got) != 2 {
		t.Fatalf("Expected 2 mood matches, got %d", len(got))
	}
	for _, d := range got {
		if d.ID != 3 && d.ID != 4 {
			t.Errorf("Unexpected mood match %d", d.ID)
		}
	}
}

func TestMoodRecommendFindsMatchesDeepInCorpus(t *testing.T) {
	// A lone comedy sits past the enrichment pool bound; the genre
	// pre-filter must still surface it without enriching the dramas.
	src := &fakeSource{details: map[int]*tmdb.DetailResponse{}}
	for i := 1; i <= moodPoolSize+5; i++ {
		src.movies = append(src.movies, movie(i, fmt.Sprintf("Quiet Town %d", i), fmt.Sprintf("small town story number %d", i), 18))
	}
	src.movies = append(src.movies, movie(100, "Laugh Riot", "standup chaos on a national tour", 35))
	for _, m := range src.movies {
		var genres []models.Genre
		for _, g := range m.GenreIDs {
			name, _ := models.GenreName(g)
			genres = append(genres, models.Genre{ID: g, Name: name})
		}
		src.details[m.ID] = detail(m.ID, m.Title, 7.5, 80, genres...)
	}
	te := newTestEngine(t, src, defaultCfg())

	got, err := te.engine.MoodRecommend(context.Background(), "happy", "", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 100 {
		t.Fatalf("Expected only the late-corpus comedy, got %+v", got)
	}
	if calls := te.source.detailCalls.Load(); calls != 1 {
		t.Errorf("Expected only genre matches enriched, got %d detail fetches", calls)
	}
}

func TestGroupRecommend(t *testing.T) {
	te := newTestEngine(t, testCorpus(), defaultCfg())
	now := time.Now()
	te.profiles.RecordInteraction("alice", []string{"Science Fiction", "Drama"}, profile.Interaction{MovieID: 1, Type: "rating", Timestamp: now})
	te.profiles.RecordInteraction("bob", []string{"Science Fiction"}, profile.Interaction{MovieID: 2, Type: "rating", Timestamp: now})

	got, err := te.engine.GroupRecommend(context.Background(), []string{"alice", "bob"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("Expected consensus matches")
	}
	if got[0].ID != 1 && got[0].ID != 2 {
		t.Errorf("Expected a science fiction movie first, got %d", got[0].ID)
	}
	for _, m := range got {
		if m.ID == 4 {
			t.Error("Zero-score candidate must be excluded")
		}
	}
}

func TestGroupRecommendNoProfiles(t *testing.T) {
	te := newTestEngine(t, testCorpus(), defaultCfg())

	got, err := te.engine.GroupRecommend(context.Background(), []string{"nobody"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty result without profiles, got %d", len(got))
	}
}

func TestAnalyzeSentimentMemoized(t *testing.T) {
	te := newTestEngine(t, testCorpus(), defaultCfg())

	first, err := te.engine.AnalyzeSentiment("This movie was absolutely wonderful and amazing!")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first.Label != "positive" {
		t.Errorf("Expected positive, got %q", first.Label)
	}

	second, err := te.engine.AnalyzeSentiment("This movie was absolutely wonderful and amazing!")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if second != first {
		t.Errorf("Expected identical memoized result, got %+v vs %+v", second, first)
	}
}

func TestSearchByTitle(t *testing.T) {
	te := newTestEngine(t, testCorpus(), defaultCfg())
	ctx := context.Background()

	got, err := te.engine.SearchByTitle(ctx, "star")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 matches for %q, got %d", "star", len(got))
	}

	if _, err := te.engine.SearchByTitle(ctx, "ZZZZ"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for no matches, got %v", err)
	}
	if _, err := te.engine.SearchByTitle(ctx, "   "); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for blank query, got %v", err)
	}
}

func TestMovieDetailErrors(t *testing.T) {
	src := testCorpus()
	src.detailErr = map[int]error{3: errors.New("upstream 500")}
	te := newTestEngine(t, src, defaultCfg())
	ctx := context.Background()

	if _, err := te.engine.MovieDetail(ctx, 999); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := te.engine.MovieDetail(ctx, 3); !errors.Is(err, models.ErrDetailLookupFailed) {
		t.Errorf("Expected ErrDetailLookupFailed, got %v", err)
	}

	d, err := te.engine.MovieDetail(ctx, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Title != "Star Voyage" {
		t.Errorf("Unexpected title %q", d.Title)
	}
}

func TestRefreshCatalogBumpsVersion(t *testing.T) {
	te := newTestEngine(t, testCorpus(), defaultCfg())
	ctx := context.Background()

	if _, err := te.engine.Recommend(ctx, 1, ""); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	version, size, err := te.engine.RefreshCatalog(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if version != 2 {
		t.Errorf("Expected version 2 after forced refresh, got %d", version)
	}
	if size != 4 {
		t.Errorf("Expected corpus size 4, got %d", size)
	}
}

func TestHealthAndClearCaches(t *testing.T) {
	te := newTestEngine(t, testCorpus(), defaultCfg())

	h := te.engine.Health()
	if h.Status != "initializing" {
		t.Errorf("Expected initializing before first build, got %q", h.Status)
	}

	if _, err := te.engine.Recommend(context.Background(), 1, "alice"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	h = te.engine.Health()
	if h.Status != "ok" {
		t.Errorf("Expected ok, got %q", h.Status)
	}
	if h.CorpusSize != 4 {
		t.Errorf("Expected corpus size 4, got %d", h.CorpusSize)
	}
	if h.CacheEntries == 0 {
		t.Error("Expected cached entries after a recommendation")
	}
	if h.ProfileCount != 1 {
		t.Errorf("Expected 1 profile, got %d", h.ProfileCount)
	}

	te.engine.ClearCaches()
	h = te.engine.Health()
	if h.Status != "initializing" {
		t.Errorf("Expected initializing after clear, got %q", h.Status)
	}
	if h.CacheEntries != 0 {
		t.Errorf("Expected empty cache after clear, got %d", h.CacheEntries)
	}
}
