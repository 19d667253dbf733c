// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cinescope/cinescope/internal/logging"
	"github.com/cinescope/cinescope/internal/metrics"
	"github.com/cinescope/cinescope/internal/models"
	"github.com/cinescope/cinescope/internal/similarity"
)

// Snapshot is one complete, immutable (corpus, matrix) generation. Readers
// hold a snapshot for the duration of a request and never observe a
// partially rebuilt state.
type Snapshot struct {
	// Version increments with every rebuild.
	Version uint64

	// Movies is the corpus in its canonical order. Matrix positions
	// correspond to indices in this slice.
	Movies []models.Movie

	// Matrix is the pairwise similarity matrix over Movies.
	Matrix *similarity.Matrix

	// BuiltAt is when this generation was assembled.
	BuiltAt time.Time

	index map[int]int
}

// Position returns the corpus position of a movie id.
func (s *Snapshot) Position(id int) (int, bool) {
	pos, ok := s.index[id]
	return pos, ok
}

// Size returns the corpus size.
func (s *Snapshot) Size() int {
	return len(s.Movies)
}

// Store is the versioned single-slot cell holding the latest snapshot.
//
// Reads are a single atomic pointer load. Rebuilds run under a mutex and
// install the finished snapshot with an atomic swap, so concurrent readers
// during a rebuild keep the previous complete generation. A snapshot older
// than refreshTTL is rebuilt by the first reader to notice; other readers
// block on the rebuild mutex rather than fetch concurrently.
type Store struct {
	builder       *Builder
	refreshTTL    time.Duration
	maxVocabulary int

	rebuildMu sync.Mutex
	cell      atomic.Pointer[Snapshot]
	version   atomic.Uint64
}

// NewStore creates a catalog store. The first Snapshot call triggers the
// initial build.
func NewStore(builder *Builder, refreshTTL time.Duration, maxVocabulary int) *Store {
	return &Store{
		builder:       builder,
		refreshTTL:    refreshTTL,
		maxVocabulary: maxVocabulary,
	}
}

// Snapshot returns the current corpus/matrix generation, rebuilding it first
// when none exists yet or the existing one has aged past the refresh TTL.
//
// When a rebuild fails but an earlier snapshot exists, the stale snapshot is
// returned and the error is logged; serving stale data beats serving errors
// for a read-heavy catalog. With no previous snapshot the error propagates.
func (s *Store) Snapshot(ctx context.Context) (*Snapshot, error) {
	if snap := s.cell.Load(); snap != nil && !s.expired(snap) {
		return snap, nil
	}

	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	// Another caller may have rebuilt while we waited for the lock.
	if snap := s.cell.Load(); snap != nil && !s.expired(snap) {
		return snap, nil
	}

	snap, err := s.rebuild(ctx)
	if err != nil {
		if prev := s.cell.Load(); prev != nil {
			logging.Error().Err(err).Uint64("version", prev.Version).Msg("Catalog refresh failed, serving previous snapshot")
			return prev, nil
		}
		return nil, err
	}
	return snap, nil
}

// Refresh forces a rebuild regardless of snapshot age. Exposed on the admin
// surface.
func (s *Store) Refresh(ctx context.Context) (*Snapshot, error) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()
	return s.rebuild(ctx)
}

// Invalidate drops the current snapshot so the next read rebuilds. Part of
// the administrative clear-all-caches operation.
func (s *Store) Invalidate() {
	s.cell.Store(nil)
}

// Current returns the latest snapshot without triggering a rebuild; nil when
// nothing has been built yet. Used by health reporting.
func (s *Store) Current() *Snapshot {
	return s.cell.Load()
}

func (s *Store) expired(snap *Snapshot) bool {
	return s.refreshTTL > 0 && time.Since(snap.BuiltAt) >= s.refreshTTL
}

// rebuild fetches the corpus, computes the similarity matrix, and installs
// the new generation. Caller must hold rebuildMu.
func (s *Store) rebuild(ctx context.Context) (*Snapshot, error) {
	corpus, err := s.builder.Build(ctx)
	if err != nil {
		return nil, err
	}

	features := make([]string, len(corpus))
	index := make(map[int]int, len(corpus))
	for i, m := range corpus {
		features[i] = m.Features
		index[m.ID] = i
	}

	start := time.Now()
	matrix := similarity.BuildMatrix(features, s.maxVocabulary)
	buildTime := time.Since(start)

	snap := &Snapshot{
		Version: s.version.Add(1),
		Movies:  corpus,
		Matrix:  matrix,
		BuiltAt: time.Now(),
		index:   index,
	}
	s.cell.Store(snap)

	metrics.CorpusSize.Set(float64(len(corpus)))
	metrics.CorpusRebuildsTotal.Inc()
	metrics.SimilarityBuildDuration.Observe(buildTime.Seconds())

	logging.Info().
		Uint64("version", snap.Version).
		Int("movies", len(corpus)).
		Dur("matrix_build_time", buildTime).
		Msg("Catalog snapshot installed")

	return snap, nil
}
