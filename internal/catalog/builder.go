// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

// Package catalog builds and owns the in-memory movie corpus and its
// similarity matrix. The corpus is assembled from paginated popular-movie
// listings, deduplicated, and annotated with the feature text the
// similarity engine vectorizes. A versioned single-slot store holds the
// latest complete (corpus, matrix) snapshot and refreshes it lazily.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinescope/cinescope/internal/logging"
	"github.com/cinescope/cinescope/internal/models"
	"github.com/cinescope/cinescope/internal/tmdb"
)

// Builder assembles a corpus from the movie source.
type Builder struct {
	source tmdb.Source
	pages  int
}

// NewBuilder creates a corpus builder fetching the given number of
// popular-movie pages per build.
func NewBuilder(source tmdb.Source, pages int) *Builder {
	return &Builder{source: source, pages: pages}
}

// Build fetches all configured pages and assembles the corpus.
//
// Individual page failures are logged and tolerated; the build fails with
// ErrSourceUnavailable only when every page fails, and with ErrEmptyCorpus
// when the pages succeed but yield no items. Duplicate ids keep their first
// occurrence, so corpus order follows first appearance in page order and is
// deterministic for a fixed upstream listing.
func (b *Builder) Build(ctx context.Context) ([]models.Movie, error) {
	var corpus []models.Movie
	seen := make(map[int]struct{})
	failedPages := 0

	for page := 1; page <= b.pages; page++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		movies, err := b.source.FetchPage(ctx, page)
		if err != nil {
			failedPages++
			logging.Warn().Err(err).Int("page", page).Msg("Page fetch failed, continuing without it")
			continue
		}

		for _, m := range movies {
			if _, dup := seen[m.ID]; dup {
				continue
			}
			seen[m.ID] = struct{}{}
			m.Features = m.ComputeFeatures()
			corpus = append(corpus, m)
		}
	}

	if failedPages == b.pages {
		return nil, fmt.Errorf("%w: all %d pages failed", models.ErrSourceUnavailable, b.pages)
	}
	if len(corpus) == 0 {
		return nil, models.ErrEmptyCorpus
	}

	logging.Info().
		Int("movies", len(corpus)).
		Int("pages", b.pages).
		Int("failed_pages", failedPages).
		Msg("Catalog built")

	return corpus, nil
}

// IsFatal reports whether a build error means the catalog is unusable, as
// opposed to a transient per-request failure.
func IsFatal(err error) bool {
	return errors.Is(err, models.ErrSourceUnavailable) || errors.Is(err, models.ErrEmptyCorpus)
}
