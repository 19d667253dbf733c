// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

// Package enrich produces the denormalized detail view of a movie: extended
// attributes from the detail endpoint plus computed image URLs. Lookups are
// memoized with a long TTL since detail records change rarely.
package enrich

import (
	"context"
	"time"

	"github.com/cinescope/cinescope/internal/cache"
	"github.com/cinescope/cinescope/internal/logging"
	"github.com/cinescope/cinescope/internal/models"
	"github.com/cinescope/cinescope/internal/tmdb"
)

// maxCastMembers caps how many cast credits a detail view carries.
const maxCastMembers = 10

// Enricher fetches and caches movie detail records.
type Enricher struct {
	source    tmdb.Source
	cache     *cache.Cache
	imageBase string
	ttl       time.Duration
}

// New creates an enricher. imageBase is the URL prefix for poster and
// backdrop relative paths.
func New(source tmdb.Source, c *cache.Cache, imageBase string, ttl time.Duration) *Enricher {
	return &Enricher{
		source:    source,
		cache:     c,
		imageBase: imageBase,
		ttl:       ttl,
	}
}

// Enrich returns the detail view for a movie id, (nil, nil) when the
// upstream lookup fails. Detail failures are non-fatal by design: the
// caller drops the candidate instead of failing the request. Successful
// lookups are cached; failures are not, so the next request retries.
func (e *Enricher) Enrich(ctx context.Context, id int) (*models.MovieDetail, error) {
	v, err := e.cache.GetOrCompute("detail", id, e.ttl, func() (interface{}, error) {
		resp, err := e.source.FetchDetail(ctx, id)
		if err != nil {
			return nil, err
		}
		return e.buildDetail(resp), nil
	})
	if err != nil {
		logging.Warn().Err(err).Int("movie_id", id).Msg("Detail lookup failed, dropping candidate")
		return nil, nil
	}
	return v.(*models.MovieDetail), nil
}

// buildDetail maps the wire response to the presentation detail record,
// applying per-field defaults and image URL templating.
func (e *Enricher) buildDetail(resp *tmdb.DetailResponse) *models.MovieDetail {
	detail := &models.MovieDetail{
		ID:               resp.ID,
		Title:            resp.Title,
		Overview:         resp.Overview,
		Tagline:          resp.Tagline,
		Genres:           resp.Genres,
		Runtime:          resp.Runtime,
		Budget:           resp.Budget,
		Revenue:          resp.Revenue,
		VoteAverage:      resp.VoteAverage,
		VoteCount:        resp.VoteCount,
		Popularity:       resp.Popularity,
		ReleaseDate:      resp.ReleaseDate,
		OriginalLanguage: resp.OriginalLanguage,
		PosterURL:        e.imageURL(resp.PosterPath),
		BackdropURL:      e.imageURL(resp.BackdropPath),
	}

	if len(resp.Keywords.Keywords) > 0 {
		detail.Keywords = make([]string, 0, len(resp.Keywords.Keywords))
		for _, kw := range resp.Keywords.Keywords {
			detail.Keywords = append(detail.Keywords, kw.Name)
		}
	}

	cast := resp.Credits.Cast
	if len(cast) > maxCastMembers {
		cast = cast[:maxCastMembers]
	}
	if len(cast) > 0 {
		detail.Cast = append([]models.CastMember(nil), cast...)
	}

	return detail
}

// imageURL builds a fully-qualified image URL from a relative path, nil when
// the path is empty so clients can distinguish "no image" from a broken URL.
func (e *Enricher) imageURL(path string) *string {
	if path == "" {
		return nil
	}
	u := e.imageBase + path
	return &u
}
