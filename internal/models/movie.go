// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package models

import "strconv"

// Movie is a catalog item as ingested from the movie source.
// It is immutable once fetched; the Features string is derived at ingestion
// time and recomputed only when the item is re-ingested.
type Movie struct {
	// ID is the upstream movie identifier, unique and stable across refreshes.
	ID int `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// GenreIDs are the upstream genre codes.
	GenreIDs []int `json:"genre_ids"`

	// Overview is the free-text description. Defaults to "" when absent.
	Overview string `json:"overview"`

	// VoteAverage is the mean rating on a 0-10 scale. Defaults to 0.
	VoteAverage float64 `json:"vote_average"`

	// VoteCount is the number of votes behind VoteAverage. Defaults to 0.
	VoteCount int `json:"vote_count"`

	// Popularity is the upstream popularity signal. Defaults to 0.
	Popularity float64 `json:"popularity"`

	// ReleaseDate is the release date in YYYY-MM-DD form, "" when unknown.
	ReleaseDate string `json:"release_date"`

	// OriginalLanguage is the ISO 639-1 language code, "" when unknown.
	OriginalLanguage string `json:"original_language"`

	// PosterPath is the upstream relative poster path, "" when absent.
	PosterPath string `json:"poster_path,omitempty"`

	// BackdropPath is the upstream relative backdrop path, "" when absent.
	BackdropPath string `json:"backdrop_path,omitempty"`

	// Features is the derived text used for similarity: stringified genre
	// codes, overview and language code, space-joined.
	Features string `json:"-"`
}

// ComputeFeatures derives the similarity feature string for a movie:
// the space-joined genre codes, then the overview, then the language code.
// The result is deterministic for a fixed movie.
func (m *Movie) ComputeFeatures() string {
	buf := make([]byte, 0, len(m.Overview)+8*len(m.GenreIDs)+len(m.OriginalLanguage)+2)
	for i, g := range m.GenreIDs {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, int64(g), 10)
	}
	if m.Overview != "" {
		if len(buf) > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, m.Overview...)
	}
	if m.OriginalLanguage != "" {
		if len(buf) > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, m.OriginalLanguage...)
	}
	return string(buf)
}

// Genre is a named genre as returned by the detail endpoint.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember is a single cast credit from the detail endpoint.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
}

// MovieDetail is the enriched, denormalized view of a movie plus extended
// attributes fetched from the detail endpoint. It never replaces a Movie in
// the corpus, only augments a response.
type MovieDetail struct {
	ID               int          `json:"id"`
	Title            string       `json:"title"`
	Overview         string       `json:"overview"`
	Tagline          string       `json:"tagline,omitempty"`
	Genres           []Genre      `json:"genres"`
	Runtime          int          `json:"runtime"`
	Budget           int64        `json:"budget"`
	Revenue          int64        `json:"revenue"`
	VoteAverage      float64      `json:"vote_average"`
	VoteCount        int          `json:"vote_count"`
	Popularity       float64      `json:"popularity"`
	ReleaseDate      string       `json:"release_date"`
	OriginalLanguage string       `json:"original_language"`
	Keywords         []string     `json:"keywords,omitempty"`
	Cast             []CastMember `json:"cast,omitempty"`

	// PosterURL and BackdropURL are fully-qualified image URLs, built from the
	// configured image base only when the upstream relative path is non-empty.
	// nil means no image is available; a malformed URL is never produced.
	PosterURL   *string `json:"poster_url"`
	BackdropURL *string `json:"backdrop_url"`
}

// GenreNames returns the genre names of a detail record in order.
func (d *MovieDetail) GenreNames() []string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return names
}
