// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package tmdb

import "github.com/cinescope/cinescope/internal/models"

// pageResponse is the wire shape of a paginated listing endpoint.
type pageResponse struct {
	Page         int            `json:"page"`
	Results      []models.Movie `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// DetailResponse is the wire shape of the movie detail endpoint with
// keywords and credits appended. Fields default to their zero values when
// absent upstream; the enricher applies presentation defaults.
type DetailResponse struct {
	ID               int            `json:"id"`
	Title            string         `json:"title"`
	Overview         string         `json:"overview"`
	Tagline          string         `json:"tagline"`
	Genres           []models.Genre `json:"genres"`
	Runtime          int            `json:"runtime"`
	Budget           int64          `json:"budget"`
	Revenue          int64          `json:"revenue"`
	VoteAverage      float64        `json:"vote_average"`
	VoteCount        int            `json:"vote_count"`
	Popularity       float64        `json:"popularity"`
	ReleaseDate      string         `json:"release_date"`
	OriginalLanguage string         `json:"original_language"`
	PosterPath       string         `json:"poster_path"`
	BackdropPath     string         `json:"backdrop_path"`
	Keywords         KeywordList    `json:"keywords"`
	Credits          Credits        `json:"credits"`
}

// KeywordList is the nested keyword wrapper of the detail endpoint.
type KeywordList struct {
	Keywords []Keyword `json:"keywords"`
}

// Keyword is a single content keyword.
type Keyword struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Credits is the nested credits wrapper of the detail endpoint. Only the
// cast subset is consumed.
type Credits struct {
	Cast []models.CastMember `json:"cast"`
}
