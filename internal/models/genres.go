// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package models

// genreNames maps the upstream movie genre codes to display names. The set
// is fixed upstream and changes rarely enough to freeze here rather than
// fetch per process.
var genreNames = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// GenreName resolves a genre code to its display name; ok is false for
// unknown codes.
func GenreName(id int) (string, bool) {
	name, ok := genreNames[id]
	return name, ok
}

// GenreTagNames resolves a movie's genre codes to display names, skipping
// unknown codes.
func (m *Movie) GenreTagNames() []string {
	if len(m.GenreIDs) == 0 {
		return nil
	}
	names := make([]string, 0, len(m.GenreIDs))
	for _, id := range m.GenreIDs {
		if name, ok := genreNames[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
