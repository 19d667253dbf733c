// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package models

import (
	"errors"
	"testing"
)

func TestComputeFeatures(t *testing.T) {
	tests := []struct {
		name  string
		movie Movie
		want  string
	}{
		{
			name: "genres overview and language",
			movie: Movie{
				GenreIDs:         []int{28, 12},
				Overview:         "a lone hero",
				OriginalLanguage: "en",
			},
			want: "28 12 a lone hero en",
		},
		{
			name: "missing overview",
			movie: Movie{
				GenreIDs:         []int{35},
				OriginalLanguage: "fr",
			},
			want: "35 fr",
		},
		{
			name: "missing language",
			movie: Movie{
				GenreIDs: []int{18},
				Overview: "quiet drama",
			},
			want: "18 quiet drama",
		},
		{
			name:  "everything missing",
			movie: Movie{},
			want:  "",
		},
		{
			name: "overview only",
			movie: Movie{
				Overview: "standalone text",
			},
			want: "standalone text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.movie.ComputeFeatures(); got != tt.want {
				t.Errorf("ComputeFeatures() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComputeFeaturesDeterministic(t *testing.T) {
	m := Movie{
		GenreIDs:         []int{28, 878, 12},
		Overview:         "explosions in space",
		OriginalLanguage: "en",
	}
	first := m.ComputeFeatures()
	for i := 0; i < 10; i++ {
		if got := m.ComputeFeatures(); got != first {
			t.Fatalf("ComputeFeatures() not deterministic: %q vs %q", got, first)
		}
	}
}

func TestGenreNames(t *testing.T) {
	d := MovieDetail{
		Genres: []Genre{{ID: 28, Name: "Action"}, {ID: 35, Name: "Comedy"}},
	}
	names := d.GenreNames()
	if len(names) != 2 || names[0] != "Action" || names[1] != "Comedy" {
		t.Errorf("GenreNames() = %v", names)
	}
}

func TestErrorSentinelsDistinct(t *testing.T) {
	sentinels := []error{
		ErrSourceUnavailable,
		ErrEmptyCorpus,
		ErrNotFound,
		ErrInvalidInput,
		ErrDetailLookupFailed,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v should not match %v", a, b)
			}
		}
	}
}
