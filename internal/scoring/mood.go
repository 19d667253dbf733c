// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package scoring

import (
	"sort"
	"strings"

	"github.com/cinescope/cinescope/internal/models"
)

// DefaultMoodTopN is the result size when the caller passes 0.
const DefaultMoodTopN = 5

// rainyRatingFloor drops weakly rated candidates in a rainy context;
// candidates with rating <= this are removed.
const rainyRatingFloor = 7.0

// moodGenres maps a mood label to the genre names that fit it. Lookup is
// case-insensitive; unrecognized moods fall back to defaultMoodGenres.
var moodGenres = map[string][]string{
	"happy":    {"Comedy", "Animation", "Musical", "Family"},
	"sad":      {"Drama", "Romance"},
	"excited":  {"Action", "Adventure", "Thriller"},
	"scared":   {"Horror", "Thriller", "Mystery"},
	"romantic": {"Romance", "Drama", "Comedy"},
	"curious":  {"Documentary", "Mystery", "Science Fiction"},
}

var defaultMoodGenres = []string{"Drama", "Comedy"}

// MoodGenres returns the genre names fitting a mood, case-insensitively.
// Unrecognized moods fall back to the default set, mirroring FilterByMood.
func MoodGenres(mood string) []string {
	if g, ok := moodGenres[strings.ToLower(mood)]; ok {
		return g
	}
	return defaultMoodGenres
}

// MoodContext carries the optional viewing-context modifiers.
type MoodContext struct {
	// TimeOfDay is a free-form label; only "night" is significant.
	TimeOfDay string

	// Weather is a free-form label; "clear" and "rainy" are significant.
	Weather string
}

// FilterByMood selects candidates whose genres fit the given mood.
//
// A candidate survives if any of its genres appears in the mood's allowed
// set. Context modifiers then adjust the survivors: a rainy context drops
// candidates rated at or below 7.0, and a clear night sorts the remainder
// by descending runtime (longer films for a long evening). The result is
// truncated to topN; 0 selects DefaultMoodTopN.
//
// Input order is preserved except where the night-and-clear sort applies,
// and that sort is stable, so output is deterministic for a fixed input.
func FilterByMood(candidates []models.MovieDetail, mood string, ctx MoodContext, topN int) []models.MovieDetail {
	if topN <= 0 {
		topN = DefaultMoodTopN
	}

	allowed, ok := moodGenres[strings.ToLower(mood)]
	if !ok {
		allowed = defaultMoodGenres
	}
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, g := range allowed {
		allowedSet[strings.ToLower(g)] = struct{}{}
	}

	rainy := strings.EqualFold(ctx.Weather, "rainy")
	nightClear := strings.EqualFold(ctx.TimeOfDay, "night") && strings.EqualFold(ctx.Weather, "clear")

	matched := make([]models.MovieDetail, 0, len(candidates))
	for _, c := range candidates {
		if !genresIntersect(c.Genres, allowedSet) {
			continue
		}
		if rainy && c.VoteAverage <= rainyRatingFloor {
			continue
		}
		matched = append(matched, c)
	}

	if nightClear {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Runtime > matched[j].Runtime
		})
	}

	if len(matched) > topN {
		matched = matched[:topN]
	}
	return matched
}

func genresIntersect(genres []models.Genre, allowed map[string]struct{}) bool {
	for _, g := range genres {
		if _, ok := allowed[strings.ToLower(g.Name)]; ok {
			return true
		}
	}
	return false
}
