// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package scoring

import (
	"math"

	"github.com/cinescope/cinescope/internal/models"
)

// Success score signal weights. The five weighted signals are summed into a
// raw score; the displayed score is the raw sum scaled by 10 and rounded to
// one decimal.
const (
	ratingWeight     = 0.3
	popularityWeight = 0.2
	budgetWeight     = 0.2
	genreWeight      = 0.2
	runtimeWeight    = 0.1

	// bigBudgetThreshold separates full budget credit from half credit.
	bigBudgetThreshold = 50_000_000

	// featureRuntimeMinutes separates full runtime credit (feature-length
	// releases) from the 0.7 partial credit.
	featureRuntimeMinutes = 90
)

// Raw-sum thresholds for the discrete success label.
const (
	highSuccessThreshold   = 0.7
	mediumSuccessThreshold = 0.4
)

// SuccessScore is the predicted commercial success of a movie.
type SuccessScore struct {
	// Score is the weighted signal sum scaled by 10, rounded to one decimal.
	Score float64 `json:"score"`

	// Label is the discrete tier: "High", "Medium" or "Low".
	Label string `json:"label"`
}

// PredictSuccess computes the heuristic success score for an enriched movie.
//
// The raw score is a weighted sum of five signals:
//   - rating (vote average, 0-10): weight 0.3
//   - popularity, capped at 100 and scaled to [0,1]: weight 0.2
//   - budget: full credit above $50M, half credit otherwise: weight 0.2
//   - genre count, scaled against a maximum of 5: weight 0.2
//   - runtime: full credit above 90 minutes, 0.7 otherwise: weight 0.1
func PredictSuccess(d *models.MovieDetail) SuccessScore {
	raw := d.VoteAverage * ratingWeight

	raw += math.Min(d.Popularity/100, 1.0) * popularityWeight

	budgetSignal := 0.5
	if d.Budget > bigBudgetThreshold {
		budgetSignal = 1.0
	}
	raw += budgetSignal * budgetWeight

	raw += math.Min(float64(len(d.Genres))/5.0, 1.0) * genreWeight

	runtimeSignal := 0.7
	if d.Runtime > featureRuntimeMinutes {
		runtimeSignal = 1.0
	}
	raw += runtimeSignal * runtimeWeight

	return SuccessScore{
		Score: round1(raw * 10),
		Label: successLabel(raw),
	}
}

func successLabel(raw float64) string {
	switch {
	case raw > highSuccessThreshold:
		return "High"
	case raw > mediumSuccessThreshold:
		return "Medium"
	default:
		return "Low"
	}
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
