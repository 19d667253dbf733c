// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package scoring

import (
	"strings"

	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"
)

// VADER compound-score thresholds for the discrete label.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Sentiment is the analyzed polarity of a piece of review text.
type Sentiment struct {
	// Label is "positive", "negative" or "neutral".
	Label string `json:"label"`

	// Compound is the VADER compound polarity score in [-1,1].
	Compound float64 `json:"compound"`
}

// AnalyzeSentiment classifies review text using VADER compound polarity:
// compound > 0.05 is positive, compound < -0.05 is negative, anything in
// between is neutral. Empty or whitespace-only input is neutral with a 0.0
// score and never reaches the analyzer.
func AnalyzeSentiment(text string) Sentiment {
	if strings.TrimSpace(text) == "" {
		return Sentiment{Label: "neutral", Compound: 0.0}
	}

	parsed := sentitext.Parse(text, lexicon.DefaultLexicon)
	score := sentitext.PolarityScore(parsed)

	label := "neutral"
	switch {
	case score.Compound > positiveThreshold:
		label = "positive"
	case score.Compound < negativeThreshold:
		label = "negative"
	}

	return Sentiment{Label: label, Compound: score.Compound}
}
