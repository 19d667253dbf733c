// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package scoring

import "math"

// Dynamic pricing factors.
const (
	// maxDemandFactor caps the popularity multiplier at 2x.
	maxDemandFactor = 2.0

	// timeFactorWindow is the lead-time horizon in hours over which the
	// urgency multiplier decays from 1.5 back to 1.0.
	timeFactorWindow = 48.0

	maxTimeFactor = 1.5
	minTimeFactor = 1.0
)

// DynamicPrice computes a demand- and urgency-adjusted ticket price:
//
//	price = basePrice × min(popularity/100, 2) × max(1.5 − hoursUntilShow/48, 1.0)
//
// rounded to two decimals. The price is monotonically non-decreasing as the
// showtime approaches and as popularity rises; low-popularity titles price
// below base, which is the intended discounting behavior.
func DynamicPrice(basePrice, popularity, hoursUntilShow float64) float64 {
	demandFactor := math.Min(popularity/100, maxDemandFactor)
	timeFactor := math.Max(maxTimeFactor-hoursUntilShow/timeFactorWindow, minTimeFactor)
	return round2(basePrice * demandFactor * timeFactor)
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
