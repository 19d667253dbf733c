// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

/*
Package scoring implements the heuristic scorers applied to enriched movie
data: success prediction, dynamic ticket pricing, mood-based filtering,
group consensus ranking, and review sentiment analysis.

Every scorer is a pure function over data the caller already holds: none
performs I/O, touches shared state, or consults the clock. That keeps them
trivially cacheable through internal/cache and testable with plain fixtures.

Thresholds and weights are fixed package constants rather than configuration:
they define the product behavior, and tuning them per deployment would make
cached scores incomparable across instances.
*/
package scoring
