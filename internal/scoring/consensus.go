// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

package scoring

import (
	"sort"
	"strings"
)

const (
	// DefaultConsensusTopN is the result size when the caller passes 0.
	DefaultConsensusTopN = 5

	// maxConsensusMembers bounds how many group members are considered.
	maxConsensusMembers = 3

	// consensusTagCount is how many top tags form the consensus set.
	consensusTagCount = 3
)

// ConsensusCandidate is a catalog item offered for group scoring, with its
// genre tags already resolved to names.
type ConsensusCandidate struct {
	ID    int
	Title string
	Tags  []string
}

// ConsensusMatch is one scored result of a group consensus run.
type ConsensusMatch struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`

	// MatchedTags are the consensus tags this item carries, for display.
	MatchedTags []string `json:"matched_tags"`
}

// GroupConsensus ranks candidates by how well they match the shared taste of
// a small group.
//
// At most three members' preferred-tag lists are considered (extras are
// ignored). Their tags are pooled, the three most frequent tags (ties broken
// by ascending tag name) become the consensus set, and every candidate is
// scored by the fraction of consensus tags it carries. Zero-score candidates
// are excluded; the rest are sorted by descending score, ties keeping input
// order, and truncated to topN (0 selects DefaultConsensusTopN).
//
// Returns nil when the members have no tags at all.
func GroupConsensus(memberTags [][]string, candidates []ConsensusCandidate, topN int) []ConsensusMatch {
	if topN <= 0 {
		topN = DefaultConsensusTopN
	}
	if len(memberTags) > maxConsensusMembers {
		memberTags = memberTags[:maxConsensusMembers]
	}

	top := topTags(memberTags)
	if len(top) == 0 {
		return nil
	}

	topSet := make(map[string]struct{}, len(top))
	for _, t := range top {
		topSet[strings.ToLower(t)] = struct{}{}
	}

	matches := make([]ConsensusMatch, 0, len(candidates))
	for _, c := range candidates {
		var hit []string
		seen := make(map[string]struct{}, len(c.Tags))
		for _, tag := range c.Tags {
			key := strings.ToLower(tag)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if _, ok := topSet[key]; ok {
				hit = append(hit, tag)
			}
		}
		if len(hit) == 0 {
			continue
		}
		matches = append(matches, ConsensusMatch{
			ID:          c.ID,
			Title:       c.Title,
			Score:       float64(len(hit)) / float64(len(top)),
			MatchedTags: hit,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches
}

// topTags pools the members' tags and returns the most frequent ones,
// at most consensusTagCount, ties broken by ascending tag name.
func topTags(memberTags [][]string) []string {
	counts := make(map[string]int)
	display := make(map[string]string)
	for _, tags := range memberTags {
		for _, tag := range tags {
			key := strings.ToLower(tag)
			counts[key]++
			if _, ok := display[key]; !ok {
				display[key] = tag
			}
		}
	}
	if len(counts) == 0 {
		return nil
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	if len(keys) > consensusTagCount {
		keys = keys[:consensusTagCount]
	}

	top := make([]string, len(keys))
	for i, k := range keys {
		top[i] = display[k]
	}
	return top
}
