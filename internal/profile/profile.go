// Cinescope - Movie Recommendation and Dynamic Pricing Service
// Copyright 2026 Cinescope Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinescope/cinescope

// Package profile keeps per-user preference state: accumulated preferred
// genre tags and a bounded interaction history. Profiles are auxiliary
// (recommendation works without them) and live only for the process
// lifetime.
package profile

import (
	"strings"
	"sync"
	"time"
)

// DefaultMaxTags caps a profile's preferred tags when the store is created
// with 0.
const DefaultMaxTags = 10

// maxInteractions bounds the per-user history; older entries are dropped.
const maxInteractions = 100

// Interaction is one recorded recommendation event.
type Interaction struct {
	MovieID   int       `json:"movie_id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// Snapshot is a read-only copy of one user's profile.
type Snapshot struct {
	UserID        string        `json:"user_id"`
	PreferredTags []string      `json:"preferred_tags"`
	Interactions  []Interaction `json:"interactions"`
}

// record is the internal mutable profile; its mutex makes read-merge-write
// atomic per user so concurrent interactions from the same user never lose
// updates.
type record struct {
	mu            sync.Mutex
	preferredTags []string
	interactions  []Interaction
}

// Store is the thread-safe collection of user profiles.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*record
	maxTags  int
}

// NewStore creates a profile store. maxTags 0 selects DefaultMaxTags.
func NewStore(maxTags int) *Store {
	if maxTags <= 0 {
		maxTags = DefaultMaxTags
	}
	return &Store{
		profiles: make(map[string]*record),
		maxTags:  maxTags,
	}
}

// RecordInteraction merges tags into the user's preferred set and appends an
// interaction, creating the profile on first use.
//
// Merging preserves existing tag order, deduplicates case-insensitively with
// first-seen casing, and never grows past the tag cap; once full, new tags
// are ignored rather than evicting older preferences.
func (s *Store) RecordInteraction(userID string, tags []string, interaction Interaction) {
	rec := s.getOrCreate(userID)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	seen := make(map[string]struct{}, len(rec.preferredTags))
	for _, t := range rec.preferredTags {
		seen[strings.ToLower(t)] = struct{}{}
	}
	for _, t := range tags {
		if len(rec.preferredTags) >= s.maxTags {
			break
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rec.preferredTags = append(rec.preferredTags, t)
	}

	rec.interactions = append(rec.interactions, interaction)
	if len(rec.interactions) > maxInteractions {
		rec.interactions = rec.interactions[len(rec.interactions)-maxInteractions:]
	}
}

// Get returns a copy of a user's profile and whether it exists.
func (s *Store) Get(userID string) (Snapshot, bool) {
	s.mu.RLock()
	rec, ok := s.profiles[userID]
	s.mu.RUnlock()
	if !ok {
		return Snapshot{}, false
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	return Snapshot{
		UserID:        userID,
		PreferredTags: append([]string(nil), rec.preferredTags...),
		Interactions:  append([]Interaction(nil), rec.interactions...),
	}, true
}

// PreferredTags returns a copy of a user's preferred tags; nil for unknown
// users (defaults apply downstream).
func (s *Store) PreferredTags(userID string) []string {
	snap, ok := s.Get(userID)
	if !ok {
		return nil
	}
	return snap.PreferredTags
}

// Count returns the number of registered profiles, for health reporting.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

func (s *Store) getOrCreate(userID string) *record {
	s.mu.RLock()
	rec, ok := s.profiles[userID]
	s.mu.RUnlock()
	if ok {
		return rec
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok = s.profiles[userID]; ok {
		return rec
	}
	rec = &record{}
	s.profiles[userID] = rec
	return rec
}
