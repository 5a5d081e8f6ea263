// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package cache

import (
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/gadvi/internal/metrics"
)

// Recommendations caches ranked game lists per model run, player and k.
//
// Keys include the model RunID, so a reloaded model never serves lists
// ranked by its predecessor. Entries of the old run age out through the TTL
// and LRU eviction.
type Recommendations struct {
	lru *LRU[[]string]
}

// NewRecommendations creates a cache of at most size lists kept for ttl.
func NewRecommendations(size int, ttl time.Duration) *Recommendations {
	return &Recommendations{lru: NewLRU[[]string](size, ttl)}
}

func recommendationKey(runID, playerID string, k int) string {
	var b strings.Builder
	b.Grow(len(runID) + len(playerID) + 8)
	b.WriteString(runID)
	b.WriteByte(0)
	b.WriteString(playerID)
	b.WriteByte(0)
	b.WriteString(strconv.Itoa(k))
	return b.String()
}

// Get returns a copy of the cached list.
func (r *Recommendations) Get(runID, playerID string, k int) ([]string, bool) {
	games, ok := r.lru.Get(recommendationKey(runID, playerID, k))
	if !ok {
		metrics.CacheOperations.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheOperations.WithLabelValues("hit").Inc()
	return append([]string{}, games...), true
}

// Add stores a copy of games.
func (r *Recommendations) Add(runID, playerID string, k int, games []string) {
	r.lru.Add(recommendationKey(runID, playerID, k), append([]string{}, games...))
}

// Purge drops every entry, e.g. after a model reload.
func (r *Recommendations) Purge() {
	r.lru.Clear()
}

// Len returns the number of cached lists.
func (r *Recommendations) Len() int {
	return r.lru.Len()
}
