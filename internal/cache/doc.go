// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

// Package cache provides the in-memory caches used by the HTTP server.
//
// LRU is a generic least recently used cache with TTL expiry. Recommendations
// wraps it for ranked game lists keyed by model run, player and k, and counts
// hits and misses in gadvi_cache_operations_total.
package cache
