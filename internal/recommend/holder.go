// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import "sync/atomic"

// Holder holds the currently served Recommender. Readers never block; a
// reload swaps the pointer.
type Holder struct {
	current atomic.Pointer[Recommender]
}

// Load returns the served Recommender, or nil before the first Store.
func (h *Holder) Load() *Recommender { return h.current.Load() }

// Store replaces the served Recommender and returns the previous one.
func (h *Holder) Store(r *Recommender) *Recommender { return h.current.Swap(r) }

// Ready reports whether a model is being served.
func (h *Holder) Ready() bool { return h.current.Load() != nil }
