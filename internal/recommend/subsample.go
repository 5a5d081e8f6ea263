// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import (
	"fmt"
	"math/rand"
)

// Dataset sizes used when preparing development subsets of the full extract.
var DatasetSizes = map[string]int{
	"sample_tiny":  5000,
	"sample_small": 100000,
	"sample_big":   500000,
	"full":         0,
}

// DatasetSize returns the number of players kept for a named dataset.
// Zero means all players.
func DatasetSize(name string) (int, error) {
	size, ok := DatasetSizes[name]
	if !ok {
		return 0, fmt.Errorf("unsupported dataset %q", name)
	}
	return size, nil
}

// SamplePlayers keeps every record of size distinct players drawn at random
// with the given seed. Record order is preserved. A size of zero, or one not
// smaller than the number of distinct players, returns all records.
func SamplePlayers(records []InteractionRecord, size int, seed int64) []InteractionRecord {
	var players []string
	seen := make(map[string]struct{})
	for i := range records {
		if _, ok := seen[records[i].PlayerID]; !ok {
			seen[records[i].PlayerID] = struct{}{}
			players = append(players, records[i].PlayerID)
		}
	}

	if size <= 0 || size >= len(players) {
		return append([]InteractionRecord(nil), records...)
	}

	//nolint:gosec // G404: math/rand is acceptable for dataset sampling (not security)
	rng := rand.New(rand.NewSource(seed))
	keep := make(map[string]struct{}, size)
	for _, idx := range rng.Perm(len(players))[:size] {
		keep[players[idx]] = struct{}{}
	}

	out := make([]InteractionRecord, 0, len(records)*size/len(players))
	for i := range records {
		if _, ok := keep[records[i].PlayerID]; ok {
			out = append(out, records[i])
		}
	}
	return out
}
