// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import (
	"fmt"
	"sort"
)

// InteractionMatrix is a sparse player x game structure in compressed row
// form. Every stored cell carries both a presence count (number of records
// for the pair) and a weight (sum of their round counts), so the presence
// and weight position sets are identical. A weight is stored even when it
// sums to zero.
type InteractionMatrix struct {
	numPlayers int
	numGames   int
	rowPtr     []int
	cols       []int
	counts     []int
	weights    []int64
}

type cell struct {
	count  int
	weight int64
}

func newInteractionMatrix(numPlayers, numGames int, rows []map[int]*cell) *InteractionMatrix {
	m := &InteractionMatrix{
		numPlayers: numPlayers,
		numGames:   numGames,
		rowPtr:     make([]int, numPlayers+1),
	}
	for p := 0; p < numPlayers; p++ {
		games := make([]int, 0, len(rows[p]))
		for g := range rows[p] {
			games = append(games, g)
		}
		sort.Ints(games)
		for _, g := range games {
			c := rows[p][g]
			m.cols = append(m.cols, g)
			m.counts = append(m.counts, c.count)
			m.weights = append(m.weights, c.weight)
		}
		m.rowPtr[p+1] = len(m.cols)
	}
	return m
}

// Shape returns the number of players (rows) and games (columns).
func (m *InteractionMatrix) Shape() (int, int) { return m.numPlayers, m.numGames }

// NNZ returns the number of stored player/game cells.
func (m *InteractionMatrix) NNZ() int { return len(m.cols) }

// Sparsity returns the fraction of cells without an interaction. A matrix
// without cells reports 0.
func (m *InteractionMatrix) Sparsity() float64 {
	total := m.numPlayers * m.numGames
	if total == 0 {
		return 0
	}
	return float64(total-m.NNZ()) / float64(total)
}

// Row returns the games the player interacted with, sorted ascending. The
// returned slice must not be modified.
func (m *InteractionMatrix) Row(player int) []int {
	if player < 0 || player >= m.numPlayers {
		return nil
	}
	lo, hi := m.rowPtr[player], m.rowPtr[player+1]
	return m.cols[lo:hi:hi]
}

func (m *InteractionMatrix) find(player, game int) int {
	if player < 0 || player >= m.numPlayers {
		return -1
	}
	lo, hi := m.rowPtr[player], m.rowPtr[player+1]
	i := lo + sort.SearchInts(m.cols[lo:hi], game)
	if i < hi && m.cols[i] == game {
		return i
	}
	return -1
}

// Has reports whether the pair ever interacted.
func (m *InteractionMatrix) Has(player, game int) bool {
	return m.find(player, game) >= 0
}

// Count returns the number of records aggregated into the pair.
func (m *InteractionMatrix) Count(player, game int) int {
	if i := m.find(player, game); i >= 0 {
		return m.counts[i]
	}
	return 0
}

// Weight returns the summed round count of the pair.
func (m *InteractionMatrix) Weight(player, game int) int64 {
	if i := m.find(player, game); i >= 0 {
		return m.weights[i]
	}
	return 0
}

// TotalWeight returns the sum of all weights.
func (m *InteractionMatrix) TotalWeight() int64 {
	var sum int64
	for _, w := range m.weights {
		sum += w
	}
	return sum
}

// RowsWithPositives returns the number of players with at least one cell.
func (m *InteractionMatrix) RowsWithPositives() int {
	n := 0
	for p := 0; p < m.numPlayers; p++ {
		if m.rowPtr[p+1] > m.rowPtr[p] {
			n++
		}
	}
	return n
}

// BuildOptions controls side feature attachment.
type BuildOptions struct {
	// UserFeatures attaches each player's country.
	UserFeatures bool

	// ItemFeatures attaches each game's normalized content class.
	ItemFeatures bool

	// ConflictPolicy resolves entities seen with more than one value.
	// Default: last-wins.
	ConflictPolicy ConflictPolicy
}

// BuildResult is the output of BuildInteractions.
type BuildResult struct {
	Interactions *InteractionMatrix

	// PlayerFeatures is nil unless BuildOptions.UserFeatures was set.
	PlayerFeatures *FeatureAttachment

	// GameFeatures is nil unless BuildOptions.ItemFeatures was set.
	GameFeatures *FeatureAttachment
}

// BuildInteractions aggregates records into the interaction matrix over the
// vocabulary of idmap. Every record must reference registered ids and carry
// a well-formed content class; the first violation aborts the build.
func BuildInteractions(records []InteractionRecord, idmap *IdentifierMap, opts BuildOptions) (*BuildResult, error) {
	numPlayers, numGames := idmap.NumPlayers(), idmap.NumGames()
	rows := make([]map[int]*cell, numPlayers)

	res := &BuildResult{}
	if opts.UserFeatures {
		res.PlayerFeatures = newFeatureAttachment(KindPlayer, numPlayers, opts.ConflictPolicy)
	}
	if opts.ItemFeatures {
		res.GameFeatures = newFeatureAttachment(KindGame, numGames, opts.ConflictPolicy)
	}

	for i := range records {
		r := &records[i]

		p, err := idmap.PlayerIndex(r.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		g, err := idmap.GameIndex(r.GameName)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		class, err := r.Class()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if r.RoundCount < 0 {
			return nil, fmt.Errorf("record %d: negative round count %d for player %q game %q", i, r.RoundCount, r.PlayerID, r.GameName)
		}

		if rows[p] == nil {
			rows[p] = make(map[int]*cell)
		}
		c, ok := rows[p][g]
		if !ok {
			c = &cell{}
			rows[p][g] = c
		}
		c.count++
		c.weight += int64(r.RoundCount)

		if res.PlayerFeatures != nil {
			if err := res.PlayerFeatures.assign(p, r.PlayerID, r.Country); err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
		}
		if res.GameFeatures != nil {
			if err := res.GameFeatures.assign(g, r.GameName, string(class)); err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
		}
	}

	res.Interactions = newInteractionMatrix(numPlayers, numGames, rows)
	return res, nil
}

// thirdPartyGames marks every game of idmap that has at least one third
// party record. Side-feature conflict policies do not apply: one third party
// record is enough to exclude the game from serving.
func thirdPartyGames(records []InteractionRecord, idmap *IdentifierMap) ([]bool, error) {
	excluded := make([]bool, idmap.NumGames())
	for i := range records {
		r := &records[i]
		g, err := idmap.GameIndex(r.GameName)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		class, err := r.Class()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if class == ThirdParty {
			excluded[g] = true
		}
	}
	return excluded, nil
}
