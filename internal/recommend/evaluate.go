// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/gadvi/internal/recommend/algorithms"
)

// EvalOptions controls Evaluate.
type EvalOptions struct {
	// K is the precision/recall cutoff. Values <= 0 use 3.
	K int

	// Exclude removes its interactions from every ranking, unless the pair is
	// also a positive of the evaluated matrix. Typically the training matrix
	// when evaluating on test data. Optional.
	Exclude *InteractionMatrix

	// Workers bounds concurrent per-player scoring. Values <= 0 use 1.
	Workers int
}

type playerMetrics struct {
	ok        bool
	precision float64
	recall    float64
	auc       float64
}

// Evaluate computes precision@k, recall@k and exact AUC of model over matrix,
// averaged across players with at least one interaction in matrix. The
// matrix must share the model's vocabulary. A matrix without any positive row
// yields an UndefinedMetricError.
func Evaluate(ctx context.Context, model *TrainedModel, matrix *InteractionMatrix, opts EvalOptions) (Metrics, error) {
	if model == nil || matrix == nil {
		return Metrics{}, fmt.Errorf("model and matrix are required")
	}
	numPlayers, numGames := matrix.Shape()
	if numPlayers != model.IDMap().NumPlayers() || numGames != model.IDMap().NumGames() {
		return Metrics{}, fmt.Errorf("matrix shape %dx%d does not match model vocabulary %dx%d",
			numPlayers, numGames, model.IDMap().NumPlayers(), model.IDMap().NumGames())
	}
	if opts.Exclude != nil {
		if ep, eg := opts.Exclude.Shape(); ep != numPlayers || eg != numGames {
			return Metrics{}, fmt.Errorf("exclude shape %dx%d does not match matrix %dx%d", ep, eg, numPlayers, numGames)
		}
	}
	if opts.K <= 0 {
		opts.K = 3
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if matrix.RowsWithPositives() == 0 {
		return Metrics{}, &UndefinedMetricError{Rows: numPlayers}
	}

	results := make([]playerMetrics, numPlayers)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for p := 0; p < numPlayers; p++ {
		if len(matrix.Row(p)) == 0 {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pm, err := evaluatePlayer(model.Params(), matrix, opts.Exclude, p, opts.K)
			if err != nil {
				return fmt.Errorf("player %d: %w", p, err)
			}
			results[p] = pm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Metrics{}, err
	}

	m := Metrics{K: opts.K}
	for _, pm := range results {
		if !pm.ok {
			continue
		}
		m.Players++
		m.PrecisionAtK += pm.precision
		m.RecallAtK += pm.recall
		m.AUC += pm.auc
	}
	n := float64(m.Players)
	m.PrecisionAtK /= n
	m.RecallAtK /= n
	m.AUC /= n
	return m, nil
}

func evaluatePlayer(params algorithms.Model, matrix, exclude *InteractionMatrix, player, k int) (playerMetrics, error) {
	positives := matrix.Row(player)
	_, numGames := matrix.Shape()

	candidates := make([]int, 0, numGames)
	for g := 0; g < numGames; g++ {
		if exclude != nil && exclude.Has(player, g) && !matrix.Has(player, g) {
			continue
		}
		candidates = append(candidates, g)
	}

	scores, err := params.Score(player, candidates)
	if err != nil {
		return playerMetrics{}, err
	}
	for i, s := range scores {
		if math.IsNaN(s) {
			scores[i] = math.Inf(-1)
		}
	}

	order := rankByScore(scores)
	hits := 0
	for _, i := range order[:min(k, len(order))] {
		if matrix.Has(player, candidates[i]) {
			hits++
		}
	}

	return playerMetrics{
		ok:        true,
		precision: float64(hits) / float64(k),
		recall:    float64(hits) / float64(len(positives)),
		auc:       exactAUC(matrix, player, candidates, scores),
	}, nil
}

// rankByScore returns positions into scores ordered by descending score.
// Equal scores keep ascending position order. NaN ranks last.
func rankByScore(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	key := func(i int) float64 {
		if math.IsNaN(scores[i]) {
			return math.Inf(-1)
		}
		return scores[i]
	}
	sort.SliceStable(order, func(a, b int) bool {
		return key(order[a]) > key(order[b])
	})
	return order
}

// exactAUC returns the fraction of (positive, negative) pairs where the
// positive scores higher, ties counting one half. A player without negatives
// scores 0.5.
func exactAUC(matrix *InteractionMatrix, player int, candidates []int, scores []float64) float64 {
	var pos, neg []float64
	for i, g := range candidates {
		if matrix.Has(player, g) {
			pos = append(pos, scores[i])
		} else {
			neg = append(neg, scores[i])
		}
	}
	if len(pos) == 0 || len(neg) == 0 {
		return 0.5
	}
	sort.Float64s(neg)

	var correct float64
	for _, s := range pos {
		below := sort.Search(len(neg), func(i int) bool { return neg[i] >= s })
		notAbove := sort.Search(len(neg), func(i int) bool { return neg[i] > s })
		correct += float64(below) + 0.5*float64(notAbove-below)
	}
	return correct / float64(len(pos)*len(neg))
}
