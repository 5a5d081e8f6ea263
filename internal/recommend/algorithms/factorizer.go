// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package algorithms

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// maxLoss clips the warp rank weight for numerical stability.
const maxLoss = 10.0

// Factorizer fits FactorModels with stochastic pairwise ranking updates.
type Factorizer struct {
	logger   zerolog.Logger
	progress *rate.Sometimes
}

// NewFactorizer creates a Factorizer. Epoch progress is logged at debug
// level, at most once every progressInterval.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFactorizer(logger zerolog.Logger, progressInterval time.Duration) *Factorizer {
	if progressInterval <= 0 {
		progressInterval = 5 * time.Second
	}
	return &Factorizer{
		logger:   logger.With().Str("component", "factorizer").Logger(),
		progress: &rate.Sometimes{First: 1, Interval: progressInterval},
	}
}

// fitState holds the mutable training state of a single fit.
type fitState struct {
	model  *FactorModel
	params FitParams
	rng    *rand.Rand

	// adagrad accumulators, initialized to one
	userEmbedGrad []float64
	itemEmbedGrad []float64
	userBiasGrad  []float64
	itemBiasGrad  []float64

	// scratch representations
	userVec, posVec, negVec    []float64
	userBias, posBias, negBias float64
}

type pair struct {
	player int
	game   int
}

// Fit trains a model on the observed interactions. Feature rows must be
// aligned with the interaction rows (players) and columns (games); nil means
// identity features only.
//
//nolint:gocyclo // training loop mirrors the sampling schedule
func (f *Factorizer) Fit(ctx context.Context, interactions Interactions, userFeatures, itemFeatures *FeatureRows, params FitParams) (Model, error) {
	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	params = params.withDefaults()
	if _, err := ParseLoss(string(params.Loss)); err != nil {
		return nil, err
	}

	numPlayers, numGames := interactions.Shape()
	if userFeatures == nil {
		userFeatures = IdentityFeatures(numPlayers)
	}
	if itemFeatures == nil {
		itemFeatures = IdentityFeatures(numGames)
	}
	if err := userFeatures.validate("user", numPlayers); err != nil {
		return nil, err
	}
	if err := itemFeatures.validate("item", numGames); err != nil {
		return nil, err
	}

	//nolint:gosec // G404: math/rand is acceptable for ML initialization (not security)
	rng := rand.New(rand.NewSource(params.Seed))
	st := newFitState(params, rng, userFeatures, itemFeatures)

	positives := collectPositives(interactions, numPlayers)
	if len(positives) == 0 || numGames < 2 {
		f.logger.Warn().
			Int("positives", len(positives)).
			Int("games", numGames).
			Msg("Nothing to fit, returning initialized model")
		st.model.finalize()
		return st.model, nil
	}

	for epoch := 0; epoch < params.Epochs; epoch++ {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		rng.Shuffle(len(positives), func(i, j int) {
			positives[i], positives[j] = positives[j], positives[i]
		})

		updates := 0
		for _, p := range positives {
			row := interactions.Row(p.player)
			var updated bool
			switch params.Loss {
			case LossBPR:
				updated = st.bprStep(p, row, numGames)
			default:
				updated = st.warpStep(p, row, numGames)
			}
			if updated {
				updates++
			}
		}

		f.progress.Do(func() {
			f.logger.Debug().
				Int("epoch", epoch+1).
				Int("epochs", params.Epochs).
				Int("updates", updates).
				Int("positives", len(positives)).
				Msg("Epoch complete")
		})
	}

	st.model.finalize()
	return st.model, nil
}

func newFitState(params FitParams, rng *rand.Rand, userFeatures, itemFeatures *FeatureRows) *fitState {
	dims := params.Dimensions
	m := newFactorModel(dims, params.Loss, userFeatures, itemFeatures)

	scale := 1.0 / float64(dims)
	for i := range m.itemEmbeddings {
		m.itemEmbeddings[i] = (rng.Float64() - 0.5) * scale
	}
	for i := range m.userEmbeddings {
		m.userEmbeddings[i] = (rng.Float64() - 0.5) * scale
	}

	return &fitState{
		model:         m,
		params:        params,
		rng:           rng,
		userEmbedGrad: ones(len(m.userEmbeddings)),
		itemEmbedGrad: ones(len(m.itemEmbeddings)),
		userBiasGrad:  ones(len(m.userBiases)),
		itemBiasGrad:  ones(len(m.itemBiases)),
		userVec:       make([]float64, dims),
		posVec:        make([]float64, dims),
		negVec:        make([]float64, dims),
	}
}

func collectPositives(interactions Interactions, numPlayers int) []pair {
	var positives []pair
	for u := 0; u < numPlayers; u++ {
		for _, g := range interactions.Row(u) {
			positives = append(positives, pair{player: u, game: g})
		}
	}
	return positives
}

// warpStep samples negatives until one scores within the margin of the
// positive, then applies an update weighted by the estimated rank.
func (s *fitState) warpStep(p pair, row []int, numGames int) bool {
	m := s.model
	sumInto(s.userVec, &s.userBias, m.userFeatures.Rows[p.player], m.userEmbeddings, m.userBiases, m.dims)
	sumInto(s.posVec, &s.posBias, m.itemFeatures.Rows[p.game], m.itemEmbeddings, m.itemBiases, m.dims)
	posScore := dot(s.userVec, s.posVec) + s.userBias + s.posBias

	for sampled := 1; sampled <= s.params.MaxSampled; sampled++ {
		neg := s.rng.Intn(numGames)
		sumInto(s.negVec, &s.negBias, m.itemFeatures.Rows[neg], m.itemEmbeddings, m.itemBiases, m.dims)
		negScore := dot(s.userVec, s.negVec) + s.userBias + s.negBias

		if negScore <= posScore-1 {
			continue
		}
		if contains(row, neg) {
			continue
		}

		loss := math.Log(math.Max(1, math.Floor(float64(numGames-1)/float64(sampled))))
		if loss > maxLoss {
			loss = maxLoss
		}
		s.update(p, neg, loss)
		return true
	}
	return false
}

// bprStep draws one negative the player has not interacted with and applies
// a sigmoid-weighted update.
func (s *fitState) bprStep(p pair, row []int, numGames int) bool {
	if len(row) >= numGames {
		return false
	}

	neg := -1
	for tries := 0; tries < 100; tries++ {
		j := s.rng.Intn(numGames)
		if !contains(row, j) {
			neg = j
			break
		}
	}
	if neg < 0 {
		return false
	}

	m := s.model
	sumInto(s.userVec, &s.userBias, m.userFeatures.Rows[p.player], m.userEmbeddings, m.userBiases, m.dims)
	sumInto(s.posVec, &s.posBias, m.itemFeatures.Rows[p.game], m.itemEmbeddings, m.itemBiases, m.dims)
	sumInto(s.negVec, &s.negBias, m.itemFeatures.Rows[neg], m.itemEmbeddings, m.itemBiases, m.dims)

	diff := (dot(s.userVec, s.posVec) + s.posBias) - (dot(s.userVec, s.negVec) + s.negBias)
	weight := 1.0 / (1.0 + math.Exp(diff))
	if weight < 1e-10 {
		return false
	}
	s.update(p, neg, weight)
	return true
}

// update applies one adagrad step on the pairwise loss
// weight * (score(neg) - score(pos)) using the scratch representations.
func (s *fitState) update(p pair, neg int, weight float64) {
	m := s.model
	dims := m.dims
	lr := s.params.LearningRate
	reg := s.params.Regularization

	for _, f := range m.itemFeatures.Rows[p.game] {
		adagradStep(m.itemBiases, s.itemBiasGrad, f, -weight, lr, reg)
		for k := 0; k < dims; k++ {
			adagradStep(m.itemEmbeddings, s.itemEmbedGrad, f*dims+k, -weight*s.userVec[k], lr, reg)
		}
	}
	for _, f := range m.itemFeatures.Rows[neg] {
		adagradStep(m.itemBiases, s.itemBiasGrad, f, weight, lr, reg)
		for k := 0; k < dims; k++ {
			adagradStep(m.itemEmbeddings, s.itemEmbedGrad, f*dims+k, weight*s.userVec[k], lr, reg)
		}
	}
	for _, f := range m.userFeatures.Rows[p.player] {
		for k := 0; k < dims; k++ {
			adagradStep(m.userEmbeddings, s.userEmbedGrad, f*dims+k, weight*(s.negVec[k]-s.posVec[k]), lr, reg)
		}
	}
}

func adagradStep(params, accum []float64, i int, grad, lr, reg float64) {
	grad += reg * params[i]
	accum[i] += grad * grad
	params[i] -= lr / math.Sqrt(accum[i]) * grad
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

// contains reports whether sorted holds x.
func contains(sorted []int, x int) bool {
	i := sort.SearchInts(sorted, x)
	return i < len(sorted) && sorted[i] == x
}

var _ LatentFactorTrainer = (*Factorizer)(nil)

