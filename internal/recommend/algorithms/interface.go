// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package algorithms

import (
	"context"
	"encoding"
	"errors"
	"fmt"
)

// Loss names a negative sampling schedule of the pairwise ranking loss.
type Loss string

const (
	// LossWARP samples negatives until one violates the margin.
	LossWARP Loss = "warp"

	// LossBPR samples a single negative per positive pair.
	LossBPR Loss = "bpr"
)

// ParseLoss validates a loss name.
func ParseLoss(s string) (Loss, error) {
	switch Loss(s) {
	case LossWARP, LossBPR:
		return Loss(s), nil
	default:
		return "", fmt.Errorf("unsupported loss %q (want %q or %q)", s, LossWARP, LossBPR)
	}
}

// ErrIndexOutOfRange is returned when a player or game index is not part of
// the fitted model.
var ErrIndexOutOfRange = errors.New("index out of range")

// Interactions is the observed player x game structure a model is fitted on.
// Row returns the game indices the player interacted with, sorted ascending.
type Interactions interface {
	Shape() (players, games int)
	Row(player int) []int
}

// FeatureRows lists the active feature columns for each entity. Rows[i] holds
// the features of the entity with dense index i. A nil *FeatureRows means
// identity features only.
type FeatureRows struct {
	NumFeatures int
	Rows        [][]int
}

// IdentityFeatures returns FeatureRows where entity i has only feature i.
func IdentityFeatures(n int) *FeatureRows {
	rows := make([][]int, n)
	for i := range rows {
		rows[i] = []int{i}
	}
	return &FeatureRows{NumFeatures: n, Rows: rows}
}

func (f *FeatureRows) validate(kind string, entities int) error {
	if len(f.Rows) != entities {
		return fmt.Errorf("%s features have %d rows, want %d", kind, len(f.Rows), entities)
	}
	for i, row := range f.Rows {
		if len(row) == 0 {
			return fmt.Errorf("%s feature row %d is empty", kind, i)
		}
		for _, col := range row {
			if col < 0 || col >= f.NumFeatures {
				return fmt.Errorf("%s feature row %d references column %d of %d", kind, i, col, f.NumFeatures)
			}
		}
	}
	return nil
}

// FitParams holds the hyperparameters of a single fit.
type FitParams struct {
	// Dimensions is the size of the latent vectors.
	// Default: 10.
	Dimensions int

	// Epochs is the number of passes over the observed pairs.
	// Default: 20.
	Epochs int

	// Loss selects the negative sampling schedule.
	// Default: warp.
	Loss Loss

	// LearningRate is the initial adagrad step size.
	// Default: 0.05.
	LearningRate float64

	// MaxSampled bounds the negatives drawn per positive under warp.
	// Default: 10.
	MaxSampled int

	// Regularization is the L2 penalty applied on every update. Zero disables it.
	Regularization float64

	// Seed drives initialization, shuffling and negative sampling.
	Seed int64
}

// DefaultFitParams returns the defaults used when a field is left at zero.
func DefaultFitParams() FitParams {
	return FitParams{
		Dimensions:   10,
		Epochs:       20,
		Loss:         LossWARP,
		LearningRate: 0.05,
		MaxSampled:   10,
		Seed:         42,
	}
}

func (p FitParams) withDefaults() FitParams {
	def := DefaultFitParams()
	if p.Dimensions <= 0 {
		p.Dimensions = def.Dimensions
	}
	if p.Epochs <= 0 {
		p.Epochs = def.Epochs
	}
	if p.Loss == "" {
		p.Loss = def.Loss
	}
	if p.LearningRate <= 0 {
		p.LearningRate = def.LearningRate
	}
	if p.MaxSampled <= 0 {
		p.MaxSampled = def.MaxSampled
	}
	return p
}

// LatentFactorTrainer fits a ranking model over observed interactions.
type LatentFactorTrainer interface {
	Fit(ctx context.Context, interactions Interactions, userFeatures, itemFeatures *FeatureRows, params FitParams) (Model, error)
}

// Model is a fitted latent factor model. Implementations are immutable and
// safe for concurrent use.
type Model interface {
	encoding.BinaryMarshaler

	// Score returns one score per entry of games for the given player.
	Score(player int, games []int) ([]float64, error)

	NumPlayers() int
	NumGames() int
	Dimensions() int
	Loss() Loss
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
