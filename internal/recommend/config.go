// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/gadvi/internal/recommend/algorithms"
)

// Config contains all configuration for the recommendation pipeline.
type Config struct {
	// Name is the model family name recorded on trained models and used in
	// artifact names. Default: lightFM.
	Name string `json:"name"`

	// Hyperparameters controls the latent factor model.
	Hyperparameters Hyperparameters `json:"hyperparameters"`

	// Evaluation controls ranking metric computation.
	Evaluation EvaluationConfig `json:"evaluation"`

	// Limits contains serving limits.
	Limits LimitsConfig `json:"limits"`
}

// Hyperparameters are the model settings persisted with every trained model.
type Hyperparameters struct {
	// Dimensions is the latent dimensionality.
	// Default: 10.
	Dimensions int `json:"dimensions"`

	// Epochs is the number of passes over the observed pairs.
	// Default: 20.
	Epochs int `json:"epochs"`

	// Loss is the negative sampling schedule of the ranking loss: warp or bpr.
	// Default: warp.
	Loss string `json:"loss"`

	// UserFeatures attaches player country as a side feature.
	// Default: true.
	UserFeatures bool `json:"user_features"`

	// ItemFeatures attaches game content class as a side feature.
	// Default: true.
	ItemFeatures bool `json:"item_features"`

	// LearningRate is the initial adagrad step size.
	// Default: 0.05.
	LearningRate float64 `json:"learning_rate"`

	// MaxSampled bounds warp negative sampling per positive.
	// Default: 10.
	MaxSampled int `json:"max_sampled"`

	// Regularization is the L2 penalty per update.
	// Default: 0.
	Regularization float64 `json:"regularization"`

	// Seed drives every random draw of a fit.
	// Default: 42.
	Seed int64 `json:"seed"`

	// ConflictPolicy resolves entities seen with two side feature values.
	// Default: last-wins.
	ConflictPolicy ConflictPolicy `json:"conflict_policy"`
}

// FitParams converts the hyperparameters to trainer parameters.
func (h Hyperparameters) FitParams() algorithms.FitParams {
	return algorithms.FitParams{
		Dimensions:     h.Dimensions,
		Epochs:         h.Epochs,
		Loss:           algorithms.Loss(h.Loss),
		LearningRate:   h.LearningRate,
		MaxSampled:     h.MaxSampled,
		Regularization: h.Regularization,
		Seed:           h.Seed,
	}
}

// EvaluationConfig contains parameters for ranking metrics.
type EvaluationConfig struct {
	// K is the precision/recall cutoff.
	// Default: 3.
	K int `json:"k"`

	// Workers bounds the number of players scored concurrently.
	// Default: 4.
	Workers int `json:"workers"`

	// ExcludeTrain removes known training interactions from test rankings.
	// Default: false.
	ExcludeTrain bool `json:"exclude_train"`
}

// LimitsConfig contains serving limits.
type LimitsConfig struct {
	// DefaultK is the number of games returned when the caller gives none.
	// Default: 3.
	DefaultK int `json:"default_k"`

	// MaxK is the largest k a caller may request.
	// Default: 50.
	MaxK int `json:"max_k"`

	// TrainTimeout bounds a single training run.
	// Default: 30m.
	TrainTimeout time.Duration `json:"train_timeout"`
}

// DefaultConfig returns a Config matching the reference model settings.
func DefaultConfig() *Config {
	return &Config{
		Name:            DefaultModelName,
		Hyperparameters: DefaultHyperparameters(),
		Evaluation: EvaluationConfig{
			K:       3,
			Workers: 4,
		},
		Limits: LimitsConfig{
			DefaultK:     3,
			MaxK:         50,
			TrainTimeout: 30 * time.Minute,
		},
	}
}

// DefaultHyperparameters returns the default model settings.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		Dimensions:     10,
		Epochs:         20,
		Loss:           string(algorithms.LossWARP),
		UserFeatures:   true,
		ItemFeatures:   true,
		LearningRate:   0.05,
		MaxSampled:     10,
		Seed:           42,
		ConflictPolicy: ConflictLastWins,
	}
}

// Validate checks the hyperparameters for errors.
func (h Hyperparameters) Validate() error {
	if h.Dimensions < 1 {
		return fmt.Errorf("hyperparameters.dimensions must be positive, got %d", h.Dimensions)
	}
	if h.Epochs < 1 {
		return fmt.Errorf("hyperparameters.epochs must be positive, got %d", h.Epochs)
	}
	if _, err := algorithms.ParseLoss(h.Loss); err != nil {
		return fmt.Errorf("hyperparameters.loss: %w", err)
	}
	if h.LearningRate <= 0 {
		return fmt.Errorf("hyperparameters.learning_rate must be positive, got %f", h.LearningRate)
	}
	if h.MaxSampled < 1 {
		return fmt.Errorf("hyperparameters.max_sampled must be positive, got %d", h.MaxSampled)
	}
	if h.Regularization < 0 {
		return fmt.Errorf("hyperparameters.regularization must be non-negative, got %f", h.Regularization)
	}
	if _, err := ParseConflictPolicy(string(h.ConflictPolicy)); err != nil {
		return fmt.Errorf("hyperparameters.conflict_policy: %w", err)
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if err := c.Hyperparameters.Validate(); err != nil {
		return err
	}

	if c.Evaluation.K < 1 {
		return fmt.Errorf("evaluation.k must be positive, got %d", c.Evaluation.K)
	}
	if c.Evaluation.Workers < 1 {
		return fmt.Errorf("evaluation.workers must be positive, got %d", c.Evaluation.Workers)
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Limits.TrainTimeout <= 0 {
		return fmt.Errorf("limits.train_timeout must be positive, got %v", c.Limits.TrainTimeout)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}
