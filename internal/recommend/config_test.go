// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import (
	"testing"

	"github.com/tomtom215/gadvi/internal/recommend/algorithms"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}

	h := cfg.Hyperparameters
	if h.Dimensions != 10 || h.Epochs != 20 || h.Loss != string(algorithms.LossWARP) {
		t.Errorf("hyperparameters = %+v, want d=10 epochs=20 loss=warp", h)
	}
	if !h.UserFeatures || !h.ItemFeatures {
		t.Error("side features disabled by default")
	}
	if cfg.Evaluation.K != 3 {
		t.Errorf("Evaluation.K = %d, want 3", cfg.Evaluation.K)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{"valid default", func(*Config) {}, false},
		{"empty name", func(c *Config) { c.Name = "" }, true},
		{"bpr loss", func(c *Config) { c.Hyperparameters.Loss = "bpr" }, false},
		{"zero dimensions", func(c *Config) { c.Hyperparameters.Dimensions = 0 }, true},
		{"zero epochs", func(c *Config) { c.Hyperparameters.Epochs = 0 }, true},
		{"unknown loss", func(c *Config) { c.Hyperparameters.Loss = "logistic" }, true},
		{"zero learning rate", func(c *Config) { c.Hyperparameters.LearningRate = 0 }, true},
		{"zero max sampled", func(c *Config) { c.Hyperparameters.MaxSampled = 0 }, true},
		{"negative regularization", func(c *Config) { c.Hyperparameters.Regularization = -1 }, true},
		{"unknown conflict policy", func(c *Config) { c.Hyperparameters.ConflictPolicy = "merge" }, true},
		{"zero k", func(c *Config) { c.Evaluation.K = 0 }, true},
		{"zero workers", func(c *Config) { c.Evaluation.Workers = 0 }, true},
		{"max k below default", func(c *Config) { c.Limits.MaxK = 1 }, true},
		{"zero train timeout", func(c *Config) { c.Limits.TrainTimeout = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Hyperparameters.Dimensions = 99
	clone.Evaluation.K = 7

	if cfg.Hyperparameters.Dimensions == 99 || cfg.Evaluation.K == 7 {
		t.Error("Clone() shares state with the original")
	}
}

func TestHyperparameters_FitParams(t *testing.T) {
	t.Parallel()

	h := DefaultHyperparameters()
	h.Loss = "bpr"
	p := h.FitParams()
	if p.Loss != algorithms.LossBPR || p.Dimensions != h.Dimensions || p.Seed != h.Seed {
		t.Errorf("FitParams() = %+v", p)
	}
}
