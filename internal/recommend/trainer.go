// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/gadvi/internal/recommend/algorithms"
)

// DefaultModelName is the model family name used in artifact names.
const DefaultModelName = "lightFM"

// TrainInput is everything a training run needs.
type TrainInput struct {
	// Name is the model family name. Default: DefaultModelName.
	Name string

	// Records are the training records.
	Records []InteractionRecord

	// IDMap is the vocabulary fitted on Records.
	IDMap *IdentifierMap

	// Built is the interaction matrix with the side features requested by
	// Hyper. When nil it is built from Records.
	Built *BuildResult

	// Hyper are the model settings.
	Hyper Hyperparameters
}

// Train fits a latent factor model on the presence matrix of in.Built and
// wraps it with its vocabulary and training records.
func Train(ctx context.Context, trainer algorithms.LatentFactorTrainer, in TrainInput) (*TrainedModel, error) {
	if trainer == nil {
		return nil, fmt.Errorf("trainer is required")
	}
	if in.IDMap == nil {
		return nil, fmt.Errorf("identifier map is required")
	}
	if err := in.Hyper.Validate(); err != nil {
		return nil, fmt.Errorf("invalid hyperparameters: %w", err)
	}
	if in.Name == "" {
		in.Name = DefaultModelName
	}

	built := in.Built
	if built == nil {
		var err error
		built, err = BuildInteractions(in.Records, in.IDMap, BuildOptions{
			UserFeatures:   in.Hyper.UserFeatures,
			ItemFeatures:   in.Hyper.ItemFeatures,
			ConflictPolicy: in.Hyper.ConflictPolicy,
		})
		if err != nil {
			return nil, fmt.Errorf("build interactions: %w", err)
		}
	}

	var userFeatures, itemFeatures *algorithms.FeatureRows
	if in.Hyper.UserFeatures && built.PlayerFeatures != nil {
		userFeatures = built.PlayerFeatures.FeatureRows()
	}
	if in.Hyper.ItemFeatures && built.GameFeatures != nil {
		itemFeatures = built.GameFeatures.FeatureRows()
	}

	params, err := trainer.Fit(ctx, built.Interactions, userFeatures, itemFeatures, in.Hyper.FitParams())
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}

	meta := ModelMeta{
		Name:      in.Name,
		RunID:     uuid.NewString(),
		TrainedAt: time.Now().UTC(),
	}
	return NewTrainedModel(meta, params, in.IDMap, in.Hyper, in.Records)
}
