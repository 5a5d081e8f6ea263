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

// ModelMeta identifies a training run.
type ModelMeta struct {
	// Name is the model family name, e.g. "lightFM".
	Name string `json:"name"`

	// RunID uniquely identifies the training run. All persisted blobs of a
	// model carry it.
	RunID string `json:"run_id"`

	// TrainedAt is when training finished.
	TrainedAt time.Time `json:"trained_at"`
}

// TrainedModel bundles the fitted parameters with the vocabulary and the
// training records they were fitted on. It exposes no mutators, so a loaded
// model can be shared by concurrent callers.
type TrainedModel struct {
	meta    ModelMeta
	params  algorithms.Model
	idmap   *IdentifierMap
	hyper   Hyperparameters
	records []InteractionRecord

	// derived at construction
	history    *InteractionMatrix
	thirdParty []bool
}

// ModelInfo summarizes a trained model for logs and the API.
type ModelInfo struct {
	ModelMeta
	Hyperparameters Hyperparameters `json:"hyperparameters"`
	Players         int             `json:"players"`
	Games           int             `json:"games"`
	Records         int             `json:"records"`
}

// NewTrainedModel assembles a model and checks that its three parts belong
// together: parameter shape equals vocabulary size, and every training record
// resolves in the vocabulary. Any inconsistency is an ArtifactMismatchError.
func NewTrainedModel(meta ModelMeta, params algorithms.Model, idmap *IdentifierMap, hyper Hyperparameters, records []InteractionRecord) (*TrainedModel, error) {
	if params == nil || idmap == nil {
		return nil, &ArtifactMismatchError{Artifact: meta.Name, Reason: "model parameters and identifier map are required"}
	}
	if params.NumPlayers() != idmap.NumPlayers() || params.NumGames() != idmap.NumGames() {
		return nil, &ArtifactMismatchError{
			Artifact: meta.Name,
			Reason: fmt.Sprintf("parameters cover %dx%d but vocabulary is %dx%d",
				params.NumPlayers(), params.NumGames(), idmap.NumPlayers(), idmap.NumGames()),
		}
	}

	built, err := BuildInteractions(records, idmap, BuildOptions{})
	if err != nil {
		return nil, &ArtifactMismatchError{Artifact: meta.Name, Reason: "training records do not match vocabulary", Err: err}
	}
	thirdParty, err := thirdPartyGames(records, idmap)
	if err != nil {
		return nil, &ArtifactMismatchError{Artifact: meta.Name, Reason: "cannot resolve game content classes", Err: err}
	}

	return &TrainedModel{
		meta:       meta,
		params:     params,
		idmap:      idmap,
		hyper:      hyper,
		records:    records,
		history:    built.Interactions,
		thirdParty: thirdParty,
	}, nil
}

// Meta returns the run identification.
func (m *TrainedModel) Meta() ModelMeta { return m.meta }

// Params returns the fitted parameters.
func (m *TrainedModel) Params() algorithms.Model { return m.params }

// IDMap returns the vocabulary the model was trained on.
func (m *TrainedModel) IDMap() *IdentifierMap { return m.idmap }

// Hyperparameters returns the settings the model was trained with.
func (m *TrainedModel) Hyperparameters() Hyperparameters { return m.hyper }

// Records returns a copy of the training records.
func (m *TrainedModel) Records() []InteractionRecord {
	return append([]InteractionRecord(nil), m.records...)
}

// History returns the training interactions; it is the source of the
// already-played filter.
func (m *TrainedModel) History() *InteractionMatrix { return m.history }

// IsThirdParty reports whether any training record of the game is third
// party. Such games are never served. Unknown indices report false.
func (m *TrainedModel) IsThirdParty(game int) bool {
	return game >= 0 && game < len(m.thirdParty) && m.thirdParty[game]
}

// Info summarizes the model.
func (m *TrainedModel) Info() ModelInfo {
	return ModelInfo{
		ModelMeta:       m.meta,
		Hyperparameters: m.hyper,
		Players:         m.idmap.NumPlayers(),
		Games:           m.idmap.NumGames(),
		Records:         len(m.records),
	}
}
