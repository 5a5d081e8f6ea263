// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gadvi/internal/metrics"
	"github.com/tomtom215/gadvi/internal/recommend"
	"github.com/tomtom215/gadvi/internal/recommend/algorithms"
)

// Blob is the name suffix of one of the three blobs of an artifact.
type Blob string

const (
	BlobModel   Blob = ".model"
	BlobDataset Blob = "_dataset"
	BlobData    Blob = "_data"
)

// Blobs lists the blobs of an artifact in write order.
var Blobs = []Blob{BlobModel, BlobDataset, BlobData}

// ErrBlobNotFound is returned by backends for a blob that was never written.
var ErrBlobNotFound = errors.New("blob not found")

// Backend stores raw blob bytes.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// WriteBlobs stores every blob of one artifact. Concurrent writers of the
	// same artifact must not interleave.
	WriteBlobs(ctx context.Context, artifact string, blobs map[Blob][]byte) error

	// ReadBlob returns one blob, or an error wrapping ErrBlobNotFound.
	ReadBlob(ctx context.Context, artifact string, blob Blob) ([]byte, error)
}

// ArtifactName returns the artifact name of a model family trained with the
// given dimensionality and loss.
func ArtifactName(name string, dimensions int, loss string) string {
	return fmt.Sprintf("model_%s_%d_%s", name, dimensions, loss)
}

// ArtifactNameOf returns the artifact name of a trained model.
func ArtifactNameOf(model *recommend.TrainedModel) string {
	h := model.Hyperparameters()
	return ArtifactName(model.Meta().Name, h.Dimensions, h.Loss)
}

// modelBlob holds the fitted parameters.
type modelBlob struct {
	Params []byte
}

// datasetBlob holds the vocabulary and the settings of the run.
type datasetBlob struct {
	Meta            recommend.ModelMeta
	Hyperparameters recommend.Hyperparameters
	Players         []string
	Games           []string
}

// dataBlob holds the training records.
type dataBlob struct {
	Records []recommend.InteractionRecord
}

// Store saves and loads trained models through a Backend.
type Store struct {
	backend Backend
	logger  zerolog.Logger
}

// NewStore creates a Store over backend.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(backend Backend, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger.With().Str("component", "artifact_store").Str("backend", backend.Name()).Logger(),
	}
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend { return s.backend }

// Save writes the three blobs of model and returns the artifact name.
func (s *Store) Save(ctx context.Context, model *recommend.TrainedModel) (name string, err error) {
	defer func() { metrics.RecordArtifactOperation(s.backend.Name(), "save", err) }()

	if model == nil {
		return "", fmt.Errorf("model is required")
	}
	name = ArtifactNameOf(model)
	runID := model.Meta().RunID

	params, err := model.Params().MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("marshal parameters: %w", err)
	}

	payloads := map[Blob]any{
		BlobModel: modelBlob{Params: params},
		BlobDataset: datasetBlob{
			Meta:            model.Meta(),
			Hyperparameters: model.Hyperparameters(),
			Players:         model.IDMap().Players(),
			Games:           model.IDMap().Games(),
		},
		BlobData: dataBlob{Records: model.Records()},
	}

	blobs := make(map[Blob][]byte, len(payloads))
	for _, blob := range Blobs {
		data, err := encodeBlob(runID, blob, payloads[blob])
		if err != nil {
			return "", err
		}
		blobs[blob] = data
	}

	if err := s.backend.WriteBlobs(ctx, name, blobs); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", name, err)
	}

	s.logger.Info().
		Str("artifact", name).
		Str("run_id", runID).
		Int("model_bytes", len(blobs[BlobModel])).
		Int("dataset_bytes", len(blobs[BlobDataset])).
		Int("data_bytes", len(blobs[BlobData])).
		Msg("Model saved")
	return name, nil
}

// Load reads and cross-checks the three blobs of an artifact.
func (s *Store) Load(ctx context.Context, name string) (model *recommend.TrainedModel, err error) {
	defer func() { metrics.RecordArtifactOperation(s.backend.Name(), "load", err) }()

	var (
		mb  modelBlob
		db  datasetBlob
		dat dataBlob
	)
	targets := map[Blob]any{BlobModel: &mb, BlobDataset: &db, BlobData: &dat}

	runIDs := make(map[Blob]string, len(Blobs))
	for _, blob := range Blobs {
		raw, err := s.backend.ReadBlob(ctx, name, blob)
		if err != nil {
			if errors.Is(err, ErrBlobNotFound) {
				return nil, &recommend.ArtifactMismatchError{Artifact: name, Blob: string(blob), Reason: "blob missing", Err: err}
			}
			return nil, fmt.Errorf("read artifact %s blob %s: %w", name, blob, err)
		}
		env, err := decodeBlob(raw, targets[blob])
		if err != nil {
			return nil, &recommend.ArtifactMismatchError{Artifact: name, Blob: string(blob), Reason: "unreadable blob", Err: err}
		}
		if env.Blob != blob {
			return nil, &recommend.ArtifactMismatchError{Artifact: name, Blob: string(blob), Reason: fmt.Sprintf("envelope is for blob %q", env.Blob)}
		}
		runIDs[blob] = env.RunID
	}

	runID := runIDs[BlobModel]
	for _, blob := range Blobs[1:] {
		if runIDs[blob] != runID {
			return nil, &recommend.ArtifactMismatchError{
				Artifact: name,
				Blob:     string(blob),
				Reason:   fmt.Sprintf("run id %q does not match model run id %q", runIDs[blob], runID),
			}
		}
	}
	if db.Meta.RunID != runID {
		return nil, &recommend.ArtifactMismatchError{Artifact: name, Blob: string(BlobDataset), Reason: "metadata run id differs from envelope"}
	}

	params, err := algorithms.UnmarshalModel(mb.Params)
	if err != nil {
		return nil, &recommend.ArtifactMismatchError{Artifact: name, Blob: string(BlobModel), Reason: "invalid parameters", Err: err}
	}

	idmap := recommend.FitIdentifierMap(db.Players, db.Games)
	if idmap.NumPlayers() != len(db.Players) || idmap.NumGames() != len(db.Games) {
		return nil, &recommend.ArtifactMismatchError{Artifact: name, Blob: string(BlobDataset), Reason: "vocabulary contains duplicates"}
	}

	model, err = recommend.NewTrainedModel(db.Meta, params, idmap, db.Hyperparameters, dat.Records)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("artifact", name).
		Str("run_id", runID).
		Int("players", idmap.NumPlayers()).
		Int("games", idmap.NumGames()).
		Msg("Model loaded")
	return model, nil
}
