// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/gadvi/internal/config"
	"github.com/tomtom215/gadvi/internal/extract"
	"github.com/tomtom215/gadvi/internal/logging"
	"github.com/tomtom215/gadvi/internal/pipeline"
	"github.com/tomtom215/gadvi/internal/recommend"
	"github.com/tomtom215/gadvi/internal/recommend/algorithms"
	"github.com/tomtom215/gadvi/internal/recommend/storage"
)

// progressInterval throttles per-epoch training logs.
const progressInterval = 10 * time.Second

// recommendConfig maps the model, evaluation and serving sections onto the
// engine configuration.
func recommendConfig(cfg *config.Config) (*recommend.Config, error) {
	policy, err := recommend.ParseConflictPolicy(cfg.Model.ConflictPolicy)
	if err != nil {
		return nil, err
	}

	rc := recommend.DefaultConfig()
	rc.Name = cfg.Model.Name
	rc.Hyperparameters = recommend.Hyperparameters{
		Dimensions:     cfg.Model.Dimensions,
		Epochs:         cfg.Model.Epochs,
		Loss:           cfg.Model.Loss,
		UserFeatures:   cfg.Model.UserFeatures,
		ItemFeatures:   cfg.Model.ItemFeatures,
		LearningRate:   cfg.Model.LearningRate,
		MaxSampled:     cfg.Model.MaxSampled,
		Regularization: cfg.Model.Regularization,
		Seed:           cfg.Model.Seed,
		ConflictPolicy: policy,
	}
	rc.Evaluation = recommend.EvaluationConfig{
		K:            cfg.Evaluation.K,
		Workers:      cfg.Evaluation.Workers,
		ExcludeTrain: cfg.Evaluation.ExcludeTrain,
	}
	rc.Limits = recommend.LimitsConfig{
		DefaultK:     cfg.Server.DefaultK,
		MaxK:         cfg.Server.MaxK,
		TrainTimeout: cfg.Model.TrainTimeout,
	}
	return rc, nil
}

func newEngine(cfg *config.Config) (*recommend.Engine, error) {
	rc, err := recommendConfig(cfg)
	if err != nil {
		return nil, err
	}
	logger := logging.Logger()
	return recommend.NewEngine(rc, algorithms.NewFactorizer(logger, progressInterval), logger)
}

// openStore opens the configured artifact backend. The returned close
// function must be called when done.
func openStore(cfg *config.Config) (*storage.Store, func(), error) {
	var backend storage.Backend
	switch cfg.Artifacts.Backend {
	case "badger":
		b, err := storage.OpenBadgerBackend(cfg.Artifacts.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		backend = b
	default:
		b, err := storage.NewFileBackend(cfg.Artifacts.Dir)
		if err != nil {
			return nil, nil, err
		}
		backend = b
	}

	closeFn := func() {
		if c, ok := backend.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logging.Warn().Err(err).Str("backend", backend.Name()).Msg("Error closing artifact store")
			}
		}
	}
	return storage.NewStore(backend, logging.Logger()), closeFn, nil
}

// openSource builds the configured extract source. The returned close
// function must be called when done.
func openSource(cfg *config.Config) (extract.Source, func(), error) {
	src, err := extract.NewSource(extract.SourceConfig{
		Kind: cfg.Data.Source,
		Path: cfg.Data.Extract,
		DuckDB: extract.DuckDBConfig{
			DSN:              cfg.Data.DuckDBDSN,
			Query:            cfg.Data.DuckDBQuery,
			QueryTimeout:     cfg.Data.DuckDBQueryTimeout,
			FailureThreshold: cfg.Data.DuckDBFailureThreshold,
		},
	})
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if c, ok := src.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logging.Warn().Err(err).Str("source", src.Name()).Msg("Error closing extract source")
			}
		}
	}
	return src, closeFn, nil
}

// artifactName is the configured artifact, or the one the configured model
// settings produce.
func artifactName(cfg *config.Config) string {
	if cfg.Artifacts.Name != "" {
		return cfg.Artifacts.Name
	}
	return storage.ArtifactName(cfg.Model.Name, cfg.Model.Dimensions, cfg.Model.Loss)
}

// environment bundles the batch components of one command run.
type environment struct {
	pipeline *pipeline.Pipeline
	store    *storage.Store
	close    func()
}

// newEnvironment wires the pipeline. withSource opens the extract source,
// which only prepare and serve's retraining need.
func newEnvironment(cfg *config.Config, withSource bool) (*environment, error) {
	engine, err := newEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}
	closers := []func(){closeStore}

	var src extract.Source
	if withSource {
		var closeSource func()
		src, closeSource, err = openSource(cfg)
		if err != nil {
			closeStore()
			return nil, fmt.Errorf("open extract source: %w", err)
		}
		closers = append(closers, closeSource)
	}

	p, err := pipeline.New(pipeline.Config{
		DataDir:    cfg.Data.Dir,
		Dataset:    cfg.Data.Dataset,
		SampleSeed: cfg.Data.SampleSeed,
		Year:       cfg.Split.Year,
		Month:      time.Month(cfg.Split.Month),
	}, src, engine, store, logging.Logger())
	if err != nil {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		return nil, err
	}

	return &environment{
		pipeline: p,
		store:    store,
		close: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
}
