// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gadvi/internal/logging"
	"github.com/tomtom215/gadvi/internal/metrics"
	"github.com/tomtom215/gadvi/internal/recommend/algorithms"
)

// Pipeline stage names as recorded in metrics.
const (
	StageSplit    = "split"
	StageBuild    = "build"
	StageTrain    = "train"
	StageEvaluate = "evaluate"
)

// Engine runs the batch pipeline: split, build, train and evaluate.
// Only one training run may be active at a time.
type Engine struct {
	config  *Config
	trainer algorithms.LatentFactorTrainer
	logger  zerolog.Logger

	trainMu sync.Mutex
}

// RunReport summarizes one pipeline run.
type RunReport struct {
	Model *TrainedModel `json:"-"`

	Period      Period  `json:"period"`
	TrainRows   int     `json:"train_rows"`
	TestRows    int     `json:"test_rows"`
	DroppedTest int     `json:"dropped_test"`
	AfterPeriod int     `json:"after_period"`
	TestRatio   float64 `json:"test_ratio"`
	Sparsity    float64 `json:"sparsity"`

	// TrainMetrics is nil when the training matrix has no positive row.
	TrainMetrics *Metrics `json:"train_metrics,omitempty"`

	// TestMetrics is nil when the test partition is empty.
	TestMetrics *Metrics `json:"test_metrics,omitempty"`
}

// NewEngine creates a pipeline engine. A nil cfg uses DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, trainer algorithms.LatentFactorTrainer, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if trainer == nil {
		return nil, fmt.Errorf("trainer is required")
	}

	return &Engine{
		config:  cfg.Clone(),
		trainer: trainer,
		logger:  logger.With().Str("component", "engine").Logger(),
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config { return e.config.Clone() }

// Split partitions records around heldOut and records the split metrics.
func (e *Engine) Split(records []InteractionRecord, heldOut Period) SplitResult {
	t := logging.StartTimer()
	res := Split(records, heldOut)

	metrics.SplitTestRatio.Set(res.TestRatio)
	metrics.ObserveStage(StageSplit, t.Log(e.logger.Info().
		Stringer("period", heldOut).
		Int("records", len(records)).
		Int("train", len(res.Train)).
		Int("test", len(res.Test)).
		Int("dropped_test", res.DroppedTest).
		Int("after_period", res.AfterPeriod).
		Float64("test_ratio", res.TestRatio), "Data split"))

	return res
}

// Train fits the identifier map on records, builds the interaction matrix
// and trains a model on it. It fails fast if another training run is active.
func (e *Engine) Train(ctx context.Context, records []InteractionRecord) (*TrainedModel, error) {
	if !e.trainMu.TryLock() {
		return nil, fmt.Errorf("training already in progress")
	}
	defer e.trainMu.Unlock()

	if timeout := e.config.Limits.TrainTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	hyper := e.config.Hyperparameters

	t := logging.StartTimer()
	idmap := FitIdentifierMapFromRecords(records)
	built, err := BuildInteractions(records, idmap, BuildOptions{
		UserFeatures:   hyper.UserFeatures,
		ItemFeatures:   hyper.ItemFeatures,
		ConflictPolicy: hyper.ConflictPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("build interactions: %w", err)
	}
	sparsity := built.Interactions.Sparsity()
	metrics.InteractionSparsity.Set(sparsity)
	metrics.ObserveStage(StageBuild, t.Log(e.logger.Info().
		Int("players", idmap.NumPlayers()).
		Int("games", idmap.NumGames()).
		Int("nnz", built.Interactions.NNZ()).
		Float64("sparsity", sparsity), "Interactions built"))

	t = logging.StartTimer()
	model, err := Train(ctx, e.trainer, TrainInput{
		Name:    e.config.Name,
		Records: records,
		IDMap:   idmap,
		Built:   built,
		Hyper:   hyper,
	})
	if err != nil {
		return nil, err
	}
	metrics.ObserveStage(StageTrain, t.Log(e.logger.Info().
		Str("run_id", model.Meta().RunID).
		Int("dimensions", hyper.Dimensions).
		Str("loss", hyper.Loss).
		Int("epochs", hyper.Epochs), "Model trained"))

	return model, nil
}

// Evaluate scores model on records, which must only reference players and
// games of the model vocabulary. With Evaluation.ExcludeTrain set, the
// model's training interactions are removed from the rankings.
func (e *Engine) Evaluate(ctx context.Context, model *TrainedModel, records []InteractionRecord) (Metrics, error) {
	built, err := BuildInteractions(records, model.IDMap(), BuildOptions{})
	if err != nil {
		return Metrics{}, fmt.Errorf("build evaluation matrix: %w", err)
	}

	opts := EvalOptions{
		K:       e.config.Evaluation.K,
		Workers: e.config.Evaluation.Workers,
	}
	if e.config.Evaluation.ExcludeTrain {
		opts.Exclude = model.History()
	}
	return e.evaluate(ctx, "test", model, built.Interactions, opts)
}

// EvaluateTraining scores model on its own training interactions. It
// returns an error wrapping ErrUndefinedMetric when there are none.
func (e *Engine) EvaluateTraining(ctx context.Context, model *TrainedModel) (Metrics, error) {
	return e.evaluate(ctx, "train", model, model.History(), EvalOptions{
		K:       e.config.Evaluation.K,
		Workers: e.config.Evaluation.Workers,
	})
}

func (e *Engine) evaluate(ctx context.Context, partition string, model *TrainedModel, matrix *InteractionMatrix, opts EvalOptions) (Metrics, error) {
	t := logging.StartTimer()
	m, err := Evaluate(ctx, model, matrix, opts)
	if err != nil {
		return Metrics{}, err
	}
	metrics.RecordEvaluation(partition, m.PrecisionAtK, m.RecallAtK, m.AUC)
	metrics.ObserveStage(StageEvaluate, t.Log(e.logger.Info().
		Str("partition", partition).
		Int("k", m.K).
		Int("players", m.Players).
		Float64("precision_at_k", m.PrecisionAtK).
		Float64("recall_at_k", m.RecallAtK).
		Float64("auc", m.AUC), "Model evaluated"))
	return m, nil
}

// Run executes split, train and evaluation on both partitions.
func (e *Engine) Run(ctx context.Context, records []InteractionRecord, heldOut Period) (*RunReport, error) {
	split := e.Split(records, heldOut)

	model, err := e.Train(ctx, split.Train)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	report := &RunReport{
		Model:       model,
		Period:      heldOut,
		TrainRows:   len(split.Train),
		TestRows:    len(split.Test),
		DroppedTest: split.DroppedTest,
		AfterPeriod: split.AfterPeriod,
		TestRatio:   split.TestRatio,
		Sparsity:    model.History().Sparsity(),
	}

	trainMetrics, err := e.EvaluateTraining(ctx, model)
	switch {
	case errors.Is(err, ErrUndefinedMetric):
		e.logger.Warn().Msg("Training partition has no interactions; skipping train metrics")
	case err != nil:
		return nil, fmt.Errorf("evaluate train: %w", err)
	default:
		report.TrainMetrics = &trainMetrics
	}

	if len(split.Test) == 0 {
		e.logger.Warn().Stringer("period", heldOut).Msg("Held-out period has no usable records; skipping test metrics")
		return report, nil
	}
	testMetrics, err := e.Evaluate(ctx, model, split.Test)
	if err != nil {
		return nil, fmt.Errorf("evaluate test: %w", err)
	}
	report.TestMetrics = &testMetrics

	return report, nil
}
