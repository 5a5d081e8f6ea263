// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gadvi/internal/events"
	"github.com/tomtom215/gadvi/internal/extract"
	"github.com/tomtom215/gadvi/internal/logging"
	"github.com/tomtom215/gadvi/internal/recommend"
	"github.com/tomtom215/gadvi/internal/recommend/storage"
)

// Config selects the dataset and the held-out period.
type Config struct {
	// DataDir receives the prepared dataset files.
	DataDir string

	// Dataset is one of recommend.DatasetSizes.
	Dataset string

	// SampleSeed seeds player subsampling.
	SampleSeed int64

	// Year of the held-out month. Zero means the latest year in the data.
	Year int

	// Month held out for testing.
	Month time.Month
}

// Pipeline runs the batch stages.
type Pipeline struct {
	config     Config
	sampleSize int
	source     extract.Source
	engine     *recommend.Engine
	store      *storage.Store
	logger     zerolog.Logger
}

// New creates a Pipeline. source may be nil for stages that only read
// prepared files.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, source extract.Source, engine *recommend.Engine, store *storage.Store, logger zerolog.Logger) (*Pipeline, error) {
	size, err := recommend.DatasetSize(cfg.Dataset)
	if err != nil {
		return nil, err
	}
	if cfg.Month < time.January || cfg.Month > time.December {
		return nil, fmt.Errorf("held-out month %d out of range", cfg.Month)
	}
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if store == nil {
		return nil, fmt.Errorf("artifact store is required")
	}
	return &Pipeline{
		config:     cfg,
		sampleSize: size,
		source:     source,
		engine:     engine,
		store:      store,
		logger:     logger.With().Str("component", "pipeline").Str("dataset", cfg.Dataset).Logger(),
	}, nil
}

// TrainPath is the prepared training file of the dataset.
func (p *Pipeline) TrainPath() string {
	return filepath.Join(p.config.DataDir, p.config.Dataset+"_train.tsv")
}

// TestPath is the prepared test file of the dataset.
func (p *Pipeline) TestPath() string {
	return filepath.Join(p.config.DataDir, p.config.Dataset+"_test.tsv")
}

// SubsetPath is the sampled extract of the dataset before splitting.
func (p *Pipeline) SubsetPath() string {
	return filepath.Join(p.config.DataDir, p.config.Dataset+".tsv")
}

// Period returns the held-out month for records.
func (p *Pipeline) Period(records []recommend.InteractionRecord) (recommend.Period, error) {
	if p.config.Year > 0 {
		return recommend.MonthPeriod(p.config.Year, p.config.Month), nil
	}
	period, ok := recommend.LatestPeriod(records, p.config.Month)
	if !ok {
		return recommend.Period{}, fmt.Errorf("cannot derive held-out period from an empty extract")
	}
	return period, nil
}

// load reads the source and keeps the dataset's player sample.
func (p *Pipeline) load(ctx context.Context) ([]recommend.InteractionRecord, error) {
	if p.source == nil {
		return nil, fmt.Errorf("no extract source configured")
	}

	t := logging.StartTimer()
	records, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s extract: %w", p.source.Name(), err)
	}
	t.Log(p.logger.Info().Str("source", p.source.Name()).Int("records", len(records)), "Extract loaded")

	if p.sampleSize == 0 {
		return records, nil
	}
	sampled := recommend.SamplePlayers(records, p.sampleSize, p.config.SampleSeed)
	p.logger.Info().
		Int("players", p.sampleSize).
		Int64("seed", p.config.SampleSeed).
		Int("records", len(sampled)).
		Msg("Players sampled")
	return sampled, nil
}

// PrepareResult describes the files written by Prepare.
type PrepareResult struct {
	Period     recommend.Period `json:"period"`
	Records    int              `json:"records"`
	TrainRows  int              `json:"train_rows"`
	TestRows   int              `json:"test_rows"`
	TestRatio  float64          `json:"test_ratio"`
	SubsetPath string           `json:"subset_path,omitempty"`
	TrainPath  string           `json:"train_path"`
	TestPath   string           `json:"test_path"`
}

// Prepare loads the extract, samples the dataset's players, splits off the
// held-out month and writes the train and test files. Sampled datasets
// also get their unsplit subset written.
func (p *Pipeline) Prepare(ctx context.Context) (*PrepareResult, error) {
	records, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	period, err := p.Period(records)
	if err != nil {
		return nil, err
	}
	split := p.engine.Split(records, period)

	res := &PrepareResult{
		Period:    period,
		Records:   len(records),
		TrainRows: len(split.Train),
		TestRows:  len(split.Test),
		TestRatio: split.TestRatio,
		TrainPath: p.TrainPath(),
		TestPath:  p.TestPath(),
	}
	if p.sampleSize > 0 {
		res.SubsetPath = p.SubsetPath()
		if err := extract.WriteTSVFile(res.SubsetPath, records); err != nil {
			return nil, err
		}
	}
	if err := extract.WriteTSVFile(res.TrainPath, split.Train); err != nil {
		return nil, err
	}
	if err := extract.WriteTSVFile(res.TestPath, split.Test); err != nil {
		return nil, err
	}

	p.logger.Info().
		Str("train_path", res.TrainPath).
		Str("test_path", res.TestPath).
		Msg("Dataset prepared")
	return res, nil
}

// readPrepared reads one prepared file, pointing at prepare when it is
// missing.
func (p *Pipeline) readPrepared(path string) ([]recommend.InteractionRecord, error) {
	records, err := extract.ReadTSVFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("dataset %s is not prepared (run prepare first): %w", p.config.Dataset, err)
	}
	return records, err
}

// TrainResult describes a trained and saved model.
type TrainResult struct {
	Artifact     string              `json:"artifact"`
	Info         recommend.ModelInfo `json:"model"`
	TrainMetrics *recommend.Metrics  `json:"train_metrics,omitempty"`
	TestMetrics  *recommend.Metrics  `json:"test_metrics,omitempty"`

	model *recommend.TrainedModel
}

// Model returns the trained model.
func (r *TrainResult) Model() *recommend.TrainedModel { return r.model }

// Train fits a model on the prepared training file, saves it and reports
// metrics on both partitions. Metrics that are undefined for a partition
// are left nil.
func (p *Pipeline) Train(ctx context.Context) (*TrainResult, error) {
	train, err := p.readPrepared(p.TrainPath())
	if err != nil {
		return nil, err
	}

	model, err := p.engine.Train(ctx, train)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	artifact, err := p.store.Save(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("save model: %w", err)
	}

	res := &TrainResult{Artifact: artifact, Info: model.Info(), model: model}
	if res.TrainMetrics, res.TestMetrics, err = p.evaluateBoth(ctx, model); err != nil {
		return nil, err
	}
	return res, nil
}

// EvaluateResult reports metrics of a persisted model.
type EvaluateResult struct {
	Artifact     string              `json:"artifact"`
	Info         recommend.ModelInfo `json:"model"`
	TrainMetrics *recommend.Metrics  `json:"train_metrics,omitempty"`
	TestMetrics  *recommend.Metrics  `json:"test_metrics,omitempty"`
}

// Evaluate loads artifact and scores it on its training data and on the
// prepared test file.
func (p *Pipeline) Evaluate(ctx context.Context, artifact string) (*EvaluateResult, error) {
	model, err := p.store.Load(ctx, artifact)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	res := &EvaluateResult{Artifact: artifact, Info: model.Info()}
	if res.TrainMetrics, res.TestMetrics, err = p.evaluateBoth(ctx, model); err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Pipeline) evaluateBoth(ctx context.Context, model *recommend.TrainedModel) (train, test *recommend.Metrics, err error) {
	trainMetrics, err := p.engine.EvaluateTraining(ctx, model)
	switch {
	case errors.Is(err, recommend.ErrUndefinedMetric):
		p.logger.Warn().Msg("Training partition has no interactions; skipping train metrics")
	case err != nil:
		return nil, nil, fmt.Errorf("evaluate train: %w", err)
	default:
		train = &trainMetrics
	}

	records, err := p.readPrepared(p.TestPath())
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		p.logger.Warn().Msg("Test partition is empty; skipping test metrics")
		return train, nil, nil
	}
	testMetrics, err := p.engine.Evaluate(ctx, model, records)
	if err != nil {
		return nil, nil, fmt.Errorf("evaluate test: %w", err)
	}
	return train, &testMetrics, nil
}

// Retrain runs extract, split, train and evaluation in memory, saves the
// model and returns the event announcing it.
func (p *Pipeline) Retrain(ctx context.Context) (*events.ModelPublished, *recommend.RunReport, error) {
	records, err := p.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	period, err := p.Period(records)
	if err != nil {
		return nil, nil, err
	}

	report, err := p.engine.Run(ctx, records, period)
	if err != nil {
		return nil, nil, err
	}
	artifact, err := p.store.Save(ctx, report.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("save model: %w", err)
	}

	ev := events.NewModelPublished(report.Model, artifact, p.store.Backend().Name())
	ev.TestMetrics = report.TestMetrics
	return ev, report, nil
}
