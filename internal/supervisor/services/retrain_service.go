// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gadvi/internal/events"
	"github.com/tomtom215/gadvi/internal/recommend"
)

// Retrainer runs one full training run and saves the model.
// *pipeline.Pipeline implements it.
type Retrainer interface {
	Retrain(ctx context.Context) (*events.ModelPublished, *recommend.RunReport, error)
}

// ModelPublisher announces a saved model. *events.Bus implements it.
type ModelPublisher interface {
	PublishModel(ctx context.Context, event *events.ModelPublished) error
}

// RetrainServiceConfig holds configuration for the retrain service.
type RetrainServiceConfig struct {
	// Interval between runs. Must be positive.
	Interval time.Duration

	// TrainOnStartup runs once as soon as the service starts.
	TrainOnStartup bool

	// Timeout bounds one run. Default: 30m
	Timeout time.Duration
}

// RetrainService retrains on a ticker and publishes every saved model.
// A failed run is logged and retried at the next tick.
type RetrainService struct {
	retrainer Retrainer
	publisher ModelPublisher
	config    RetrainServiceConfig
	logger    zerolog.Logger
	name      string
}

// NewRetrainService creates a retrain service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRetrainService(retrainer Retrainer, publisher ModelPublisher, cfg RetrainServiceConfig, logger zerolog.Logger) (*RetrainService, error) {
	if retrainer == nil || publisher == nil {
		return nil, fmt.Errorf("retrainer and publisher are required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("retrain interval must be positive, got %v", cfg.Interval)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &RetrainService{
		retrainer: retrainer,
		publisher: publisher,
		config:    cfg,
		logger:    logger.With().Str("service", "retrain").Logger(),
		name:      "retrain-service",
	}, nil
}

// Serve implements suture.Service.
func (s *RetrainService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("interval", s.config.Interval).
		Msg("Retrain service starting")

	if s.config.TrainOnStartup {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Startup retrain failed (will retry on schedule)")
		}
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Retrain service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("Scheduled retrain failed")
			}
		}
	}
}

// RunOnce retrains and publishes the result.
func (s *RetrainService) RunOnce(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	event, report, err := s.retrainer.Retrain(runCtx)
	if err != nil {
		return fmt.Errorf("retrain: %w", err)
	}

	logEvent := s.logger.Info().
		Str("artifact", event.Artifact).
		Str("run_id", event.RunID).
		Int("train_rows", report.TrainRows).
		Int("test_rows", report.TestRows).
		Dur("duration", time.Since(start))
	if report.TestMetrics != nil {
		logEvent = logEvent.Float64("test_precision_at_k", report.TestMetrics.PrecisionAtK).Float64("test_auc", report.TestMetrics.AUC)
	}
	logEvent.Msg("Retrain complete")

	if err := s.publisher.PublishModel(ctx, event); err != nil {
		return fmt.Errorf("publish model %s: %w", event.RunID, err)
	}
	return nil
}

// String implements fmt.Stringer for suture's logs.
func (s *RetrainService) String() string {
	return s.name
}
