// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gadvi/internal/events"
)

// ModelReloader swaps the served model for a persisted artifact.
// *api.Handler implements it.
type ModelReloader interface {
	ReloadModel(ctx context.Context, artifact string) error
}

// ModelReloadService subscribes to model-published events and reloads the
// served model for each one. A watermill router runs only once, so every
// Serve builds a new one.
type ModelReloadService struct {
	bus      *events.Bus
	reloader ModelReloader
	config   events.RouterConfig
	logger   zerolog.Logger
	name     string
}

// NewModelReloadService creates a reload service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewModelReloadService(bus *events.Bus, reloader ModelReloader, cfg events.RouterConfig, logger zerolog.Logger) *ModelReloadService {
	return &ModelReloadService{
		bus:      bus,
		reloader: reloader,
		config:   cfg,
		logger:   logger.With().Str("service", "model-reload").Logger(),
		name:     "model-reload-service",
	}
}

func (s *ModelReloadService) handle(ctx context.Context, event *events.ModelPublished) error {
	if err := s.reloader.ReloadModel(ctx, event.Artifact); err != nil {
		s.logger.Warn().Err(err).Str("artifact", event.Artifact).Str("run_id", event.RunID).Msg("Model reload failed")
		return err
	}
	s.logger.Info().Str("artifact", event.Artifact).Str("run_id", event.RunID).Msg("Model reloaded")
	return nil
}

// Serve implements suture.Service.
func (s *ModelReloadService) Serve(ctx context.Context) error {
	router, err := events.NewRouter(s.bus, s.config, "model-reloader", s.handle)
	if err != nil {
		return err
	}
	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("model event router: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer for suture's logs.
func (s *ModelReloadService) String() string {
	return s.name
}
