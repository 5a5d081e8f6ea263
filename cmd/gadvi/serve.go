// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/gadvi/internal/api"
	"github.com/tomtom215/gadvi/internal/cache"
	"github.com/tomtom215/gadvi/internal/config"
	"github.com/tomtom215/gadvi/internal/events"
	"github.com/tomtom215/gadvi/internal/logging"
	"github.com/tomtom215/gadvi/internal/recommend"
	"github.com/tomtom215/gadvi/internal/recommend/storage"
	"github.com/tomtom215/gadvi/internal/supervisor"
	"github.com/tomtom215/gadvi/internal/supervisor/services"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), a.cfg)
		},
	}
}

// middlewareConfig maps the server section onto the router middleware.
func middlewareConfig(cfg *config.ServerConfig) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	if len(cfg.CORSOrigins) > 0 {
		mw.CORSAllowedOrigins = cfg.CORSOrigins
	}
	if cfg.RateLimitReqs > 0 {
		mw.RateLimitRequests = cfg.RateLimitReqs
	}
	if cfg.RateLimitWindow > 0 {
		mw.RateLimitWindow = cfg.RateLimitWindow
	}
	mw.RateLimitDisabled = cfg.RateLimitDisabled
	return mw
}

// treeConfig maps the supervisor section onto the tree settings.
func treeConfig(cfg *config.SupervisorConfig) supervisor.TreeConfig {
	return supervisor.TreeConfig{
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		ShutdownTimeout:  cfg.ShutdownTimeout,
	}
}

// loadInitialModel loads the configured artifact into handler. An artifact
// that was never saved is not fatal: the server answers 503 until a model is
// published. A partially present artifact is.
func loadInitialModel(ctx context.Context, handler *api.Handler, artifact string) (bool, error) {
	err := handler.ReloadModel(ctx, artifact)
	if err == nil {
		return true, nil
	}

	var mismatch *recommend.ArtifactMismatchError
	if errors.As(err, &mismatch) && mismatch.Blob == string(storage.BlobModel) && errors.Is(err, storage.ErrBlobNotFound) {
		log := logging.Component("serve")
		log.Warn().Str("artifact", artifact).Msg("No saved model, serving without one until a model is published")
		return false, nil
	}
	return false, fmt.Errorf("load model %s: %w", artifact, err)
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := logging.Logger()
	log := logging.Component("serve")

	env, err := newEnvironment(cfg, cfg.Supervisor.RetrainInterval > 0)
	if err != nil {
		return err
	}
	defer env.close()

	var recs *cache.Recommendations
	if cfg.Server.CacheSize > 0 {
		recs = cache.NewRecommendations(cfg.Server.CacheSize, cfg.Server.CacheTTL)
	}

	handler := api.NewHandler(&recommend.Holder{}, recs, env.store, api.HandlerConfig{
		Name:     cfg.Model.Name,
		DefaultK: cfg.Server.DefaultK,
		MaxK:     cfg.Server.MaxK,
	}, logger)

	loaded, err := loadInitialModel(ctx, handler, artifactName(cfg))
	if err != nil {
		return err
	}

	router := api.NewRouter(handler, middlewareConfig(&cfg.Server))
	server := services.NewAPIServer(cfg.Server.Addr(), router.SetupChi(), cfg.Server.Timeout)

	bus := events.NewBus(logging.NewSlogLogger())
	defer func() {
		if err := bus.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing event bus")
		}
	}()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeConfig(&cfg.Supervisor))
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Supervisor.ShutdownTimeout, logger))
	tree.AddEventService(services.NewModelReloadService(bus, handler, events.DefaultRouterConfig(), logger))

	if cfg.Supervisor.RetrainInterval > 0 {
		retrain, err := services.NewRetrainService(env.pipeline, bus, services.RetrainServiceConfig{
			Interval:       cfg.Supervisor.RetrainInterval,
			TrainOnStartup: !loaded,
			Timeout:        cfg.Model.TrainTimeout,
		}, logger)
		if err != nil {
			return fmt.Errorf("create retrain service: %w", err)
		}
		tree.AddTrainingService(retrain)
	}

	log.Info().
		Str("addr", cfg.Server.Addr()).
		Bool("model_loaded", loaded).
		Dur("retrain_interval", cfg.Supervisor.RetrainInterval).
		Msg("Starting server")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		log.Warn().Int("count", len(report)).Msg("Services did not stop cleanly")
	}
	log.Info().Msg("Server stopped")
	return nil
}
