// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gadvi/internal/cache"
	"github.com/tomtom215/gadvi/internal/metrics"
	"github.com/tomtom215/gadvi/internal/recommend"
)

// errNoModel is returned while the holder is empty.
var errNoModel = errors.New("no model loaded")

// ModelLoader loads a persisted model by artifact name.
// *storage.Store implements it.
type ModelLoader interface {
	Load(ctx context.Context, name string) (*recommend.TrainedModel, error)
}

// HandlerConfig contains serving limits.
type HandlerConfig struct {
	// Name is reported by GET / until a model is loaded.
	Name string

	// DefaultK is used when a request has no k.
	DefaultK int

	// MaxK is the largest k accepted.
	MaxK int
}

// Handler serves recommendations from the model in holder.
type Handler struct {
	holder    *recommend.Holder
	cache     *cache.Recommendations
	loader    ModelLoader
	config    HandlerConfig
	logger    zerolog.Logger
	startTime time.Time
}

// NewHandler creates a Handler. recs and loader may be nil: without recs
// nothing is cached, and without loader ReloadModel fails.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(holder *recommend.Holder, recs *cache.Recommendations, loader ModelLoader, cfg HandlerConfig, logger zerolog.Logger) *Handler {
	if cfg.DefaultK <= 0 {
		cfg.DefaultK = recommend.DefaultConfig().Limits.DefaultK
	}
	if cfg.MaxK < cfg.DefaultK {
		cfg.MaxK = cfg.DefaultK
	}
	return &Handler{
		holder:    holder,
		cache:     recs,
		loader:    loader,
		config:    cfg,
		logger:    logger.With().Str("component", "api").Logger(),
		startTime: time.Now(),
	}
}

// SetModel starts serving model. Requests already running keep the model
// they started with.
func (h *Handler) SetModel(model *recommend.TrainedModel) {
	prev := h.holder.Store(recommend.NewRecommender(model, h.logger))
	if h.cache != nil {
		h.cache.Purge()
	}

	event := h.logger.Info().Str("run_id", model.Meta().RunID).Str("model", model.Meta().Name)
	if prev != nil {
		event = event.Str("previous_run_id", prev.Model().Meta().RunID)
	}
	event.Msg("Serving model")
}

// ReloadModel loads artifact and serves it. On failure the current model
// stays in place.
func (h *Handler) ReloadModel(ctx context.Context, artifact string) (err error) {
	defer func() { metrics.RecordModelReload(err) }()

	if h.loader == nil {
		return fmt.Errorf("reload %s: no model loader configured", artifact)
	}
	model, err := h.loader.Load(ctx, artifact)
	if err != nil {
		return fmt.Errorf("reload %s: %w", artifact, err)
	}
	h.SetModel(model)
	return nil
}

// RecommendationResponse is the data of the v1 recommendation endpoints.
type RecommendationResponse struct {
	PlayerID string   `json:"player_id"`
	Games    []string `json:"games"`
	K        int      `json:"k"`
	Model    string   `json:"model"`
	RunID    string   `json:"run_id"`
	Cold     bool     `json:"cold"`
	Cached   bool     `json:"cached"`
}

// recommend answers req from the cache or the served model.
func (h *Handler) recommend(ctx context.Context, req *RecommendationRequest) (*RecommendationResponse, error) {
	rec := h.holder.Load()
	if rec == nil {
		return nil, errNoModel
	}
	model := rec.Model()
	meta := model.Meta()

	resp := &RecommendationResponse{
		PlayerID: req.PlayerID,
		K:        req.K,
		Model:    meta.Name,
		RunID:    meta.RunID,
		Cold:     !model.IDMap().HasPlayer(req.PlayerID),
	}

	if h.cache != nil {
		if games, ok := h.cache.Get(meta.RunID, req.PlayerID, req.K); ok {
			resp.Games = games
			resp.Cached = true
			return resp, nil
		}
	}

	games, err := rec.Recommend(ctx, req.PlayerID, req.K)
	if err != nil {
		return nil, err
	}
	if h.cache != nil {
		h.cache.Add(meta.RunID, req.PlayerID, req.K, games)
	}
	resp.Games = games
	return resp, nil
}
