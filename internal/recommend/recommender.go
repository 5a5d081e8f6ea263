// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gadvi/internal/logging"
	"github.com/tomtom215/gadvi/internal/metrics"
)

// Recommendation outcomes as recorded in metrics.
const (
	OutcomeServed = "served"
	OutcomeCold   = "cold"
	OutcomeError  = "error"
)

// Recommend returns up to k games for playerID, best first. Games the player
// already played in training and third-party games are never returned. An
// unknown player or k <= 0 yields an empty, non-nil list.
func Recommend(model *TrainedModel, playerID string, k int) ([]string, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required")
	}
	if k <= 0 {
		return []string{}, nil
	}

	player, err := model.IDMap().PlayerIndex(playerID)
	if err != nil {
		return []string{}, nil //nolint:nilerr // cold players get an empty list
	}

	numGames := model.IDMap().NumGames()
	games := make([]int, numGames)
	for g := range games {
		games[g] = g
	}
	scores, err := model.Params().Score(player, games)
	if err != nil {
		return nil, fmt.Errorf("score player %q: %w", playerID, err)
	}

	history := model.History()
	out := make([]string, 0, k)
	for _, g := range rankByScore(scores) {
		if history.Has(player, g) || model.IsThirdParty(g) {
			continue
		}
		id, ok := model.IDMap().GameID(g)
		if !ok {
			return nil, fmt.Errorf("game index %d has no identifier", g)
		}
		out = append(out, id)
		if len(out) == k {
			break
		}
	}
	return out, nil
}

// Recommender serves recommendations from one trained model with logging
// and metrics. It is safe for concurrent use.
type Recommender struct {
	model  *TrainedModel
	logger zerolog.Logger
}

// NewRecommender creates a Recommender over model.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecommender(model *TrainedModel, logger zerolog.Logger) *Recommender {
	return &Recommender{
		model:  model,
		logger: logger.With().Str("component", "recommender").Logger(),
	}
}

// Model returns the served model.
func (r *Recommender) Model() *TrainedModel { return r.model }

// Recommend is the instrumented form of the package-level Recommend.
func (r *Recommender) Recommend(ctx context.Context, playerID string, k int) ([]string, error) {
	start := time.Now()

	games, err := Recommend(r.model, playerID, k)
	outcome := OutcomeServed
	switch {
	case err != nil:
		outcome = OutcomeError
	case !r.model.IDMap().HasPlayer(playerID):
		outcome = OutcomeCold
	}
	metrics.RecordRecommendation(outcome, time.Since(start))

	event := r.logger.Debug()
	if err != nil {
		event = r.logger.Error().Err(err)
	}
	if reqID := logging.RequestIDFromContext(ctx); reqID != "" {
		event = event.Str("request_id", reqID)
	}
	event.
		Str("player_id", playerID).
		Int("k", k).
		Int("returned", len(games)).
		Str("outcome", outcome).
		Dur("duration", time.Since(start)).
		Msg("recommendation")

	return games, err
}
