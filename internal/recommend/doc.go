// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

// Package recommend implements the offline pipeline and serving core of the
// game recommender.
//
// # Pipeline
//
// A run turns an activity extract into a trained model:
//
//   - Split: records before the held-out period train the model; records
//     inside it, restricted to the training vocabulary, test it.
//   - IdentifierMap: dense, first-seen indices for players and games, with a
//     direct index to id array for resolving ranked positions.
//   - BuildInteractions: sparse presence/weight matrix plus optional side
//     features (player country, game content class).
//   - Train: fits a latent factor model through algorithms.LatentFactorTrainer.
//   - Evaluate: precision@k, recall@k and exact AUC over players with at
//     least one positive.
//
// # Serving
//
// Recommend ranks every game for a known player, skips games already played
// in training and third-party games, and stops at k. Unknown players get an
// empty list. TrainedModel is immutable after construction, so a Recommender
// may be shared across goroutines; Holder swaps the served model atomically.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, algorithms.NewFactorizer(logger, 5*time.Second), logger)
//	report, err := engine.Run(ctx, records, recommend.MonthPeriod(2019, time.December))
//	games, err := recommend.Recommend(report.Model, "player-1", 3)
//
// # Determinism
//
// Every random draw (subsampling, initialization, negative sampling) takes
// an explicit seed. The factorizer runs single-threaded, so a fixed seed
// reproduces a model bit for bit. Evaluation is parallel but reduces results
// in player order.
package recommend
