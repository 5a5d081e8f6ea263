// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

// Package algorithms implements the latent factor trainer behind the game
// recommender.
//
// The model is a hybrid factorization in the LightFM style: every player and
// every game is described by a set of active features (its identity feature
// plus optional categorical side features such as country or content class).
// An entity's latent representation is the sum of the embeddings of its
// features, and a player/game score is the dot product of the two
// representations plus both biases.
//
// # Loss
//
// Training optimizes a pairwise ranking objective over observed versus
// sampled unobserved pairs. Two negative sampling schedules are provided:
//
//   - warp: keep sampling until a negative violates the margin, weighting the
//     update by the log of the estimated rank of the positive (default)
//   - bpr: one uniformly sampled negative per positive, weighted by the
//     sigmoid of the score difference
//
// Updates use per-parameter adagrad step sizes.
//
// # Determinism
//
// A fit is single threaded and every random draw comes from a source seeded
// with FitParams.Seed, so identical inputs produce bit-identical models.
package algorithms
