// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

// Package pipeline runs the batch stages of the recommender against an
// extract source, a data directory and an artifact store.
//
// The stages map to the command line:
//
//	prepare   extract → player subsample → temporal split → <dataset>_train.tsv, <dataset>_test.tsv
//	train     <dataset>_train.tsv → model → artifact, metrics on both partitions
//	evaluate  artifact + <dataset>_test.tsv → metrics
//
// Retrain runs all of them in memory in one call and returns the event that
// announces the new artifact. The serve command uses it on a timer.
package pipeline
