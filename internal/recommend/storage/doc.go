// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

// Package storage persists trained models as a triple of co-located blobs.
//
// # Storage Format
//
// A trained model is saved under an artifact name derived from its settings:
//
//	model_<name>_<dimensions>_<loss>
//
// and split into three blobs:
//
//	model_lightFM_10_warp.model    fitted parameters
//	model_lightFM_10_warp_dataset  vocabulary, hyperparameters and run metadata
//	model_lightFM_10_warp_data     training records
//
// Each blob is gob-encoded, gzip-compressed and wrapped in an envelope that
// carries the run ID and a SHA-256 checksum of the uncompressed payload.
//
// # Integrity
//
// Load refuses to assemble a model unless all three blobs exist, carry the
// same run ID, pass their checksum, and describe the same vocabulary. Every
// refusal is a *recommend.ArtifactMismatchError.
//
// # Backends
//
//   - FileBackend writes one file per blob. Writers of the same artifact are
//     serialized by an in-process mutex and an O_EXCL lock file holding the
//     writer's pid. A lock file older than StaleLockAge is left by a killed
//     save and is reclaimed by the next writer.
//   - BadgerBackend writes the three blobs in a single BadgerDB transaction.
//
// # Usage Example
//
//	backend, err := storage.NewFileBackend("/data/models")
//	store := storage.NewStore(backend, logger)
//
//	name, err := store.Save(ctx, model)
//	loaded, err := store.Load(ctx, name)
package storage
