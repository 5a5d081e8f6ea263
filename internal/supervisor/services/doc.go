// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

// Package services adapts the serve command's components to suture.Service.
//
//   - HTTPServerService: the recommendation API
//   - RetrainService: retrains on an interval and publishes the model
//   - ModelReloadService: reloads the served model on every publish
//
// The services depend on small interfaces (Retrainer, ModelPublisher,
// ModelReloader) so they can be tested without a real pipeline or server.
package services
