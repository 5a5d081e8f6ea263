// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

// Package logging provides the zerolog-based global logger used across GAdvi.
//
// The package is initialized with defaults at import time so that logging works
// before configuration is loaded. Commands call Init once the config is known:
//
//	logging.Init(logging.Config{
//	    Level:  cfg.Logging.Level,
//	    Format: cfg.Logging.Format,
//	})
//
//	logging.Info().Str("dataset", name).Msg("Training started")
//
// Components derive child loggers rather than writing to the global directly:
//
//	logger := logging.Component("extract")
//
// Request-scoped logging goes through Ctx, which attaches the request ID
// stored by the API middleware:
//
//	logging.Ctx(r.Context()).Warn().Msg("model not loaded")
//
// NewSlogLogger bridges the global logger to log/slog for libraries that
// expect one (sutureslog, watermill).
package logging
