// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

// Package events carries model lifecycle events between the services of the
// serve process.
//
// The bus is an in-process Watermill GoChannel pub/sub. The retrain service
// publishes a ModelPublished event after it saves a new artifact, and a
// Watermill router delivers it to the reload handler, which swaps the model
// served over HTTP.
//
//	bus := events.NewBus(logging.NewSlogLogger())
//	router, err := events.NewRouter(bus, events.DefaultRouterConfig(), "reload", handler)
//	go router.Run(ctx)
//	err = bus.PublishModel(ctx, &events.ModelPublished{Artifact: name, RunID: runID})
//
// Payloads are JSON encoded with goccy/go-json. The router recovers handler
// panics and retries failed handlers with exponential backoff.
package events
