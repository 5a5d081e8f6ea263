// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

/*
Package api serves game recommendations over HTTP.

# Routes

	GET /                                          model info
	GET /predict?playerid=                         recommendations, legacy shape
	GET /api/v1/model                              model info
	GET /api/v1/recommendations?playerid=&k=       recommendations
	GET /api/v1/players/{playerID}/recommendations recommendations
	GET /health/live                               process is up
	GET /health/ready                              a model is loaded
	GET /metrics                                   Prometheus metrics

# Responses

Every JSON endpoint answers with the same envelope:

	{
	  "success": true,
	  "data": {...},
	  "error": {"code": "...", "message": "...", "details": {...}, "request_id": "..."},
	  "metadata": {"request_id": "...", "timestamp": "...", "duration_ms": 0}
	}

Error codes:
  - MISSING_PARAMETER (400): playerid absent
  - VALIDATION_ERROR (400): k is not an integer in [1, max_k]
  - MODEL_UNAVAILABLE (503): no model loaded yet
  - NOT_FOUND (404), METHOD_NOT_ALLOWED (405), TOO_MANY_REQUESTS (429),
    INTERNAL_ERROR (500)

Unknown players are not an error: they get an empty list.

# Middleware

Chi router with request IDs tied into the logging context, real IP
extraction, panic recovery, go-chi/cors, go-chi/httprate rate limiting on
the API routes and per-route Prometheus instrumentation.

# Model reloads

Handler.ReloadModel loads an artifact through the configured ModelLoader and
swaps the served model atomically. Requests in flight finish on the model
they started with. The response cache is keyed by model run, so stale lists
are never served after a swap.
*/
package api
