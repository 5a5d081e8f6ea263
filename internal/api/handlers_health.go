// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the data of the health endpoints.
type HealthStatus struct {
	Status        string    `json:"status"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	RunID         string    `json:"run_id,omitempty"`
	TrainedAt     time.Time `json:"trained_at,omitempty"`
}

// HealthLive handles GET /health/live. It answers 200 while the process
// runs.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(HealthStatus{
		Status:        "alive",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	})
}

// HealthReady handles GET /health/ready. It answers 503 until a model is
// loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rec := h.holder.Load()
	if rec == nil {
		rw.ModelUnavailable()
		return
	}
	meta := rec.Model().Meta()
	rw.Success(HealthStatus{
		Status:        "ready",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		RunID:         meta.RunID,
		TrainedAt:     meta.TrainedAt,
	})
}
