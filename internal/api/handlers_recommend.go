// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/gadvi/internal/recommend"
	"github.com/tomtom215/gadvi/internal/recommend/storage"
)

// Info handles GET /. It reports the served model's name, or the
// configured name before a model is loaded.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	name := h.config.Name
	if rec := h.holder.Load(); rec != nil {
		name = rec.Model().Meta().Name
	}
	NewResponseWriter(w, r).Success(map[string]string{"name": name})
}

// ModelInfoResponse is the data of GET /api/v1/model.
type ModelInfoResponse struct {
	recommend.ModelInfo
	Artifact string `json:"artifact"`
}

// ModelInfo handles GET /api/v1/model.
func (h *Handler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rec := h.holder.Load()
	if rec == nil {
		rw.ModelUnavailable()
		return
	}
	model := rec.Model()
	info := model.Info()
	rw.Success(ModelInfoResponse{
		ModelInfo: info,
		Artifact:  storage.ArtifactNameOf(model),
	})
}

// Predict handles GET /predict?playerid=. The data is an object keyed by
// the player id.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	req, rerr := newRecommendationRequest(r, r.URL.Query().Get("playerid"), "playerid", h.config.DefaultK, h.config.MaxK)
	if rerr != nil {
		rerr.write(rw)
		return
	}

	resp, err := h.recommend(r.Context(), req)
	if err != nil {
		h.writeRecommendError(rw, err)
		return
	}
	rw.Success(map[string][]string{resp.PlayerID: resp.Games})
}

// Recommendations handles GET /api/v1/recommendations?playerid=&k=.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	h.serveRecommendations(w, r, r.URL.Query().Get("playerid"), "playerid")
}

// PlayerRecommendations handles GET /api/v1/players/{playerID}/recommendations.
func (h *Handler) PlayerRecommendations(w http.ResponseWriter, r *http.Request) {
	h.serveRecommendations(w, r, chi.URLParam(r, "playerID"), "playerID")
}

func (h *Handler) serveRecommendations(w http.ResponseWriter, r *http.Request, playerID, paramName string) {
	rw := NewResponseWriter(w, r)
	req, rerr := newRecommendationRequest(r, playerID, paramName, h.config.DefaultK, h.config.MaxK)
	if rerr != nil {
		rerr.write(rw)
		return
	}

	resp, err := h.recommend(r.Context(), req)
	if err != nil {
		h.writeRecommendError(rw, err)
		return
	}
	rw.Success(resp)
}

func (h *Handler) writeRecommendError(rw *ResponseWriter, err error) {
	if errors.Is(err, errNoModel) {
		rw.ModelUnavailable()
		return
	}
	rw.InternalError(err)
}
