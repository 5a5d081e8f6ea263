// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/gadvi/internal/metrics"
	"github.com/tomtom215/gadvi/internal/recommend"
)

func TestPredict(t *testing.T) {
	t.Parallel()

	model := trainModel(t, "")
	_, router := newTestServer(t, model, nil)

	w, env := do(t, router, "/predict?playerid=P1")
	if w.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var data map[string][]string
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	games, ok := data["P1"]
	if !ok {
		t.Fatalf("data = %v, want key P1", data)
	}
	if len(games) != 3 {
		t.Errorf("len(games) = %d, want 3", len(games))
	}
	for _, g := range games {
		switch g {
		case "blackjack", "roulette":
			t.Errorf("recommended already played game %q", g)
		case "slots-3p":
			t.Errorf("recommended third-party game %q", g)
		}
	}
}

func TestPredict_Errors(t *testing.T) {
	t.Parallel()

	model := trainModel(t, "")
	_, withModel := newTestServer(t, model, nil)
	_, empty := newTestServer(t, nil, nil)

	tests := []struct {
		name       string
		router     http.Handler
		target     string
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"missing player", withModel, "/predict", http.StatusBadRequest, ErrCodeMissingParameter, "Required parameter is missing"},
		{"empty player", withModel, "/predict?playerid=", http.StatusBadRequest, ErrCodeMissingParameter, "Required parameter is missing"},
		{"non-numeric k", withModel, "/predict?playerid=P1&k=abc", http.StatusBadRequest, ErrCodeValidation, "k must be an integer"},
		{"k too large", withModel, "/predict?playerid=P1&k=11", http.StatusBadRequest, ErrCodeValidation, "k must be at most 10"},
		{"k zero", withModel, "/predict?playerid=P1&k=0", http.StatusBadRequest, ErrCodeValidation, "k must be at least 1"},
		{"no model", empty, "/predict?playerid=P1", http.StatusServiceUnavailable, ErrCodeModelUnavailable, "No model is loaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, env := do(t, tt.router, tt.target)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if env.Success || env.Error == nil {
				t.Fatalf("expected error envelope, got %s", w.Body.String())
			}
			if env.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Error.Code, tt.wantCode)
			}
			if env.Error.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", env.Error.Message, tt.wantMsg)
			}
			if env.Error.RequestID == "" {
				t.Error("error has no request_id")
			}
		})
	}
}

func TestRecommendations_ColdPlayer(t *testing.T) {
	t.Parallel()

	_, router := newTestServer(t, trainModel(t, ""), nil)

	w, env := do(t, router, "/api/v1/recommendations?playerid=nobody&k=5")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp RecommendationResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if resp.Games == nil || len(resp.Games) != 0 {
		t.Errorf("games = %#v, want empty non-nil list", resp.Games)
	}
	if !resp.Cold {
		t.Error("cold = false, want true")
	}
	if !strings.Contains(string(env.Data), `"games":[]`) {
		t.Errorf("data = %s, want games encoded as []", env.Data)
	}
}

func TestPlayerRecommendations_Cache(t *testing.T) {
	t.Parallel()

	model := trainModel(t, "")
	_, router := newTestServer(t, model, nil)

	var first, second RecommendationResponse
	for i, dst := range []*RecommendationResponse{&first, &second} {
		w, env := do(t, router, "/api/v1/players/P3/recommendations?k=2")
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
		if err := json.Unmarshal(env.Data, dst); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}

	if first.Cached {
		t.Error("first response cached = true")
	}
	if !second.Cached {
		t.Error("second response cached = false")
	}
	if strings.Join(first.Games, ",") != strings.Join(second.Games, ",") {
		t.Errorf("cached games %v differ from %v", second.Games, first.Games)
	}
	if first.RunID != model.Meta().RunID || first.K != 2 || first.PlayerID != "P3" {
		t.Errorf("response = %+v", first)
	}
	if len(first.Games) > 2 {
		t.Errorf("len(games) = %d, want <= 2", len(first.Games))
	}
}

func TestInfoAndModel(t *testing.T) {
	t.Parallel()

	_, empty := newTestServer(t, nil, nil)
	w, env := do(t, empty, "/")
	if w.Code != http.StatusOK || string(env.Data) != `{"name":"lightFM"}` {
		t.Errorf("GET / without model = %d %s", w.Code, env.Data)
	}
	if w, _ := do(t, empty, "/api/v1/model"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /api/v1/model without model = %d, want 503", w.Code)
	}

	model := trainModel(t, "ranker")
	_, router := newTestServer(t, model, nil)
	_, env = do(t, router, "/")
	if string(env.Data) != `{"name":"ranker"}` {
		t.Errorf("GET / = %s, want served model name", env.Data)
	}

	w, env = do(t, router, "/api/v1/model")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/model = %d", w.Code)
	}
	var info map[string]interface{}
	if err := json.Unmarshal(env.Data, &info); err != nil {
		t.Fatalf("decode model info: %v", err)
	}
	if info["artifact"] != "model_ranker_4_warp" {
		t.Errorf("artifact = %v, want model_ranker_4_warp", info["artifact"])
	}
	if info["run_id"] != model.Meta().RunID {
		t.Errorf("run_id = %v, want %s", info["run_id"], model.Meta().RunID)
	}
	if info["players"] != float64(5) || info["games"] != float64(7) {
		t.Errorf("players/games = %v/%v, want 5/7", info["players"], info["games"])
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	h, router := newTestServer(t, nil, nil)

	if w, env := do(t, router, "/health/live"); w.Code != http.StatusOK || !env.Success {
		t.Errorf("live = %d", w.Code)
	}
	if w, env := do(t, router, "/health/ready"); w.Code != http.StatusServiceUnavailable || env.Error.Code != ErrCodeModelUnavailable {
		t.Errorf("ready without model = %d", w.Code)
	}

	h.SetModel(trainModel(t, ""))
	w, env := do(t, router, "/health/ready")
	if w.Code != http.StatusOK {
		t.Fatalf("ready with model = %d", w.Code)
	}
	var status HealthStatus
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Status != "ready" || status.RunID == "" {
		t.Errorf("status = %+v", status)
	}
}

func TestReloadModel(t *testing.T) {
	first := trainModel(t, "")
	second := trainModel(t, "")
	loader := &fakeLoader{models: map[string]*recommend.TrainedModel{"next": second}}

	h, router := newTestServer(t, first, loader)

	// Warm the cache under the first run.
	do(t, router, "/api/v1/recommendations?playerid=P1")

	success := testutil.ToFloat64(metrics.ModelReloadsTotal.WithLabelValues("success"))
	failure := testutil.ToFloat64(metrics.ModelReloadsTotal.WithLabelValues("error"))

	if err := h.ReloadModel(context.Background(), "missing"); err == nil {
		t.Fatal("ReloadModel(missing) error = nil")
	}
	if got := h.holder.Load().Model(); got != first {
		t.Error("failed reload replaced the served model")
	}

	if err := h.ReloadModel(context.Background(), "next"); err != nil {
		t.Fatalf("ReloadModel(next) error = %v", err)
	}
	if got := h.holder.Load().Model(); got != second {
		t.Error("reload did not swap the served model")
	}

	_, env := do(t, router, "/api/v1/recommendations?playerid=P1")
	var resp RecommendationResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Cached {
		t.Error("response after reload was served from the previous model's cache")
	}
	if resp.RunID != second.Meta().RunID {
		t.Errorf("run_id = %s, want %s", resp.RunID, second.Meta().RunID)
	}

	if got := testutil.ToFloat64(metrics.ModelReloadsTotal.WithLabelValues("success")) - success; got != 1 {
		t.Errorf("successful reloads delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.ModelReloadsTotal.WithLabelValues("error")) - failure; got != 1 {
		t.Errorf("failed reloads delta = %v, want 1", got)
	}
}

func TestReloadModel_NoLoader(t *testing.T) {
	t.Parallel()

	h, _ := newTestServer(t, nil, nil)
	if err := h.ReloadModel(context.Background(), "any"); err == nil {
		t.Error("ReloadModel() without loader error = nil")
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	t.Parallel()

	_, router := newTestServer(t, nil, nil)

	w, env := do(t, router, "/nope")
	if w.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("GET /nope = %d %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodPost, "/predict?playerid=P1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed || !strings.Contains(rec.Body.String(), ErrCodeMethodNotAllowed) {
		t.Errorf("POST /predict = %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	_, router := newTestServer(t, trainModel(t, ""), nil)
	do(t, router, "/api/v1/players/P1/recommendations")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `route="/api/v1/players/{playerID}/recommendations"`) {
		t.Error("metrics do not label requests by route pattern")
	}
}
