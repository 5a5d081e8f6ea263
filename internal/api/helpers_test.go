// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/gadvi/internal/cache"
	"github.com/tomtom215/gadvi/internal/recommend"
	"github.com/tomtom215/gadvi/internal/recommend/algorithms"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func record(player, game, class string) recommend.InteractionRecord {
	return recommend.InteractionRecord{
		PlayerID:     player,
		GameName:     game,
		RoundCount:   3,
		ContentClass: class,
		Country:      "MT",
		Operator:     "op",
		PlayDate:     time.Date(2019, time.November, 1, 0, 0, 0, 0, time.UTC),
	}
}

// trainRecords has five players over six games; "slots-3p" is third party.
func trainRecords() []recommend.InteractionRecord {
	var records []recommend.InteractionRecord
	plays := map[string][]string{
		"P1": {"blackjack", "roulette"},
		"P2": {"blackjack", "poker", "slots"},
		"P3": {"roulette", "poker", "bingo"},
		"P4": {"slots", "bingo", "keno"},
		"P5": {"keno", "blackjack"},
	}
	for player, games := range plays {
		for _, g := range games {
			records = append(records, record(player, g, "1st Party"))
		}
	}
	return append(records, record("P2", "slots-3p", "3rd Party"))
}

// trainModel fits a small real model.
func trainModel(t *testing.T, name string) *recommend.TrainedModel {
	t.Helper()

	cfg := recommend.DefaultConfig()
	if name != "" {
		cfg.Name = name
	}
	cfg.Hyperparameters.Epochs = 5
	cfg.Hyperparameters.Dimensions = 4
	engine, err := recommend.NewEngine(cfg, algorithms.NewFactorizer(testLogger(), time.Second), testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	model, err := engine.Train(context.Background(), trainRecords())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	return model
}

// fakeLoader serves models by artifact name.
type fakeLoader struct {
	models map[string]*recommend.TrainedModel
}

func (l *fakeLoader) Load(_ context.Context, name string) (*recommend.TrainedModel, error) {
	m, ok := l.models[name]
	if !ok {
		return nil, fmt.Errorf("artifact %s not found", name)
	}
	return m, nil
}

// newTestServer returns a router over a handler serving model, which may be
// nil.
func newTestServer(t *testing.T, model *recommend.TrainedModel, loader ModelLoader) (*Handler, http.Handler) {
	t.Helper()

	h := NewHandler(&recommend.Holder{}, cache.NewRecommendations(100, time.Minute), loader,
		HandlerConfig{Name: "lightFM", DefaultK: 3, MaxK: 10}, testLogger())
	if model != nil {
		h.SetModel(model)
	}
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return h, NewRouter(h, cfg).SetupChi()
}

// envelope mirrors APIResponse with raw data for per-test decoding.
type envelope struct {
	Success  bool            `json:"success"`
	Data     json.RawMessage `json:"data"`
	Error    *APIError       `json:"error"`
	Metadata *APIMeta        `json:"metadata"`
}

func do(t *testing.T, handler http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s response %q: %v", target, w.Body.String(), err)
	}
	return w, env
}
