// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import (
	"context"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/gadvi/internal/metrics"
)

func TestRecommend(t *testing.T) {
	t.Parallel()

	model := recommendFixture(t)

	tests := []struct {
		name   string
		player string
		k      int
		want   []string
	}{
		{"filters history and third party", "P1", 3, []string{"G2", "G5"}},
		{"stops at k", "P1", 1, []string{"G2"}},
		{"other player", "P2", 5, []string{"G1", "G3"}},
		{"cold player", "nobody", 3, []string{}},
		{"zero k", "P1", 0, []string{}},
		{"negative k", "P1", -2, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Recommend(model, tt.player, tt.k)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if got == nil {
				t.Fatal("Recommend() = nil, want non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Recommend(%q, %d) = %v, want %v", tt.player, tt.k, got, tt.want)
			}
		})
	}
}

func TestRecommend_NeverReturnsSeenOrThirdParty(t *testing.T) {
	t.Parallel()

	models := map[string]*TrainedModel{
		"fixture":          recommendFixture(t),
		"mixed last-wins":  mixedClassFixture(t, ConflictLastWins),
		"mixed first-wins": mixedClassFixture(t, ConflictFirstWins),
	}
	for name, model := range models {
		for _, player := range model.IDMap().Players() {
			got, err := Recommend(model, player, model.IDMap().NumGames())
			if err != nil {
				t.Fatalf("%s: Recommend(%q) error = %v", name, player, err)
			}
			assertServable(t, model, player, got)
		}
	}
}

func TestRecommend_MixedClassGameExcluded(t *testing.T) {
	t.Parallel()

	policies := []ConflictPolicy{ConflictLastWins, ConflictFirstWins, ConflictReject}
	for _, policy := range policies {
		t.Run(string(policy), func(t *testing.T) {
			t.Parallel()

			model := mixedClassFixture(t, policy)
			got, err := Recommend(model, "P1", 3)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if want := []string{"G3"}; !reflect.DeepEqual(got, want) {
				t.Errorf("Recommend(P1, 3) = %v, want %v", got, want)
			}
		})
	}
}

func TestRecommender_RecordsOutcome(t *testing.T) {
	model := recommendFixture(t)
	r := NewRecommender(model, testLogger())

	cold := metrics.RecommendationsTotal.WithLabelValues(OutcomeCold)
	before := testutil.ToFloat64(cold)

	got, err := r.Recommend(context.Background(), "stranger", 3)
	if err != nil || len(got) != 0 {
		t.Fatalf("Recommend() = %v, %v; want [] nil", got, err)
	}
	if delta := testutil.ToFloat64(cold) - before; delta != 1 {
		t.Errorf("cold counter delta = %v, want 1", delta)
	}
}

func TestHolder(t *testing.T) {
	t.Parallel()

	var h Holder
	if h.Ready() || h.Load() != nil {
		t.Fatal("zero Holder reports a model")
	}

	first := NewRecommender(recommendFixture(t), testLogger())
	if prev := h.Store(first); prev != nil {
		t.Errorf("Store() previous = %v, want nil", prev)
	}
	second := NewRecommender(recommendFixture(t), testLogger())
	if prev := h.Store(second); prev != first {
		t.Error("Store() did not return the replaced recommender")
	}
	if !h.Ready() || h.Load() != second {
		t.Error("Load() did not return the latest recommender")
	}
}
