// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import (
	"errors"
	"testing"
	"time"
)

func TestNewTrainedModel_Mismatch(t *testing.T) {
	t.Parallel()

	records := []InteractionRecord{rec("P1", "G1", day(time.May, 1))}
	idmap := FitIdentifierMapFromRecords(records)
	params := &fixedModel{scores: [][]float64{{1}}, games: 1}

	tests := []struct {
		name    string
		params  *fixedModel
		records []InteractionRecord
	}{
		{"shape differs", &fixedModel{scores: [][]float64{{1, 2}}, games: 2}, records},
		{"record outside vocabulary", params, append(records, rec("P2", "G1", day(time.May, 2)))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewTrainedModel(ModelMeta{Name: "m"}, tt.params, idmap, DefaultHyperparameters(), tt.records)
			if !errors.Is(err, ErrArtifactMismatch) {
				t.Fatalf("NewTrainedModel() error = %v, want ErrArtifactMismatch", err)
			}
			var mismatch *ArtifactMismatchError
			if !errors.As(err, &mismatch) || mismatch.Artifact != "m" {
				t.Errorf("error = %#v", mismatch)
			}
		})
	}
}

func TestTrainedModel_Accessors(t *testing.T) {
	t.Parallel()

	model := recommendFixture(t)
	info := model.Info()
	if info.Players != 2 || info.Games != 5 || info.Records != 5 || info.RunID != "test-run" {
		t.Errorf("Info() = %+v", info)
	}

	g4, _ := model.IDMap().GameIndex("G4")
	if !model.IsThirdParty(g4) {
		t.Error("IsThirdParty(G4) = false, want true")
	}
	if model.IsThirdParty(99) || model.IsThirdParty(-1) {
		t.Error("IsThirdParty() of an unknown index = true, want false")
	}

	recs := model.Records()
	recs[0].PlayerID = "mutated"
	if model.Records()[0].PlayerID != "P1" {
		t.Error("Records() exposes internal state")
	}
}
