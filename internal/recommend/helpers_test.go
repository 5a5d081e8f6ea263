// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/gadvi/internal/recommend/algorithms"
)

// testLogger returns a zerolog logger for testing.
func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func day(month time.Month, d int) time.Time {
	return time.Date(2019, month, d, 0, 0, 0, 0, time.UTC)
}

// rec builds a first-party record with one round.
func rec(player, game string, date time.Time) InteractionRecord {
	return InteractionRecord{
		PlayerID:     player,
		GameName:     game,
		RoundCount:   1,
		ContentClass: "1st Party",
		Country:      "MT",
		Operator:     "op",
		PlayDate:     date,
	}
}

// fixedModel scores games from a fixed table indexed [player][game].
type fixedModel struct {
	scores [][]float64
	games  int
}

func (m *fixedModel) Score(player int, games []int) ([]float64, error) {
	if player < 0 || player >= len(m.scores) {
		return nil, fmt.Errorf("player %d: %w", player, algorithms.ErrIndexOutOfRange)
	}
	out := make([]float64, len(games))
	for i, g := range games {
		if g < 0 || g >= m.games {
			return nil, fmt.Errorf("game %d: %w", g, algorithms.ErrIndexOutOfRange)
		}
		out[i] = m.scores[player][g]
	}
	return out, nil
}

func (m *fixedModel) NumPlayers() int                 { return len(m.scores) }
func (m *fixedModel) NumGames() int                   { return m.games }
func (m *fixedModel) Dimensions() int                 { return 1 }
func (m *fixedModel) Loss() algorithms.Loss           { return algorithms.LossWARP }
func (m *fixedModel) MarshalBinary() ([]byte, error) { return nil, fmt.Errorf("fixed model is not persistable") }

// newFixedModel assembles a TrainedModel over records whose parameters score
// by the given table. Rows missing from scores default to zero.
func newFixedModel(t *testing.T, records []InteractionRecord, scores map[string]map[string]float64) *TrainedModel {
	t.Helper()
	return newFixedModelWith(t, DefaultHyperparameters(), records, scores)
}

func newFixedModelWith(t *testing.T, hyper Hyperparameters, records []InteractionRecord, scores map[string]map[string]float64) *TrainedModel {
	t.Helper()

	idmap := FitIdentifierMapFromRecords(records)
	table := make([][]float64, idmap.NumPlayers())
	for p := range table {
		table[p] = make([]float64, idmap.NumGames())
		pid, _ := idmap.PlayerID(p)
		for g := range table[p] {
			gid, _ := idmap.GameID(g)
			table[p][g] = scores[pid][gid]
		}
	}

	model, err := NewTrainedModel(
		ModelMeta{Name: DefaultModelName, RunID: "test-run", TrainedAt: day(time.December, 31)},
		&fixedModel{scores: table, games: idmap.NumGames()},
		idmap,
		hyper,
		records,
	)
	if err != nil {
		t.Fatalf("NewTrainedModel() error = %v", err)
	}
	return model
}

// recommendFixture has P1 with history {G1,G3}, games ranked G1..G5 by score
// and G4 third party.
func recommendFixture(t *testing.T) *TrainedModel {
	t.Helper()

	third := rec("P2", "G4", day(time.November, 4))
	third.ContentClass = "3rd Party"
	records := []InteractionRecord{
		rec("P1", "G1", day(time.November, 1)),
		rec("P2", "G2", day(time.November, 2)),
		rec("P1", "G3", day(time.November, 3)),
		third,
		rec("P2", "G5", day(time.November, 5)),
	}
	ranked := map[string]float64{"G1": 5, "G2": 4, "G3": 3, "G4": 2, "G5": 1}
	return newFixedModel(t, records, map[string]map[string]float64{"P1": ranked, "P2": ranked})
}

// mixedClassFixture has G2 recorded once as third party and later as first
// party, and scores G2 highest for P1.
func mixedClassFixture(t *testing.T, policy ConflictPolicy) *TrainedModel {
	t.Helper()

	third := rec("P2", "G2", day(time.November, 2))
	third.ContentClass = "3rd Party"
	records := []InteractionRecord{
		rec("P1", "G1", day(time.November, 1)),
		third,
		rec("P3", "G2", day(time.November, 3)),
		rec("P3", "G3", day(time.November, 4)),
	}
	hyper := DefaultHyperparameters()
	hyper.ConflictPolicy = policy
	ranked := map[string]float64{"G2": 9, "G3": 5, "G1": 1}
	return newFixedModelWith(t, hyper, records, map[string]map[string]float64{"P1": ranked, "P2": ranked, "P3": ranked})
}

// assertServable fails when got holds a game the player already played or a
// game with any third party training record.
func assertServable(t *testing.T, model *TrainedModel, player string, got []string) {
	t.Helper()

	for _, game := range got {
		for _, r := range model.Records() {
			if r.GameName != game {
				continue
			}
			if r.PlayerID == player {
				t.Errorf("player %s got already played %s", player, game)
			}
			if class, err := ParseContentClass(r.ContentClass); err == nil && class == ThirdParty {
				t.Errorf("player %s got %s, which has a third party training record", player, game)
			}
		}
	}
}
