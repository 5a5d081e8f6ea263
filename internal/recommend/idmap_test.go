// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import (
	"errors"
	"testing"
)

func TestFitIdentifierMap_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	m := FitIdentifierMap([]string{"p2", "p1", "p2"}, []string{"g3", "g1", "g3", "g2"})

	if m.NumPlayers() != 2 || m.NumGames() != 3 {
		t.Fatalf("shape = %dx%d, want 2x3", m.NumPlayers(), m.NumGames())
	}

	tests := []struct {
		id   string
		want int
	}{
		{"g3", 0},
		{"g1", 1},
		{"g2", 2},
	}
	for _, tt := range tests {
		got, err := m.GameIndex(tt.id)
		if err != nil {
			t.Fatalf("GameIndex(%q) error = %v", tt.id, err)
		}
		if got != tt.want {
			t.Errorf("GameIndex(%q) = %d, want %d", tt.id, got, tt.want)
		}
		id, ok := m.GameID(got)
		if !ok || id != tt.id {
			t.Errorf("GameID(%d) = %q, %v; want %q", got, id, ok, tt.id)
		}
	}
}

func TestIdentifierMap_Unknown(t *testing.T) {
	t.Parallel()

	m := FitIdentifierMap([]string{"p1"}, []string{"g1"})

	idx, err := m.PlayerIndex("nobody")
	if idx != -1 {
		t.Errorf("PlayerIndex() = %d, want -1", idx)
	}
	if !errors.Is(err, ErrUnknownIdentifier) {
		t.Fatalf("PlayerIndex() error = %v, want ErrUnknownIdentifier", err)
	}
	var unknown *UnknownIdentifierError
	if !errors.As(err, &unknown) || unknown.Kind != KindPlayer || unknown.ID != "nobody" {
		t.Errorf("error = %#v, want player nobody", unknown)
	}

	if _, err := m.GameIndex("missing"); !errors.Is(err, ErrUnknownIdentifier) {
		t.Errorf("GameIndex() error = %v, want ErrUnknownIdentifier", err)
	}
	if _, ok := m.GameID(5); ok {
		t.Error("GameID(5) ok = true, want false")
	}
	if _, ok := m.PlayerID(-1); ok {
		t.Error("PlayerID(-1) ok = true, want false")
	}
}

func TestIdentifierMap_Bijection(t *testing.T) {
	t.Parallel()

	records := []InteractionRecord{
		rec("a", "x", day(1, 1)),
		rec("b", "y", day(1, 2)),
		rec("a", "z", day(1, 3)),
		rec("c", "x", day(1, 4)),
	}
	m := FitIdentifierMapFromRecords(records)

	for i, id := range m.Players() {
		got, err := m.PlayerIndex(id)
		if err != nil || got != i {
			t.Errorf("PlayerIndex(%q) = %d, %v; want %d", id, got, err, i)
		}
	}
	for i, id := range m.Games() {
		got, err := m.GameIndex(id)
		if err != nil || got != i {
			t.Errorf("GameIndex(%q) = %d, %v; want %d", id, got, err, i)
		}
	}
}

func TestIdentifierMap_CopiesAreIndependent(t *testing.T) {
	t.Parallel()

	m := FitIdentifierMap([]string{"p1"}, []string{"g1"})
	games := m.Games()
	games[0] = "changed"

	if id, _ := m.GameID(0); id != "g1" {
		t.Errorf("GameID(0) = %q after mutating copy, want g1", id)
	}
}
