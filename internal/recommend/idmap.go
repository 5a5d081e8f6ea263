// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

// vocabulary maps raw keys to dense indices in first-seen order and keeps
// the direct index->key array for the reverse direction.
type vocabulary struct {
	index map[string]int
	ids   []string
}

func newVocabulary(capacity int) vocabulary {
	return vocabulary{
		index: make(map[string]int, capacity),
		ids:   make([]string, 0, capacity),
	}
}

func (v *vocabulary) add(id string) {
	if _, ok := v.index[id]; ok {
		return
	}
	v.index[id] = len(v.ids)
	v.ids = append(v.ids, id)
}

// IdentifierMap is the bidirectional mapping between raw player/game keys and
// dense indices for one training run. It is immutable after fit.
type IdentifierMap struct {
	players vocabulary
	games   vocabulary
}

// FitIdentifierMap assigns indices in first-seen order. Duplicates keep the
// index of their first occurrence.
func FitIdentifierMap(playerIDs, gameIDs []string) *IdentifierMap {
	m := &IdentifierMap{
		players: newVocabulary(len(playerIDs)),
		games:   newVocabulary(len(gameIDs)),
	}
	for _, id := range playerIDs {
		m.players.add(id)
	}
	for _, id := range gameIDs {
		m.games.add(id)
	}
	return m
}

// FitIdentifierMapFromRecords registers players and games in record order.
func FitIdentifierMapFromRecords(records []InteractionRecord) *IdentifierMap {
	m := &IdentifierMap{
		players: newVocabulary(0),
		games:   newVocabulary(0),
	}
	for i := range records {
		m.players.add(records[i].PlayerID)
		m.games.add(records[i].GameName)
	}
	return m
}

// NumPlayers returns the size of the player vocabulary.
func (m *IdentifierMap) NumPlayers() int { return len(m.players.ids) }

// NumGames returns the size of the game vocabulary.
func (m *IdentifierMap) NumGames() int { return len(m.games.ids) }

// PlayerIndex returns the dense index of a player.
func (m *IdentifierMap) PlayerIndex(id string) (int, error) {
	idx, ok := m.players.index[id]
	if !ok {
		return -1, &UnknownIdentifierError{Kind: KindPlayer, ID: id}
	}
	return idx, nil
}

// GameIndex returns the dense index of a game.
func (m *IdentifierMap) GameIndex(id string) (int, error) {
	idx, ok := m.games.index[id]
	if !ok {
		return -1, &UnknownIdentifierError{Kind: KindGame, ID: id}
	}
	return idx, nil
}

// HasPlayer reports whether the player is registered.
func (m *IdentifierMap) HasPlayer(id string) bool {
	_, ok := m.players.index[id]
	return ok
}

// HasGame reports whether the game is registered.
func (m *IdentifierMap) HasGame(id string) bool {
	_, ok := m.games.index[id]
	return ok
}

// PlayerID resolves a dense index back to the player key.
func (m *IdentifierMap) PlayerID(idx int) (string, bool) {
	if idx < 0 || idx >= len(m.players.ids) {
		return "", false
	}
	return m.players.ids[idx], true
}

// GameID resolves a dense index back to the game key.
func (m *IdentifierMap) GameID(idx int) (string, bool) {
	if idx < 0 || idx >= len(m.games.ids) {
		return "", false
	}
	return m.games.ids[idx], true
}

// Players returns a copy of the player keys in index order.
func (m *IdentifierMap) Players() []string {
	return append([]string(nil), m.players.ids...)
}

// Games returns a copy of the game keys in index order.
func (m *IdentifierMap) Games() []string {
	return append([]string(nil), m.games.ids...)
}
