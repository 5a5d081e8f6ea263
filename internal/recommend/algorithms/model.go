// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package algorithms

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// FactorModel is the fitted hybrid factorization produced by Factorizer.
//
// Feature embeddings are stored flat with a stride of dims. Entity
// representations are precomputed once so scoring is a dot product per game.
type FactorModel struct {
	dims int
	loss Loss

	userFeatures *FeatureRows
	itemFeatures *FeatureRows

	userEmbeddings []float64
	itemEmbeddings []float64
	userBiases     []float64
	itemBiases     []float64

	userRepr     []float64
	userReprBias []float64
	itemRepr     []float64
	itemReprBias []float64
}

func newFactorModel(dims int, loss Loss, userFeatures, itemFeatures *FeatureRows) *FactorModel {
	return &FactorModel{
		dims:           dims,
		loss:           loss,
		userFeatures:   userFeatures,
		itemFeatures:   itemFeatures,
		userEmbeddings: make([]float64, userFeatures.NumFeatures*dims),
		itemEmbeddings: make([]float64, itemFeatures.NumFeatures*dims),
		userBiases:     make([]float64, userFeatures.NumFeatures),
		itemBiases:     make([]float64, itemFeatures.NumFeatures),
	}
}

// NumPlayers returns the number of player rows the model can score.
func (m *FactorModel) NumPlayers() int { return len(m.userFeatures.Rows) }

// NumGames returns the number of game columns the model can score.
func (m *FactorModel) NumGames() int { return len(m.itemFeatures.Rows) }

// Dimensions returns the latent dimensionality.
func (m *FactorModel) Dimensions() int { return m.dims }

// Loss returns the sampling schedule the model was fitted with.
func (m *FactorModel) Loss() Loss { return m.loss }

// Score returns the score of each requested game for player.
func (m *FactorModel) Score(player int, games []int) ([]float64, error) {
	if player < 0 || player >= m.NumPlayers() {
		return nil, fmt.Errorf("player %d: %w", player, ErrIndexOutOfRange)
	}

	u := m.userRepr[player*m.dims : (player+1)*m.dims]
	ub := m.userReprBias[player]
	nGames := m.NumGames()

	scores := make([]float64, len(games))
	for n, g := range games {
		if g < 0 || g >= nGames {
			return nil, fmt.Errorf("game %d: %w", g, ErrIndexOutOfRange)
		}
		scores[n] = dot(u, m.itemRepr[g*m.dims:(g+1)*m.dims]) + ub + m.itemReprBias[g]
	}
	return scores, nil
}

// finalize caches the summed entity representations.
func (m *FactorModel) finalize() {
	m.userRepr, m.userReprBias = representations(m.userFeatures, m.userEmbeddings, m.userBiases, m.dims)
	m.itemRepr, m.itemReprBias = representations(m.itemFeatures, m.itemEmbeddings, m.itemBiases, m.dims)
}

func representations(features *FeatureRows, embeddings, biases []float64, dims int) ([]float64, []float64) {
	repr := make([]float64, len(features.Rows)*dims)
	bias := make([]float64, len(features.Rows))
	for i, row := range features.Rows {
		sumInto(repr[i*dims:(i+1)*dims], &bias[i], row, embeddings, biases, dims)
	}
	return repr, bias
}

// sumInto writes the representation of an entity with the given active
// features into out, and its bias into bias.
func sumInto(out []float64, bias *float64, row []int, embeddings, biases []float64, dims int) {
	for k := range out {
		out[k] = 0
	}
	*bias = 0
	for _, f := range row {
		e := embeddings[f*dims : (f+1)*dims]
		for k := range out {
			out[k] += e[k]
		}
		*bias += biases[f]
	}
}

func dot(a, b []float64) float64 {
	var s float64
	for k := range a {
		s += a[k] * b[k]
	}
	return s
}

// factorSnapshot is the gob wire form of a FactorModel.
type factorSnapshot struct {
	Dims           int
	Loss           Loss
	UserFeatures   FeatureRows
	ItemFeatures   FeatureRows
	UserEmbeddings []float64
	ItemEmbeddings []float64
	UserBiases     []float64
	ItemBiases     []float64
}

// MarshalBinary encodes the model parameters with gob.
func (m *FactorModel) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	snap := factorSnapshot{
		Dims:           m.dims,
		Loss:           m.loss,
		UserFeatures:   *m.userFeatures,
		ItemFeatures:   *m.itemFeatures,
		UserEmbeddings: m.userEmbeddings,
		ItemEmbeddings: m.itemEmbeddings,
		UserBiases:     m.userBiases,
		ItemBiases:     m.itemBiases,
	}
	if err := gob.NewEncoder(&buf).Encode(&snap); err != nil {
		return nil, fmt.Errorf("encode factor model: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalModel decodes parameters produced by FactorModel.MarshalBinary.
func UnmarshalModel(data []byte) (*FactorModel, error) {
	var snap factorSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode factor model: %w", err)
	}
	if snap.Dims <= 0 {
		return nil, fmt.Errorf("decode factor model: invalid dimensions %d", snap.Dims)
	}

	userFeatures, itemFeatures := snap.UserFeatures, snap.ItemFeatures
	if err := userFeatures.validate("user", len(userFeatures.Rows)); err != nil {
		return nil, fmt.Errorf("decode factor model: %w", err)
	}
	if err := itemFeatures.validate("item", len(itemFeatures.Rows)); err != nil {
		return nil, fmt.Errorf("decode factor model: %w", err)
	}
	if len(snap.UserEmbeddings) != userFeatures.NumFeatures*snap.Dims ||
		len(snap.ItemEmbeddings) != itemFeatures.NumFeatures*snap.Dims ||
		len(snap.UserBiases) != userFeatures.NumFeatures ||
		len(snap.ItemBiases) != itemFeatures.NumFeatures {
		return nil, fmt.Errorf("decode factor model: parameter sizes do not match feature counts")
	}

	m := &FactorModel{
		dims:           snap.Dims,
		loss:           snap.Loss,
		userFeatures:   &userFeatures,
		itemFeatures:   &itemFeatures,
		userEmbeddings: snap.UserEmbeddings,
		itemEmbeddings: snap.ItemEmbeddings,
		userBiases:     snap.UserBiases,
		itemBiases:     snap.ItemBiases,
	}
	m.finalize()
	return m, nil
}
