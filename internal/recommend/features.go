// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import (
	"fmt"

	"github.com/tomtom215/gadvi/internal/recommend/algorithms"
)

// ConflictPolicy decides which category an entity keeps when records
// disagree (a player seen with two countries, a game with two classes).
type ConflictPolicy string

const (
	// ConflictLastWins keeps the value of the last record encountered.
	ConflictLastWins ConflictPolicy = "last-wins"

	// ConflictFirstWins keeps the value of the first record encountered.
	ConflictFirstWins ConflictPolicy = "first-wins"

	// ConflictReject fails the build with a FeatureConflictError.
	ConflictReject ConflictPolicy = "reject"
)

// ParseConflictPolicy validates a policy name. The empty string selects
// last-wins.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch ConflictPolicy(s) {
	case "":
		return ConflictLastWins, nil
	case ConflictLastWins, ConflictFirstWins, ConflictReject:
		return ConflictPolicy(s), nil
	default:
		return "", fmt.Errorf("unsupported conflict policy %q", s)
	}
}

// FeatureAttachment attaches at most one categorical value to each entity of
// a vocabulary. Categories are indexed in first-seen order.
type FeatureAttachment struct {
	kind       IdentifierKind
	policy     ConflictPolicy
	categories []string
	catIndex   map[string]int
	assigned   []int
}

func newFeatureAttachment(kind IdentifierKind, entities int, policy ConflictPolicy) *FeatureAttachment {
	assigned := make([]int, entities)
	for i := range assigned {
		assigned[i] = -1
	}
	if policy == "" {
		policy = ConflictLastWins
	}
	return &FeatureAttachment{
		kind:     kind,
		policy:   policy,
		catIndex: make(map[string]int),
		assigned: assigned,
	}
}

// assign records value for entity according to the policy. id is only used
// to report conflicts.
func (f *FeatureAttachment) assign(entity int, id, value string) error {
	cat, ok := f.catIndex[value]
	if !ok {
		cat = len(f.categories)
		f.catIndex[value] = cat
		f.categories = append(f.categories, value)
	}

	current := f.assigned[entity]
	if current < 0 || current == cat {
		f.assigned[entity] = cat
		return nil
	}

	switch f.policy {
	case ConflictFirstWins:
		return nil
	case ConflictReject:
		return &FeatureConflictError{
			Kind:     f.kind,
			ID:       id,
			Existing: f.categories[current],
			Incoming: value,
		}
	default:
		f.assigned[entity] = cat
		return nil
	}
}

// Kind returns the vocabulary the attachment belongs to.
func (f *FeatureAttachment) Kind() IdentifierKind { return f.kind }

// Policy returns the conflict policy the attachment was built with.
func (f *FeatureAttachment) Policy() ConflictPolicy { return f.policy }

// NumEntities returns the number of entity rows.
func (f *FeatureAttachment) NumEntities() int { return len(f.assigned) }

// Categories returns a copy of the category vocabulary in index order.
func (f *FeatureAttachment) Categories() []string {
	return append([]string(nil), f.categories...)
}

// Category returns the value attached to entity, if any.
func (f *FeatureAttachment) Category(entity int) (string, bool) {
	if entity < 0 || entity >= len(f.assigned) || f.assigned[entity] < 0 {
		return "", false
	}
	return f.categories[f.assigned[entity]], true
}

// FeatureRows returns trainer feature rows aligned with the entity index:
// identity feature i for entity i, plus column NumEntities+category when a
// category is attached.
func (f *FeatureAttachment) FeatureRows() *algorithms.FeatureRows {
	n := len(f.assigned)
	rows := make([][]int, n)
	for i, cat := range f.assigned {
		if cat < 0 {
			rows[i] = []int{i}
			continue
		}
		rows[i] = []int{i, n + cat}
	}
	return &algorithms.FeatureRows{NumFeatures: n + len(f.categories), Rows: rows}
}
