// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/gadvi/internal/recommend"
)

// TopicModelPublished is the topic of ModelPublished events.
const TopicModelPublished = "gadvi.model.published"

// ModelPublished announces a trained model saved to the artifact store.
type ModelPublished struct {
	EventID     string             `json:"event_id"`
	Artifact    string             `json:"artifact"`
	RunID       string             `json:"run_id"`
	Backend     string             `json:"backend,omitempty"`
	TrainedAt   time.Time          `json:"trained_at"`
	PublishedAt time.Time          `json:"published_at"`
	TestMetrics *recommend.Metrics `json:"test_metrics,omitempty"`
}

// Validate checks the fields a subscriber relies on.
func (e *ModelPublished) Validate() error {
	var errs []error
	if e.EventID == "" {
		errs = append(errs, fmt.Errorf("event_id is required"))
	}
	if e.Artifact == "" {
		errs = append(errs, fmt.Errorf("artifact is required"))
	}
	if e.RunID == "" {
		errs = append(errs, fmt.Errorf("run_id is required"))
	}
	return errors.Join(errs...)
}

// Marshal validates and encodes the event.
func (e *ModelPublished) Marshal() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// UnmarshalModelPublished decodes and validates an event payload.
func UnmarshalModelPublished(data []byte) (*ModelPublished, error) {
	var e ModelPublished
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}
	return &e, nil
}

// NewModelPublished builds the event for a saved model.
func NewModelPublished(model *recommend.TrainedModel, artifact, backend string) *ModelPublished {
	meta := model.Meta()
	return &ModelPublished{
		EventID:     uuid.NewString(),
		Artifact:    artifact,
		RunID:       meta.RunID,
		Backend:     backend,
		TrainedAt:   meta.TrainedAt,
		PublishedAt: time.Now().UTC(),
	}
}
