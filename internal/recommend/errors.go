// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel errors. The typed errors below unwrap to these so callers can
// test with errors.Is and still get the offending value with errors.As.
var (
	ErrUnknownIdentifier     = errors.New("unknown identifier")
	ErrMalformedContentClass = errors.New("malformed content class")
	ErrArtifactMismatch      = errors.New("artifact mismatch")
	ErrUndefinedMetric       = errors.New("undefined metric")
	ErrFeatureConflict       = errors.New("conflicting side feature")
)

// IdentifierKind names the vocabulary an identifier belongs to.
type IdentifierKind string

const (
	KindPlayer IdentifierKind = "player"
	KindGame   IdentifierKind = "game"
)

// UnknownIdentifierError reports a lookup of an id never registered in the
// IdentifierMap.
type UnknownIdentifierError struct {
	Kind IdentifierKind
	ID   string
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("unknown %s identifier %q", e.Kind, e.ID)
}

func (e *UnknownIdentifierError) Unwrap() error { return ErrUnknownIdentifier }

// MalformedContentClassError reports a content class literal that does not
// normalize to a known class.
type MalformedContentClassError struct {
	Value    string
	PlayerID string
	GameName string
}

func (e *MalformedContentClassError) Error() string {
	if e.GameName == "" {
		return fmt.Sprintf("malformed content class %q", e.Value)
	}
	return fmt.Sprintf("malformed content class %q for game %q (player %q)", e.Value, e.GameName, e.PlayerID)
}

func (e *MalformedContentClassError) Unwrap() error { return ErrMalformedContentClass }

// ArtifactMismatchError reports persisted blobs that do not belong to the
// same training run. Err, when set, is the underlying inconsistency.
type ArtifactMismatchError struct {
	Artifact string
	Blob     string
	Reason   string
	Err      error
}

func (e *ArtifactMismatchError) Error() string {
	msg := fmt.Sprintf("artifact %q: %s", e.Artifact, e.Reason)
	if e.Blob != "" {
		msg = fmt.Sprintf("artifact %q blob %q: %s", e.Artifact, e.Blob, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ArtifactMismatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrArtifactMismatch}
	}
	return []error{ErrArtifactMismatch, e.Err}
}

// UndefinedMetricError reports an evaluation over a matrix without any
// positive row.
type UndefinedMetricError struct {
	Rows int
}

func (e *UndefinedMetricError) Error() string {
	return fmt.Sprintf("metrics undefined: none of %d rows has a positive", e.Rows)
}

func (e *UndefinedMetricError) Unwrap() error { return ErrUndefinedMetric }

// FeatureConflictError reports an entity seen with two different category
// values under the reject policy.
type FeatureConflictError struct {
	Kind     IdentifierKind
	ID       string
	Existing string
	Incoming string
}

func (e *FeatureConflictError) Error() string {
	return fmt.Sprintf("%s %q has conflicting feature values %q and %q", e.Kind, e.ID, e.Existing, e.Incoming)
}

func (e *FeatureConflictError) Unwrap() error { return ErrFeatureConflict }
