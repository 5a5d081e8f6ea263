// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import (
	"strings"
	"time"
)

// InteractionRecord is one row of the activity extract: a player's play of
// a game on a given day. Records are never modified after extraction.
type InteractionRecord struct {
	// PlayerID is the raw player key.
	PlayerID string `json:"player_id"`

	// GameName is the raw game key.
	GameName string `json:"game_name"`

	// RoundCount is the number of rounds played. Never negative.
	RoundCount int `json:"round_count"`

	// Turnover is the amount wagered.
	Turnover float64 `json:"turnover"`

	// GGR is the gross gaming revenue.
	GGR float64 `json:"ggr"`

	// ContentClass is the raw content class literal as extracted, e.g. " 1st Party".
	// Use Class to obtain the normalized value.
	ContentClass string `json:"content_class"`

	// Country is the player's country.
	Country string `json:"country"`

	// Operator is the operator the play went through.
	Operator string `json:"operator"`

	// GameProvider is the studio that supplies the game.
	GameProvider string `json:"game_provider,omitempty"`

	// PlayDate is the calendar day of the play.
	PlayDate time.Time `json:"play_date"`
}

// Class returns the normalized content class of the record.
func (r *InteractionRecord) Class() (ContentClass, error) {
	c, err := ParseContentClass(r.ContentClass)
	if err != nil {
		return "", &MalformedContentClassError{Value: r.ContentClass, PlayerID: r.PlayerID, GameName: r.GameName}
	}
	return c, nil
}

// ContentClass distinguishes first-party from third-party games.
type ContentClass string

const (
	// FirstParty games are eligible for recommendation.
	FirstParty ContentClass = "1st party"

	// ThirdParty games are never recommended.
	ThirdParty ContentClass = "3rd party"
)

// ParseContentClass normalizes a raw literal by trimming whitespace and
// comparing case-insensitively against the known classes.
func ParseContentClass(raw string) (ContentClass, error) {
	switch ContentClass(strings.ToLower(strings.TrimSpace(raw))) {
	case FirstParty:
		return FirstParty, nil
	case ThirdParty:
		return ThirdParty, nil
	default:
		return "", &MalformedContentClassError{Value: raw}
	}
}

// Period is the half-open calendar interval [Start, End).
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MonthPeriod returns the period covering the given calendar month in UTC.
func MonthPeriod(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// String formats the period for logs.
func (p Period) String() string {
	return p.Start.Format("2006-01-02") + ".." + p.End.Format("2006-01-02")
}

// Metrics holds the ranking quality of a model over an interaction matrix.
type Metrics struct {
	// K is the cutoff used for precision and recall.
	K int `json:"k"`

	// PrecisionAtK is the mean fraction of the top K that are held-out positives.
	PrecisionAtK float64 `json:"precision_at_k"`

	// RecallAtK is the mean fraction of held-out positives found in the top K.
	RecallAtK float64 `json:"recall_at_k"`

	// AUC is the mean probability that a positive outranks a non-interacted game.
	AUC float64 `json:"auc"`

	// Players is the number of players with at least one positive.
	Players int `json:"players"`
}
