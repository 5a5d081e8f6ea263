// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/gadvi/internal/recommend"
)

func TestRow_ValidateContentClass(t *testing.T) {
	t.Parallel()

	tests := []string{"1st Party", " 3RD party ", "3rd Party", "", "2nd party", "first party", "1st  party"}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			t.Parallel()

			row := Row{
				PlayerID:     "P1",
				GameName:     "G1",
				ContentClass: raw,
				Date:         DateKey{Time: time.Date(2019, 12, 1, 0, 0, 0, 0, time.UTC)},
			}
			_, parseErr := recommend.ParseContentClass(raw)
			err := row.Validate()
			if (err == nil) != (parseErr == nil) {
				t.Fatalf("Validate() = %v, ParseContentClass() = %v; want both to agree", err, parseErr)
			}
			if err != nil && !strings.Contains(err.Error(), `IsSGDContent must be "1st party" or "3rd party"`) {
				t.Errorf("Validate() = %q, want the content class message", err)
			}
		})
	}
}
