// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package recommend

import "time"

// SplitResult is the temporal partition of an extract.
type SplitResult struct {
	// Train holds every record dated strictly before the held-out period.
	Train []InteractionRecord

	// Test holds the held-out records whose player and game both appear in Train.
	Test []InteractionRecord

	// TestRatio is len(Test) / total input records, or 0 for an empty input.
	TestRatio float64

	// DroppedTest counts held-out records removed for referencing a player or
	// game missing from Train.
	DroppedTest int

	// AfterPeriod counts records dated on or after the end of the period.
	// They belong to neither partition.
	AfterPeriod int
}

// Split partitions records by play date around the held-out period and
// restricts the test side to the training vocabulary. Input order is
// preserved in both partitions. An empty test side is valid.
func Split(records []InteractionRecord, heldOut Period) SplitResult {
	var res SplitResult
	var held []InteractionRecord

	players := make(map[string]struct{})
	games := make(map[string]struct{})

	for i := range records {
		r := records[i]
		switch {
		case r.PlayDate.Before(heldOut.Start):
			res.Train = append(res.Train, r)
			players[r.PlayerID] = struct{}{}
			games[r.GameName] = struct{}{}
		case heldOut.Contains(r.PlayDate):
			held = append(held, r)
		default:
			res.AfterPeriod++
		}
	}

	for i := range held {
		_, knownPlayer := players[held[i].PlayerID]
		_, knownGame := games[held[i].GameName]
		if knownPlayer && knownGame {
			res.Test = append(res.Test, held[i])
			continue
		}
		res.DroppedTest++
	}

	if len(records) > 0 {
		res.TestRatio = float64(len(res.Test)) / float64(len(records))
	}
	return res
}

// LatestPeriod returns the given month of the latest year present in the
// records. ok is false for an empty input.
func LatestPeriod(records []InteractionRecord, month time.Month) (Period, bool) {
	if len(records) == 0 {
		return Period{}, false
	}
	year := records[0].PlayDate.Year()
	for i := range records {
		if y := records[i].PlayDate.Year(); y > year {
			year = y
		}
	}
	return MonthPeriod(year, month), true
}
