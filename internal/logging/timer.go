// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package logging

import (
	"time"

	"github.com/rs/zerolog"
)

// Timer measures the wall time of a pipeline stage.
//
//	t := logging.StartTimer()
//	records, err := source.Load(ctx)
//	t.Log(logger.Info(), "Data loaded")
type Timer struct {
	start time.Time
}

// StartTimer starts a new Timer.
func StartTimer() Timer {
	return Timer{start: time.Now()}
}

// Elapsed returns the time since the timer started.
func (t Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Log emits msg on event with the elapsed duration attached.
// A nil event (disabled level) is a no-op.
func (t Timer) Log(event *zerolog.Event, msg string) time.Duration {
	elapsed := t.Elapsed()
	event.Dur("elapsed", elapsed).Msg(msg)
	return elapsed
}
