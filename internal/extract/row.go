// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package extract

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tomtom215/gadvi/internal/recommend"
	"github.com/tomtom215/gadvi/internal/validation"
)

// dateKeyLayout is the layout of warehouse date keys.
const dateKeyLayout = "20060102"

// DateKey is a calendar day stored as a YYYYMMDD integer key.
type DateKey struct {
	time.Time
}

// ParseDateKey parses a YYYYMMDD key. Keys rendered as floats by upstream
// tools ("20191201.0") are accepted.
func ParseDateKey(s string) (DateKey, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int64(f)) {
		s = strconv.FormatInt(int64(f), 10)
	}
	t, err := time.ParseInLocation(dateKeyLayout, s, time.UTC)
	if err != nil {
		return DateKey{}, fmt.Errorf("invalid date key %q: %w", s, err)
	}
	return DateKey{Time: t}, nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (d *DateKey) UnmarshalCSV(s string) error {
	parsed, err := ParseDateKey(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (d DateKey) MarshalCSV() (string, error) {
	return d.Format(dateKeyLayout), nil
}

// Register the contentclass tag used by Row.
//
//nolint:gochecknoinits // validator tags must be registered before any row is checked
func init() {
	err := validation.RegisterStringValidation("contentclass", func(s string) bool {
		_, err := recommend.ParseContentClass(s)
		return err == nil
	}, `%s must be "1st party" or "3rd party"`)
	if err != nil {
		panic(err)
	}
}

// Row is one line of the extract.
type Row struct {
	PlayerID     string  `csv:"playerid" validate:"required"`
	GameName     string  `csv:"GameName" validate:"required"`
	ContentClass string  `csv:"IsSGDContent" validate:"contentclass"`
	Country      string  `csv:"CountryPlayer"`
	Date         DateKey `csv:"BeginDate_DWID"`
	RoundCount   int     `csv:"RoundCount" validate:"min=0"`
	Turnover     float64 `csv:"Turnover"`
	GGR          float64 `csv:"GGR"`
	GameProvider string  `csv:"GameProviderName"`
	Operator     string  `csv:"OperatorName"`
}

// Validate checks the row before conversion.
func (r *Row) Validate() error {
	if verr := validation.ValidateStruct(r); verr != nil {
		return verr
	}
	if r.Date.IsZero() {
		return fmt.Errorf("BeginDate_DWID is required")
	}
	return nil
}

// Record converts a validated row.
func (r *Row) Record() recommend.InteractionRecord {
	return recommend.InteractionRecord{
		PlayerID:     r.PlayerID,
		GameName:     r.GameName,
		RoundCount:   r.RoundCount,
		Turnover:     r.Turnover,
		GGR:          r.GGR,
		ContentClass: r.ContentClass,
		Country:      r.Country,
		Operator:     r.Operator,
		GameProvider: r.GameProvider,
		PlayDate:     r.Date.Time,
	}
}

// RowFromRecord converts a record back into its extract row.
func RowFromRecord(rec *recommend.InteractionRecord) Row {
	return Row{
		PlayerID:     rec.PlayerID,
		GameName:     rec.GameName,
		ContentClass: rec.ContentClass,
		Country:      rec.Country,
		Date:         DateKey{Time: rec.PlayDate},
		RoundCount:   rec.RoundCount,
		Turnover:     rec.Turnover,
		GGR:          rec.GGR,
		GameProvider: rec.GameProvider,
		Operator:     rec.Operator,
	}
}

// toRecords validates rows and converts them in order. line is the 1-based
// data line of the first row, used in error messages.
func toRecords(rows []*Row, line int) ([]recommend.InteractionRecord, error) {
	records := make([]recommend.InteractionRecord, 0, len(rows))
	for i, row := range rows {
		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line+i, err)
		}
		records = append(records, row.Record())
	}
	return records, nil
}
