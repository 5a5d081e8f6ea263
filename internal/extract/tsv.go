// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package extract

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/tomtom215/gadvi/internal/metrics"
	"github.com/tomtom215/gadvi/internal/recommend"
)

func newTSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	return cr
}

// ReadTSV decodes and validates an extract.
func ReadTSV(r io.Reader) ([]recommend.InteractionRecord, error) {
	var rows []*Row
	if err := gocsv.UnmarshalCSV(newTSVReader(r), &rows); err != nil {
		return nil, fmt.Errorf("decode tsv: %w", err)
	}
	return toRecords(rows, 2)
}

// WriteTSV encodes records as an extract with a header line.
func WriteTSV(w io.Writer, records []recommend.InteractionRecord) error {
	rows := make([]*Row, len(records))
	for i := range records {
		row := RowFromRecord(&records[i])
		rows[i] = &row
	}

	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return fmt.Errorf("encode tsv: %w", err)
	}
	return nil
}

// ReadTSVFile reads an extract from path.
func ReadTSVFile(path string) ([]recommend.InteractionRecord, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("open extract: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	records, err := ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// WriteTSVFile writes records to path, creating parent directories.
func WriteTSVFile(path string, records []recommend.InteractionRecord) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil { //nolint:gosec // 0750 is acceptable for data files
		return fmt.Errorf("create data directory: %w", err)
	}
	f, err := os.Create(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	return WriteTSV(f, records)
}

// TSVSource loads the extract from a TSV file.
type TSVSource struct {
	Path string
}

// Name implements Source.
func (s *TSVSource) Name() string { return "tsv" }

// Load implements Source.
func (s *TSVSource) Load(ctx context.Context) ([]recommend.InteractionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := ReadTSVFile(s.Path)
	if err != nil {
		return nil, err
	}
	metrics.ExtractRowsTotal.WithLabelValues(s.Name()).Add(float64(len(records)))
	return records, nil
}
