// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package extract

import (
	"context"
	"fmt"

	"github.com/tomtom215/gadvi/internal/recommend"
)

// Source produces the interaction records of a pipeline run.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Load returns every record of the extract in source order.
	Load(ctx context.Context) ([]recommend.InteractionRecord, error)
}

// Source kinds accepted by NewSource.
const (
	KindTSV    = "tsv"
	KindDuckDB = "duckdb"
)

// SourceConfig selects and configures a Source.
type SourceConfig struct {
	// Kind is "tsv" or "duckdb".
	Kind string

	// Path is the extract file. Read directly for tsv, through read_csv_auto
	// for duckdb without a Query.
	Path string

	// DuckDB configures the duckdb source.
	DuckDB DuckDBConfig
}

// NewSource builds the configured Source. Sources that hold resources
// implement io.Closer.
func NewSource(cfg SourceConfig) (Source, error) {
	switch cfg.Kind {
	case "", KindTSV:
		if cfg.Path == "" {
			return nil, fmt.Errorf("tsv source requires a path")
		}
		return &TSVSource{Path: cfg.Path}, nil
	case KindDuckDB:
		dcfg := cfg.DuckDB
		if dcfg.Query == "" && dcfg.CSVPath == "" {
			dcfg.CSVPath = cfg.Path
		}
		return NewDuckDBSource(dcfg)
	default:
		return nil, fmt.Errorf("unsupported source kind %q", cfg.Kind)
	}
}
