// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package extract

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	// DuckDB driver
	_ "github.com/duckdb/duckdb-go/v2"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/gadvi/internal/logging"
	"github.com/tomtom215/gadvi/internal/metrics"
	"github.com/tomtom215/gadvi/internal/recommend"
)

// DuckDBConfig configures DuckDBSource.
type DuckDBConfig struct {
	// DSN is the DuckDB database. Empty means in-memory.
	DSN string

	// Query selects playerid, GameName, IsSGDContent, CountryPlayer,
	// BeginDate_DWID, RoundCount, Turnover, GGR, GameProviderName and
	// OperatorName in that order. When empty, CSVPath is read with
	// read_csv_auto.
	Query string

	// CSVPath is the tab-separated extract read when Query is empty.
	CSVPath string

	// QueryTimeout bounds a single extraction.
	// Default: 5m.
	QueryTimeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens the
	// circuit.
	// Default: 3.
	FailureThreshold uint32

	// OpenTimeout is how long the circuit stays open before a trial request.
	// Default: 1m.
	OpenTimeout time.Duration
}

// DuckDBSource loads the extract through DuckDB behind a circuit breaker.
type DuckDBSource struct {
	db      *sql.DB
	stmt    string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[[]recommend.InteractionRecord]
}

// NewDuckDBSource opens the database and prepares the extraction query.
func NewDuckDBSource(cfg DuckDBConfig) (*DuckDBSource, error) {
	query := cfg.Query
	if query == "" {
		if cfg.CSVPath == "" {
			return nil, fmt.Errorf("duckdb source requires a query or a csv path")
		}
		query = readCSVQuery(cfg.CSVPath)
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 5 * time.Minute
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = time.Minute
	}

	db, err := sql.Open("duckdb", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	cbName := "duckdb-extract"
	logger := logging.Component("extract")
	metrics.ExtractCircuitState.Set(metrics.CircuitClosed)

	cb := gobreaker.NewCircuitBreaker[[]recommend.InteractionRecord](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Extract circuit breaker state transition")
			metrics.ExtractCircuitState.Set(stateToFloat(to))
		},
	})

	return &DuckDBSource{
		db:      db,
		stmt:    query,
		timeout: cfg.QueryTimeout,
		cb:      cb,
	}, nil
}

// readCSVQuery selects the extract columns from a TSV file.
func readCSVQuery(path string) string {
	quoted := "'" + strings.ReplaceAll(path, "'", "''") + "'"
	return `SELECT
		CAST(playerid AS VARCHAR),
		CAST(GameName AS VARCHAR),
		CAST(IsSGDContent AS VARCHAR),
		COALESCE(CAST(CountryPlayer AS VARCHAR), ''),
		CAST(BeginDate_DWID AS VARCHAR),
		CAST(RoundCount AS BIGINT),
		COALESCE(CAST(Turnover AS DOUBLE), 0),
		COALESCE(CAST(GGR AS DOUBLE), 0),
		COALESCE(CAST(GameProviderName AS VARCHAR), ''),
		COALESCE(CAST(OperatorName AS VARCHAR), '')
	FROM read_csv_auto(` + quoted + `, delim='\t', header=true, all_varchar=true)`
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return metrics.CircuitHalfOpen
	case gobreaker.StateOpen:
		return metrics.CircuitOpen
	default:
		return metrics.CircuitClosed
	}
}

// Name implements Source.
func (s *DuckDBSource) Name() string { return "duckdb" }

// State returns the circuit breaker state.
func (s *DuckDBSource) State() gobreaker.State { return s.cb.State() }

// Load implements Source. While the circuit is open it fails fast with an
// error wrapping gobreaker.ErrOpenState.
func (s *DuckDBSource) Load(ctx context.Context) ([]recommend.InteractionRecord, error) {
	records, err := s.cb.Execute(func() ([]recommend.InteractionRecord, error) {
		return s.query(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("duckdb extract unavailable: %w", err)
		}
		return nil, err
	}
	metrics.ExtractRowsTotal.WithLabelValues(s.Name()).Add(float64(len(records)))
	return records, nil
}

func (s *DuckDBSource) query(ctx context.Context) ([]recommend.InteractionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, s.stmt)
	if err != nil {
		return nil, fmt.Errorf("query extract: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // error on close after iteration is reported by rows.Err

	var out []*Row
	for rows.Next() {
		var (
			row     Row
			dateKey string
			rounds  int64
		)
		if err := rows.Scan(&row.PlayerID, &row.GameName, &row.ContentClass, &row.Country,
			&dateKey, &rounds, &row.Turnover, &row.GGR, &row.GameProvider, &row.Operator); err != nil {
			return nil, fmt.Errorf("scan extract row %d: %w", len(out)+1, err)
		}
		if row.Date, err = ParseDateKey(dateKey); err != nil {
			return nil, fmt.Errorf("extract row %d: %w", len(out)+1, err)
		}
		row.RoundCount = int(rounds)
		out = append(out, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate extract: %w", err)
	}
	return toRecords(out, 1)
}

// Close closes the database.
func (s *DuckDBSource) Close() error {
	return s.db.Close()
}
