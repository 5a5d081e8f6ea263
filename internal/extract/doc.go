// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

// Package extract reads and writes the player activity extract.
//
// The extract is a tab-separated table with one row per player, game and day:
//
//	playerid  GameName  IsSGDContent  CountryPlayer  BeginDate_DWID  RoundCount  Turnover  GGR  GameProviderName  OperatorName
//
// BeginDate_DWID is a YYYYMMDD date key. Extra columns are ignored.
//
// Two sources produce records:
//
//   - TSVSource decodes a file with gocarina/gocsv.
//   - DuckDBSource runs SQL in DuckDB, either read_csv_auto over a file or a
//     configured query against a database. It sits behind a sony/gobreaker
//     circuit breaker so a failing store is not hammered by retrains.
//
// Every row is validated before it becomes a recommend.InteractionRecord.
package extract
