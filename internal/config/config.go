// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
//
// Configuration is loaded in layers by Load():
//  1. Built-in defaults
//  2. Config file (gadvi.yaml or config.yaml if present, or CONFIG_PATH)
//  3. Environment variables
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Data       DataConfig       `koanf:"data"`
	Split      SplitConfig      `koanf:"split"`
	Model      ModelConfig      `koanf:"model"`
	Evaluation EvaluationConfig `koanf:"evaluation"`
	Artifacts  ArtifactsConfig  `koanf:"artifacts"`
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// DataConfig selects the activity extract and the dataset built from it.
//
// Environment Variables:
//   - DATA_SOURCE: tsv or duckdb (default: tsv)
//   - DATA_DIR: directory for dataset train/test files (default: data)
//   - DATA_EXTRACT: path of the full extract (default: data/extract.tsv)
//   - DATASET: sample_tiny, sample_small, sample_big or full (default: full)
//   - SAMPLE_SEED: seed of the player subsample (default: 42)
//   - DUCKDB_DSN: DuckDB database, empty for in-memory
//   - DUCKDB_QUERY: SQL returning the extract columns in order
//   - DUCKDB_QUERY_TIMEOUT: bound on one extraction (default: 5m)
//   - DUCKDB_FAILURE_THRESHOLD: consecutive failures that open the circuit (default: 3)
type DataConfig struct {
	Source  string `koanf:"source" validate:"oneof=tsv duckdb"`
	Dir     string `koanf:"dir" validate:"required"`
	Extract string `koanf:"extract"`

	// Dataset names the subsample written by prepare and read by train.
	Dataset    string `koanf:"dataset" validate:"required"`
	SampleSeed int64  `koanf:"sample_seed"`

	DuckDBDSN              string        `koanf:"duckdb_dsn"`
	DuckDBQuery            string        `koanf:"duckdb_query"`
	DuckDBQueryTimeout     time.Duration `koanf:"duckdb_query_timeout"`
	DuckDBFailureThreshold uint32        `koanf:"duckdb_failure_threshold"`
}

// SplitConfig selects the held-out month.
//
// Environment Variables:
//   - SPLIT_YEAR: year of the held-out month, 0 for the latest year in the data (default: 0)
//   - SPLIT_MONTH: held-out month, 1-12 (default: 12)
type SplitConfig struct {
	Year  int `koanf:"year" validate:"min=0"`
	Month int `koanf:"month" validate:"min=1,max=12"`
}

// ModelConfig holds the latent factor model settings.
//
// Environment Variables:
//   - MODEL_NAME (default: lightFM)
//   - MODEL_DIMENSIONS (default: 10)
//   - MODEL_EPOCHS (default: 20)
//   - MODEL_LOSS: warp or bpr (default: warp)
//   - MODEL_USER_FEATURES, MODEL_ITEM_FEATURES (default: true)
//   - MODEL_LEARNING_RATE (default: 0.05)
//   - MODEL_MAX_SAMPLED (default: 10)
//   - MODEL_REGULARIZATION (default: 0)
//   - MODEL_SEED (default: 42)
//   - MODEL_CONFLICT_POLICY: last-wins, first-wins or reject (default: last-wins)
//   - MODEL_TRAIN_TIMEOUT (default: 30m)
type ModelConfig struct {
	Name           string        `koanf:"name" validate:"required"`
	Dimensions     int           `koanf:"dimensions" validate:"min=1"`
	Epochs         int           `koanf:"epochs" validate:"min=1"`
	Loss           string        `koanf:"loss" validate:"oneof=warp bpr"`
	UserFeatures   bool          `koanf:"user_features"`
	ItemFeatures   bool          `koanf:"item_features"`
	LearningRate   float64       `koanf:"learning_rate" validate:"gt=0"`
	MaxSampled     int           `koanf:"max_sampled" validate:"min=1"`
	Regularization float64       `koanf:"regularization" validate:"min=0"`
	Seed           int64         `koanf:"seed"`
	ConflictPolicy string        `koanf:"conflict_policy" validate:"oneof=last-wins first-wins reject"`
	TrainTimeout   time.Duration `koanf:"train_timeout"`
}

// EvaluationConfig holds ranking metric settings.
//
// Environment Variables:
//   - EVAL_K: precision/recall cutoff (default: 3)
//   - EVAL_WORKERS: players scored concurrently (default: 4)
//   - EVAL_EXCLUDE_TRAIN: drop training positives from test rankings (default: false)
type EvaluationConfig struct {
	K            int  `koanf:"k" validate:"min=1"`
	Workers      int  `koanf:"workers" validate:"min=1"`
	ExcludeTrain bool `koanf:"exclude_train"`
}

// ArtifactsConfig selects where trained models are persisted.
//
// Environment Variables:
//   - ARTIFACT_BACKEND: file or badger (default: file)
//   - ARTIFACT_DIR: file backend directory (default: models)
//   - ARTIFACT_BADGER_PATH: badger database directory (default: models/badger)
//   - ARTIFACT_NAME: artifact served and evaluated, empty derives it from the model settings
type ArtifactsConfig struct {
	Backend    string `koanf:"backend" validate:"oneof=file badger"`
	Dir        string `koanf:"dir"`
	BadgerPath string `koanf:"badger_path"`
	Name       string `koanf:"name"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST (default: 0.0.0.0)
//   - HTTP_PORT (default: 5000)
//   - HTTP_TIMEOUT (default: 30s)
//   - DEFAULT_K: games returned when the caller gives no k (default: 3)
//   - MAX_K: largest k a caller may request (default: 50)
//   - CORS_ORIGINS: comma-separated allowed origins (default: *)
//   - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW (default: 100 per 1m)
//   - DISABLE_RATE_LIMIT (default: false)
//   - CACHE_SIZE: cached recommendation lists, 0 disables the cache (default: 10000)
//   - CACHE_TTL (default: 5m)
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout           time.Duration `koanf:"timeout"`
	DefaultK          int           `koanf:"default_k" validate:"min=1"`
	MaxK              int           `koanf:"max_k" validate:"gtefield=DefaultK"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CacheSize         int           `koanf:"cache_size" validate:"min=0"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// JSON is recommended for production, console for development.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// SupervisorConfig holds settings of the serve process tree.
//
// Environment Variables:
//   - RETRAIN_INTERVAL: retrain and republish the model on this interval, 0 disables (default: 0)
//   - SHUTDOWN_TIMEOUT (default: 10s)
//   - SUPERVISOR_FAILURE_THRESHOLD (default: 5)
//   - SUPERVISOR_FAILURE_DECAY in seconds (default: 30)
//   - SUPERVISOR_FAILURE_BACKOFF (default: 15s)
type SupervisorConfig struct {
	RetrainInterval  time.Duration `koanf:"retrain_interval"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
}

// Load reads configuration from all sources with the following precedence:
//  1. Built-in defaults
//  2. Config file (gadvi.yaml or config.yaml if present, or CONFIG_PATH)
//  3. Environment variables
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
