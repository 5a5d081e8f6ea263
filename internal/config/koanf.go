// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"gadvi.yaml",
	"config.yaml",
	"config.yml",
	"/etc/gadvi/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Source:                 "tsv",
			Dir:                    "data",
			Extract:                "data/extract.tsv",
			Dataset:                "full",
			SampleSeed:             42,
			DuckDBQueryTimeout:     5 * time.Minute,
			DuckDBFailureThreshold: 3,
		},
		Split: SplitConfig{
			Year:  0, // latest year present in the data
			Month: 12,
		},
		Model: ModelConfig{
			Name:           "lightFM",
			Dimensions:     10,
			Epochs:         20,
			Loss:           "warp",
			UserFeatures:   true,
			ItemFeatures:   true,
			LearningRate:   0.05,
			MaxSampled:     10,
			Regularization: 0,
			Seed:           42,
			ConflictPolicy: "last-wins",
			TrainTimeout:   30 * time.Minute,
		},
		Evaluation: EvaluationConfig{
			K:            3,
			Workers:      4,
			ExcludeTrain: false,
		},
		Artifacts: ArtifactsConfig{
			Backend:    "file",
			Dir:        "models",
			BadgerPath: "models/badger",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Timeout:         30 * time.Second,
			DefaultK:        3,
			MaxK:            50,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CacheSize:       10000,
			CacheTTL:        5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Supervisor: SupervisorConfig{
			RetrainInterval:  0, // serve the stored model only
			ShutdownTimeout:  10 * time.Second,
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile loads configuration like LoadWithKoanf but reads the given YAML
// file, which must exist.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// MODEL_DIMENSIONS -> model.dimensions
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower case) to koanf paths.
var envMappings = map[string]string{
	// Data mappings
	"data_source":              "data.source",
	"data_dir":                 "data.dir",
	"data_extract":             "data.extract",
	"dataset":                  "data.dataset",
	"sample_seed":              "data.sample_seed",
	"duckdb_dsn":               "data.duckdb_dsn",
	"duckdb_query":             "data.duckdb_query",
	"duckdb_query_timeout":     "data.duckdb_query_timeout",
	"duckdb_failure_threshold": "data.duckdb_failure_threshold",

	// Split mappings
	"split_year":  "split.year",
	"split_month": "split.month",

	// Model mappings
	"model_name":            "model.name",
	"model_dimensions":      "model.dimensions",
	"model_epochs":          "model.epochs",
	"model_loss":            "model.loss",
	"model_user_features":   "model.user_features",
	"model_item_features":   "model.item_features",
	"model_learning_rate":   "model.learning_rate",
	"model_max_sampled":     "model.max_sampled",
	"model_regularization":  "model.regularization",
	"model_seed":            "model.seed",
	"model_conflict_policy": "model.conflict_policy",
	"model_train_timeout":   "model.train_timeout",

	// Evaluation mappings
	"eval_k":             "evaluation.k",
	"eval_workers":       "evaluation.workers",
	"eval_exclude_train": "evaluation.exclude_train",

	// Artifact mappings
	"artifact_backend":     "artifacts.backend",
	"artifact_dir":         "artifacts.dir",
	"artifact_badger_path": "artifacts.badger_path",
	"artifact_name":        "artifacts.name",

	// Server mappings
	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"default_k":           "server.default_k",
	"max_k":               "server.max_k",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",
	"cache_size":          "server.cache_size",
	"cache_ttl":           "server.cache_ttl",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Supervisor mappings
	"retrain_interval":             "supervisor.retrain_interval",
	"shutdown_timeout":             "supervisor.shutdown_timeout",
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - MODEL_DIMENSIONS -> model.dimensions
//   - HTTP_PORT -> server.port
//   - DATASET -> data.dataset
//
// Unmapped variables return an empty key and are skipped, so unrelated
// environment variables never pollute the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
