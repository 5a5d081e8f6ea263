// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

/*
Package config provides centralized configuration management for GAdvi.

# Configuration Sources

Configuration is layered with Koanf v2, lowest priority first:
  - Built-in defaults (defaultConfig)
  - YAML file: CONFIG_PATH, or the first of gadvi.yaml, config.yaml,
    config.yml and /etc/gadvi/config.yaml that exists
  - Environment variables, through an explicit name mapping

Unmapped environment variables are ignored.

# Configuration Structure

  - DataConfig: extract source (tsv or duckdb), data directory, dataset name
  - SplitConfig: held-out month
  - ModelConfig: latent factor hyperparameters and training timeout
  - EvaluationConfig: precision/recall cutoff and evaluation workers
  - ArtifactsConfig: artifact backend (file or badger) and location
  - ServerConfig: HTTP listener, k limits, CORS, rate limiting, response cache
  - LoggingConfig: zerolog level, format and caller
  - SupervisorConfig: retrain interval and suture failure settings

# Example YAML

	data:
	  source: tsv
	  extract: data/extract.tsv
	  dataset: sample_tiny
	model:
	  dimensions: 10
	  loss: warp
	server:
	  port: 5000

# Validation

Validate first checks struct tags (validate:"...") through the validation
package, then per-section rules such as backend-specific required paths.
Errors name the environment variable that controls the offending setting.

# Thread Safety

Config is immutable after Load() and safe for concurrent read access.
*/
package config
