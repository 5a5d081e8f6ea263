// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/gadvi/internal/recommend"
	"github.com/tomtom215/gadvi/internal/validation"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	validators := []func() error{
		c.validateData,
		c.validateModel,
		c.validateArtifacts,
		c.validateServer,
		c.validateLogging,
		c.validateSupervisor,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateData validates the extract source and dataset name
func (c *Config) validateData() error {
	if _, err := recommend.DatasetSize(c.Data.Dataset); err != nil {
		return fmt.Errorf("DATASET is invalid: %w", err)
	}

	switch c.Data.Source {
	case "tsv":
		if c.Data.Extract == "" {
			return fmt.Errorf("DATA_EXTRACT is required when DATA_SOURCE=tsv")
		}
	case "duckdb":
		if c.Data.Extract == "" && c.Data.DuckDBQuery == "" {
			return fmt.Errorf("DATA_EXTRACT or DUCKDB_QUERY is required when DATA_SOURCE=duckdb")
		}
		if c.Data.DuckDBQueryTimeout <= 0 {
			return fmt.Errorf("DUCKDB_QUERY_TIMEOUT must be positive")
		}
	}
	return nil
}

// validateModel validates model settings not covered by struct tags
func (c *Config) validateModel() error {
	if c.Model.TrainTimeout <= 0 {
		return fmt.Errorf("MODEL_TRAIN_TIMEOUT must be positive")
	}
	return nil
}

// validateArtifacts validates the artifact backend location
func (c *Config) validateArtifacts() error {
	switch c.Artifacts.Backend {
	case "file":
		if c.Artifacts.Dir == "" {
			return fmt.Errorf("ARTIFACT_DIR is required when ARTIFACT_BACKEND=file")
		}
	case "badger":
		if c.Artifacts.BadgerPath == "" {
			return fmt.Errorf("ARTIFACT_BADGER_PATH is required when ARTIFACT_BACKEND=badger")
		}
	}
	return nil
}

// Rate limit bounds
const (
	minRateLimitWindow = time.Second
	maxRateLimitReqs   = 100000
)

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if len(c.Server.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	if c.Server.CacheSize > 0 && c.Server.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when CACHE_SIZE > 0")
	}
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitReqs < 1 || c.Server.RateLimitReqs > maxRateLimitReqs {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between 1 and %d", maxRateLimitReqs)
	}
	if c.Server.RateLimitWindow < minRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be at least %v", minRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// minRetrainInterval keeps a retrain loop from running back to back.
const minRetrainInterval = time.Minute

// validateSupervisor validates supervisor tree settings
func (c *Config) validateSupervisor() error {
	if c.Supervisor.RetrainInterval != 0 && c.Supervisor.RetrainInterval < minRetrainInterval {
		return fmt.Errorf("RETRAIN_INTERVAL must be 0 or at least %v", minRetrainInterval)
	}
	if c.Supervisor.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Supervisor.FailureThreshold < 0 || c.Supervisor.FailureDecay < 0 || c.Supervisor.FailureBackoff < 0 {
		return fmt.Errorf("supervisor failure settings must be non-negative")
	}
	return nil
}
