// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

/*
Package metrics provides Prometheus metrics for the recommendation pipeline and API.

All collectors are registered on the default registry through promauto at
package initialization and exposed by the API server at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

Pipeline:
  - gadvi_pipeline_stage_duration_seconds{stage}
  - gadvi_split_test_ratio
  - gadvi_interaction_sparsity
  - gadvi_model_evaluation{partition,metric}

Serving:
  - gadvi_recommendations_total{outcome}
  - gadvi_recommendation_duration_seconds
  - gadvi_api_requests_total{method,route,status}
  - gadvi_api_request_duration_seconds{method,route}
  - gadvi_cache_operations_total{result}

Lifecycle:
  - gadvi_artifact_operations_total{backend,operation,status}
  - gadvi_extract_rows_total{source}
  - gadvi_extract_circuit_state
  - gadvi_model_reloads_total{status}

# Usage

	timer := time.Now()
	result := recommend.Split(records, period)
	metrics.ObserveStage("split", time.Since(timer))
	metrics.SplitTestRatio.Set(result.TestRatio)
*/
package metrics
