// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

/*
Package metrics provides Prometheus instrumentation for conversion runs.

The converter is a one-shot CLI, so metrics are not scraped over HTTP. With
--metrics-file (or HEXCLIM_METRICS_FILE) the default registry is written once
at the end of a run in the node_exporter textfile-collector format, which lets
a batch driver feed per-raster statistics into Prometheus.

# Available Metrics

Hex grid and aggregation:
  - hexclim_cells_generated_total{resolution}
  - hexclim_cells_aggregated_total{resolution}
  - hexclim_cells_dropped_total{resolution}
  - hexclim_tier_duration_seconds{resolution,method}

Tile building:
  - hexclim_tile_build_duration_seconds
  - hexclim_tile_build_errors_total{reason}

Runs and artifacts:
  - hexclim_runs_total{outcome}
  - hexclim_table_rows
  - hexclim_artifact_bytes{artifact}

DuckDB:
  - duckdb_query_duration_seconds{operation,table}
  - duckdb_query_errors_total{operation,table,error_type}

# Usage

	metrics.RecordTier(stats.Resolution, string(stats.Method),
	    stats.CellsGenerated, stats.CellsAggregated, stats.CellsDropped, stats.Duration)

	if err := metrics.WriteTextfile(path); err != nil {
	    logging.Warn().Err(err).Msg("Failed to write metrics")
	}

All recording functions are safe for concurrent use.
*/
package metrics
