// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcomes used as the "outcome" label of RunsTotal.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeEmpty   = "no_features"
)

var (
	// Hex grid and aggregation metrics
	CellsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hexclim_cells_generated_total",
			Help: "Total number of H3 cells generated, by resolution",
		},
		[]string{"resolution"},
	)

	CellsAggregated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hexclim_cells_aggregated_total",
			Help: "Total number of H3 cells that received a value, by resolution",
		},
		[]string{"resolution"},
	)

	CellsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hexclim_cells_dropped_total",
			Help: "Total number of H3 cells skipped for lack of valid samples, by resolution",
		},
		[]string{"resolution"},
	)

	TierDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hexclim_tier_duration_seconds",
			Help:    "Time to generate, aggregate and emit one resolution tier",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 14), // 50ms .. ~7min
		},
		[]string{"resolution", "method"},
	)

	// Tile building metrics
	TileBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hexclim_tile_build_duration_seconds",
			Help:    "Duration of the tippecanoe invocation",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 14), // 0.5s .. ~68min
		},
	)

	TileBuildErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hexclim_tile_build_errors_total",
			Help: "Total number of failed tippecanoe invocations",
		},
		[]string{"reason"}, // "missing", "failed", "empty_output"
	)

	// Run metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hexclim_runs_total",
			Help: "Total number of conversion runs by outcome",
		},
		[]string{"outcome"},
	)

	TableRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hexclim_table_rows",
			Help: "Number of rows written to the Parquet table by the last run",
		},
	)

	ArtifactBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hexclim_artifact_bytes",
			Help: "Size of the artifacts written by the last run",
		},
		[]string{"artifact"}, // "tiles", "table"
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)
)

// RecordTier records the outcome of one resolution tier.
func RecordTier(resolution int, method string, generated, aggregated, dropped int, duration time.Duration) {
	res := strconv.Itoa(resolution)
	CellsGenerated.WithLabelValues(res).Add(float64(generated))
	CellsAggregated.WithLabelValues(res).Add(float64(aggregated))
	CellsDropped.WithLabelValues(res).Add(float64(dropped))
	TierDuration.WithLabelValues(res, method).Observe(duration.Seconds())
}

// RecordTileBuild records a tippecanoe invocation. reason is ignored on success.
func RecordTileBuild(duration time.Duration, reason string, err error) {
	TileBuildDuration.Observe(duration.Seconds())
	if err != nil {
		TileBuildErrors.WithLabelValues(reason).Inc()
	}
}

// RecordRun records the terminal outcome of a conversion run.
func RecordRun(outcome string) {
	RunsTotal.WithLabelValues(outcome).Inc()
}

// SetTableRows records the number of rows exported to Parquet.
func SetTableRows(n int64) {
	TableRows.Set(float64(n))
}

// SetArtifactBytes records the size of a written artifact.
func SetArtifactBytes(artifact string, size int64) {
	ArtifactBytes.WithLabelValues(artifact).Set(float64(size))
}

// RecordDBQuery records DuckDB statement metrics
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// ErrNoTextfile is returned by WriteTextfile when no path is configured.
var ErrNoTextfile = errors.New("metrics textfile path is empty")

// WriteTextfile writes every registered metric to path in the node_exporter
// textfile-collector format. The file is written atomically.
func WriteTextfile(path string) error {
	return writeTextfile(path, prometheus.DefaultGatherer)
}

func writeTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return ErrNoTextfile
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
