// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package logging

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// RunLogger provides specialized logging for a conversion run.
// Every line carries the run's correlation ID and a component field so the
// output of several runs driven by a batch script can be told apart.
type RunLogger struct {
	logger zerolog.Logger
}

// NewRunLogger creates a logger for the run identified by ctx.
func NewRunLogger(ctx context.Context) *RunLogger {
	return &RunLogger{
		logger: Ctx(ctx).With().Str("component", "pipeline").Logger(),
	}
}

// Logger exposes the underlying zerolog logger.
func (r *RunLogger) Logger() *zerolog.Logger {
	return &r.logger
}

// LogStage records a state machine transition.
func (r *RunLogger) LogStage(stage string) {
	r.logger.Debug().Str("stage", stage).Msg("Entering stage")
}

// LogTierStarted records the start of one resolution tier.
func (r *RunLogger) LogTierStarted(resolution, minZoom, maxZoom int, method string) {
	r.logger.Info().
		Int("resolution", resolution).
		Int("min_zoom", minZoom).
		Int("max_zoom", maxZoom).
		Str("method", method).
		Msg("Processing tier")
}

// LogCellsGenerated records the size of a tier's cell set.
func (r *RunLogger) LogCellsGenerated(resolution, count int, elapsed time.Duration) {
	r.logger.Info().
		Int("resolution", resolution).
		Int("cells", count).
		Dur("elapsed", elapsed).
		Msg("Generated hexagon cells")
}

// LogTierCompleted records the outcome of one tier. Skipped cells are only
// ever reported here as an aggregate count.
func (r *RunLogger) LogTierCompleted(resolution, aggregated, dropped, features int, elapsed time.Duration) {
	r.logger.Info().
		Int("resolution", resolution).
		Int("aggregated", aggregated).
		Int("dropped", dropped).
		Int("features", features).
		Dur("elapsed", elapsed).
		Msg("Tier complete")
}

// LogTierEmpty warns that a tier produced no features and will be skipped.
func (r *RunLogger) LogTierEmpty(resolution int) {
	r.logger.Warn().Int("resolution", resolution).Msg("No features generated for tier, skipping")
}

// LogArtifact records a finished output artifact with its size.
func (r *RunLogger) LogArtifact(kind, path string, size int64) {
	r.logger.Info().
		Str("artifact", kind).
		Str("path", path).
		Str("size", humanize.Bytes(uint64(max(size, 0)))).
		Msg("Artifact written")
}

// LogCleanup records removal (or retention) of the scratch directory.
func (r *RunLogger) LogCleanup(dir string, kept bool, err error) {
	switch {
	case err != nil:
		r.logger.Warn().Err(err).Str("dir", dir).Msg("Failed to remove intermediate files")
	case kept:
		r.logger.Info().Str("dir", dir).Msg("Keeping intermediate GeoJSON files")
	default:
		r.logger.Debug().Str("dir", dir).Msg("Removed intermediate files")
	}
}

// LogFailed records the terminal failure of a run.
func (r *RunLogger) LogFailed(stage string, err error) {
	r.logger.Error().Err(err).Str("stage", stage).Msg("Conversion failed")
}
