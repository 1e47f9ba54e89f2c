// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package database

import (
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hexclim/internal/logging"
)

var (
	// ErrClosed is returned when a table or database is used after Close.
	ErrClosed = errors.New("database: closed")

	// ErrInvalidCompression is returned for a Parquet codec DuckDB does not know.
	ErrInvalidCompression = errors.New("database: invalid parquet compression")
)

// closeWithLog closes a resource and logs any error
// Use this for cleanup operations where errors should be acknowledged but not fail the operation
func closeWithLog(closer io.Closer, logger *zerolog.Logger, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		if logger != nil {
			logger.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
		} else {
			logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
		}
	}
}

// closeQuietly closes a resource and explicitly ignores any error
// Use this for cleanup operations in error paths where Close() errors are not actionable
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}
