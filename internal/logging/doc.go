// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

// Package logging provides centralized zerolog-based structured logging for Hexclim.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once from main
//   - Console output for interactive runs, JSON output for batch drivers
//   - Run correlation IDs carried through context.Context
//   - RunLogger, a small domain logger for conversion stages and tiers
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("input", path).Msg("Opening raster")
//	logging.Ctx(ctx).Warn().Int("resolution", 8).Msg("No features generated")
//
// # Configuration
//
// Environment Variables (through internal/config):
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: console)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// # Structured Logging
//
// Always terminate log chains with .Msg() or .Send(), and prefer fields over
// formatted messages:
//
//	logging.Info().Int("cells", n).Dur("elapsed", d).Msg("Generated hexagon cells")
//
// Per-cell conditions (a cell without valid samples) are never logged one by
// one; they are counted and reported once per tier by RunLogger.
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger
// is protected by sync.RWMutex for configuration changes.
package logging
