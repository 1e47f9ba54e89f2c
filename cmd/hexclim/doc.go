// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

// Command hexclim converts a single-band raster into a multi-resolution H3
// hexagon tileset.
//
// # Commands
//
//	hexclim convert <input-raster> <output-tiles> [--keep-intermediate] [--parquet] [--detailed]
//	hexclim inspect <input-raster> [--detailed]
//	hexclim version
//
// convert writes <output>.pmtiles through tippecanoe and, with --parquet, a
// <output>.parquet table with the columns h3_index, value and h3_res. A
// different output extension is replaced by .pmtiles. inspect prints the
// raster bounds, the coverage class, the selected profile and the cell count
// of every tier as JSON without converting anything.
//
// # Configuration
//
// Settings come from built-in defaults, an optional YAML file (--config,
// HEXCLIM_CONFIG or ./hexclim.yaml), environment variables and flags, in
// increasing priority. Useful variables:
//
//	TIPPECANOE_PATH        - tippecanoe executable (default: tippecanoe on PATH)
//	HEXCLIM_WORKERS        - aggregation goroutines (default: number of CPUs)
//	HEXCLIM_PROFILE        - auto, global_coarse, regional_detailed, explicit
//	LOG_LEVEL, LOG_FORMAT  - logging
//
// # Exit Status
//
// 0 on success and 1 on any failure, with the cause printed to stderr as
// "error: <cause>". SIGINT and SIGTERM cancel the run; intermediate files are
// still removed.
//
// # Build Tags
//
//	go build -tags nogdal ./cmd/hexclim   # without GDAL; only ESRI ASCII grids are readable
package main
