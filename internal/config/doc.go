// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

/*
Package config provides layered configuration for the hexclim converter.

Configuration is loaded with Koanf v2 from four layers, later layers winning:

 1. Built-in defaults (Default)
 2. A YAML file: --config, HEXCLIM_CONFIG, or hexclim.yaml in the working directory
 3. Environment variables (explicit mapping table, unknown variables ignored)
 4. Command line flag overrides

The result is validated with go-playground/validator struct tags and the
profile invariants before it is returned.

# Environment Variables

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error, disabled (default: info)
  - LOG_FORMAT: json, console (default: console)
  - LOG_CALLER: include file:line (default: false)

Profile and aggregation:
  - HEXCLIM_PROFILE: auto, global_coarse, regional_detailed, explicit (default: auto)
  - HEXCLIM_WORKERS: aggregation goroutines, 0 = NumCPU (default: 0)
  - HEXCLIM_PROGRESS_INTERVAL: progress log throttle (default: 5s)

Tile building:
  - TIPPECANOE_PATH: tippecanoe executable (default: tippecanoe)
  - TIPPECANOE_TIMEOUT: maximum tippecanoe run time, 0 = none (default: 2h)
  - TIPPECANOE_ARGS: extra whitespace-separated tippecanoe arguments
  - HEXCLIM_LAYER_NAME: vector layer name (default: climate)
  - HEXCLIM_SIMPLIFICATION: tippecanoe --simplification (default: 10)
  - HEXCLIM_DETECT_SHARED_BORDERS: pass --detect-shared-borders (default: true)

Parquet table:
  - HEXCLIM_PARQUET_COMPRESSION: snappy, gzip, zstd, lz4, brotli, uncompressed (default: snappy)
  - HEXCLIM_PARQUET_ROW_GROUP_SIZE: rows per row group (default: 122880)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 2GB)
  - DUCKDB_THREADS: DuckDB threads, 0 = NumCPU (default: 0)

Files:
  - HEXCLIM_SCRATCH_DIR: parent of the per-run scratch directory (default: output directory)
  - HEXCLIM_METRICS_FILE: write Prometheus textfile metrics here

# Example File

	logging:
	  level: debug
	profile:
	  name: explicit
	  tiers:
	    - {resolution: 2, min_zoom: 0, max_zoom: 5, method: mean}
	    - {resolution: 6, min_zoom: 6, max_zoom: 14, method: bilinear}
	tiles:
	  layer: tas
	table:
	  compression: zstd
*/
package config
