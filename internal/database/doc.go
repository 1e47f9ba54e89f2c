// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

// Package database builds the optional analytical table of a conversion run
// in an in-memory DuckDB database and exports it as Parquet.
//
// # Overview
//
// Every tier's aggregated cells are appended to a single table:
//
//	CREATE TABLE hex_values (
//	    h3_index VARCHAR,   -- H3 cell id, lowercase hex
//	    value    FLOAT,     -- value rounded to two decimals
//	    h3_res   UTINYINT   -- H3 resolution of the tier
//	)
//
// Rows are written through a DuckDB appender held on a pinned connection,
// which avoids per-row INSERT statements for tiers of several million cells.
// At the end of the run the table is exported with:
//
//	COPY hex_values TO '<path>' (FORMAT PARQUET, COMPRESSION 'SNAPPY', ROW_GROUP_SIZE 122880)
//
// # Usage
//
//	sink, err := database.OpenSink(ctx, cfg.Database, cfg.Table)
//	if err != nil {
//	    return err
//	}
//	defer sink.Close()
//
//	if err := sink.Append(emit.Rows(values)); err != nil {
//	    return err
//	}
//	if err := sink.ExportParquet(ctx, "out.parquet"); err != nil {
//	    return err
//	}
//
// # Configuration
//
//	DUCKDB_MAX_MEMORY            - Memory limit (default: 2GB)
//	DUCKDB_THREADS               - DuckDB threads (default: NumCPU)
//	HEXCLIM_PARQUET_COMPRESSION  - snappy, gzip, zstd, lz4, brotli, uncompressed
//
// # Thread Safety
//
// DB is safe for concurrent use. HexTable and Sink are used by the single
// pipeline goroutine and are not.
package database
