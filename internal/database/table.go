// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/hexclim/internal/emit"
	"github.com/tomtom215/hexclim/internal/logging"
	"github.com/tomtom215/hexclim/internal/metrics"
)

// TableName is the name of the accumulated hexagon table.
const TableName = "hex_values"

const createTableSQL = `
	CREATE TABLE hex_values (
		h3_index VARCHAR NOT NULL,
		value FLOAT NOT NULL,
		h3_res UTINYINT NOT NULL
	)`

// Parquet codecs accepted by DuckDB's COPY statement.
var parquetCodecs = map[string]string{
	"snappy":       "SNAPPY",
	"gzip":         "GZIP",
	"zstd":         "ZSTD",
	"lz4":          "LZ4",
	"brotli":       "BROTLI",
	"uncompressed": "UNCOMPRESSED",
}

// ExportOptions controls the Parquet export.
type ExportOptions struct {
	Compression  string // one of snappy, gzip, zstd, lz4, brotli, uncompressed
	RowGroupSize int
}

// HexTable accumulates rows of every tier through a DuckDB appender held on
// a pinned connection. It is not safe for concurrent use.
type HexTable struct {
	conn     *sql.Conn
	appender *duckdb.Appender
	rows     int64
}

// NewHexTable creates the hex_values table and opens an appender on it.
func (db *DB) NewHexTable(ctx context.Context) (*HexTable, error) {
	if db.conn == nil {
		return nil, ErrClosed
	}

	conn, err := db.conn.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	if err := execTimed(ctx, conn, "create", createTableSQL); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to create %s: %w", TableName, err)
	}

	var appender *duckdb.Appender
	err = conn.Raw(func(driverConn any) error {
		dc, ok := driverConn.(driver.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection type %T", driverConn)
		}
		a, aerr := duckdb.NewAppenderFromConn(dc, "", TableName)
		if aerr != nil {
			return aerr
		}
		appender = a
		return nil
	})
	if err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to create appender: %w", err)
	}

	return &HexTable{conn: conn, appender: appender}, nil
}

// Append adds rows to the table. Rows become visible to queries after the
// next Flush, Count, or ExportParquet.
func (t *HexTable) Append(rows []emit.Row) error {
	if t.appender == nil {
		return ErrClosed
	}
	for i := range rows {
		r := &rows[i]
		if err := t.appender.AppendRow(r.H3Index, r.Value, r.Resolution); err != nil {
			return fmt.Errorf("failed to append row %s: %w", r.H3Index, err)
		}
	}
	t.rows += int64(len(rows))
	return nil
}

// Appended returns the number of rows passed to Append so far.
func (t *HexTable) Appended() int64 {
	return t.rows
}

// Flush writes buffered rows to the table.
func (t *HexTable) Flush() error {
	if t.appender == nil {
		return ErrClosed
	}
	if err := t.appender.Flush(); err != nil {
		return fmt.Errorf("failed to flush appender: %w", err)
	}
	return nil
}

// Count flushes pending rows and returns the number of rows in the table.
func (t *HexTable) Count(ctx context.Context) (int64, error) {
	if err := t.Flush(); err != nil {
		return 0, err
	}

	start := time.Now()
	var n int64
	err := t.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM hex_values").Scan(&n)
	metrics.RecordDBQuery("count", TableName, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}

// ExportParquet flushes pending rows and writes the table to path as Parquet
// with exactly three columns: h3_index, value and h3_res.
func (t *HexTable) ExportParquet(ctx context.Context, path string, opts ExportOptions) error {
	query, err := copyStatement(path, opts)
	if err != nil {
		return err
	}
	if err := t.Flush(); err != nil {
		return err
	}

	if err := execTimed(ctx, t.conn, "export", query); err != nil {
		return fmt.Errorf("failed to export parquet: %w", err)
	}
	logging.CtxDebug(ctx).Str("path", path).Int64("rows", t.rows).Msg("Parquet export complete")
	return nil
}

// copyStatement builds the COPY statement for a Parquet export.
func copyStatement(path string, opts ExportOptions) (string, error) {
	codec := "snappy"
	if opts.Compression != "" {
		codec = strings.ToLower(opts.Compression)
	}
	upper, ok := parquetCodecs[codec]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCompression, opts.Compression)
	}
	rowGroup := opts.RowGroupSize
	if rowGroup <= 0 {
		rowGroup = 122880
	}

	return fmt.Sprintf("COPY hex_values TO %s (FORMAT PARQUET, COMPRESSION '%s', ROW_GROUP_SIZE %d)",
		quoteLiteral(path), upper, rowGroup), nil
}

// quoteLiteral quotes s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Close releases the appender and the pinned connection. Errors from both
// are returned joined.
func (t *HexTable) Close() error {
	var errs []error
	if t.appender != nil {
		if err := t.appender.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close appender: %w", err))
		}
		t.appender = nil
	}
	if t.conn != nil {
		if err := t.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
		t.conn = nil
	}
	return errors.Join(errs...)
}
