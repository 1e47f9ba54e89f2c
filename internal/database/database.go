// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package database

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB driver registration

	"github.com/tomtom215/hexclim/internal/config"
	"github.com/tomtom215/hexclim/internal/metrics"
)

// DB wraps an in-memory DuckDB instance used to assemble the analytical table.
// Nothing is persisted: the only durable output is the exported Parquet file.
type DB struct {
	conn *sql.DB
}

// New opens an in-memory DuckDB database.
func New(cfg config.DatabaseConfig) (*DB, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "2GB"
	}

	// Extensions are never needed: the table is plain columns and Parquet
	// support is built into DuckDB.
	connStr := fmt.Sprintf("?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		threads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn}
	db.configureConnectionPool()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// configureConnectionPool sizes the pool for a single-writer workload.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(2)
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(0)
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return ErrClosed
	}
	return db.conn.PingContext(ctx)
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close closes the database. Tables created from it must be closed first.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	err := db.conn.Close()
	db.conn = nil
	return err
}

// execTimed runs a statement and records its duration and outcome.
func execTimed(ctx context.Context, conn *sql.Conn, operation, query string, args ...interface{}) error {
	start := time.Now()
	_, err := conn.ExecContext(ctx, query, args...)
	metrics.RecordDBQuery(operation, TableName, time.Since(start), err)
	return err
}
