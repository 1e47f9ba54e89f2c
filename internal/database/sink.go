// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/hexclim/internal/config"
	"github.com/tomtom215/hexclim/internal/emit"
	"github.com/tomtom215/hexclim/internal/logging"
)

// Sink owns a database together with its hex table for the lifetime of a
// single conversion run.
type Sink struct {
	db     *DB
	table  *HexTable
	export ExportOptions
}

// OpenSink opens an in-memory database and creates the hex table in it.
func OpenSink(ctx context.Context, dbCfg config.DatabaseConfig, tableCfg config.TableConfig) (*Sink, error) {
	db, err := New(dbCfg)
	if err != nil {
		return nil, err
	}
	table, err := db.NewHexTable(ctx)
	if err != nil {
		closeWithLog(db, logging.Ctx(ctx), "database")
		return nil, err
	}
	return &Sink{
		db:    db,
		table: table,
		export: ExportOptions{
			Compression:  tableCfg.Compression,
			RowGroupSize: tableCfg.RowGroupSize,
		},
	}, nil
}

// Append adds rows to the table.
func (s *Sink) Append(rows []emit.Row) error {
	return s.table.Append(rows)
}

// Count returns the number of rows in the table.
func (s *Sink) Count(ctx context.Context) (int64, error) {
	return s.table.Count(ctx)
}

// ExportParquet writes the table to path with the configured codec.
func (s *Sink) ExportParquet(ctx context.Context, path string) error {
	return s.table.ExportParquet(ctx, path, s.export)
}

// Close closes the table, then the database.
func (s *Sink) Close() error {
	var errs []error
	if err := s.table.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
