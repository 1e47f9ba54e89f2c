// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/hexclim/internal/aggregate"
	"github.com/tomtom215/hexclim/internal/config"
	"github.com/tomtom215/hexclim/internal/database"
	"github.com/tomtom215/hexclim/internal/emit"
	"github.com/tomtom215/hexclim/internal/profile"
	"github.com/tomtom215/hexclim/internal/raster"
	"github.com/tomtom215/hexclim/internal/tiles"
)

// ErrNoFeaturesGenerated is returned when every tier of a run is empty.
var ErrNoFeaturesGenerated = errors.New("no features generated")

// Stage is a state of the conversion state machine.
type Stage string

const (
	StageOpenRaster Stage = "OPEN_RASTER"
	StageClassify   Stage = "CLASSIFY"
	StageGenerate   Stage = "GENERATE"
	StageAggregate  Stage = "AGGREGATE"
	StageEmit       Stage = "EMIT"
	StageBuildTiles Stage = "BUILD_TILES"
	StageBuildTable Stage = "BUILD_TABLE"
	StageCleanup    Stage = "CLEANUP"
	StageDone       Stage = "DONE"
	StageFailed     Stage = "FAILED"
)

// StageError reports the stage in which a run failed.
type StageError struct {
	Stage      Stage
	Resolution int // -1 outside per-tier stages
	Err        error
}

func (e *StageError) Error() string {
	if e.Resolution >= 0 {
		return fmt.Sprintf("%s (resolution %d): %v", e.Stage, e.Resolution, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Request describes one conversion.
type Request struct {
	Input            string
	Output           string
	KeepIntermediate bool
	Parquet          bool
	Detailed         bool
}

// TierResult is the outcome of one resolution tier.
type TierResult struct {
	Tier     profile.Tier    `json:"tier"`
	Stats    aggregate.Stats `json:"stats"`
	Features int             `json:"features"`
	File     string          `json:"file,omitempty"`
}

// Result summarizes a run. It is returned, partially filled, on failure too.
type Result struct {
	RunID      string           `json:"run_id"`
	Input      string           `json:"input"`
	Coverage   profile.Coverage `json:"coverage"`
	Profile    profile.Profile  `json:"profile"`
	Tiers      []TierResult     `json:"tiers"`
	TilesPath  string           `json:"tiles_path"`
	TilesBytes int64            `json:"tiles_bytes"`
	TablePath  string           `json:"table_path,omitempty"`
	TableRows  int64            `json:"table_rows,omitempty"`
	TableBytes int64            `json:"table_bytes,omitempty"`
	ScratchDir string           `json:"scratch_dir,omitempty"`
	State      Stage            `json:"state"`
}

// Features returns the total number of features over all tiers.
func (r *Result) Features() int {
	n := 0
	for _, t := range r.Tiers {
		n += t.Features
	}
	return n
}

// TileBuilder packages tier files into the tile archive.
type TileBuilder interface {
	Build(ctx context.Context, output string, layers []tiles.Layer) error
}

// TableSink accumulates rows across tiers and writes the table artifact.
type TableSink interface {
	Append(rows []emit.Row) error
	Count(ctx context.Context) (int64, error)
	ExportParquet(ctx context.Context, path string) error
	Close() error
}

// SinkFactory opens a table sink for one run.
type SinkFactory func(ctx context.Context) (TableSink, error)

// RasterOpener opens the input raster.
type RasterOpener func(path string) (*raster.Raster, error)

// Options replaces the pipeline's collaborators. Nil fields use the
// defaults built from the configuration.
type Options struct {
	Tiles      TileBuilder
	OpenSink   SinkFactory
	OpenRaster RasterOpener
}

// Pipeline converts rasters to hexagon tilesets. A Pipeline may run several
// conversions sequentially or concurrently; runs share no state.
type Pipeline struct {
	cfg        *config.Config
	tiles      TileBuilder
	openSink   SinkFactory
	openRaster RasterOpener
}

// New creates a pipeline from a validated configuration.
func New(cfg *config.Config, opts Options) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("pipeline: nil config")
	}

	p := &Pipeline{
		cfg:        cfg,
		tiles:      opts.Tiles,
		openSink:   opts.OpenSink,
		openRaster: opts.OpenRaster,
	}
	if p.tiles == nil {
		p.tiles = tiles.NewBuilder(TilesConfig(cfg.Tiles))
	}
	if p.openSink == nil {
		p.openSink = func(ctx context.Context) (TableSink, error) {
			return database.OpenSink(ctx, cfg.Database, cfg.Table)
		}
	}
	if p.openRaster == nil {
		p.openRaster = raster.Open
	}
	return p, nil
}

// TilesConfig converts the tiles configuration section for the tile builder.
func TilesConfig(c config.TilesConfig) tiles.Config {
	return tiles.Config{
		Binary:              c.Binary,
		Layer:               c.Layer,
		Simplification:      c.Simplification,
		DetectSharedBorders: c.DetectSharedBorders,
		Timeout:             c.Timeout,
		ExtraArgs:           c.ExtraArgs,
	}
}
