// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tomtom215/hexclim/internal/aggregate"
	"github.com/tomtom215/hexclim/internal/emit"
	"github.com/tomtom215/hexclim/internal/hexgrid"
	"github.com/tomtom215/hexclim/internal/logging"
	"github.com/tomtom215/hexclim/internal/metrics"
	"github.com/tomtom215/hexclim/internal/profile"
	"github.com/tomtom215/hexclim/internal/raster"
	"github.com/tomtom215/hexclim/internal/tiles"
)

// run holds the mutable state of a single conversion.
type run struct {
	p      *Pipeline
	req    Request
	log    *logging.RunLogger
	result *Result

	raster   *raster.Raster
	coverage profile.Coverage
	scratch  string
	sink     TableSink
	layers   []tiles.Layer

	// artifacts written by this run, removed again if it fails
	artifacts []string
}

// Run executes one conversion. The returned Result is non-nil even on
// failure and reports the stage reached. Errors are *StageError values.
func (p *Pipeline) Run(ctx context.Context, req Request) (result *Result, err error) {
	runID := logging.GenerateRunID()
	ctx = logging.ContextWithCorrelationID(ctx, runID)

	r := &run{
		p:      p,
		req:    req,
		log:    logging.NewRunLogger(ctx),
		result: &Result{RunID: runID, Input: req.Input, State: StageOpenRaster},
	}
	start := time.Now()

	defer func() {
		r.cleanup(ctx, err != nil)
		switch {
		case err == nil:
			r.result.State = StageDone
			metrics.RecordRun(metrics.OutcomeSuccess)
			logging.CtxInfo(ctx).
				Int("features", r.result.Features()).
				Dur("elapsed", time.Since(start)).
				Msg("Conversion complete")
		default:
			failedAt := r.result.State
			r.result.State = StageFailed
			if errors.Is(err, ErrNoFeaturesGenerated) {
				metrics.RecordRun(metrics.OutcomeEmpty)
			} else {
				metrics.RecordRun(metrics.OutcomeFailure)
			}
			r.log.LogFailed(string(failedAt), err)
		}
		result = r.result
	}()

	output, err := NormalizeOutput(req.Output)
	if err != nil {
		return nil, r.fail(StageOpenRaster, err)
	}
	r.result.TilesPath = output

	if err := r.openRaster(); err != nil {
		return nil, err
	}
	if err := r.classify(); err != nil {
		return nil, err
	}
	if err := r.prepare(ctx); err != nil {
		return nil, err
	}
	if err := r.processTiers(ctx); err != nil {
		return nil, err
	}
	if err := r.buildTiles(ctx); err != nil {
		return nil, err
	}
	if r.sink != nil {
		if err := r.buildTable(ctx); err != nil {
			return nil, err
		}
	}
	return r.result, nil
}

// fail records the stage of a failure and wraps err.
func (r *run) fail(stage Stage, err error) error {
	r.result.State = stage
	return &StageError{Stage: stage, Resolution: -1, Err: err}
}

// failTier is fail for the per-tier stages.
func (r *run) failTier(stage Stage, resolution int, err error) error {
	r.result.State = stage
	return &StageError{Stage: stage, Resolution: resolution, Err: err}
}

func (r *run) enter(stage Stage) {
	r.result.State = stage
	r.log.LogStage(string(stage))
}

func (r *run) openRaster() error {
	r.enter(StageOpenRaster)

	rs, err := r.p.openRaster(r.req.Input)
	if err != nil {
		return r.fail(StageOpenRaster, err)
	}
	r.raster = rs

	b := rs.Bounds()
	ev := r.log.Logger().Info().
		Str("input", r.req.Input).
		Str("output", r.result.TilesPath).
		Float64("west", b.West).
		Float64("south", b.South).
		Float64("east", b.East).
		Float64("north", b.North).
		Int("width", b.Width).
		Int("height", b.Height).
		Float64("pixel_width", b.PixelWidth).
		Float64("pixel_height", b.PixelHeight).
		Str("crs", b.CRS)
	if nd, ok := rs.NoData(); ok {
		ev = ev.Float64("nodata", nd)
	}
	ev.Msg("Raster opened")

	if rs.BandCount() > 1 {
		r.log.Logger().Warn().Int("bands", rs.BandCount()).Msg("Multi-band raster, only band 1 is converted")
	}
	return nil
}

func (r *run) classify() error {
	r.enter(StageClassify)

	r.coverage = profile.Classify(r.raster.Bounds())
	opts, err := r.p.cfg.ProfileOptions(r.req.Detailed)
	if err != nil {
		return r.fail(StageClassify, err)
	}
	prof, err := profile.Select(r.coverage, opts)
	if err != nil {
		return r.fail(StageClassify, err)
	}
	r.result.Coverage = r.coverage
	r.result.Profile = prof

	r.log.Logger().Info().
		Str("coverage", string(r.coverage)).
		Str("profile", prof.Name).
		Ints("resolutions", prof.Resolutions()).
		Bool("parquet", r.req.Parquet).
		Msg("Coverage classified")
	return nil
}

// prepare creates the output directory, the scratch directory and, when
// requested, the table sink.
func (r *run) prepare(ctx context.Context) error {
	outDir := filepath.Dir(r.result.TilesPath)
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return r.fail(StageClassify, fmt.Errorf("create output directory: %w", err))
	}

	parent := r.p.cfg.Scratch.Dir
	if parent == "" {
		parent = outDir
	}
	dir, err := createScratchDir(parent, r.result.TilesPath, r.result.RunID)
	if err != nil {
		return r.fail(StageClassify, err)
	}
	r.scratch = dir
	r.result.ScratchDir = dir

	if r.req.Parquet {
		sink, err := r.p.openSink(ctx)
		if err != nil {
			return r.fail(StageClassify, fmt.Errorf("open table: %w", err))
		}
		r.sink = sink
		r.result.TablePath = TablePath(r.result.TilesPath)
	}
	return nil
}

func (r *run) processTiers(ctx context.Context) error {
	agg := aggregate.New(r.raster, aggregate.Options{
		Workers:          r.p.cfg.Aggregation.Workers,
		ProgressInterval: r.p.cfg.Aggregation.ProgressInterval,
	})

	for _, tier := range r.result.Profile.Tiers {
		if err := ctx.Err(); err != nil {
			return r.failTier(StageGenerate, tier.Resolution, err)
		}
		tr, err := r.processTier(ctx, agg, tier)
		if err != nil {
			return err
		}
		r.result.Tiers = append(r.result.Tiers, tr)
	}

	if len(r.layers) == 0 {
		return r.fail(StageEmit, ErrNoFeaturesGenerated)
	}
	return nil
}

func (r *run) processTier(ctx context.Context, agg *aggregate.Aggregator, tier profile.Tier) (TierResult, error) {
	res := tier.Resolution
	tierStart := time.Now()
	r.log.LogTierStarted(res, tier.MinZoom, tier.MaxZoom, string(tier.Method))

	r.enter(StageGenerate)
	genStart := time.Now()
	cells, err := hexgrid.CellsFor(r.coverage, r.raster.Bounds(), res)
	if err != nil {
		return TierResult{}, r.failTier(StageGenerate, res, err)
	}
	r.log.LogCellsGenerated(res, len(cells), time.Since(genStart))

	r.enter(StageAggregate)
	values, stats, err := agg.Aggregate(ctx, cells, tier)
	if err != nil {
		return TierResult{}, r.failTier(StageAggregate, res, err)
	}

	r.enter(StageEmit)
	tr := TierResult{Tier: tier, Stats: stats}
	if len(values) > 0 {
		file := tierFile(r.scratch, res)
		n, err := emit.WriteTier(file, values)
		if err != nil {
			return TierResult{}, r.failTier(StageEmit, res, err)
		}
		tr.Features = n
		tr.File = file
	}

	elapsed := time.Since(tierStart)
	metrics.RecordTier(res, string(tier.Method), stats.CellsGenerated, stats.CellsAggregated, stats.CellsDropped, elapsed)

	if tr.Features == 0 {
		r.log.LogTierEmpty(res)
		return tr, nil
	}

	if r.sink != nil {
		if err := r.sink.Append(emit.Rows(values)); err != nil {
			return TierResult{}, r.failTier(StageEmit, res, fmt.Errorf("append table rows: %w", err))
		}
	}

	r.layers = append(r.layers, tiles.Layer{
		File:    tr.File,
		Name:    r.p.cfg.Tiles.Layer,
		MinZoom: tier.MinZoom,
		MaxZoom: tier.MaxZoom,
	})
	r.log.LogTierCompleted(res, stats.CellsAggregated, stats.CellsDropped, tr.Features, elapsed)
	return tr, nil
}

func (r *run) buildTiles(ctx context.Context) error {
	r.enter(StageBuildTiles)

	output := r.result.TilesPath
	if err := r.p.tiles.Build(ctx, output, r.layers); err != nil {
		// Only a launched tool may have touched output.
		var toolErr *tiles.ToolError
		if errors.As(err, &toolErr) {
			r.artifacts = append(r.artifacts, output)
		}
		return r.fail(StageBuildTiles, err)
	}
	r.artifacts = append(r.artifacts, output)

	size := fileSize(output)
	if size == 0 {
		return r.fail(StageBuildTiles, fmt.Errorf("%w: %s", tiles.ErrToolFailed, "tile archive is missing or empty"))
	}
	r.result.TilesBytes = size
	metrics.SetArtifactBytes("tiles", size)
	r.log.LogArtifact("tiles", output, size)
	return nil
}

func (r *run) buildTable(ctx context.Context) error {
	r.enter(StageBuildTable)

	path := r.result.TablePath
	r.artifacts = append(r.artifacts, path)
	if err := r.sink.ExportParquet(ctx, path); err != nil {
		return r.fail(StageBuildTable, err)
	}
	rows, err := r.sink.Count(ctx)
	if err != nil {
		return r.fail(StageBuildTable, err)
	}

	size := fileSize(path)
	r.result.TableRows = rows
	r.result.TableBytes = size
	metrics.SetTableRows(rows)
	metrics.SetArtifactBytes("table", size)
	r.log.Logger().Info().Int64("rows", rows).Msg("Table rows exported")
	r.log.LogArtifact("table", path, size)
	return nil
}

// cleanup runs on every exit path. It closes the table sink, removes the
// scratch directory unless intermediates are kept, and on failure removes
// the artifacts this run started writing.
func (r *run) cleanup(ctx context.Context, failed bool) {
	r.log.LogStage(string(StageCleanup))

	if r.sink != nil {
		if err := r.sink.Close(); err != nil {
			logging.CtxErr(ctx, err).Msg("Failed to close table")
		}
		r.sink = nil
	}

	if r.scratch != "" {
		keep := r.req.KeepIntermediate
		var err error
		if !keep {
			err = os.RemoveAll(r.scratch)
			r.result.ScratchDir = ""
		}
		r.log.LogCleanup(r.scratch, keep, err)
	}

	if failed {
		for _, path := range r.artifacts {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				logging.CtxWarn(ctx).Err(err).Str("path", path).Msg("Failed to remove partial artifact")
			}
		}
	}
}
