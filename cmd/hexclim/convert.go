// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/hexclim/internal/logging"
	"github.com/tomtom215/hexclim/internal/metrics"
	"github.com/tomtom215/hexclim/internal/pipeline"
)

func runConvert(ctx context.Context, args []string, _ io.Writer, stderr io.Writer) error {
	var (
		common           commonFlags
		keepIntermediate bool
		parquet          bool
		workers          int
		tippecanoe       string
		metricsFile      string
	)

	fs := newFlagSet("convert", "hexclim convert <input-raster> <output-tiles> [flags]", stderr)
	fs.BoolVar(&keepIntermediate, "keep-intermediate", false, "keep the per-tier GeoJSON files")
	fs.BoolVar(&parquet, "parquet", false, "also write <output>.parquet with h3_index, value and h3_res")
	common.register(fs)
	fs.IntVar(&workers, "workers", 0, "aggregation goroutines (0 = number of CPUs)")
	fs.StringVar(&tippecanoe, "tippecanoe", "", "path to the tippecanoe executable")
	fs.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file when the run ends")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("convert takes exactly 2 arguments, got %d", fs.NArg())
	}

	overrides := common.overrides(fs)
	if fs.Changed("workers") {
		overrides["aggregation.workers"] = workers
	}
	if fs.Changed("tippecanoe") {
		overrides["tiles.binary"] = tippecanoe
	}
	if fs.Changed("metrics-file") {
		overrides["metrics.textfile"] = metricsFile
	}

	cfg, err := loadConfig(common.configPath, overrides, stderr)
	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg, pipeline.Options{})
	if err != nil {
		return err
	}

	_, runErr := p.Run(ctx, pipeline.Request{
		Input:            fs.Arg(0),
		Output:           fs.Arg(1),
		KeepIntermediate: keepIntermediate,
		Parquet:          parquet,
		Detailed:         common.detailed,
	})

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logging.Warn().Err(err).Str("path", cfg.Metrics.Textfile).Msg("Failed to write metrics textfile")
		}
	}

	if runErr != nil && errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("interrupted: %w", runErr)
	}
	return runErr
}
