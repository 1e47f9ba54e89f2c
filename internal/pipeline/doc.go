// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

// Package pipeline orchestrates one raster conversion.
//
// # Stages
//
//	OPEN_RASTER -> CLASSIFY -> (GENERATE -> AGGREGATE -> EMIT) x tiers
//	            -> BUILD_TILES -> [BUILD_TABLE] -> CLEANUP -> DONE
//
// FAILED is reachable from every stage and is reported as a *StageError
// naming the stage (and the resolution for per-tier stages). CLEANUP runs on
// every exit path: the table sink is closed, the scratch directory is removed
// unless intermediates are kept, and after a failure the tile archive and
// table written by the run are deleted.
//
// Tiers run sequentially; aggregation within a tier uses the worker pool of
// package aggregate. A tier without features is skipped with a warning, and
// a run where every tier is empty fails with ErrNoFeaturesGenerated before
// tippecanoe is invoked.
//
// # Scratch Directory
//
// Tier GeoJSON files are written to
//
//	<scratch.dir or output dir>/.temp_geojson_<output stem>_<run id>/h3_res<N>.geojson
//
// The run id makes the directory exclusive to one run, so several
// conversions may write next to each other.
//
// # Usage
//
//	p, err := pipeline.New(cfg, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	res, err := p.Run(ctx, pipeline.Request{
//	    Input:   "wc2.1_10m_tavg_01.tif",
//	    Output:  "tavg_01.pmtiles",
//	    Parquet: true,
//	})
package pipeline
