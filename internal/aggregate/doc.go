// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

/*
Package aggregate computes one scalar value per H3 cell from a raster.

Two methods are supported:

  - MEAN: the cell's vertices are projected to pixel rows and columns, the
    axis-aligned bounding box is clamped to the grid, and the arithmetic mean
    of its valid pixels is taken. On rasters spanning all 360 degrees of
    longitude, cells crossing the antimeridian read the columns on both
    sides of the grid edge instead of the whole row.
  - BILINEAR: the raster is interpolated at the cell centroid.

Cells without a valid sample, or whose value is NaN or infinite, are dropped
and reported only as a count in Stats.

# Concurrency

A tier is split into contiguous chunks processed by at most Workers
goroutines (errgroup with SetLimit). Each worker writes to its own slice
positions, so the output preserves input order and repeated runs are
identical. Context cancellation stops the tier.
*/
package aggregate
