// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

/*
Package raster provides read access to single-band, north-up rasters.

A raster is opened once and its first band is loaded into memory as a
[]float32 grid. After Open returns, every accessor is read-only and safe for
concurrent use by the aggregation workers.

# Formats

  - ESRI ASCII grids (.asc) are decoded in pure Go; a .prj sidecar, when
    present, supplies the CRS.
  - Everything else (GeoTIFF, NetCDF, ...) is read through GDAL via
    github.com/airbusgeo/godal. Building with the nogdal tag removes the cgo
    dependency; GDAL formats then fail with ErrUnsupportedRaster.

Rotated or south-up geotransforms are rejected at open time.

# Sampling

	row, col := r.Index(lon, lat)          // pixel containing a coordinate
	blk := r.Window(r0, r1, c0, c1)        // clamped inclusive window
	mean, ok := blk.Mean()                 // nodata and NaN excluded
	v, ok := r.SamplePoint(lon, lat)       // bilinear at pixel centres

Nodata sentinels and NaN are never treated as data.
*/
package raster
