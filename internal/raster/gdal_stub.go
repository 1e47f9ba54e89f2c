// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

//go:build nogdal

package raster

import (
	"errors"
	"fmt"
)

// GDALAvailable reports whether this build can open rasters through GDAL.
const GDALAvailable = false

var errNoGDAL = errors.New("built without GDAL support (nogdal tag); only ESRI ASCII grids (.asc) can be read")

func openGDAL(path string) (*Raster, error) {
	return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedRaster, path, errNoGDAL)
}

// WriteGeoTIFF is unavailable without GDAL.
func WriteGeoTIFF(path string, _ *Raster) error {
	return fmt.Errorf("write %s: %w", path, errNoGDAL)
}
