// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package raster

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Open reads band 1 of the raster at path into memory.
//
// Files with an .asc extension are decoded as ESRI ASCII grids; every other
// format is delegated to GDAL.
func Open(path string) (*Raster, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInputNotFound, path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrInputNotFound, path)
	}

	var r *Raster
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asc":
		r, err = openASCII(path)
	default:
		r, err = openGDAL(path)
	}
	if err != nil {
		return nil, err
	}
	r.path = path
	return r, nil
}

// fromGeoTransform converts a GDAL-style affine geotransform into a Grid.
// Only north-up, unrotated transforms are accepted.
func fromGeoTransform(gt [6]float64, width, height int) (Grid, error) {
	if gt[2] != 0 || gt[4] != 0 {
		return Grid{}, fmt.Errorf("%w: rotated geotransform %v", ErrUnsupportedRaster, gt)
	}
	if !(gt[1] > 0) || !(gt[5] < 0) {
		return Grid{}, fmt.Errorf("%w: raster is not north-up (pixel size %g x %g)",
			ErrUnsupportedRaster, gt[1], gt[5])
	}
	return Grid{
		West:        gt[0],
		North:       gt[3],
		PixelWidth:  gt[1],
		PixelHeight: math.Abs(gt[5]),
		Width:       width,
		Height:      height,
	}, nil
}
