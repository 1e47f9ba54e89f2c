// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

//go:build !nogdal

package raster

import (
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
)

var registerOnce sync.Once

// GDALAvailable reports whether this build can open rasters through GDAL.
const GDALAvailable = true

func openGDAL(path string) (*Raster, error) {
	registerOnce.Do(godal.RegisterAll)

	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedRaster, path, err)
	}
	defer func() { _ = ds.Close() }() //nolint:errcheck // read-only dataset, close error is not actionable

	st := ds.Structure()
	if st.NBands < 1 {
		return nil, fmt.Errorf("%w: %s has no raster bands", ErrUnsupportedRaster, path)
	}

	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: missing geotransform: %w", ErrUnsupportedRaster, path, err)
	}
	g, err := fromGeoTransform(gt, st.SizeX, st.SizeY)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	g.CRS = ds.Projection()

	band := ds.Bands()[0]
	if nd, ok := band.NoData(); ok {
		g.NoData = &nd
	}

	n, err := checkDimensions(st.SizeX, st.SizeY)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	g.Values = make([]float32, n)
	if err := band.Read(0, 0, g.Values, st.SizeX, st.SizeY); err != nil {
		return nil, fmt.Errorf("%w: %s: read band 1: %w", ErrUnsupportedRaster, path, err)
	}

	r, err := New(g)
	if err != nil {
		return nil, err
	}
	r.bands = st.NBands
	return r, nil
}

// WriteGeoTIFF writes r as a single-band float32 GeoTIFF. It is used to
// produce fixtures and to export synthetic grids.
func WriteGeoTIFF(path string, r *Raster) (err error) {
	registerOnce.Do(godal.RegisterAll)

	b := r.bounds
	ds, err := godal.Create(godal.GTiff, path, 1, godal.Float32, b.Width, b.Height)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := ds.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	gt := [6]float64{b.West, b.PixelWidth, 0, b.North, 0, -b.PixelHeight}
	if err := ds.SetGeoTransform(gt); err != nil {
		return fmt.Errorf("set geotransform: %w", err)
	}
	band := ds.Bands()[0]
	if nd, ok := r.NoData(); ok {
		if err := band.SetNoData(nd); err != nil {
			return fmt.Errorf("set nodata: %w", err)
		}
	}
	if err := band.Write(0, 0, r.data, b.Width, b.Height); err != nil {
		return fmt.Errorf("write band: %w", err)
	}
	return nil
}
