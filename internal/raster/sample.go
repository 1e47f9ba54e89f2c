// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package raster

import "math"

// SamplePoint returns the bilinearly interpolated value at lon, lat.
//
// Fractional pixel coordinates are taken relative to pixel centres and the
// enclosing 2x2 block is interpolated. Blocks at the grid edge collapse to
// 1x2, 2x1 or 1x1 with the corresponding fraction zeroed. When part of the
// block is nodata the mean of the valid samples is returned instead.
//
// ok is false when the coordinate lies outside the grid, when the block holds
// no valid sample, or when the result is not finite.
func (r *Raster) SamplePoint(lon, lat float64) (value float64, ok bool) {
	b := r.bounds
	fx := (lon - b.West) / b.PixelWidth
	fy := (b.North - lat) / b.PixelHeight
	if !(fx >= 0 && fy >= 0 && fx < float64(b.Width) && fy < float64(b.Height)) {
		return 0, false
	}

	c0, c1, tx := span(fx-0.5, b.Width)
	r0, r1, ty := span(fy-0.5, b.Height)

	taps := [4]tap{
		{r0, c0, (1 - tx) * (1 - ty)},
		{r0, c1, tx * (1 - ty)},
		{r1, c0, (1 - tx) * ty},
		{r1, c1, tx * ty},
	}

	var (
		interp   float64
		sum      float64
		valid    int
		distinct int
	)
	for i, t := range taps {
		if duplicateTap(taps[:i], t.row, t.col) {
			continue
		}
		distinct++
		v, good := r.At(t.row, t.col)
		if !good {
			continue
		}
		valid++
		sum += float64(v)
		interp += float64(v) * t.weight
	}

	switch {
	case valid == 0:
		return 0, false
	case valid < distinct:
		value = sum / float64(valid)
	default:
		value = interp
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// span returns the two neighbouring indices around a centre-relative
// coordinate and the interpolation fraction between them, clamped to [0, n).
func span(x float64, n int) (i0, i1 int, t float64) {
	fl := math.Floor(x)
	i0 = int(fl)
	t = x - fl
	if i0 < 0 {
		return 0, 0, 0
	}
	i1 = i0 + 1
	if i1 >= n {
		return i0, i0, 0
	}
	return i0, i1, t
}

type tap struct {
	row, col int
	weight   float64
}

func duplicateTap(seen []tap, row, col int) bool {
	for _, s := range seen {
		if s.row == row && s.col == col {
			return true
		}
	}
	return false
}
