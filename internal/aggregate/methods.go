// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package aggregate

import (
	"math"

	"github.com/uber/h3-go/v4"

	"github.com/tomtom215/hexclim/internal/hexgrid"
)

// mean averages the valid pixels under the axis-aligned bounding box of the
// cell's vertices.
func (a *Aggregator) mean(cell h3.Cell) (float64, bool) {
	ring, err := hexgrid.Boundary(cell)
	if err != nil {
		return 0, false
	}

	wrap := a.bounds.SpansLongitude()
	if wrap {
		ring = hexgrid.Unwrap(ring)
	}

	rowMin, colMin := math.MaxInt, math.MaxInt
	rowMax, colMax := math.MinInt, math.MinInt
	for _, p := range ring {
		row, col := a.src.Index(p.Lon(), p.Lat())
		rowMin, rowMax = min(rowMin, row), max(rowMax, row)
		colMin, colMax = min(colMin, col), max(colMax, col)
	}

	var (
		sum float64
		n   int
	)
	if !wrap {
		sum, n = a.src.Window(rowMin, rowMax, colMin, colMax).Sum()
	} else {
		for _, span := range wrapColumns(colMin, colMax, a.bounds.Width) {
			s, c := a.src.Window(rowMin, rowMax, span[0], span[1]).Sum()
			sum += s
			n += c
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// bilinear interpolates the raster at the cell centroid.
func (a *Aggregator) bilinear(cell h3.Cell) (float64, bool) {
	p, err := hexgrid.Centroid(cell)
	if err != nil {
		return 0, false
	}
	lon := p.Lon()
	if a.bounds.SpansLongitude() {
		lon = a.bounds.West + mod(lon-a.bounds.West, 360)
	}
	return a.src.SamplePoint(lon, p.Lat())
}

// wrapColumns maps an unclamped column range onto a grid that wraps around
// in longitude, returning at most two in-range spans.
func wrapColumns(colMin, colMax, width int) [][2]int {
	if colMax-colMin+1 >= width {
		return [][2]int{{0, width - 1}}
	}
	lo := ((colMin % width) + width) % width
	hi := lo + (colMax - colMin)
	if hi < width {
		return [][2]int{{lo, hi}}
	}
	return [][2]int{{lo, width - 1}, {0, hi - width}}
}

func mod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}
