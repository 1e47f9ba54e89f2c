// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package hexgrid

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/uber/h3-go/v4"

	"github.com/tomtom215/hexclim/internal/profile"
	"github.com/tomtom215/hexclim/internal/raster"
)

// MaxResolution is the finest H3 resolution.
const MaxResolution = 15

// maxStripWidth bounds the longitude span handed to a single polyfill call.
// H3 treats polygon edges longer than 180 degrees as crossing the antimeridian.
const maxStripWidth = 90.0

// ErrInvalidResolution is returned for resolutions outside 0..15.
var ErrInvalidResolution = errors.New("invalid H3 resolution")

// ExpectedGlobalCount returns the number of H3 cells covering the globe at res:
// 2 + 120 * 7^res (the 12 pentagons and 110 hexagons of resolution 0, expanded).
func ExpectedGlobalCount(res int) int {
	n := 120
	for range res {
		n *= 7
	}
	return n + 2
}

// CellsFor returns the H3 cells of one tier.
//
// For Global coverage every cell at res is returned. For Regional coverage the
// cells whose centroid lies inside the raster's bounding rectangle are
// returned. The order of the result is unspecified.
func CellsFor(c profile.Coverage, b raster.Bounds, res int) ([]h3.Cell, error) {
	if res < 0 || res > MaxResolution {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResolution, res)
	}
	if c == profile.Global {
		return GlobalCells(res)
	}
	return RegionalCells(b.Bound(), res)
}

// GlobalCells expands the 122 base cells to their descendants at res.
func GlobalCells(res int) ([]h3.Cell, error) {
	if res < 0 || res > MaxResolution {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResolution, res)
	}

	base, err := h3.Res0Cells()
	if err != nil {
		return nil, fmt.Errorf("base cells: %w", err)
	}
	if res == 0 {
		return base, nil
	}

	cells := make([]h3.Cell, 0, ExpectedGlobalCount(res))
	for _, bc := range base {
		children, err := bc.Children(res)
		if err != nil {
			return nil, fmt.Errorf("children of %s at res %d: %w", bc, res, err)
		}
		cells = append(cells, children...)
	}
	return dedupe(cells), nil
}

// RegionalCells returns the cells at res whose centroid lies inside bound.
//
// The rectangle is split into strips no wider than 90 degrees of longitude,
// and at the antimeridian, before polyfilling; longitudes beyond +-180 (as in
// 0..360 grids) are shifted into range per strip.
func RegionalCells(bound orb.Bound, res int) ([]h3.Cell, error) {
	if res < 0 || res > MaxResolution {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResolution, res)
	}

	south := math.Max(bound.Min.Lat(), -90)
	north := math.Min(bound.Max.Lat(), 90)
	if !(north > south) || !(bound.Max.Lon() > bound.Min.Lon()) {
		return nil, nil
	}

	var cells []h3.Cell
	for _, s := range strips(bound.Min.Lon(), bound.Max.Lon()) {
		strip := orb.Bound{
			Min: orb.Point{s.west + s.shift, south},
			Max: orb.Point{s.east + s.shift, north},
		}

		found, err := h3.PolygonToCells(rectangle(strip), res)
		if err != nil {
			return nil, fmt.Errorf("polyfill %v at res %d: %w", strip, res, err)
		}
		for _, cell := range found {
			ll, err := cell.LatLng()
			if err != nil {
				continue
			}
			if strip.Contains(orb.Point{ll.Lng, ll.Lat}) {
				cells = append(cells, cell)
			}
		}
	}
	return dedupe(cells), nil
}

type strip struct {
	west, east float64
	shift      float64
}

// strips splits [west, east] at the antimeridian and into pieces of at most
// maxStripWidth degrees.
func strips(west, east float64) []strip {
	var out []strip
	for lo := west; lo < east; {
		hi := math.Min(east, lo+maxStripWidth)
		// Never let a strip cross +-180.
		for _, edge := range []float64{-180, 180} {
			if lo < edge && hi > edge {
				hi = edge
			}
		}

		var shift float64
		switch {
		case lo >= 180:
			shift = -360
		case hi <= -180:
			shift = 360
		}
		out = append(out, strip{west: lo, east: hi, shift: shift})
		lo = hi
	}
	return out
}

func rectangle(b orb.Bound) h3.GeoPolygon {
	return h3.GeoPolygon{
		GeoLoop: h3.GeoLoop{
			{Lat: b.Min.Lat(), Lng: b.Min.Lon()},
			{Lat: b.Min.Lat(), Lng: b.Max.Lon()},
			{Lat: b.Max.Lat(), Lng: b.Max.Lon()},
			{Lat: b.Max.Lat(), Lng: b.Min.Lon()},
		},
	}
}

func dedupe(cells []h3.Cell) []h3.Cell {
	slices.Sort(cells)
	return slices.Compact(cells)
}

// EstimateCount approximates the number of cells at res covering b, scaling
// the global count by the rectangle's share of the sphere's surface.
func EstimateCount(c profile.Coverage, b raster.Bounds, res int) int {
	total := ExpectedGlobalCount(res)
	if c == profile.Global {
		return total
	}

	south := math.Max(b.South, -90) * math.Pi / 180
	north := math.Min(b.North, 90) * math.Pi / 180
	width := math.Min(b.East-b.West, 360)
	if north <= south || width <= 0 {
		return 0
	}
	share := (math.Sin(north) - math.Sin(south)) / 2 * width / 360
	return int(math.Round(float64(total) * share))
}
