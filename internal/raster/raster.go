// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package raster

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Sentinel errors returned by Open and New.
var (
	// ErrInputNotFound is returned when the input path does not exist or is not a readable file.
	ErrInputNotFound = errors.New("input raster not found")

	// ErrUnsupportedRaster is returned when the file cannot be decoded as a north-up raster.
	ErrUnsupportedRaster = errors.New("unsupported raster")
)

// MaxPixels bounds the pixel count of a raster loaded into memory (4 GiB of
// float32 values).
const MaxPixels = 1 << 30

// checkDimensions rejects non-positive sizes and pixel counts above MaxPixels
// before any buffer is allocated.
func checkDimensions(width, height int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%w: invalid dimensions %dx%d", ErrUnsupportedRaster, width, height)
	}
	if width > MaxPixels/height {
		return 0, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnsupportedRaster, width, height, MaxPixels)
	}
	return width * height, nil
}

// Bounds describes the georeferencing of a raster. It is derived once when the
// raster is opened and never changes afterwards.
type Bounds struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`

	// PixelWidth and PixelHeight are positive sizes in degrees.
	PixelWidth  float64 `json:"pixel_width"`
	PixelHeight float64 `json:"pixel_height"`

	Width  int `json:"width"`
	Height int `json:"height"`

	NoData *float64 `json:"nodata,omitempty"`
	CRS    string   `json:"crs,omitempty"`
}

// Bound returns the bounding rectangle as an orb.Bound (lon/lat).
func (b Bounds) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.West, b.South},
		Max: orb.Point{b.East, b.North},
	}
}

// SpansLongitude reports whether the grid covers the full 360 degrees of
// longitude, so that columns wrap around at the antimeridian.
func (b Bounds) SpansLongitude() bool {
	return b.East-b.West >= 360-b.PixelWidth/2
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%.4f, %.4f, %.4f, %.4f] %dx%d px @ %.6gx%.6g deg",
		b.West, b.South, b.East, b.North, b.Width, b.Height, b.PixelWidth, b.PixelHeight)
}

// Grid describes an in-memory raster for New. Values are row-major, row 0 is
// the northernmost row.
type Grid struct {
	West        float64
	North       float64
	PixelWidth  float64
	PixelHeight float64
	Width       int
	Height      int
	Values      []float32
	NoData      *float64
	CRS         string
}

// Raster is a single-band grid loaded fully into memory. All reads are
// lock-free and safe for concurrent use.
type Raster struct {
	bounds Bounds
	data   []float32
	path   string
	bands  int

	hasNoData bool
	nodata    float32
}

// New builds a raster from an in-memory grid.
func New(g Grid) (*Raster, error) {
	if g.Width <= 0 || g.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrUnsupportedRaster, g.Width, g.Height)
	}
	if !(g.PixelWidth > 0) || !(g.PixelHeight > 0) {
		return nil, fmt.Errorf("%w: pixel size must be positive, got %gx%g",
			ErrUnsupportedRaster, g.PixelWidth, g.PixelHeight)
	}
	if len(g.Values) != g.Width*g.Height {
		return nil, fmt.Errorf("%w: expected %d values, got %d",
			ErrUnsupportedRaster, g.Width*g.Height, len(g.Values))
	}

	r := &Raster{
		bounds: Bounds{
			West:        g.West,
			North:       g.North,
			East:        g.West + float64(g.Width)*g.PixelWidth,
			South:       g.North - float64(g.Height)*g.PixelHeight,
			PixelWidth:  g.PixelWidth,
			PixelHeight: g.PixelHeight,
			Width:       g.Width,
			Height:      g.Height,
			CRS:         g.CRS,
		},
		data:  g.Values,
		bands: 1,
	}
	if g.NoData != nil {
		nd := *g.NoData
		r.bounds.NoData = &nd
		r.hasNoData = true
		r.nodata = float32(nd)
	}
	return r, nil
}

// Bounds returns the raster georeferencing.
func (r *Raster) Bounds() Bounds { return r.bounds }

// NoData returns the nodata sentinel, if the raster declares one.
func (r *Raster) NoData() (float64, bool) {
	if r.bounds.NoData == nil {
		return 0, false
	}
	return *r.bounds.NoData, true
}

// Width returns the number of columns.
func (r *Raster) Width() int { return r.bounds.Width }

// Height returns the number of rows.
func (r *Raster) Height() int { return r.bounds.Height }

// Path returns the file the raster was read from, empty for in-memory rasters.
func (r *Raster) Path() string { return r.path }

// BandCount returns the number of bands in the source file. Only band 1 is read.
func (r *Raster) BandCount() int { return r.bands }

// Index maps a coordinate to the pixel containing it. The result may lie
// outside the grid; callers clamp.
func (r *Raster) Index(lon, lat float64) (row, col int) {
	col = int(math.Floor((lon - r.bounds.West) / r.bounds.PixelWidth))
	row = int(math.Floor((r.bounds.North - lat) / r.bounds.PixelHeight))
	return row, col
}

// At returns the raw value at row, col and whether it is a valid sample.
// Out of range positions are reported as invalid.
func (r *Raster) At(row, col int) (float32, bool) {
	if row < 0 || col < 0 || row >= r.bounds.Height || col >= r.bounds.Width {
		return 0, false
	}
	v := r.data[row*r.bounds.Width+col]
	return v, r.valid(v)
}

func (r *Raster) valid(v float32) bool {
	if math.IsNaN(float64(v)) {
		return false
	}
	return !r.hasNoData || v != r.nodata
}

// Window returns the block covering the inclusive row and column ranges,
// clamped to the grid. The block is empty when the clamped range is empty.
func (r *Raster) Window(rowMin, rowMax, colMin, colMax int) Block {
	rowMin = max(rowMin, 0)
	colMin = max(colMin, 0)
	rowMax = min(rowMax, r.bounds.Height-1)
	colMax = min(colMax, r.bounds.Width-1)

	b := Block{r: r, RowMin: rowMin, RowMax: rowMax, ColMin: colMin, ColMax: colMax}
	if rowMin > rowMax || colMin > colMax {
		b.empty = true
	}
	return b
}
