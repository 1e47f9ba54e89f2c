// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package raster

import (
	"errors"
	"math"
	"testing"
)

func float64Ptr(v float64) *float64 { return &v }

// newTestRaster builds a 4x4 grid over [0,4]x[0,4] with values 1..16.
func newTestRaster(t *testing.T) *Raster {
	t.Helper()
	values := make([]float32, 16)
	for i := range values {
		values[i] = float32(i + 1)
	}
	r, err := New(Grid{
		West: 0, North: 4, PixelWidth: 1, PixelHeight: 1,
		Width: 4, Height: 4, Values: values,
		NoData: float64Ptr(-9999),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	r := newTestRaster(t)
	b := r.Bounds()

	if b.West != 0 || b.East != 4 || b.South != 0 || b.North != 4 {
		t.Errorf("Bounds() = %v, want [0,0,4,4]", b)
	}
	if r.Width() != 4 || r.Height() != 4 {
		t.Errorf("size = %dx%d, want 4x4", r.Width(), r.Height())
	}
	nd, ok := r.NoData()
	if !ok || nd != -9999 {
		t.Errorf("NoData() = %v, %v, want -9999, true", nd, ok)
	}
	if r.BandCount() != 1 {
		t.Errorf("BandCount() = %d, want 1", r.BandCount())
	}
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		grid Grid
	}{
		{"zero width", Grid{PixelWidth: 1, PixelHeight: 1, Width: 0, Height: 1}},
		{"negative pixel", Grid{PixelWidth: -1, PixelHeight: 1, Width: 1, Height: 1, Values: []float32{1}}},
		{"NaN pixel", Grid{PixelWidth: math.NaN(), PixelHeight: 1, Width: 1, Height: 1, Values: []float32{1}}},
		{"short values", Grid{PixelWidth: 1, PixelHeight: 1, Width: 2, Height: 2, Values: []float32{1, 2, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tt.grid); !errors.Is(err, ErrUnsupportedRaster) {
				t.Errorf("New() error = %v, want ErrUnsupportedRaster", err)
			}
		})
	}
}

func TestIndex(t *testing.T) {
	t.Parallel()

	r := newTestRaster(t)
	tests := []struct {
		lon, lat float64
		row, col int
	}{
		{0.5, 3.5, 0, 0},
		{3.99, 0.01, 3, 3},
		{2, 2, 2, 2},
		{-0.5, 4.5, -1, -1},
		{4.5, -0.5, 4, 4},
	}
	for _, tt := range tests {
		row, col := r.Index(tt.lon, tt.lat)
		if row != tt.row || col != tt.col {
			t.Errorf("Index(%v, %v) = (%d, %d), want (%d, %d)", tt.lon, tt.lat, row, col, tt.row, tt.col)
		}
	}
}

func TestWindow(t *testing.T) {
	t.Parallel()

	r := newTestRaster(t)

	t.Run("inner", func(t *testing.T) {
		t.Parallel()
		b := r.Window(1, 2, 1, 2)
		mean, ok := b.Mean()
		// rows 1..2, cols 1..2 -> 6, 7, 10, 11
		if !ok || mean != 8.5 {
			t.Errorf("Mean() = %v, %v, want 8.5, true", mean, ok)
		}
		if b.Rows() != 2 || b.Cols() != 2 {
			t.Errorf("size = %dx%d, want 2x2", b.Rows(), b.Cols())
		}
	})

	t.Run("clamped", func(t *testing.T) {
		t.Parallel()
		b := r.Window(-5, 0, 3, 10)
		got := b.Values()
		if len(got) != 1 || got[0] != 4 {
			t.Errorf("Values() = %v, want [4]", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		b := r.Window(5, 8, 0, 3)
		if !b.Empty() {
			t.Error("window below the grid should be empty")
		}
		if _, ok := b.Mean(); ok {
			t.Error("Mean() of an empty window should not be ok")
		}
		if b.Values() != nil {
			t.Error("Values() of an empty window should be nil")
		}
	})
}

func TestBlockSamples_SkipsNoDataAndNaN(t *testing.T) {
	t.Parallel()

	nan := float32(math.NaN())
	r, err := New(Grid{
		West: 0, North: 2, PixelWidth: 1, PixelHeight: 1, Width: 2, Height: 2,
		Values: []float32{-9999, 2, nan, 4},
		NoData: float64Ptr(-9999),
	})
	if err != nil {
		t.Fatal(err)
	}

	sum, n := r.Window(0, 1, 0, 1).Sum()
	if n != 2 || sum != 6 {
		t.Errorf("Sum() = %v, %d, want 6, 2", sum, n)
	}

	var seen []float64
	for v := range r.Window(0, 1, 0, 1).Samples() {
		seen = append(seen, v)
		break
	}
	if len(seen) != 1 || seen[0] != 2 {
		t.Errorf("Samples() early break = %v, want [2]", seen)
	}
}

func TestSamplePoint(t *testing.T) {
	t.Parallel()

	r := newTestRaster(t)

	tests := []struct {
		name     string
		lon, lat float64
		want     float64
		ok       bool
	}{
		{"pixel centre", 0.5, 3.5, 1, true},
		{"between two columns", 1, 3.5, 1.5, true},
		{"between two rows", 0.5, 3, 3, true},
		{"centre of 2x2 block", 1, 3, 3.5, true},
		{"west edge collapses", 0.1, 3.5, 1, true},
		{"south-east corner collapses", 3.9, 0.1, 16, true},
		{"outside west", -0.01, 2, 0, false},
		{"outside north", 2, 4.01, 0, false},
		{"east boundary is outside", 4, 2, 0, false},
		{"NaN coordinate", math.NaN(), 2, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := r.SamplePoint(tt.lon, tt.lat)
			if ok != tt.ok {
				t.Fatalf("SamplePoint() ok = %v, want %v", ok, tt.ok)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SamplePoint() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSamplePoint_PartialNoData(t *testing.T) {
	t.Parallel()

	r, err := New(Grid{
		West: 0, North: 2, PixelWidth: 1, PixelHeight: 1, Width: 2, Height: 2,
		Values: []float32{2, -9999, 4, 6},
		NoData: float64Ptr(-9999),
	})
	if err != nil {
		t.Fatal(err)
	}

	// The enclosing block has one nodata corner: mean of the remaining three.
	got, ok := r.SamplePoint(1, 1)
	if !ok || got != 4 {
		t.Errorf("SamplePoint() = %v, %v, want 4, true", got, ok)
	}
}

func TestSamplePoint_AllNoData(t *testing.T) {
	t.Parallel()

	r, err := New(Grid{
		West: 0, North: 2, PixelWidth: 1, PixelHeight: 1, Width: 2, Height: 2,
		Values: []float32{-1, -1, -1, -1},
		NoData: float64Ptr(-1),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := r.SamplePoint(1, 1); ok {
		t.Error("SamplePoint() over an all-nodata block should not be ok")
	}
}

func TestSpansLongitude(t *testing.T) {
	t.Parallel()

	global := Bounds{West: -180, East: 180, PixelWidth: 0.5}
	if !global.SpansLongitude() {
		t.Error("a -180..180 raster should span longitude")
	}
	regional := Bounds{West: -10, East: 40, PixelWidth: 0.5}
	if regional.SpansLongitude() {
		t.Error("a 50 degree raster should not span longitude")
	}
}
