// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package raster

import "iter"

// Block is a rectangular window of a raster with inclusive row and column
// ranges. The zero Block is empty.
type Block struct {
	r      *Raster
	empty  bool
	RowMin int
	RowMax int
	ColMin int
	ColMax int
}

// Empty reports whether the window contains no pixels.
func (b Block) Empty() bool { return b.empty || b.r == nil }

// Rows returns the number of rows in the window.
func (b Block) Rows() int {
	if b.Empty() {
		return 0
	}
	return b.RowMax - b.RowMin + 1
}

// Cols returns the number of columns in the window.
func (b Block) Cols() int {
	if b.Empty() {
		return 0
	}
	return b.ColMax - b.ColMin + 1
}

// Values returns a copy of the raw values, nodata included, row-major.
func (b Block) Values() []float32 {
	if b.Empty() {
		return nil
	}
	out := make([]float32, 0, b.Rows()*b.Cols())
	w := b.r.bounds.Width
	for row := b.RowMin; row <= b.RowMax; row++ {
		out = append(out, b.r.data[row*w+b.ColMin:row*w+b.ColMax+1]...)
	}
	return out
}

// Samples iterates over the valid samples of the window, skipping nodata and NaN.
func (b Block) Samples() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if b.Empty() {
			return
		}
		w := b.r.bounds.Width
		for row := b.RowMin; row <= b.RowMax; row++ {
			for _, v := range b.r.data[row*w+b.ColMin : row*w+b.ColMax+1] {
				if !b.r.valid(v) {
					continue
				}
				if !yield(float64(v)) {
					return
				}
			}
		}
	}
}

// Sum returns the sum and count of valid samples in the window.
func (b Block) Sum() (sum float64, n int) {
	for v := range b.Samples() {
		sum += v
		n++
	}
	return sum, n
}

// Mean returns the arithmetic mean of the valid samples. ok is false when the
// window holds no valid sample.
func (b Block) Mean() (mean float64, ok bool) {
	sum, n := b.Sum()
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
