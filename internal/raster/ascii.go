// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package raster

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// asciiHeader is the header of an ESRI ASCII grid.
type asciiHeader struct {
	ncols, nrows     int
	xll, yll         float64
	xCenter, yCenter bool
	cellSize         float64
	nodata           *float64
}

func openASCII(path string) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInputNotFound, path, err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	r, err := ReadASCII(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	// The CRS lives in an optional .prj sidecar.
	prj := strings.TrimSuffix(path, filepath.Ext(path)) + ".prj"
	if wkt, err := os.ReadFile(prj); err == nil {
		r.bounds.CRS = strings.TrimSpace(string(wkt))
	}
	return r, nil
}

// ReadASCII decodes an ESRI ASCII grid from rd.
//
// Recognised header keys (case-insensitive): ncols, nrows, xllcorner or
// xllcenter, yllcorner or yllcenter, cellsize, nodata_value. Values follow in
// row-major order starting with the northernmost row.
func ReadASCII(rd io.Reader) (*Raster, error) {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	var (
		h     asciiHeader
		first string
		seen  = map[string]bool{}
	)
	for sc.Scan() {
		tok := sc.Text()
		if _, err := strconv.ParseFloat(tok, 64); err == nil {
			first = tok
			break
		}
		key := strings.ToLower(tok)
		if !sc.Scan() {
			return nil, fmt.Errorf("%w: header key %q has no value", ErrUnsupportedRaster, tok)
		}
		if err := h.set(key, sc.Text()); err != nil {
			return nil, err
		}
		seen[key] = true
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedRaster, err)
	}
	for _, k := range []string{"ncols", "nrows", "cellsize"} {
		if !seen[k] {
			return nil, fmt.Errorf("%w: missing header key %s", ErrUnsupportedRaster, k)
		}
	}

	n, err := checkDimensions(h.ncols, h.nrows)
	if err != nil {
		return nil, err
	}
	// The header is untrusted until the values are read.
	values := make([]float32, 0, min(n, 1<<24))
	if first != "" {
		v, err := strconv.ParseFloat(first, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: value %q: %w", ErrUnsupportedRaster, first, err)
		}
		values = append(values, float32(v))
	}
	for len(values) < n && sc.Scan() {
		v, err := strconv.ParseFloat(sc.Text(), 32)
		if err != nil {
			return nil, fmt.Errorf("%w: value %d %q: %w", ErrUnsupportedRaster, len(values), sc.Text(), err)
		}
		values = append(values, float32(v))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedRaster, err)
	}
	if len(values) != n {
		return nil, fmt.Errorf("%w: expected %d values, found %d", ErrUnsupportedRaster, n, len(values))
	}

	west, south := h.xll, h.yll
	if h.xCenter {
		west -= h.cellSize / 2
	}
	if h.yCenter {
		south -= h.cellSize / 2
	}

	return New(Grid{
		West:        west,
		North:       south + float64(h.nrows)*h.cellSize,
		PixelWidth:  h.cellSize,
		PixelHeight: h.cellSize,
		Width:       h.ncols,
		Height:      h.nrows,
		Values:      values,
		NoData:      h.nodata,
	})
}

func (h *asciiHeader) set(key, raw string) error {
	parseInt := func() (int, error) {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrUnsupportedRaster, key, raw)
		}
		return v, nil
	}
	parseFloat := func() (float64, error) {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", ErrUnsupportedRaster, key, err)
		}
		return v, nil
	}

	var err error
	switch key {
	case "ncols":
		h.ncols, err = parseInt()
	case "nrows":
		h.nrows, err = parseInt()
	case "xllcorner":
		h.xll, err = parseFloat()
	case "xllcenter":
		h.xll, err = parseFloat()
		h.xCenter = true
	case "yllcorner":
		h.yll, err = parseFloat()
	case "yllcenter":
		h.yll, err = parseFloat()
		h.yCenter = true
	case "cellsize":
		h.cellSize, err = parseFloat()
	case "nodata_value":
		var nd float64
		nd, err = parseFloat()
		h.nodata = &nd
	default:
		return fmt.Errorf("%w: unknown header key %q", ErrUnsupportedRaster, key)
	}
	return err
}
