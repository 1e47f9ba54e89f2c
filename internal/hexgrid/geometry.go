// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package hexgrid

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/uber/h3-go/v4"
)

// ErrInvalidCell is returned by Parse for strings that are not H3 cell ids.
var ErrInvalidCell = errors.New("invalid H3 cell")

// Parse parses a cell id in its hexadecimal string form.
func Parse(s string) (h3.Cell, error) {
	c := h3.Cell(h3.IndexFromString(s))
	if !c.IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCell, s)
	}
	return c, nil
}

// Centroid returns the cell centre as a lon/lat point.
func Centroid(c h3.Cell) (orb.Point, error) {
	ll, err := c.LatLng()
	if err != nil {
		return orb.Point{}, fmt.Errorf("centroid of %s: %w", c, err)
	}
	return orb.Point{ll.Lng, ll.Lat}, nil
}

// Boundary returns the cell outline as a closed lon/lat ring (the first
// vertex is repeated at the end).
func Boundary(c h3.Cell) (orb.Ring, error) {
	cb, err := c.Boundary()
	if err != nil {
		return nil, fmt.Errorf("boundary of %s: %w", c, err)
	}
	if len(cb) == 0 {
		return nil, fmt.Errorf("boundary of %s: no vertices", c)
	}

	ring := make(orb.Ring, 0, len(cb)+1)
	for _, ll := range cb {
		ring = append(ring, orb.Point{ll.Lng, ll.Lat})
	}
	return append(ring, ring[0]), nil
}

// CrossesAntimeridian reports whether consecutive ring vertices jump by more
// than 180 degrees of longitude.
func CrossesAntimeridian(r orb.Ring) bool {
	for i := 1; i < len(r); i++ {
		d := r[i].Lon() - r[i-1].Lon()
		if d > 180 || d < -180 {
			return true
		}
	}
	return false
}

// Unwrap returns a copy of r with negative longitudes shifted by +360 when the
// ring crosses the antimeridian, so that it is contiguous in longitude.
// Rings that do not cross are returned unchanged.
func Unwrap(r orb.Ring) orb.Ring {
	if !CrossesAntimeridian(r) {
		return r
	}
	out := make(orb.Ring, len(r))
	for i, p := range r {
		if p.Lon() < 0 {
			p[0] += 360
		}
		out[i] = p
	}
	return out
}
