// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package hexgrid

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/uber/h3-go/v4"

	"github.com/tomtom215/hexclim/internal/profile"
	"github.com/tomtom215/hexclim/internal/raster"
)

func TestExpectedGlobalCount(t *testing.T) {
	t.Parallel()

	want := map[int]int{0: 122, 1: 842, 2: 5882, 3: 41162}
	for res, n := range want {
		if got := ExpectedGlobalCount(res); got != n {
			t.Errorf("ExpectedGlobalCount(%d) = %d, want %d", res, got, n)
		}
	}
}

func TestGlobalCells(t *testing.T) {
	t.Parallel()

	for res := 0; res <= 2; res++ {
		cells, err := CellsFor(profile.Global, raster.Bounds{}, res)
		if err != nil {
			t.Fatalf("CellsFor(res %d) error = %v", res, err)
		}
		if len(cells) != ExpectedGlobalCount(res) {
			t.Errorf("res %d: got %d cells, want %d", res, len(cells), ExpectedGlobalCount(res))
		}

		seen := make(map[h3.Cell]struct{}, len(cells))
		for _, c := range cells {
			if _, dup := seen[c]; dup {
				t.Fatalf("res %d: duplicate cell %s", res, c)
			}
			seen[c] = struct{}{}
			if c.Resolution() != res {
				t.Fatalf("cell %s has resolution %d, want %d", c, c.Resolution(), res)
			}
		}
	}
}

func assertInside(t *testing.T, cells []h3.Cell, b orb.Bound) {
	t.Helper()
	for _, c := range cells {
		p, err := Centroid(c)
		if err != nil {
			t.Fatalf("Centroid(%s) error = %v", c, err)
		}
		if !b.Contains(p) && !b.Contains(orb.Point{p.Lon() + 360, p.Lat()}) {
			t.Fatalf("cell %s centroid %v outside %v", c, p, b)
		}
	}
}

func withinRatio(got, want int, ratio float64) bool {
	return math.Abs(float64(got-want)) <= ratio*float64(want)
}

func TestRegionalCells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		bound orb.Bound
		res   int
	}{
		{"europe res 3", orb.Bound{Min: orb.Point{-10, 35}, Max: orb.Point{30, 60}}, 3},
		{"wide band res 1", orb.Bound{Min: orb.Point{-170, -50}, Max: orb.Point{170, 50}}, 1},
		{"0..360 tropics res 2", orb.Bound{Min: orb.Point{0, -30}, Max: orb.Point{360, 30}}, 2},
		{"pacific across antimeridian res 2", orb.Bound{Min: orb.Point{150, -20}, Max: orb.Point{210, 20}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cells, err := RegionalCells(tt.bound, tt.res)
			if err != nil {
				t.Fatalf("RegionalCells() error = %v", err)
			}
			if len(cells) == 0 {
				t.Fatal("RegionalCells() returned no cells")
			}
			assertInside(t, cells, tt.bound)

			b := raster.Bounds{
				West: tt.bound.Min.Lon(), East: tt.bound.Max.Lon(),
				South: tt.bound.Min.Lat(), North: tt.bound.Max.Lat(),
			}
			if est := EstimateCount(profile.Regional, b, tt.res); !withinRatio(len(cells), est, 0.25) {
				t.Errorf("got %d cells, estimate %d", len(cells), est)
			}

			seen := map[h3.Cell]bool{}
			for _, c := range cells {
				if seen[c] {
					t.Fatalf("duplicate cell %s", c)
				}
				seen[c] = true
			}
		})
	}
}

func TestRegionalCells_TinyRectangle(t *testing.T) {
	t.Parallel()

	// Far smaller than a resolution 1 cell: no centroid can be inside.
	cells, err := RegionalCells(orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{10.01, 10.01}}, 1)
	if err != nil {
		t.Fatalf("RegionalCells() error = %v", err)
	}
	if len(cells) != 0 {
		t.Errorf("got %d cells, want 0", len(cells))
	}
}

func TestCellsFor_InvalidResolution(t *testing.T) {
	t.Parallel()

	for _, res := range []int{-1, 16} {
		if _, err := CellsFor(profile.Regional, raster.Bounds{East: 1, North: 1}, res); !errors.Is(err, ErrInvalidResolution) {
			t.Errorf("res %d: error = %v, want ErrInvalidResolution", res, err)
		}
	}
}

func TestStrips(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		west, east float64
		want       []strip
	}{
		{"narrow", 0, 40, []strip{{0, 40, 0}}},
		{"wide", -170, 170, []strip{{-170, -80, 0}, {-80, 10, 0}, {10, 100, 0}, {100, 170, 0}}},
		{"0..360 half", 100, 260, []strip{{100, 180, 0}, {180, 260, -360}}},
		{"west of -180", -200, -170, []strip{{-200, -180, 360}, {-180, -170, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := strips(tt.west, tt.east)
			if len(got) != len(tt.want) {
				t.Fatalf("strips() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("strip %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBoundary(t *testing.T) {
	t.Parallel()

	cell, err := h3.LatLngToCell(h3.NewLatLng(48.85, 2.35), 5)
	if err != nil {
		t.Fatal(err)
	}

	ring, err := Boundary(cell)
	if err != nil {
		t.Fatalf("Boundary() error = %v", err)
	}
	if len(ring) != 7 {
		t.Errorf("hexagon ring has %d points, want 7", len(ring))
	}
	if !ring.Closed() {
		t.Error("ring should be closed")
	}

	centroid, err := Centroid(cell)
	if err != nil {
		t.Fatal(err)
	}
	if !ring.Bound().Contains(centroid) {
		t.Errorf("centroid %v outside ring bound %v", centroid, ring.Bound())
	}
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	crossing := orb.Ring{{179.5, 0}, {-179.5, 0}, {-179.5, 1}, {179.5, 1}, {179.5, 0}}
	if !CrossesAntimeridian(crossing) {
		t.Fatal("ring should cross the antimeridian")
	}
	got := Unwrap(crossing)
	if got[1].Lon() != 180.5 || got[0].Lon() != 179.5 {
		t.Errorf("Unwrap() = %v", got)
	}
	if crossing[1].Lon() != -179.5 {
		t.Error("Unwrap() must not modify its input")
	}

	plain := orb.Ring{{10, 0}, {11, 0}, {11, 1}, {10, 0}}
	if CrossesAntimeridian(plain) {
		t.Error("plain ring should not cross")
	}
	if got := Unwrap(plain); &got[0] != &plain[0] {
		t.Error("Unwrap() should return non-crossing rings unchanged")
	}
}

func TestEstimateCount(t *testing.T) {
	t.Parallel()

	if got := EstimateCount(profile.Global, raster.Bounds{}, 2); got != 5882 {
		t.Errorf("global estimate = %d, want 5882", got)
	}
	hemisphere := raster.Bounds{West: -180, East: 180, South: 0, North: 90}
	if got := EstimateCount(profile.Regional, hemisphere, 1); got != 421 {
		t.Errorf("hemisphere estimate = %d, want 421", got)
	}
	if got := EstimateCount(profile.Regional, raster.Bounds{West: 5, East: 5, South: 0, North: 1}, 1); got != 0 {
		t.Errorf("degenerate estimate = %d, want 0", got)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	cell, err := h3.LatLngToCell(h3.NewLatLng(45.5, 10.5), 7)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse(cell.String())
	if err != nil {
		t.Fatalf("Parse(%s) error = %v", cell, err)
	}
	if got != cell {
		t.Errorf("Parse(%s) = %s", cell, got)
	}

	for _, bad := range []string{"", "zz", "0"} {
		if _, err := Parse(bad); !errors.Is(err, ErrInvalidCell) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidCell", bad, err)
		}
	}
}
