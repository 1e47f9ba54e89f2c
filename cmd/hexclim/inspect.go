// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/tomtom215/hexclim/internal/hexgrid"
	"github.com/tomtom215/hexclim/internal/profile"
	"github.com/tomtom215/hexclim/internal/raster"
)

// inspectReport is the JSON document printed by inspect.
type inspectReport struct {
	Input    string           `json:"input"`
	Bounds   boundsReport     `json:"bounds"`
	Bands    int              `json:"bands"`
	Coverage profile.Coverage `json:"coverage"`
	Profile  string           `json:"profile"`
	Tiers    []tierReport     `json:"tiers"`
	Cells    int              `json:"total_cells"`
}

type boundsReport struct {
	West        float64  `json:"west"`
	South       float64  `json:"south"`
	East        float64  `json:"east"`
	North       float64  `json:"north"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	PixelWidth  float64  `json:"pixel_width"`
	PixelHeight float64  `json:"pixel_height"`
	NoData      *float64 `json:"nodata"`
	CRS         string   `json:"crs,omitempty"`
}

type tierReport struct {
	Resolution int            `json:"resolution"`
	MinZoom    int            `json:"min_zoom"`
	MaxZoom    int            `json:"max_zoom"`
	Method     profile.Method `json:"method"`
	Cells      int            `json:"cells"`
	Estimated  bool           `json:"estimated"`
}

func runInspect(args []string, stdout, stderr io.Writer) error {
	var common commonFlags

	fs := newFlagSet("inspect", "hexclim inspect <input-raster> [flags]", stderr)
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("inspect takes exactly 1 argument, got %d", fs.NArg())
	}

	cfg, err := loadConfig(common.configPath, common.overrides(fs), stderr)
	if err != nil {
		return err
	}

	r, err := raster.Open(fs.Arg(0))
	if err != nil {
		return err
	}

	b := r.Bounds()
	coverage := profile.Classify(b)
	opts, err := cfg.ProfileOptions(common.detailed)
	if err != nil {
		return err
	}
	prof, err := profile.Select(coverage, opts)
	if err != nil {
		return err
	}

	report := inspectReport{
		Input: fs.Arg(0),
		Bounds: boundsReport{
			West: b.West, South: b.South, East: b.East, North: b.North,
			Width: b.Width, Height: b.Height,
			PixelWidth: b.PixelWidth, PixelHeight: b.PixelHeight,
			NoData: b.NoData, CRS: b.CRS,
		},
		Bands:    r.BandCount(),
		Coverage: coverage,
		Profile:  prof.Name,
	}
	for _, t := range prof.Tiers {
		n := hexgrid.EstimateCount(coverage, b, t.Resolution)
		report.Tiers = append(report.Tiers, tierReport{
			Resolution: t.Resolution,
			MinZoom:    t.MinZoom,
			MaxZoom:    t.MaxZoom,
			Method:     t.Method,
			Cells:      n,
			Estimated:  coverage != profile.Global,
		})
		report.Cells += n
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(data))
	return err
}
