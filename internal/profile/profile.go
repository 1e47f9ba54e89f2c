// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/hexclim/internal/raster"
	"github.com/tomtom215/hexclim/internal/validation"
)

// Zoom range every profile must cover.
const (
	MinZoom = 0
	MaxZoom = 14
)

// ErrInvalidProfile is returned when a tier list breaks the profile invariants.
var ErrInvalidProfile = errors.New("invalid profile")

// Coverage classifies the extent of a raster.
type Coverage string

const (
	Global   Coverage = "GLOBAL"
	Regional Coverage = "REGIONAL"
)

// Method is the per-tier aggregation strategy.
type Method string

const (
	// Mean averages every valid pixel under the hexagon footprint.
	Mean Method = "MEAN"
	// Bilinear interpolates the raster at the hexagon centroid.
	Bilinear Method = "BILINEAR"
)

// ParseMethod parses a method name case-insensitively.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToUpper(strings.TrimSpace(s))) {
	case Mean:
		return Mean, nil
	case Bilinear:
		return Bilinear, nil
	default:
		return "", fmt.Errorf("%w: unknown aggregation method %q", ErrInvalidProfile, s)
	}
}

// Tier binds an H3 resolution to a zoom range and an aggregation method.
type Tier struct {
	Resolution int    `json:"resolution" validate:"h3res"`
	MinZoom    int    `json:"min_zoom" validate:"zoom"`
	MaxZoom    int    `json:"max_zoom" validate:"zoom,gtefield=MinZoom"`
	Method     Method `json:"method" validate:"required,oneof=MEAN BILINEAR"`
}

func (t Tier) String() string {
	return fmt.Sprintf("res %d z%d-%d %s", t.Resolution, t.MinZoom, t.MaxZoom, t.Method)
}

// Profile is an ordered list of tiers.
type Profile struct {
	Name  string `json:"name"`
	Tiers []Tier `json:"tiers"`
}

// Resolutions returns the resolution of every tier in order.
func (p Profile) Resolutions() []int {
	out := make([]int, len(p.Tiers))
	for i, t := range p.Tiers {
		out[i] = t.Resolution
	}
	return out
}

// Validate checks the profile invariants: at least one tier, resolutions
// strictly increasing, zoom ranges contiguous and covering MinZoom..MaxZoom.
func (p Profile) Validate() error {
	if len(p.Tiers) == 0 {
		return fmt.Errorf("%w: %s has no tiers", ErrInvalidProfile, p.Name)
	}

	next := MinZoom
	for i, t := range p.Tiers {
		if err := validation.ValidateStruct(t); err != nil {
			return fmt.Errorf("%w: tier %d: %w", ErrInvalidProfile, i, err)
		}
		if t.MinZoom != next {
			return fmt.Errorf("%w: tier %d (%s) must start at zoom %d", ErrInvalidProfile, i, t, next)
		}
		if i > 0 && t.Resolution <= p.Tiers[i-1].Resolution {
			return fmt.Errorf("%w: tier %d (%s) resolution must be greater than %d",
				ErrInvalidProfile, i, t, p.Tiers[i-1].Resolution)
		}
		next = t.MaxZoom + 1
	}
	if last := p.Tiers[len(p.Tiers)-1]; last.MaxZoom != MaxZoom {
		return fmt.Errorf("%w: last tier (%s) must end at zoom %d", ErrInvalidProfile, last, MaxZoom)
	}
	return nil
}

// Profile names accepted by Select.
const (
	NameAuto             = "auto"
	NameGlobalCoarse     = "global_coarse"
	NameRegionalDetailed = "regional_detailed"
	NameExplicit         = "explicit"
)

// ParseName normalizes a profile name. The empty string means auto.
func ParseName(s string) (string, error) {
	switch name := strings.ToLower(strings.TrimSpace(s)); name {
	case "", NameAuto:
		return NameAuto, nil
	case NameGlobalCoarse, NameRegionalDetailed, NameExplicit:
		return name, nil
	default:
		return "", fmt.Errorf("%w: unknown profile %q", ErrInvalidProfile, s)
	}
}

// GlobalCoarse keeps cell counts manageable for planet-wide rasters.
func GlobalCoarse() Profile {
	return Profile{
		Name: NameGlobalCoarse,
		Tiers: []Tier{
			{Resolution: 1, MinZoom: 0, MaxZoom: 3, Method: Mean},
			{Resolution: 3, MinZoom: 4, MaxZoom: 6, Method: Mean},
			{Resolution: 5, MinZoom: 7, MaxZoom: 14, Method: Mean},
		},
	}
}

// RegionalDetailed adds fine, interpolated tiers for regional rasters.
func RegionalDetailed() Profile {
	return Profile{
		Name: NameRegionalDetailed,
		Tiers: []Tier{
			{Resolution: 1, MinZoom: 0, MaxZoom: 3, Method: Mean},
			{Resolution: 3, MinZoom: 4, MaxZoom: 6, Method: Mean},
			{Resolution: 5, MinZoom: 7, MaxZoom: 9, Method: Mean},
			{Resolution: 7, MinZoom: 10, MaxZoom: 11, Method: Bilinear},
			{Resolution: 8, MinZoom: 12, MaxZoom: 14, Method: Bilinear},
		},
	}
}

// Classify reports GLOBAL when the bounds reach both polar caps and the
// antimeridian on both sides, REGIONAL otherwise.
func Classify(b raster.Bounds) Coverage {
	if b.West <= -179 && b.East >= 179 && b.South <= -60 && b.North >= 60 {
		return Global
	}
	return Regional
}

// Options controls profile selection.
type Options struct {
	// Name is one of auto, global_coarse, regional_detailed or explicit.
	Name string
	// Tiers is used when Name is explicit.
	Tiers []Tier
	// ForceDetailed selects RegionalDetailed regardless of coverage.
	ForceDetailed bool
}

// Select picks the profile for a coverage class.
func Select(c Coverage, opts Options) (Profile, error) {
	if opts.ForceDetailed {
		return RegionalDetailed(), nil
	}

	name, err := ParseName(opts.Name)
	if err != nil {
		return Profile{}, err
	}

	var p Profile
	switch name {
	case NameAuto:
		if c == Global {
			p = GlobalCoarse()
		} else {
			p = RegionalDetailed()
		}
	case NameGlobalCoarse:
		p = GlobalCoarse()
	case NameRegionalDetailed:
		p = RegionalDetailed()
	case NameExplicit:
		p = Profile{Name: NameExplicit, Tiers: append([]Tier(nil), opts.Tiers...)}
	}

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
