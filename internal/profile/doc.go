// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

// Package profile classifies raster coverage and maps zoom ranges to H3
// resolutions and aggregation methods.
//
// A Profile is an ordered list of tiers whose zoom ranges are contiguous and
// together cover zoom 0 through 14. Two built-in profiles exist:
//
//	GlobalCoarse      res 1 z0-3 MEAN, res 3 z4-6 MEAN, res 5 z7-14 MEAN
//	RegionalDetailed  res 1 z0-3 MEAN, res 3 z4-6 MEAN, res 5 z7-9 MEAN,
//	                  res 7 z10-11 BILINEAR, res 8 z12-14 BILINEAR
//
// Profiles are plain values; nothing in this package holds mutable state.
package profile
