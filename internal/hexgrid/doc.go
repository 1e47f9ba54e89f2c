// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

// Package hexgrid enumerates the H3 cells of a tier and exposes their
// geometry as orb types.
//
// Global coverage expands the 122 resolution-0 base cells to their
// descendants, giving exactly 2 + 120*7^res cells. Regional coverage polyfills
// the raster's bounding rectangle (centroid containment) in strips of at most
// 90 degrees of longitude and filters the result so that no centroid falls
// outside the rectangle.
package hexgrid
