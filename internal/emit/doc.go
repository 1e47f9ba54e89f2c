// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

// Package emit turns aggregated cell values into GeoJSON features and table rows.
//
// Each tier is written as one FeatureCollection file, streamed feature by
// feature. Every feature is the cell's hexagon (or pentagon) polygon with two
// properties: "h3", the cell index as a hex string, and "value", rounded to two
// decimals. Features are encoded with orb/geojson through goccy/go-json.
package emit
