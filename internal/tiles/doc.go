// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

// Package tiles packages per-tier GeoJSON files into a PMTiles archive by
// running tippecanoe once with one named layer per tier.
//
// Each tier becomes a -L argument with its own zoom band, all under the same
// layer name so a map style can address the whole pyramid as one source layer:
//
//	tippecanoe -o out.pmtiles --force --no-feature-limit --no-tile-size-limit \
//	    --simplification=10 --detect-shared-borders \
//	    -L '{"file":"res1.geojson","layer":"climate","minzoom":0,"maxzoom":3}' \
//	    -L '{"file":"res3.geojson","layer":"climate","minzoom":4,"maxzoom":6}'
//
// Failures are reported as ErrToolMissing or a *ToolError wrapping
// ErrToolFailed that carries the tail of tippecanoe's stderr.
package tiles
