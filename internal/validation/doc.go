// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

// Package validation provides struct validation using go-playground/validator v10.
//
// The package wraps the validator library in a thread-safe singleton with
// the custom tags the converter needs and translates failures into short,
// human-readable messages suitable for the CLI.
//
// # Custom Tags
//
//	h3res - an H3 resolution between 0 and 15
//	zoom  - a web map zoom level between 0 and 24
//
// # Usage
//
//	type TierConfig struct {
//	    Resolution int    `koanf:"resolution" validate:"h3res"`
//	    MinZoom    int    `koanf:"min_zoom" validate:"zoom"`
//	    MaxZoom    int    `koanf:"max_zoom" validate:"zoom,gtefield=MinZoom"`
//	    Method     string `koanf:"method" validate:"required,oneof=mean bilinear MEAN BILINEAR"`
//	}
//
//	if err := validation.ValidateStruct(&tier); err != nil {
//	    return fmt.Errorf("invalid tier: %w", err)
//	}
//
// Failures are returned as *Error, which carries one FieldError per failing
// field; use errors.As to inspect them.
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use.
package validation
