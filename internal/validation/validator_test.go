// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type tierFixture struct {
	Resolution int    `validate:"h3res"`
	MinZoom    int    `validate:"zoom"`
	MaxZoom    int    `validate:"zoom,gtefield=MinZoom"`
	Method     string `validate:"required,oneof=mean bilinear"`
}

type tilesFixture struct {
	Layer          string `validate:"required,min=1,max=64"`
	Simplification int    `validate:"gte=0,lte=100"`
	Workers        int    `validate:"min=0"`
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input interface{}
	}{
		{"coarse tier", tierFixture{Resolution: 1, MinZoom: 0, MaxZoom: 3, Method: "mean"}},
		{"single zoom tier", tierFixture{Resolution: 8, MinZoom: 14, MaxZoom: 14, Method: "bilinear"}},
		{"finest resolution", tierFixture{Resolution: 15, MinZoom: 0, MaxZoom: 24, Method: "mean"}},
		{"tiles defaults", tilesFixture{Layer: "climate", Simplification: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     interface{}
		wantTag   string
		wantField string
		wantMsg   string
	}{
		{
			name:      "resolution too fine",
			input:     tierFixture{Resolution: 16, MaxZoom: 3, Method: "mean"},
			wantTag:   "h3res",
			wantField: "tierFixture.Resolution",
			wantMsg:   "must be an H3 resolution between 0 and 15",
		},
		{
			name:      "negative resolution",
			input:     tierFixture{Resolution: -1, MaxZoom: 3, Method: "mean"},
			wantTag:   "h3res",
			wantField: "tierFixture.Resolution",
		},
		{
			name:      "zoom out of range",
			input:     tierFixture{Resolution: 1, MinZoom: 0, MaxZoom: 25, Method: "mean"},
			wantTag:   "zoom",
			wantField: "tierFixture.MaxZoom",
			wantMsg:   "must be a zoom level between 0 and 24",
		},
		{
			name:      "inverted zoom range",
			input:     tierFixture{Resolution: 1, MinZoom: 5, MaxZoom: 3, Method: "mean"},
			wantTag:   "gtefield",
			wantField: "tierFixture.MaxZoom",
			wantMsg:   "must be greater than or equal to MinZoom",
		},
		{
			name:      "unknown method",
			input:     tierFixture{Resolution: 1, MaxZoom: 3, Method: "nearest"},
			wantTag:   "oneof",
			wantField: "tierFixture.Method",
			wantMsg:   "must be one of: mean bilinear",
		},
		{
			name:      "missing method",
			input:     tierFixture{Resolution: 1, MaxZoom: 3},
			wantTag:   "required",
			wantField: "tierFixture.Method",
			wantMsg:   "is required",
		},
		{
			name:      "layer name too long",
			input:     tilesFixture{Layer: strings.Repeat("x", 65)},
			wantTag:   "max",
			wantField: "tilesFixture.Layer",
			wantMsg:   "must be at most 64 characters",
		},
		{
			name:      "simplification too high",
			input:     tilesFixture{Layer: "climate", Simplification: 101},
			wantTag:   "lte",
			wantField: "tilesFixture.Simplification",
			wantMsg:   "must be less than or equal to 100",
		},
		{
			name:      "negative workers",
			input:     tilesFixture{Layer: "climate", Workers: -2},
			wantTag:   "min",
			wantField: "tilesFixture.Workers",
			wantMsg:   "must be at least 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() expected error, got nil")
			}

			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("ValidateStruct() error type = %T, want *Error", err)
			}
			if len(verr.Errors()) != 1 {
				t.Fatalf("got %d field errors, want 1: %v", len(verr.Errors()), verr)
			}

			fe := verr.Errors()[0]
			if fe.Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", fe.Tag(), tt.wantTag)
			}
			if fe.Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", fe.Field(), tt.wantField)
			}
			if tt.wantMsg != "" && !strings.Contains(fe.Error(), tt.wantMsg) {
				t.Errorf("Error() = %q, want it to contain %q", fe.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(tierFixture{Resolution: 20, MinZoom: 30, MaxZoom: 30, Method: "mean"})
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if len(verr.Errors()) != 3 {
		t.Fatalf("got %d field errors, want 3: %v", len(verr.Errors()), verr)
	}
	if strings.Count(verr.Error(), "; ") != 2 {
		t.Errorf("combined message should join errors with '; ': %q", verr.Error())
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	t.Parallel()

	err := ValidateStruct("not a struct")
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error for non-struct input, got %T", err)
	}
	if verr.Errors()[0].Tag() != "unknown" {
		t.Errorf("Tag() = %q, want unknown", verr.Errors()[0].Tag())
	}
}

func TestError_Empty(t *testing.T) {
	t.Parallel()

	e := &Error{}
	if e.Error() != "validation failed" {
		t.Errorf("Error() = %q, want %q", e.Error(), "validation failed")
	}
}
