// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package emit

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/tomtom215/hexclim/internal/aggregate"
	"github.com/tomtom215/hexclim/internal/hexgrid"
)

// Feature property names.
const (
	PropertyH3    = "h3"
	PropertyValue = "value"
)

// goccyMarshaler adapts goccy/go-json to orb's marshaler hook.
type goccyMarshaler struct{}

func (goccyMarshaler) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }

//nolint:gochecknoinits // orb/geojson exposes its encoder only as a package variable
func init() {
	geojson.CustomJSONMarshaler = goccyMarshaler{}
}

// Round rounds v to two decimal places.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// Feature builds the GeoJSON feature of an aggregated cell.
func Feature(v aggregate.Value) (*geojson.Feature, error) {
	ring, err := hexgrid.Boundary(v.Cell)
	if err != nil {
		return nil, err
	}
	f := geojson.NewFeature(orb.Polygon{ring})
	f.Properties[PropertyH3] = v.Cell.String()
	f.Properties[PropertyValue] = Round(v.Value)
	return f, nil
}

var (
	collectionOpen  = []byte(`{"type":"FeatureCollection","features":[`)
	collectionClose = []byte("]}\n")
	separator       = []byte(",\n")
)

// WriteFeatureCollection streams values as a GeoJSON FeatureCollection to w
// without holding the whole collection in memory. It returns the number of
// features written; cells whose geometry cannot be computed are skipped.
func WriteFeatureCollection(w io.Writer, values []aggregate.Value) (int, error) {
	bw := bufio.NewWriterSize(w, 1<<20)
	if _, err := bw.Write(collectionOpen); err != nil {
		return 0, err
	}

	written := 0
	for _, v := range values {
		f, err := Feature(v)
		if err != nil {
			continue
		}
		data, err := json.Marshal(f)
		if err != nil {
			return written, fmt.Errorf("encode feature %s: %w", v.Cell, err)
		}
		if written > 0 {
			if _, err := bw.Write(separator); err != nil {
				return written, err
			}
		}
		if _, err := bw.Write(data); err != nil {
			return written, err
		}
		written++
	}

	if _, err := bw.Write(collectionClose); err != nil {
		return written, err
	}
	return written, bw.Flush()
}

// WriteTier writes one tier's features to path, replacing any existing file.
func WriteTier(path string, values []aggregate.Value) (n int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	n, err = WriteFeatureCollection(f, values)
	if err != nil {
		return n, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}

// Row is one record of the analytical table.
type Row struct {
	H3Index    string
	Value      float32
	Resolution uint8
}

// Rows converts aggregated values to table rows. The value is rounded the
// same way as in the GeoJSON features.
func Rows(values []aggregate.Value) []Row {
	rows := make([]Row, len(values))
	for i, v := range values {
		rows[i] = Row{
			H3Index:    v.Cell.String(),
			Value:      float32(Round(v.Value)),
			Resolution: uint8(v.Resolution), //nolint:gosec // resolution is validated to 0..15
		}
	}
	return rows
}
