// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// TestRecordTier tests per-tier cell counters
func TestRecordTier(t *testing.T) {
	tests := []struct {
		name       string
		resolution int
		method     string
		generated  int
		aggregated int
		dropped    int
	}{
		{"coarse global tier", 1, "MEAN", 842, 842, 0},
		{"regional tier with nodata", 7, "BILINEAR", 1000, 640, 360},
		{"empty tier", 8, "BILINEAR", 50, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := strconv.Itoa(tt.resolution)
			genBefore := testutil.ToFloat64(CellsGenerated.WithLabelValues(res))
			aggBefore := testutil.ToFloat64(CellsAggregated.WithLabelValues(res))
			dropBefore := testutil.ToFloat64(CellsDropped.WithLabelValues(res))

			RecordTier(tt.resolution, tt.method, tt.generated, tt.aggregated, tt.dropped, 250*time.Millisecond)

			if got := testutil.ToFloat64(CellsGenerated.WithLabelValues(res)) - genBefore; got != float64(tt.generated) {
				t.Errorf("generated delta = %v, want %d", got, tt.generated)
			}
			if got := testutil.ToFloat64(CellsAggregated.WithLabelValues(res)) - aggBefore; got != float64(tt.aggregated) {
				t.Errorf("aggregated delta = %v, want %d", got, tt.aggregated)
			}
			if got := testutil.ToFloat64(CellsDropped.WithLabelValues(res)) - dropBefore; got != float64(tt.dropped) {
				t.Errorf("dropped delta = %v, want %d", got, tt.dropped)
			}
		})
	}
}

// TestRecordTileBuild tests that only failures increment the error counter
func TestRecordTileBuild(t *testing.T) {
	before := testutil.ToFloat64(TileBuildErrors.WithLabelValues("failed"))

	RecordTileBuild(2*time.Second, "", nil)
	RecordTileBuild(time.Second, "failed", errors.New("exit status 1"))

	if got := testutil.ToFloat64(TileBuildErrors.WithLabelValues("failed")) - before; got != 1 {
		t.Errorf("tile build error delta = %v, want 1", got)
	}
}

// TestRecordRun tests run outcome counting
func TestRecordRun(t *testing.T) {
	for _, outcome := range []string{OutcomeSuccess, OutcomeFailure, OutcomeEmpty} {
		before := testutil.ToFloat64(RunsTotal.WithLabelValues(outcome))
		RecordRun(outcome)
		if got := testutil.ToFloat64(RunsTotal.WithLabelValues(outcome)) - before; got != 1 {
			t.Errorf("RunsTotal{%s} delta = %v, want 1", outcome, got)
		}
	}
}

// TestGauges tests table and artifact gauges
func TestGauges(t *testing.T) {
	SetTableRows(48_000)
	if got := testutil.ToFloat64(TableRows); got != 48_000 {
		t.Errorf("TableRows = %v, want 48000", got)
	}

	SetArtifactBytes("tiles", 3<<20)
	if got := testutil.ToFloat64(ArtifactBytes.WithLabelValues("tiles")); got != 3<<20 {
		t.Errorf("ArtifactBytes{tiles} = %v, want %d", got, 3<<20)
	}
}

// TestRecordDBQuery tests DuckDB statement metrics and error truncation
func TestRecordDBQuery(t *testing.T) {
	RecordDBQuery("COPY", "hex_values", 10*time.Millisecond, nil)

	long := errors.New(strings.Repeat("x", 80))
	RecordDBQuery("APPEND", "hex_values", time.Millisecond, long)

	truncated := strings.Repeat("x", 50)
	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("APPEND", "hex_values", truncated)); got < 1 {
		t.Errorf("expected truncated error label to be recorded, got %v", got)
	}
}

// TestWriteTextfile tests the textfile-collector export against a private registry
func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hexclim_runs_total",
		Help: "Total number of conversion runs by outcome",
	}, []string{"outcome"})
	reg.MustRegister(runs)
	runs.WithLabelValues(OutcomeSuccess).Add(2)

	path := filepath.Join(t.TempDir(), "hexclim.prom")
	if err := writeTextfile(path, reg); err != nil {
		t.Fatalf("writeTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `hexclim_runs_total{outcome="success"} 2`) {
		t.Errorf("textfile missing run counter:\n%s", data)
	}

	if err := writeTextfile("", reg); !errors.Is(err, ErrNoTextfile) {
		t.Errorf("empty path error = %v, want ErrNoTextfile", err)
	}
}

// TestTierHistogramBuckets tests that tier durations land in the histogram
func TestTierHistogramBuckets(t *testing.T) {
	RecordTier(5, "MEAN", 1, 1, 0, 3*time.Second)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	var family *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "hexclim_tier_duration_seconds" {
			family = f
		}
	}
	if family == nil {
		t.Fatal("hexclim_tier_duration_seconds not registered")
	}
	if family.GetType() != dto.MetricType_HISTOGRAM {
		t.Errorf("type = %v, want HISTOGRAM", family.GetType())
	}

	var found bool
	for _, m := range family.GetMetric() {
		labels := map[string]string{}
		for _, lp := range m.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		if labels["resolution"] == "5" && labels["method"] == "MEAN" {
			found = m.GetHistogram().GetSampleCount() >= 1
		}
	}
	if !found {
		t.Error("no sample recorded for resolution 5 MEAN")
	}
}

// TestMetricLint tests that metric names and help strings follow conventions
func TestMetricLint(t *testing.T) {
	RecordRun(OutcomeSuccess)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer,
		"hexclim_runs_total", "hexclim_cells_generated_total", "hexclim_table_rows")
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric lint problem: %s: %s", p.Metric, p.Text)
	}
}
