// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package aggregate

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/uber/h3-go/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/tomtom215/hexclim/internal/logging"
	"github.com/tomtom215/hexclim/internal/profile"
	"github.com/tomtom215/hexclim/internal/raster"
)

// chunksPerWorker splits a tier into more chunks than workers so that slow
// chunks (dense MEAN windows near the poles) do not leave workers idle.
const chunksPerWorker = 4

// cancelCheckEvery is how many cells a worker processes between context checks.
const cancelCheckEvery = 1024

// Sampler is the read-only raster access the aggregator needs.
// *raster.Raster implements it.
type Sampler interface {
	Bounds() raster.Bounds
	Index(lon, lat float64) (row, col int)
	Window(rowMin, rowMax, colMin, colMax int) raster.Block
	SamplePoint(lon, lat float64) (float64, bool)
}

// Value is the aggregated value of one cell.
type Value struct {
	Cell       h3.Cell
	Value      float64
	Resolution int
}

// Stats summarises one tier.
type Stats struct {
	Resolution      int            `json:"resolution"`
	Method          profile.Method `json:"method"`
	CellsGenerated  int            `json:"cells_generated"`
	CellsAggregated int            `json:"cells_aggregated"`
	CellsDropped    int            `json:"cells_dropped"`
	Duration        time.Duration  `json:"duration"`
}

// Options configures an Aggregator.
type Options struct {
	// Workers bounds concurrent goroutines (0 = runtime.NumCPU()).
	Workers int
	// ProgressInterval throttles progress log lines (0 disables them).
	ProgressInterval time.Duration
}

// Aggregator computes one value per H3 cell from a raster.
type Aggregator struct {
	src     Sampler
	bounds  raster.Bounds
	workers int
	every   time.Duration
}

// New creates an aggregator over src.
func New(src Sampler, opts Options) *Aggregator {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Aggregator{
		src:     src,
		bounds:  src.Bounds(),
		workers: workers,
		every:   opts.ProgressInterval,
	}
}

// Workers returns the effective worker count.
func (a *Aggregator) Workers() int { return a.workers }

// Aggregate computes a value for every cell with the tier's method.
//
// Cells without a valid sample are dropped and only counted in Stats. Each
// cell is attempted exactly once, and the output preserves input order.
func (a *Aggregator) Aggregate(ctx context.Context, cells []h3.Cell, tier profile.Tier) ([]Value, Stats, error) {
	start := time.Now()
	stats := Stats{Resolution: tier.Resolution, Method: tier.Method, CellsGenerated: len(cells)}

	var compute func(h3.Cell) (float64, bool)
	switch tier.Method {
	case profile.Mean:
		compute = a.mean
	case profile.Bilinear:
		compute = a.bilinear
	default:
		return nil, stats, fmt.Errorf("%w: unknown aggregation method %q", profile.ErrInvalidProfile, tier.Method)
	}

	results := make([]float64, len(cells))
	valid := make([]bool, len(cells))

	var (
		done     atomic.Int64
		progress = rate.Sometimes{Interval: a.every}
		logger   = logging.Ctx(ctx)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	n := len(cells)
	chunkSize := max((n+a.workers*chunksPerWorker-1)/(a.workers*chunksPerWorker), 1)
	for lo := 0; lo < n; lo += chunkSize {
		hi := min(lo+chunkSize, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				v, ok := compute(cells[i])
				if ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
					results[i] = v
					valid[i] = true
				}
			}

			total := done.Add(int64(hi - lo))
			if a.every > 0 {
				progress.Do(func() {
					logger.Debug().
						Int("resolution", tier.Resolution).
						Int64("done", total).
						Int("cells", n).
						Msg("Aggregation progress")
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		stats.Duration = time.Since(start)
		return nil, stats, fmt.Errorf("aggregate res %d: %w", tier.Resolution, err)
	}

	values := make([]Value, 0, n)
	for i, ok := range valid {
		if ok {
			values = append(values, Value{Cell: cells[i], Value: results[i], Resolution: tier.Resolution})
		}
	}

	stats.CellsAggregated = len(values)
	stats.CellsDropped = n - len(values)
	stats.Duration = time.Since(start)

	if stats.CellsDropped > 0 {
		logger.Debug().
			Int("resolution", tier.Resolution).
			Int("skipped", stats.CellsDropped).
			Msg("Cells skipped without valid samples")
	}
	return values, stats, nil
}
