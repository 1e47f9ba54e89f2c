// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package config

import (
	"time"

	"github.com/tomtom215/hexclim/internal/logging"
	"github.com/tomtom215/hexclim/internal/profile"
)

// Config holds all converter configuration loaded from defaults, an optional
// YAML file, environment variables and command line flags.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in values matching the reference conversion settings
//  2. Config File: Optional YAML file (--config, HEXCLIM_CONFIG or hexclim.yaml)
//  3. Environment Variables: Override any mapped setting
//  4. Overrides: Values from command line flags
//
// Example:
//
//	cfg, err := config.LoadWithKoanf(config.LoadOptions{Path: flagConfig})
//	if err != nil {
//	    return err
//	}
//	logging.Init(cfg.Logging.ToLoggingConfig())
type Config struct {
	Logging     LoggingConfig     `koanf:"logging"`
	Profile     ProfileConfig     `koanf:"profile"`
	Aggregation AggregationConfig `koanf:"aggregation"`
	Tiles       TilesConfig       `koanf:"tiles"`
	Table       TableConfig       `koanf:"table"`
	Database    DatabaseConfig    `koanf:"database"`
	Scratch     ScratchConfig     `koanf:"scratch"`
	Metrics     MetricsConfig     `koanf:"metrics"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error, disabled.
	// Default: info
	Level string `koanf:"level" validate:"required,oneof=trace debug info warn warning error disabled off"`

	// Format is the output format: json or console.
	// Console is the default because the converter is normally run by hand;
	// batch drivers should switch to json.
	Format string `koanf:"format" validate:"required,oneof=json console"`

	// Caller includes file:line in every log line.
	Caller bool `koanf:"caller"`
}

// ToLoggingConfig converts to the logging package configuration.
func (l LoggingConfig) ToLoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = l.Level
	cfg.Format = l.Format
	cfg.Caller = l.Caller
	return cfg
}

// ProfileConfig selects the resolution/zoom profile.
type ProfileConfig struct {
	// Name is auto, global_coarse, regional_detailed or explicit.
	// auto picks by coverage class.
	Name string `koanf:"name" validate:"required,oneof=auto global_coarse regional_detailed explicit"`

	// Tiers is only read when Name is explicit.
	Tiers []TierConfig `koanf:"tiers" validate:"dive"`
}

// TierConfig is one explicitly configured tier.
type TierConfig struct {
	Resolution int    `koanf:"resolution" validate:"h3res"`
	MinZoom    int    `koanf:"min_zoom" validate:"zoom"`
	MaxZoom    int    `koanf:"max_zoom" validate:"zoom"`
	Method     string `koanf:"method" validate:"required"`
}

// AggregationConfig controls the per-tier worker pool.
type AggregationConfig struct {
	// Workers bounds concurrent aggregation goroutines (0 = runtime.NumCPU()).
	Workers int `koanf:"workers" validate:"min=0"`

	// ProgressInterval throttles progress log lines during long tiers.
	ProgressInterval time.Duration `koanf:"progress_interval" validate:"gte=0"`
}

// TilesConfig controls the tippecanoe invocation.
type TilesConfig struct {
	Binary              string        `koanf:"binary" validate:"required"`
	Layer               string        `koanf:"layer" validate:"required,max=64"`
	Simplification      int           `koanf:"simplification" validate:"gte=0,lte=100"`
	DetectSharedBorders bool          `koanf:"detect_shared_borders"`
	Timeout             time.Duration `koanf:"timeout" validate:"gte=0"` // 0 = no limit
	ExtraArgs           []string      `koanf:"extra_args"`
}

// TableConfig controls the Parquet export.
type TableConfig struct {
	Compression  string `koanf:"compression" validate:"required,oneof=snappy gzip zstd lz4 brotli uncompressed"`
	RowGroupSize int    `koanf:"row_group_size" validate:"min=1"`
}

// DatabaseConfig holds DuckDB settings for the in-memory table builder.
type DatabaseConfig struct {
	MaxMemory string `koanf:"max_memory" validate:"required"`
	Threads   int    `koanf:"threads" validate:"min=0"` // Number of DuckDB threads (0 = use NumCPU)
}

// ScratchConfig controls where intermediate GeoJSON files are written.
type ScratchConfig struct {
	// Dir is the parent of the per-run scratch directory.
	// Empty means next to the output file.
	Dir string `koanf:"dir"`
}

// MetricsConfig controls the optional Prometheus textfile export.
type MetricsConfig struct {
	// Textfile, when set, receives the run's metrics in textfile-collector format.
	Textfile string `koanf:"textfile"`
}

// ProfileOptions converts the profile section into selection options.
// Method strings are parsed here; invalid ones are reported by Validate.
func (c *Config) ProfileOptions(forceDetailed bool) (profile.Options, error) {
	opts := profile.Options{Name: c.Profile.Name, ForceDetailed: forceDetailed}
	for _, t := range c.Profile.Tiers {
		m, err := profile.ParseMethod(t.Method)
		if err != nil {
			return profile.Options{}, err
		}
		opts.Tiers = append(opts.Tiers, profile.Tier{
			Resolution: t.Resolution,
			MinZoom:    t.MinZoom,
			MaxZoom:    t.MaxZoom,
			Method:     m,
		})
	}
	return opts, nil
}
