// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"hexclim.yaml",
	"hexclim.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "HEXCLIM_CONFIG"

// Default returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file, env vars and flags.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Caller: false,
		},
		Profile: ProfileConfig{
			Name:  "auto",
			Tiers: []TierConfig{},
		},
		Aggregation: AggregationConfig{
			Workers:          0, // 0 = use runtime.NumCPU()
			ProgressInterval: 5 * time.Second,
		},
		Tiles: TilesConfig{
			Binary:              "tippecanoe",
			Layer:               "climate",
			Simplification:      10,
			DetectSharedBorders: true,
			Timeout:             2 * time.Hour,
			ExtraArgs:           []string{},
		},
		Table: TableConfig{
			Compression:  "snappy",
			RowGroupSize: 122880, // DuckDB default
		},
		Database: DatabaseConfig{
			MaxMemory: "2GB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Scratch: ScratchConfig{
			Dir: "", // next to the output
		},
		Metrics: MetricsConfig{
			Textfile: "",
		},
	}
}

// LoadOptions controls LoadWithKoanf.
type LoadOptions struct {
	// Path is an explicit config file. When set it must exist.
	Path string

	// Overrides are applied last, keyed by koanf path (e.g. "aggregation.workers").
	// The CLI uses them for flags the user actually set.
	Overrides map[string]interface{}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file
//  3. Environment Variables: Override any mapped setting
//  4. Overrides: Command line flags
func LoadWithKoanf(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional unless given explicitly)
	configPath := opts.Path
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	} else {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables
	// TIPPECANOE_PATH -> tiles.binary
	// HEXCLIM_WORKERS -> aggregation.workers
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Layer 4: Command line overrides, applied in a stable order
	keys := make([]string, 0, len(opts.Overrides))
	for key := range opts.Overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := k.Set(key, opts.Overrides[key]); err != nil {
			return nil, fmt.Errorf("failed to apply override %s: %w", key, err)
		}
	}

	// Post-process slice fields from space-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Load loads configuration from the default locations without overrides.
func Load() (*Config, error) {
	return LoadWithKoanf(LoadOptions{})
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as whitespace-separated slices
var sliceConfigPaths = []string{
	"tiles.extra_args",
}

// processSliceFields converts string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
// Arguments are split on whitespace since tippecanoe flags may contain commas.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		if err := k.Set(path, strings.Fields(strVal)); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Profile and aggregation
	"hexclim_profile":           "profile.name",
	"hexclim_workers":           "aggregation.workers",
	"hexclim_progress_interval": "aggregation.progress_interval",

	// tippecanoe
	"tippecanoe_path":               "tiles.binary",
	"tippecanoe_timeout":            "tiles.timeout",
	"tippecanoe_args":               "tiles.extra_args",
	"hexclim_layer_name":            "tiles.layer",
	"hexclim_simplification":        "tiles.simplification",
	"hexclim_detect_shared_borders": "tiles.detect_shared_borders",

	// Parquet table
	"hexclim_parquet_compression":    "table.compression",
	"hexclim_parquet_row_group_size": "table.row_group_size",

	// DuckDB
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Files
	"hexclim_scratch_dir":  "scratch.dir",
	"hexclim_metrics_file": "metrics.textfile",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - LOG_LEVEL -> logging.level
//   - TIPPECANOE_PATH -> tiles.binary
//   - DUCKDB_MAX_MEMORY -> database.max_memory
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
