// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/tomtom215/hexclim/internal/config"
	"github.com/tomtom215/hexclim/internal/logging"
)

// commonFlags are shared by convert and inspect.
type commonFlags struct {
	configPath string
	detailed   bool
	profile    string
	logLevel   string
	logFormat  string
}

func (c *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML configuration file (default: $HEXCLIM_CONFIG or ./hexclim.yaml)")
	fs.BoolVar(&c.detailed, "detailed", false, "force the detailed profile (resolutions up to 8) even for global rasters")
	fs.StringVar(&c.profile, "profile", "", "profile: auto, global_coarse, regional_detailed or explicit")
	fs.StringVar(&c.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	fs.StringVar(&c.logFormat, "log-format", "", "log format: console or json")
}

// overrides maps the flags the user set to koanf paths.
func (c *commonFlags) overrides(fs *pflag.FlagSet) map[string]interface{} {
	o := map[string]interface{}{}
	if fs.Changed("profile") {
		o["profile.name"] = c.profile
	}
	if fs.Changed("log-level") {
		o["logging.level"] = c.logLevel
	}
	if fs.Changed("log-format") {
		o["logging.format"] = c.logFormat
	}
	return o
}

// newFlagSet creates a flag set that reports errors instead of exiting.
func newFlagSet(name, usage string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage:\n  %s\n\nFlags:\n%s", usage, fs.FlagUsages())
	}
	return fs
}

// loadConfig loads the layered configuration and initializes logging.
func loadConfig(path string, overrides map[string]interface{}, stderr io.Writer) (*config.Config, error) {
	cfg, err := config.LoadWithKoanf(config.LoadOptions{Path: path, Overrides: overrides})
	if err != nil {
		return nil, err
	}

	lc := cfg.Logging.ToLoggingConfig()
	lc.Output = stderr
	logging.Init(lc)
	return cfg, nil
}
