// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/hexclim/internal/profile"
	"github.com/tomtom215/hexclim/internal/validation"
)

// Validate normalizes case-insensitive settings and checks the configuration.
func (c *Config) Validate() error {
	c.normalize()

	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	return c.validateProfile()
}

func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Profile.Name = strings.ToLower(strings.TrimSpace(c.Profile.Name))
	c.Table.Compression = strings.ToLower(strings.TrimSpace(c.Table.Compression))
}

// validateProfile checks explicit tier lists against the profile invariants.
// Named profiles are built in and always valid.
func (c *Config) validateProfile() error {
	if c.Profile.Name != profile.NameExplicit {
		if len(c.Profile.Tiers) > 0 {
			return fmt.Errorf("profile.tiers is only used when profile.name is %q, got %q",
				profile.NameExplicit, c.Profile.Name)
		}
		return nil
	}

	opts, err := c.ProfileOptions(false)
	if err != nil {
		return fmt.Errorf("profile.tiers: %w", err)
	}
	p := profile.Profile{Name: profile.NameExplicit, Tiers: opts.Tiers}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("profile.tiers: %w", err)
	}
	return nil
}
