// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Artifact extensions.
const (
	TilesExt = ".pmtiles"
	TableExt = ".parquet"
)

// NormalizeOutput forces the .pmtiles extension on an output path,
// replacing any other extension.
func NormalizeOutput(output string) (string, error) {
	if strings.TrimSpace(output) == "" {
		return "", errors.New("output path is empty")
	}
	ext := filepath.Ext(output)
	if strings.EqualFold(ext, TilesExt) {
		return output, nil
	}
	return strings.TrimSuffix(output, ext) + TilesExt, nil
}

// TablePath returns the Parquet path that accompanies a tiles output.
func TablePath(tilesPath string) string {
	return strings.TrimSuffix(tilesPath, filepath.Ext(tilesPath)) + TableExt
}

// scratchDirName names the per-run directory for intermediate GeoJSON.
func scratchDirName(tilesPath, runID string) string {
	stem := strings.TrimSuffix(filepath.Base(tilesPath), filepath.Ext(tilesPath))
	return fmt.Sprintf(".temp_geojson_%s_%s", stem, runID)
}

// createScratchDir creates the run's scratch directory under parent. The
// directory must not exist yet.
func createScratchDir(parent, tilesPath, runID string) (string, error) {
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return "", fmt.Errorf("create scratch parent %s: %w", parent, err)
	}
	dir := filepath.Join(parent, scratchDirName(tilesPath, runID))
	if err := os.Mkdir(dir, 0o750); err != nil {
		return "", fmt.Errorf("create scratch directory: %w", err)
	}
	return dir, nil
}

// tierFile names the GeoJSON file of one tier.
func tierFile(dir string, resolution int) string {
	return filepath.Join(dir, fmt.Sprintf("h3_res%d.geojson", resolution))
}

// fileSize returns the size of path, or 0 when it cannot be read.
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
