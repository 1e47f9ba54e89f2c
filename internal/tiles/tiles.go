// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package tiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/hexclim/internal/logging"
	"github.com/tomtom215/hexclim/internal/metrics"
)

// DefaultLayer is the source layer name used when none is configured.
const DefaultLayer = "climate"

// stderrTail bounds how much tool output is kept for error reports.
const stderrTail = 16 << 10

var (
	// ErrToolMissing is returned when the tippecanoe executable cannot be found.
	ErrToolMissing = errors.New("tippecanoe not found")

	// ErrToolFailed is returned when tippecanoe exits non-zero, times out,
	// or produces no output.
	ErrToolFailed = errors.New("tippecanoe failed")

	// ErrNoLayers is returned when Build is called without any layer.
	ErrNoLayers = errors.New("no layers to build")

	errEmptyOutput = errors.New("output file is missing or empty")
)

// ToolError describes a failed tippecanoe invocation.
type ToolError struct {
	Binary   string
	ExitCode int // -1 when the process did not exit normally
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Binary, e.Err)
	if e.ExitCode > 0 {
		msg = fmt.Sprintf("%s (exit status %d)", msg, e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap exposes both ErrToolFailed and the underlying cause.
func (e *ToolError) Unwrap() []error {
	return []error{ErrToolFailed, e.Err}
}

// Config controls the tippecanoe invocation.
type Config struct {
	Binary              string
	Layer               string
	Simplification      int
	DetectSharedBorders bool
	Timeout             time.Duration // 0 = no limit
	ExtraArgs           []string
}

// Layer is one zoom band of the tileset, backed by a GeoJSON file.
type Layer struct {
	File    string
	Name    string
	MinZoom int
	MaxZoom int
}

// layerSpec is the JSON form of a layer passed with -L.
type layerSpec struct {
	File    string `json:"file"`
	Layer   string `json:"layer"`
	MinZoom int    `json:"minzoom"`
	MaxZoom int    `json:"maxzoom"`
}

// Builder packages tier GeoJSON files into a single PMTiles archive.
type Builder struct {
	cfg Config
}

// NewBuilder creates a tile builder. Empty fields take their defaults.
func NewBuilder(cfg Config) *Builder {
	if cfg.Binary == "" {
		cfg.Binary = "tippecanoe"
	}
	if cfg.Layer == "" {
		cfg.Layer = DefaultLayer
	}
	return &Builder{cfg: cfg}
}

// Config returns the effective configuration.
func (b *Builder) Config() Config {
	return b.cfg
}

// Args returns the tippecanoe arguments for building output from layers.
func (b *Builder) Args(output string, layers []Layer) ([]string, error) {
	args := []string{
		"-o", output,
		"--force",
		"--no-feature-limit",
		"--no-tile-size-limit",
		"--simplification=" + strconv.Itoa(b.cfg.Simplification),
	}
	if b.cfg.DetectSharedBorders {
		args = append(args, "--detect-shared-borders")
	}
	args = append(args, b.cfg.ExtraArgs...)

	for _, l := range layers {
		name := l.Name
		if name == "" {
			name = b.cfg.Layer
		}
		spec, err := json.Marshal(layerSpec{
			File:    l.File,
			Layer:   name,
			MinZoom: l.MinZoom,
			MaxZoom: l.MaxZoom,
		})
		if err != nil {
			return nil, fmt.Errorf("encode layer %s: %w", l.File, err)
		}
		args = append(args, "-L", string(spec))
	}
	return args, nil
}

// Build invokes tippecanoe once to write output from layers. On failure any
// partial output is removed.
func (b *Builder) Build(ctx context.Context, output string, layers []Layer) (err error) {
	if len(layers) == 0 {
		return ErrNoLayers
	}

	start := time.Now()
	reason := "failed"
	defer func() {
		metrics.RecordTileBuild(time.Since(start), reason, err)
	}()

	binary, lookErr := exec.LookPath(b.cfg.Binary)
	if lookErr != nil {
		reason = "missing"
		return fmt.Errorf("%w: %s: %v", ErrToolMissing, b.cfg.Binary, lookErr)
	}

	args, err := b.Args(output, layers)
	if err != nil {
		return err
	}

	if b.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.Timeout)
		defer cancel()
	}

	logging.CtxInfo(ctx).
		Str("binary", binary).
		Str("output", output).
		Int("layers", len(layers)).
		Msg("Building tiles")
	logging.CtxDebug(ctx).Strs("args", args).Msg("tippecanoe arguments")

	stderr := newTailBuffer(stderrTail)
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = stderr
	cmd.WaitDelay = 10 * time.Second

	if runErr := cmd.Run(); runErr != nil {
		removePartial(ctx, output)
		toolErr := &ToolError{
			Binary:   b.cfg.Binary,
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      runErr,
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			toolErr.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			reason = "timeout"
			toolErr.Err = fmt.Errorf("%w: %v", ctxErr, runErr)
		}
		return toolErr
	}

	info, statErr := os.Stat(output)
	if statErr != nil || info.Size() == 0 {
		reason = "empty_output"
		removePartial(ctx, output)
		return &ToolError{
			Binary: b.cfg.Binary,
			Stderr: stderr.String(),
			Err:    errEmptyOutput,
		}
	}

	logging.CtxDebug(ctx).
		Int64("bytes", info.Size()).
		Dur("elapsed", time.Since(start)).
		Msg("tippecanoe finished")
	return nil
}

// removePartial deletes a partially written output file.
func removePartial(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.CtxWarn(ctx).Err(err).Str("path", path).Msg("Failed to remove partial tile output")
	}
}
