// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package tiles

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// fakeTool writes an executable shell script standing in for tippecanoe.
// The script records its arguments, one per line, in args.txt next to itself.
func fakeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tippecanoe requires a POSIX shell")
	}

	dir := t.TempDir()
	script := `#!/bin/sh
printf '%s\n' "$@" > "$(dirname "$0")/args.txt"
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift 2 ;;
    *) shift ;;
  esac
done
` + body + "\n"

	path := filepath.Join(dir, "tippecanoe")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil { //nolint:gosec // test executable
		t.Fatalf("write fake tool: %v", err)
	}
	return path
}

func recordedArgs(t *testing.T, tool string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(filepath.Dir(tool), "args.txt"))
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func testLayers() []Layer {
	return []Layer{
		{File: "/tmp/res1.geojson", MinZoom: 0, MaxZoom: 3},
		{File: "/tmp/res3.geojson", Name: "detail", MinZoom: 4, MaxZoom: 6},
	}
}

func TestBuilder_Args(t *testing.T) {
	t.Parallel()

	b := NewBuilder(Config{Simplification: 10, DetectSharedBorders: true})

	got, err := b.Args("out.pmtiles", testLayers())
	if err != nil {
		t.Fatalf("Args() error = %v", err)
	}
	want := []string{
		"-o", "out.pmtiles",
		"--force",
		"--no-feature-limit",
		"--no-tile-size-limit",
		"--simplification=10",
		"--detect-shared-borders",
		"-L", `{"file":"/tmp/res1.geojson","layer":"climate","minzoom":0,"maxzoom":3}`,
		"-L", `{"file":"/tmp/res3.geojson","layer":"detail","minzoom":4,"maxzoom":6}`,
	}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("Args() =\n%v\nwant\n%v", got, want)
	}
}

func TestBuilder_ArgsExtra(t *testing.T) {
	t.Parallel()

	b := NewBuilder(Config{Layer: "temp", Simplification: 2, ExtraArgs: []string{"--buffer=5"}})

	got, err := b.Args("o.pmtiles", testLayers()[:1])
	if err != nil {
		t.Fatalf("Args() error = %v", err)
	}
	joined := strings.Join(got, " ")
	if strings.Contains(joined, "--detect-shared-borders") {
		t.Error("Args() contains --detect-shared-borders when disabled")
	}
	if !strings.Contains(joined, "--buffer=5 -L") {
		t.Errorf("Args() = %v, want extra args before layers", got)
	}
	if !strings.Contains(joined, `"layer":"temp"`) {
		t.Errorf("Args() = %v, want configured layer name", got)
	}
}

func TestBuilder_Build(t *testing.T) {
	tool := fakeTool(t, `printf 'PMTiles-data' > "$out"`)
	output := filepath.Join(t.TempDir(), "out.pmtiles")

	b := NewBuilder(Config{Binary: tool, Simplification: 10, DetectSharedBorders: true})
	if err := b.Build(context.Background(), output, testLayers()); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "PMTiles-data" {
		t.Errorf("output = %q", data)
	}

	args := recordedArgs(t, tool)
	if args[0] != "-o" || args[1] != output {
		t.Errorf("first args = %v, want -o %s", args[:2], output)
	}
	layers := 0
	for _, a := range args {
		if a == "-L" {
			layers++
		}
	}
	if layers != 2 {
		t.Errorf("tool received %d -L flags, want 2", layers)
	}
}

func TestBuilder_BuildErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantErr    error
		wantStderr string
		wantExit   int
	}{
		{
			name:       "non-zero exit",
			body:       `printf 'partial' > "$out"; echo "boom: bad geometry" >&2; exit 3`,
			wantErr:    ErrToolFailed,
			wantStderr: "boom: bad geometry",
			wantExit:   3,
		},
		{
			name:    "empty output",
			body:    `: > "$out"`,
			wantErr: errEmptyOutput,
		},
		{
			name:    "no output",
			body:    `exit 0`,
			wantErr: errEmptyOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := fakeTool(t, tt.body)
			output := filepath.Join(t.TempDir(), "out.pmtiles")

			err := NewBuilder(Config{Binary: tool}).Build(context.Background(), output, testLayers())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Build() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrToolFailed) {
				t.Errorf("Build() error = %v, want it to wrap ErrToolFailed", err)
			}

			var toolErr *ToolError
			if !errors.As(err, &toolErr) {
				t.Fatalf("Build() error type = %T, want *ToolError", err)
			}
			if tt.wantStderr != "" && !strings.Contains(toolErr.Stderr, tt.wantStderr) {
				t.Errorf("Stderr = %q, want it to contain %q", toolErr.Stderr, tt.wantStderr)
			}
			if tt.wantExit != 0 && toolErr.ExitCode != tt.wantExit {
				t.Errorf("ExitCode = %d, want %d", toolErr.ExitCode, tt.wantExit)
			}
			if _, statErr := os.Stat(output); !errors.Is(statErr, os.ErrNotExist) {
				t.Errorf("partial output not removed: stat error = %v", statErr)
			}
		})
	}
}

func TestBuilder_Timeout(t *testing.T) {
	tool := fakeTool(t, `printf 'partial' > "$out"; exec sleep 5`)
	output := filepath.Join(t.TempDir(), "out.pmtiles")

	b := NewBuilder(Config{Binary: tool, Timeout: 100 * time.Millisecond})
	start := time.Now()
	err := b.Build(context.Background(), output, testLayers())
	if !errors.Is(err, ErrToolFailed) {
		t.Fatalf("Build() error = %v, want ErrToolFailed", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Build() error = %v, want DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Errorf("Build() took %v, want it to stop at the timeout", elapsed)
	}
	if _, statErr := os.Stat(output); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("partial output not removed: stat error = %v", statErr)
	}
}

func TestBuilder_ToolMissing(t *testing.T) {
	t.Parallel()

	b := NewBuilder(Config{Binary: filepath.Join(t.TempDir(), "no-such-tippecanoe")})

	err := b.Build(context.Background(), filepath.Join(t.TempDir(), "out.pmtiles"), testLayers())
	if !errors.Is(err, ErrToolMissing) {
		t.Errorf("Build() error = %v, want ErrToolMissing", err)
	}
}

func TestBuilder_NoLayers(t *testing.T) {
	t.Parallel()

	tool := fakeTool(t, `printf 'x' > "$out"`)

	err := NewBuilder(Config{Binary: tool}).Build(context.Background(), filepath.Join(t.TempDir(), "o.pmtiles"), nil)
	if !errors.Is(err, ErrNoLayers) {
		t.Errorf("Build() error = %v, want ErrNoLayers", err)
	}
	if _, statErr := os.Stat(filepath.Join(filepath.Dir(tool), "args.txt")); statErr == nil {
		t.Error("tool was invoked without layers")
	}
}

func TestTailBuffer(t *testing.T) {
	t.Parallel()

	b := newTailBuffer(8)
	_, _ = b.Write([]byte("12345"))
	_, _ = b.Write([]byte("67890\rab"))

	if got := b.String(); got != "...67890\nab" {
		t.Errorf("String() = %q, want %q", got, "...67890\nab")
	}
	if got := newTailBuffer(8).String(); got != "" {
		t.Errorf("empty String() = %q", got)
	}
}
