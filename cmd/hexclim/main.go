// Hexclim - Raster to H3 Hexagon Tileset Conversion
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hexclim

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

// Build information, set with -ldflags "-X main.version=..."
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

const usageText = `Usage:
  hexclim convert <input-raster> <output-tiles> [flags]
  hexclim inspect <input-raster> [flags]
  hexclim version

Run 'hexclim <command> --help' for the flags of a command.
`

func main() {
	// SIGINT/SIGTERM cancel the run context so the pipeline can still clean up
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprint(stderr, usageText)
		return 1
	}

	var err error
	switch args[0] {
	case "convert":
		err = runConvert(ctx, args[1:], stdout, stderr)
	case "inspect":
		err = runInspect(args[1:], stdout, stderr)
	case "version", "--version":
		_, _ = fmt.Fprintf(stdout, "hexclim %s (commit %s, built %s)\n", version, commit, buildDate)
	case "help", "-h", "--help":
		_, _ = fmt.Fprint(stdout, usageText)
	default:
		_, _ = fmt.Fprintf(stderr, "error: unknown command %q\n\n%s", args[0], usageText)
		return 1
	}

	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
