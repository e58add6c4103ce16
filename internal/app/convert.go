package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/genshinsim/gcsim/apps/artifact_optimizer/internal/catalog"
)

type ConvertOptions struct {
	Source  string
	Dest    string
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// Convert rewrites a catalog in another format, chosen by the extension of
// the destination (.xlsx or .db/.sqlite/.sqlite3). It returns the exit code.
func Convert(ctx context.Context, opts ConvertOptions) int {
	o := Options{Stdout: opts.Stdout, Stderr: opts.Stderr}
	o.setDefaults()
	log := newLogger(o.Stderr, opts.Verbose)

	err := func() error {
		pools, rep, err := catalog.Load(ctx, opts.Source)
		if err != nil {
			return ExitWithError(ExitNoResult, err)
		}
		logReport(log, rep, &pools)

		switch strings.ToLower(filepath.Ext(opts.Dest)) {
		case ".xlsx":
			err = catalog.WriteXLSX(opts.Dest, &pools)
		case ".db", ".sqlite", ".sqlite3":
			err = catalog.WriteSQLite(ctx, opts.Dest, &pools)
		default:
			return ExitWithError(ExitUsage, fmt.Errorf("unsupported output format %q (expected .xlsx, .db, .sqlite or .sqlite3)", filepath.Ext(opts.Dest)))
		}
		if err != nil {
			return ExitWithError(ExitNoResult, err)
		}
		fmt.Fprintf(o.Stdout, "Wrote %d artifact(s) to %s\n", pools.Total(), opts.Dest)
		return nil
	}()
	return exitCode(o.Stderr, err)
}
