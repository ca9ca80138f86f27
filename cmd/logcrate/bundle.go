// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/logcrate/logcrate/lib/bundle"
)

func bundleCmd(args []string, out io.Writer, logger *slog.Logger) error {
	flagSet := pflag.NewFlagSet("bundle", pflag.ContinueOnError)
	archivePath := flagSet.String("out", "", "output archive path (required)")
	manifest := flagSet.Bool("manifest", false, "write a CBOR manifest sidecar next to the archive")
	skipMissing := flagSet.Bool("skip-missing", false, "skip absent source files instead of failing")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	files := flagSet.Args()
	if *archivePath == "" {
		return fmt.Errorf("bundle: --out is required")
	}
	if len(files) == 0 {
		return fmt.Errorf("bundle: no source files given")
	}

	options := bundle.Options{Manifest: *manifest, Logger: logger}
	if *skipMissing {
		options.MissingFiles = bundle.MissingSkip
	}
	if err := bundle.Create(*archivePath, files, options); err != nil {
		return err
	}

	logger.Info("bundle complete", "path", *archivePath, "files", len(files))
	fmt.Fprintln(out, *archivePath)
	return nil
}

func extractCmd(args []string, logger *slog.Logger) error {
	flagSet := pflag.NewFlagSet("extract", pflag.ContinueOnError)
	dest := flagSet.String("dest", "", "destination directory (required)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if *dest == "" {
		return fmt.Errorf("extract: --dest is required")
	}
	sources := flagSet.Args()
	if len(sources) != 1 {
		return fmt.Errorf("extract: exactly one archive (or - for stdin) is required")
	}

	if sources[0] == "-" {
		if err := bundle.ExtractStream(os.Stdin, *dest); err != nil {
			return err
		}
	} else if err := bundle.Extract(sources[0], *dest); err != nil {
		return err
	}

	logger.Info("extract complete", "dest", *dest)
	return nil
}
