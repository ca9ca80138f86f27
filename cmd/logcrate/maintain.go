// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/logcrate/logcrate/lib/artifact"
	"github.com/logcrate/logcrate/lib/clock"
	"github.com/logcrate/logcrate/lib/config"
)

func purgeCmd(args []string, logger *slog.Logger) error {
	flagSet := pflag.NewFlagSet("purge", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "path to config file (default: $LOGCRATE_CONFIG)")
	directory := flagSet.String("dir", "", "artifact directory (overrides config)")
	prefixes := flagSet.StringArray("prefix", nil, "artifact family prefix to purge (repeatable; overrides config)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(config.Locate(*configPath))
	if err != nil {
		return err
	}
	if *directory == "" {
		*directory = cfg.Output.Directory
	}
	if len(*prefixes) == 0 {
		*prefixes = cfg.Purge.Prefixes
	}

	var failures []error
	for _, prefix := range *prefixes {
		if err := artifact.Purge(*directory, prefix, logger); err != nil {
			failures = append(failures, fmt.Errorf("purging %s in %s: %w", prefix, *directory, err))
		}
	}
	return errors.Join(failures...)
}

func nameCmd(args []string, out io.Writer) error {
	flagSet := pflag.NewFlagSet("name", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "path to config file (default: $LOGCRATE_CONFIG)")
	prefix := flagSet.String("prefix", "", "artifact family prefix (overrides config)")
	extension := flagSet.String("ext", ".log", "artifact extension, including the dot")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(config.Locate(*configPath))
	if err != nil {
		return err
	}
	if *prefix == "" {
		*prefix = cfg.Output.Prefix
	}

	fmt.Fprintln(out, artifact.Name(*prefix, *extension, clock.Real()))
	return nil
}
