// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/logcrate/logcrate/lib/artifact"
	"github.com/logcrate/logcrate/lib/clock"
	"github.com/logcrate/logcrate/lib/config"
	"github.com/logcrate/logcrate/lib/persist"
)

func captureCmd(args []string, out io.Writer, logger *slog.Logger) error {
	flagSet := pflag.NewFlagSet("capture", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "path to config file (default: $LOGCRATE_CONFIG)")
	outDir := flagSet.String("out", "", "artifact directory (overrides config)")
	prefix := flagSet.String("prefix", "", "artifact family prefix (overrides config)")
	codecName := flagSet.String("compress", "", "compression codec: none, gzip, zstd, lz4 (overrides config)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(config.Locate(*configPath))
	if err != nil {
		return err
	}
	if *outDir != "" {
		cfg.Output.Directory = *outDir
	}
	if *prefix != "" {
		cfg.Output.Prefix = *prefix
	}
	if *codecName != "" {
		cfg.Output.Compression = *codecName
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	codec := cfg.Codec()
	name := artifact.Name(cfg.Output.Prefix, ".log"+codec.Extension(), clock.Real())

	source, cleanup, err := openSource(flagSet.Args(), logger)
	if err != nil {
		return err
	}
	defer cleanup()

	saver := &persist.Saver{
		Logger:              logger,
		Codec:               codec,
		ExcludeFromIndexing: cfg.Output.ExcludeFromIndexing,
	}
	listener := &persist.CancelFlag{
		OnProgress: func(kib int64) { logger.Debug("capture progress", "kib", kib) },
	}

	result, err := saver.Save(cfg.Output.Directory, name, source, listener)
	if err != nil {
		return err
	}

	logger.Info("capture complete",
		"path", result.Path,
		"bytes", result.Bytes,
		"checksum", fmt.Sprintf("%x", result.Checksum))
	fmt.Fprintln(out, result.Path)
	return nil
}

// openSource returns the log byte stream: stdin when argv is empty,
// otherwise the stdout of the spawned collector command. Signals sent
// to this process are forwarded to the collector so an interactive
// interrupt ends the stream with a clean EOF instead of killing the
// capture mid-write.
func openSource(argv []string, logger *slog.Logger) (io.Reader, func(), error) {
	if len(argv) == 0 {
		return os.Stdin, func() {}, nil
	}

	child := exec.Command(argv[0], argv[1:]...)
	child.Stderr = os.Stderr
	stdout, err := child.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to collector stdout: %w", err)
	}
	if err := child.Start(); err != nil {
		return nil, nil, fmt.Errorf("starting collector %s: %w", argv[0], err)
	}
	logger.Debug("collector started", "command", argv[0], "pid", child.Process.Pid)

	signals := make(chan os.Signal, 4)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go forwardSignals(signals, child.Process)

	cleanup := func() {
		signal.Stop(signals)
		close(signals)
		// The collector's exit status is irrelevant once its stream has
		// been consumed (an interrupted collector exits non-zero).
		_ = child.Wait()
	}
	return stdout, cleanup, nil
}

// forwardSignals relays signals to the collector process. Send errors
// are ignored: the collector may have already exited.
func forwardSignals(signals <-chan os.Signal, process *os.Process) {
	for sig := range signals {
		if sysSig, ok := sig.(syscall.Signal); ok {
			_ = process.Signal(sysSig)
		}
	}
}
