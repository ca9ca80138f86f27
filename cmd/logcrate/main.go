// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

// logcrate captures a diagnostic log stream to disk and manages the
// resulting artifacts.
//
// Usage:
//
//	logcrate capture [flags] [-- <collector command> [args...]]
//	logcrate bundle --out FILE.zip [flags] FILES...
//	logcrate extract --dest DIR (FILE.zip | -)
//	logcrate purge [flags]
//	logcrate name [flags]
//
// capture reads the log stream from stdin, or from the stdout of the
// collector command when one is given after the flags. The final
// artifact path is printed to stdout; delivering the artifact to a
// recipient is the caller's business.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/logcrate/logcrate/lib/persist"
)

// version is stamped by the build; "dev" for local builds.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if os.Getenv("LOGCRATE_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "capture":
		err = captureCmd(args, os.Stdout, logger)
	case "bundle":
		err = bundleCmd(args, os.Stdout, logger)
	case "extract":
		err = extractCmd(args, logger)
	case "purge":
		err = purgeCmd(args, logger)
	case "name":
		err = nameCmd(args, os.Stdout)
	case "version", "--version", "-v":
		fmt.Printf("logcrate %s\n", version)
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		// A deliberate cancellation is not an error condition worth a
		// scary message; report it quietly with the conventional
		// interrupted exit code.
		if errors.Is(err, persist.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "capture cancelled")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`logcrate - capture, bundle, and clean up diagnostic log artifacts

USAGE
    logcrate <command> [flags] [args...]

COMMANDS
    capture     Persist a log stream (stdin or a collector command) to a timestamped artifact
    bundle      Pack artifacts into a zip archive
    extract     Unpack a zip archive into a directory
    purge       Remove stale artifacts by name prefix
    name        Print the artifact name the next capture would use
    version     Print the version

Pass --help to a command for its flags. Set LOGCRATE_DEBUG=1 for debug
logging and LOGCRATE_CONFIG to point at a config file.
`)
}
