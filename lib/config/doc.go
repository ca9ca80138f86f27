// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the logcrate CLI.
//
// Configuration is loaded from a single file specified by:
//   - the --config flag passed to the command, or
//   - the LOGCRATE_CONFIG environment variable.
//
// There are no fallbacks or automatic discovery; with neither set, the
// built-in defaults apply. YAML is the primary format; files ending in
// .json or .jsonc are parsed as JSON with comments and trailing commas
// allowed.
package config
