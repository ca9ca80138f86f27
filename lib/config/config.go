// Copyright 2026 The Logcrate Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/logcrate/logcrate/lib/compress"
)

// EnvVar names the environment variable consulted when no --config
// flag is given.
const EnvVar = "LOGCRATE_CONFIG"

// Config is the CLI configuration.
type Config struct {
	// Output configures where captures land and how they are named.
	Output OutputConfig `yaml:"output" json:"output"`

	// Purge configures which artifact families `logcrate purge`
	// removes by default.
	Purge PurgeConfig `yaml:"purge" json:"purge"`
}

// OutputConfig configures capture output.
type OutputConfig struct {
	// Directory is where artifacts are written.
	// Default: <system temp dir>/logcrate
	Directory string `yaml:"directory" json:"directory"`

	// Prefix is the artifact family prefix, including its trailing
	// separator. Default: app_log_
	Prefix string `yaml:"prefix" json:"prefix"`

	// Compression selects the capture codec: none, gzip, zstd, lz4.
	// Default: none
	Compression string `yaml:"compression" json:"compression"`

	// ExcludeFromIndexing marks the output directory so media
	// scanners skip it. Default: false
	ExcludeFromIndexing bool `yaml:"exclude_from_indexing" json:"exclude_from_indexing"`
}

// PurgeConfig configures artifact garbage collection.
type PurgeConfig struct {
	// Prefixes lists the artifact families purged when the purge
	// command is run without explicit --prefix flags. Defaults to the
	// output prefix.
	Prefixes []string `yaml:"prefixes" json:"prefixes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Locate resolves the config file path: the flag value wins, then the
// LOGCRATE_CONFIG environment variable. Empty means "use defaults".
func Locate(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvVar)
}

// Load reads, parses, and validates the config file at path. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Output.Directory == "" {
		c.Output.Directory = filepath.Join(os.TempDir(), "logcrate")
	}
	if c.Output.Prefix == "" {
		c.Output.Prefix = "app_log_"
	}
	if c.Output.Compression == "" {
		c.Output.Compression = "none"
	}
	if len(c.Purge.Prefixes) == 0 {
		c.Purge.Prefixes = []string{c.Output.Prefix}
	}
}

// Validate checks field values after defaults are applied.
func (c *Config) Validate() error {
	if _, err := compress.ParseCodec(c.Output.Compression); err != nil {
		return fmt.Errorf("output.compression: %w", err)
	}
	for i, prefix := range c.Purge.Prefixes {
		if prefix == "" {
			return fmt.Errorf("purge.prefixes[%d]: must not be empty", i)
		}
	}
	return nil
}

// Codec returns the parsed compression codec. Call only after Validate
// has succeeded (Load does this).
func (c *Config) Codec() compress.Codec {
	codec, err := compress.ParseCodec(c.Output.Compression)
	if err != nil {
		// Validate guarantees parseability; an error here is a
		// programming mistake, not a user input problem.
		panic("config: Codec called on unvalidated config: " + err.Error())
	}
	return codec
}
