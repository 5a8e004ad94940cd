// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and validates node configuration.
//
// Configuration is read from a TOML file and then overridden by SHARE_*
// environment variables, e.g. SHARE_LOGLEVEL or SHARE_FEE_DENOMINATOR.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"github.com/mitchellh/go-homedir"
	"golang.org/x/xerrors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SHARE"

// configFileName is the file name inside the data directory.
const configFileName = "config.toml"

// Fee is the protocol fee applied when a coordinator is first deployed.
type Fee struct {
	Numerator   uint64 `toml:"numerator"`
	Denominator uint64 `toml:"denominator"`
}

// Config holds node settings.
type Config struct {
	DataDir          string `toml:"datadir"`
	Network          string `toml:"network"`
	LogLevel         string `toml:"loglevel"`
	LogFile          string `toml:"logfile"`
	LogFormat        string `toml:"logformat"`
	Owner            string `toml:"owner"`
	Fee              Fee    `toml:"fee"`
	CodeVerification bool   `toml:"codeverification"`
	MetricsNamespace string `toml:"metricsnamespace"`
}

// DefaultDataDir returns ~/.share, expanded.
func DefaultDataDir() string {
	dir, err := homedir.Expand(filepath.Join("~", ".share"))
	if err != nil {
		return ".share"
	}
	return dir
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() Config {
	return Config{
		DataDir:          DefaultDataDir(),
		Network:          "mainnet",
		LogLevel:         "info",
		LogFormat:        "color",
		Fee:              Fee{Numerator: 1, Denominator: 20},
		CodeVerification: true,
		MetricsNamespace: "share",
	}
}

// ConfigPath returns the config file location inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, configFileName)
}

// LoadConfig reads the TOML file at path over DefaultConfig, then applies
// environment overrides and expands ~ in paths.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, xerrors.Errorf("%s: %w", path, ErrConfigNotFound)
		}
		return cfg, fmt.Errorf("%w: %s: %w", ErrDecodeConfig, path, err)
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from SHARE_* environment variables and expands ~ in paths.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrEnvOverride, err)
	}
	var err error
	if cfg.DataDir, err = homedir.Expand(cfg.DataDir); err != nil {
		return xerrors.Errorf("expanding datadir: %w", err)
	}
	if cfg.LogFile, err = homedir.Expand(cfg.LogFile); err != nil {
		return xerrors.Errorf("expanding logfile: %w", err)
	}
	return nil
}

// SaveConfig writes cfg as TOML to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return xerrors.Errorf("creating config directory: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return xerrors.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return xerrors.Errorf("writing config: %w", err)
	}
	return nil
}
