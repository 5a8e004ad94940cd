// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bitfsorg/libshare-go/ledger"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats lists the accepted log formats; empty means color.
var validLogFormats = map[string]bool{
	"":          true,
	"color":     true,
	"plaintext": true,
	"json":      true,
}

var metricsNamespaceRx = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if cfg.Network != "mainnet" && cfg.Network != "testnet" && cfg.Network != "regtest" {
		return ErrInvalidNetwork
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if !validLogFormats[strings.ToLower(cfg.LogFormat)] {
		return ErrInvalidLogFormat
	}

	if cfg.Fee.Denominator == 0 {
		return ErrZeroFeeDenominator
	}

	if cfg.Owner != "" {
		if _, err := ledger.ParseAddress(cfg.Owner); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOwner, err)
		}
	}

	if cfg.MetricsNamespace != "" && !metricsNamespaceRx.MatchString(cfg.MetricsNamespace) {
		return ErrInvalidMetricsNamespace
	}

	return nil
}
