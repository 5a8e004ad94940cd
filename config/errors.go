// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\", \"testnet\", or \"regtest\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrInvalidLogFormat indicates the log format is not recognized.
	ErrInvalidLogFormat = errors.New("config: invalid log format (must be \"color\", \"plaintext\", or \"json\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrZeroFeeDenominator indicates the fee denominator is zero.
	ErrZeroFeeDenominator = errors.New("config: fee denominator must be non-zero")

	// ErrInvalidOwner indicates the owner is not a valid address.
	ErrInvalidOwner = errors.New("config: invalid owner address")

	// ErrInvalidMetricsNamespace indicates the namespace is not a valid metric name prefix.
	ErrInvalidMetricsNamespace = errors.New("config: invalid metrics namespace")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrDecodeConfig indicates the configuration file is not valid TOML.
	ErrDecodeConfig = errors.New("config: cannot decode configuration file")

	// ErrEnvOverride indicates an environment override could not be applied.
	ErrEnvOverride = errors.New("config: invalid environment override")
)
