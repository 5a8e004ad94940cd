// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	logging "github.com/ipfs/go-log/v2"
)

// SetupLogging configures every package logger from cfg. Logs go to
// cfg.LogFile when set, otherwise to stderr.
func SetupLogging(cfg Config) error {
	lvl, err := logging.LevelFromString(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLogLevel, err)
	}
	format, err := logFormat(cfg.LogFormat)
	if err != nil {
		return err
	}
	logging.SetupLogging(logging.Config{
		Format: format,
		Level:  lvl,
		Stderr: cfg.LogFile == "",
		File:   cfg.LogFile,
	})
	return nil
}

func logFormat(s string) (logging.LogFormat, error) {
	switch strings.ToLower(s) {
	case "", "color":
		return logging.ColorizedOutput, nil
	case "plaintext":
		return logging.PlaintextOutput, nil
	case "json":
		return logging.JSONOutput, nil
	}
	return 0, ErrInvalidLogFormat
}
