// Package logging builds the zap loggers used by the binaries.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a zap logger. When debug is true it uses the development config
// (human-readable, debug level), otherwise the production config (JSON, info
// level). A non-empty path sends all output to that file, which the terminal
// UI needs because it owns stdout and stderr.
func New(debug bool, path string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	if path != "" {
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// NewOrNop is New, falling back to a no-op logger when the output cannot be opened
func NewOrNop(debug bool, path string) *zap.Logger {
	logger, err := New(debug, path)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
