// Package logging builds the zap logger shared by the CLI, server and watcher.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a JSON logger, or a console logger when development is set, at the given level
// ("debug", "info", "warn", "error"). An empty level means info. Output goes to stderr.
func New(level string, development bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}

	if level == "" {
		level = "info"
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}
	cfg.Level = lvl

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
