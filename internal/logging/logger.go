// Package logging builds the zap loggers shared by the CLI and the watcher
// daemon.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a logger from the configured level ("debug".."error") and
// format ("console" or "json"). An empty format means console.
func NewLogger(level, format string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.Set(strings.ToLower(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch strings.ToLower(format) {
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.Encoding = "console"
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
	default:
		return nil, fmt.Errorf("invalid log format %q (want console or json)", format)
	}

	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	return cfg.Build()
}
