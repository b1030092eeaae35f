// Package logging builds the zap loggers used by the command line tools
package logging

import (
	"go.uber.org/zap"
)

// Config holds logging configuration
type Config struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"` // "json" or "console"
	Development bool   `mapstructure:"development"`
}

// NewLogger creates a structured logger. Invalid levels fall back to info.
func NewLogger(config Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(config.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	if config.Format == "console" {
		zapConfig.Encoding = "console"
	} else {
		zapConfig.Encoding = "json"
	}

	// Schedules go to stdout, keep it clean
	zapConfig.OutputPaths = []string{"stderr"}

	return zapConfig.Build()
}

// Must is like NewLogger but falls back to a no-op logger on failure
func Must(config Config) *zap.Logger {
	logger, err := NewLogger(config)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
