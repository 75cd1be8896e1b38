// Package logging provides zap logger helpers for the harvester.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger configured for development or production.
// Development mode uses the console encoder with colored levels;
// production emits JSON. Harvest runs are long and mostly quiet, so
// production logging is sampled-free to keep every domain line.
func New(development bool) (*zap.Logger, error) {
	if development {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("build dev logger: %w", err)
		}
		return logger, nil
	}
	cfg := zap.NewProductionConfig()
	cfg.Sampling = nil
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build prod logger: %w", err)
	}
	return logger, nil
}

// Must wraps New for call sites that cannot recover from a logger
// construction failure, such as CLI bootstrap.
func Must(development bool) *zap.Logger {
	logger, err := New(development)
	if err != nil {
		panic(err)
	}
	return logger
}
