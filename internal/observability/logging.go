// Package observability provides logging utilities and the log-backed
// message sink used by headless runs.
package observability

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/wasteland/internal/config"
)

// RootName is the name of every logger built by NewLogger. Packages extend
// it with Named ("wasteland.combat", "wasteland.memorial").
const RootName = "wasteland"

// NewLogger creates a structured logger from the given logging configuration.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger named RootName or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zapCfg, err := buildConfig(cfg)
	if err != nil {
		return nil, err
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Named(RootName), nil
}

func buildConfig(cfg config.LoggingConfig) (zap.Config, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return zap.Config{}, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return zap.Config{}, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	// Every dice roll is a Debug entry; a replay needs all of them.
	zapCfg.Sampling = nil
	zapCfg.InitialFields = map[string]any{"version": buildVersion()}
	return zapCfg, nil
}

// buildVersion reports the main module version, or "devel" when the binary
// carries no build info (go test, go run).
func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "devel"
	}
	return info.Main.Version
}
