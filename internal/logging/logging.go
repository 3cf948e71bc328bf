// Package logging builds the zap loggers used by the CLI and the HTTP server.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger for one-shot CLI commands, writing to stderr. Without
// verbose only warnings and errors are emitted, so normal runs keep stderr quiet.
func New(verbose bool) (*zap.Logger, error) {
	return build(verbose, zapcore.WarnLevel)
}

// NewServer returns a logger for the long-running HTTP server. Without
// verbose it logs at info level so access and lifecycle lines are kept.
func NewServer(verbose bool) (*zap.Logger, error) {
	return build(verbose, zapcore.InfoLevel)
}

func build(verbose bool, quietLevel zapcore.Level) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(quietLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
