// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package system

import (
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogOptions selects the verbosity of the CLI logger.
type LogOptions struct {
	Verbose bool
	Debug   bool
	// Output receives log lines; nil means stderr.
	Output io.Writer
}

// NewLogger builds the CLI logger. Without flags only warnings and errors are
// written; Verbose adds info, Debug switches to the development config with
// caller information.
func NewLogger(opts LogOptions) *zap.SugaredLogger {
	cfg := newConfig(opts.Debug)
	switch {
	case opts.Debug:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case opts.Verbose:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}

	if opts.Output == nil {
		logger, err := cfg.Build()
		if err != nil {
			return zap.NewNop().Sugar()
		}
		return logger.Sugar()
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg.EncoderConfig),
		zapcore.AddSync(opts.Output),
		cfg.Level,
	)
	return zap.New(core).Sugar()
}

func newConfig(development bool) zap.Config {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	// Disable automatic stacktraces for non-fatal levels to avoid noisy traces in WARN/INFO logs
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(time.RFC3339))
	}
	cfg.EncoderConfig.TimeKey = "ts"
	return cfg
}
