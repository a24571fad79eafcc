package system

import (
	"go.uber.org/zap"
)

// NewTestLogger returns a sugared debug logger for tests. It mirrors the
// --debug CLI logger without stacktraces.
func NewTestLogger() *zap.SugaredLogger {
	cfg := newConfig(true)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}
