package system

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		opts      LogOptions
		wantInfo  bool
		wantDebug bool
	}{
		{name: "default", opts: LogOptions{}},
		{name: "verbose", opts: LogOptions{Verbose: true}, wantInfo: true},
		{name: "debug", opts: LogOptions{Debug: true}, wantInfo: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.opts.Output = buf
			logger := NewLogger(tt.opts)
			require.NotNil(t, logger)

			logger.Debugw("debug line", "k", "v")
			logger.Infow("info line")
			logger.Warnw("warn line")
			_ = logger.Sync()

			out := buf.String()
			assert.Contains(t, out, "warn line")
			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info line")))
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
		})
	}
}

func TestNewTestLogger(t *testing.T) {
	logger := NewTestLogger()
	require.NotNil(t, logger)
	logger.Debugw("test logger works")
}
