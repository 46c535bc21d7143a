package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level   string
		format  string
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"debug", FormatConsole, zapcore.DebugLevel, zapcore.InvalidLevel},
		{"info", FormatJSON, zapcore.InfoLevel, zapcore.DebugLevel},
		{"warn", FormatConsole, zapcore.WarnLevel, zapcore.InfoLevel},
		{"error", FormatJSON, zapcore.ErrorLevel, zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			require.NoError(t, err)

			assert.True(t, logger.Core().Enabled(tt.enabled))

			if tt.muted != zapcore.InvalidLevel {
				assert.False(t, logger.Core().Enabled(tt.muted))
			}
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("loud", FormatConsole)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	_, err = New("info", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log format "xml"`)
}
