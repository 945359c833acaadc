package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calref/retouch-api/internal/config"
)

func TestSetupReturnsLogger(t *testing.T) {
	logger := Setup(config.ServerConfig{LogLevel: "debug"})
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(nil, slog.LevelDebug))
}

func TestSetupLevels(t *testing.T) {
	tests := []struct {
		level   string
		enabled slog.Level
		muted   slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 1},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := Setup(config.ServerConfig{LogLevel: tt.level})
			assert.True(t, logger.Enabled(nil, tt.enabled))
			assert.False(t, logger.Enabled(nil, tt.muted))
		})
	}
}

func TestSetupInvalidLevelFallsBackToInfo(t *testing.T) {
	logger := Setup(config.ServerConfig{LogLevel: "loud"})
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(nil, slog.LevelInfo))
	assert.False(t, logger.Enabled(nil, slog.LevelDebug))
}
