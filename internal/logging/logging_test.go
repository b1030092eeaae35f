package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	t.Run("Level is honored", func(t *testing.T) {
		logger, err := NewLogger(Config{Level: "debug", Format: "console"})
		assert.Nil(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("Invalid level falls back to info", func(t *testing.T) {
		logger, err := NewLogger(Config{Level: "verbose"})
		assert.Nil(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("Development", func(t *testing.T) {
		logger := Must(Config{Level: "warn", Development: true})
		assert.NotNil(t, logger)
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	})
}
