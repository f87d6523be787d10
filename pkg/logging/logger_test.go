package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus", ""} {
		logger := New(level)
		assert.NotNil(t, logger)
		assert.NotNil(t, logger.Logger)
	}
}

func TestWithReturnsWrappedLogger(t *testing.T) {
	logger := Default().With("component", "intake")
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.Logger)
}
