package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30, cfg.LookbackDays)
	assert.Equal(t, 60, cfg.DateToleranceSec)
	assert.Equal(t, 2000, cfg.BodyMaxLen)
	assert.Equal(t, 15*time.Minute, cfg.ReparseLockTTL)
	assert.True(t, cfg.RequireKeywords)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("BOOKING_LOOKBACK_DAYS", "14")
	t.Setenv("INTAKE_REQUIRE_KEYWORDS", "false")
	t.Setenv("BOOKING_ARCHIVE_GRACE", "24h")

	cfg := Load()
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 14, cfg.LookbackDays)
	assert.False(t, cfg.RequireKeywords)
	assert.Equal(t, 24*time.Hour, cfg.ArchiveGrace)
}

func TestGetEnvAsIntIgnoresGarbage(t *testing.T) {
	t.Setenv("BOOKING_LOOKBACK_DAYS", "not-a-number")
	cfg := Load()
	assert.Equal(t, 30, cfg.LookbackDays)
}
