package oracle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdict(t *testing.T) {
	c, err := parseVerdict(`{"label":"booking","score":0.92}`)
	require.NoError(t, err)
	assert.Equal(t, "booking", c.Label)
	assert.InDelta(t, 0.92, c.Score, 1e-9)
	assert.True(t, c.IsBooking(0.5))
}

func TestParseVerdictCodeFence(t *testing.T) {
	c, err := parseVerdict("```json\n{\"label\":\"other\",\"score\":0.2}\n```")
	require.NoError(t, err)
	assert.Equal(t, "other", c.Label)
	assert.False(t, c.IsBooking(0.5))
}

func TestParseVerdictUnknownLabelNormalized(t *testing.T) {
	c, err := parseVerdict(`{"label":"spam","score":0.9}`)
	require.NoError(t, err)
	assert.Equal(t, "other", c.Label)
}

func TestParseVerdictGarbage(t *testing.T) {
	_, err := parseVerdict("no json here")
	assert.Error(t, err)
}

func TestNewGeminiOracleRequiresKey(t *testing.T) {
	_, err := NewGeminiOracle(context.Background(), "", "")
	assert.Error(t, err)
}
