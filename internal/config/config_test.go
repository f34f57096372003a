package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8090", cfg.APIAddr)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 600*time.Second, cfg.PortionPositiveTTL)
	assert.Equal(t, 60*time.Second, cfg.PortionNegativeTTL)
	assert.Equal(t, "ENABLE_PORTION", cfg.PortionFlagKey)
	assert.False(t, cfg.PortionCacheBypass)
	assert.Equal(t, 12*time.Second, cfg.HTTPTimeout)
}

func TestLoad_DurationSyntax(t *testing.T) {
	t.Setenv("PORTION_POSITIVE_TTL", "10m")
	t.Setenv("PORTION_NEGATIVE_TTL", "30s")

	cfg := Load()
	assert.Equal(t, 10*time.Minute, cfg.PortionPositiveTTL)
	assert.Equal(t, 30*time.Second, cfg.PortionNegativeTTL)
}

func TestLoad_BareSecondsTTL(t *testing.T) {
	// Bare integers are read as seconds.
	t.Setenv("PORTION_POSITIVE_TTL", "600")
	t.Setenv("PORTION_NEGATIVE_TTL", "60")

	cfg := Load()
	assert.Equal(t, 600*time.Second, cfg.PortionPositiveTTL)
	assert.Equal(t, 60*time.Second, cfg.PortionNegativeTTL)
}

func TestLoad_MalformedDurationFallsBack(t *testing.T) {
	t.Setenv("PORTION_POSITIVE_TTL", "soon")

	cfg := Load()
	assert.Equal(t, 600*time.Second, cfg.PortionPositiveTTL)
}

func TestValidate(t *testing.T) {
	cfg := Load()
	require.NoError(t, cfg.Validate())

	cfg.APIAddr = ""
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.PortionPositiveTTL = 0
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.PortionNegativeTTL = -time.Second
	assert.Error(t, cfg.Validate())
}
